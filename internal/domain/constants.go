package domain

// Business validation constants
const (
	MinMaxConcurrent = 1
	MaxMaxConcurrent = 100

	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов

	MinDayOfWeek = 0 // воскресенье
	MaxDayOfWeek = 6 // суббота

	MaxNotesLength              = 500
	MaxBlockReasonLength        = 500
	MaxCancellationReasonLength = 500
	MaxClientNameLength         = 150
	MaxClientPhoneLength        = 20
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// DayNames русские названия дней недели, индекс соответствует time.Weekday (0=воскресенье)
// Используются в причинах недоступности даты
var DayNames = [7]string{
	"Воскресенье",
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

// InactiveStatuses список статусов записей, не занимающих место в слоте
// Используется для фильтрации при подсчёте занятости слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов записей, занимающих место в слоте
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
