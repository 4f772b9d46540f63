package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-ScheduleService/pkg/types"
)

// Request модель запроса на создание записи
type Request struct {
	TimeSlotID  int64     // ID слота расписания
	ServiceID   int64     // ID услуги из каталога
	Date        time.Time // Дата записи (без времени)
	ClientName  string    // Имя клиента
	ClientPhone string    // Телефон клиента
	Notes       *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID              int64            // ID созданной записи
	TimeSlotID      int64            // ID слота
	ServiceID       int64            // ID услуги
	AppointmentDate time.Time        // Дата записи
	StartTime       types.TimeString // Время начала
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус записи

	ClientName  string  // Имя клиента
	ClientPhone string  // Телефон клиента
	Notes       *string // Заметки

	// Денормализованные данные услуги
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
