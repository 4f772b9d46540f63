package create_appointment

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна в каталоге
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrTimeSlotNotFound возвращается, когда слот не найден или отключён
	ErrTimeSlotNotFound = errors.New("create_appointment: time slot not found")

	// ErrInvalidDate возвращается при попытке записи на прошедшую дату
	ErrInvalidDate = errors.New("create_appointment: invalid appointment date")

	// ErrDateNotAvailable возвращается, когда услуга недоступна в этот день недели
	ErrDateNotAvailable = errors.New("create_appointment: service is not available on this date")

	// ErrDateBlocked возвращается, когда дата закрыта блокировкой на весь день
	ErrDateBlocked = errors.New("create_appointment: date is blocked")

	// ErrSlotNotAllowed возвращается, когда слот не входит в список разрешённых для услуги
	ErrSlotNotAllowed = errors.New("create_appointment: time slot is not allowed for this service")

	// ErrSlotBlocked возвращается, когда слот закрыт частичной блокировкой
	ErrSlotBlocked = errors.New("create_appointment: time slot is blocked")

	// ErrSlotNotAvailable возвращается, когда все места в слоте заняты
	ErrSlotNotAvailable = errors.New("create_appointment: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")
)
