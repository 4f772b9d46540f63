package resolve_availability

import "fmt"

// validateRequest валидирует входные данные запроса
// Дата в прошлом НЕ считается ошибкой: календарь на стороне клиента сам
// запрещает выбор прошедших дат, resolver этот инвариант не перепроверяет
func validateRequest(req *Request) error {
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.ExcludeAppointmentID != nil && *req.ExcludeAppointmentID <= 0 {
		return fmt.Errorf("%w: excludeAppointmentID must be positive", ErrInvalidInput)
	}

	return nil
}
