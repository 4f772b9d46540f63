package availabilityrule

import "errors"

var (
	// ErrRuleNotFound возвращается, когда активное правило для услуги не найдено
	// Отсутствие правила не ошибка бизнес-логики: услуга без правила доступна всегда
	ErrRuleNotFound = errors.New("availabilityrule.repository: rule not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availabilityrule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availabilityrule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availabilityrule.repository: failed to scan row")
)
