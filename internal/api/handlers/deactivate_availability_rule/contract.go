package deactivate_availability_rule

import "context"

type ScheduleService interface {
	DeactivateRule(ctx context.Context, serviceID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
