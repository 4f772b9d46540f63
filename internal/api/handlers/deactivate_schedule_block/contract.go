package deactivate_schedule_block

import "context"

type ScheduleService interface {
	DeactivateBlock(ctx context.Context, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
