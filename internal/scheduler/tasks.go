package scheduler

import (
	"github.com/hibiken/asynq"
)

const TaskReminderSweep = "reminders.sweep"

// NewReminderSweepTask builds the periodic sweep task. The sweep carries
// no payload; the worker reads everything it needs from the database.
func NewReminderSweepTask() *asynq.Task {
	return asynq.NewTask(TaskReminderSweep, nil)
}
