package tasks

import (
	"encoding/json"

	"soothe/models"

	"github.com/hibiken/asynq"
)

const TypeDispatchSend = "dispatch:send"

// NewDispatchTask wraps one notification send for the queue. Dispatch is
// retried a few times and then dropped; a lost notification never blocks
// a booking.
func NewDispatchTask(payload models.DispatchPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDispatchSend, b)
	opts := []asynq.Option{asynq.MaxRetry(3)}

	return task, opts, nil
}
