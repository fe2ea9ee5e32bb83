package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeCleanupOrphanedAssignments = "assignment:cleanup-orphaned"

// CleanupPayload records who asked for an orphan sweep.
type CleanupPayload struct {
	RequestedBy string    `json:"requestedBy,omitempty"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewCleanupTask builds an orphan-assignment sweep. Only one may be queued at a time.
func NewCleanupTask(payload CleanupPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCleanupOrphanedAssignments, b)
	opts := []asynq.Option{
		asynq.MaxRetry(3),
		asynq.Timeout(5 * time.Minute),
		asynq.Unique(10 * time.Minute),
	}
	return task, opts, nil
}

// ParseCleanupPayload tolerates an empty payload, as sent by the scheduler.
func ParseCleanupPayload(data []byte) (CleanupPayload, error) {
	var p CleanupPayload
	if len(data) == 0 {
		return p, nil
	}
	err := json.Unmarshal(data, &p)
	return p, err
}
