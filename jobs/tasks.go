// Package jobs hosts the Asynq background worker and its task handlers.
package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// QueueDefault is the queue used for all background work.
const QueueDefault = "default"

// TaskUploadsScrub removes stale unreferenced files from the upload directory.
const TaskUploadsScrub = "uploads:scrub"

// UploadsScrubPayload parameterises a scrub run.
type UploadsScrubPayload struct {
	Dir    string        `json:"dir"`
	MaxAge time.Duration `json:"max_age"`
}

// NewUploadsScrubTask builds the scrub task.
func NewUploadsScrubTask(payload UploadsScrubPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUploadsScrub, raw), nil
}
