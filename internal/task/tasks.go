package task

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeOrphanedRecording = "recording:orphaned"

// OrphanedRecordingPayload describes a recording row left behind by an
// upload that failed after the row was inserted.
type OrphanedRecordingPayload struct {
	RecordingID string `json:"recording_id"`
	Token       string `json:"token"`
	Stage       string `json:"stage"`
	Reason      string `json:"reason"`
}

// NewOrphanedRecordingTask creates an Asynq task reporting an orphaned recording.
func NewOrphanedRecordingTask(p OrphanedRecordingPayload) (*asynq.Task, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("could not marshal orphaned-recording payload: %w", err)
	}
	return asynq.NewTask(TypeOrphanedRecording, data, asynq.MaxRetry(5)), nil
}

// ParseOrphanedRecordingPayload parses the task payload to OrphanedRecordingPayload.
func ParseOrphanedRecordingPayload(t *asynq.Task) (OrphanedRecordingPayload, error) {
	var p OrphanedRecordingPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return OrphanedRecordingPayload{}, fmt.Errorf("could not unmarshal payload: %w", err)
	}
	return p, nil
}
