package task

import (
	"context"

	"github.com/hibiken/asynq"

	"github.com/fhuszti/recordings-ms-go/internal/port"
	"github.com/fhuszti/recordings-ms-go/internal/uuid"
)

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

type Dispatcher struct {
	client enqueuer
}

// compile-time check
var _ port.TaskDispatcher = (*Dispatcher)(nil)

func NewDispatcher(addr, password string) *Dispatcher {
	c := asynq.NewClient(asynq.RedisClientOpt{Addr: addr, Password: password})
	return &Dispatcher{client: c}
}

func (d *Dispatcher) EnqueueOrphanedRecording(ctx context.Context, id, token uuid.UUID, stage, reason string) error {
	t, err := NewOrphanedRecordingTask(OrphanedRecordingPayload{
		RecordingID: id.String(),
		Token:       token.String(),
		Stage:       stage,
		Reason:      reason,
	})
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, t); err != nil {
		return err
	}
	return nil
}

func (d *Dispatcher) Close() error {
	return d.client.Close()
}
