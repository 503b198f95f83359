package ports

import (
	"context"

	"github.com/layer-3/xosclaim/core"
)

// EventPublisher publishes run results for other consumers
type EventPublisher interface {
	PublishAccountRun(ctx context.Context, runID string, run core.AccountRunSummary) error
	PublishBatch(ctx context.Context, runID string, batch core.BatchSummary) error
}
