package ports

import "github.com/layer-3/xosclaim/core"

// MetricsRecorder counts orchestration outcomes
type MetricsRecorder interface {
	RecordAccount(run core.AccountRunSummary)
	RecordCheckIn(kind core.OutcomeKind)
	RecordDraw(kind core.OutcomeKind, reward int64)
}
