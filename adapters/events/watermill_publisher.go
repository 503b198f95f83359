package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
)

const (
	TopicAccountRun = "xosclaim.account_run"
	TopicBatch      = "xosclaim.batch"
)

// AccountRunEvent represents a processed account
type AccountRunEvent struct {
	RunID          string `json:"run_id"`
	Address        string `json:"address"`
	Succeeded      bool   `json:"succeeded"`
	PointsEarned   int64  `json:"points_earned"`
	DrawsCompleted int    `json:"draws_completed"`
	CheckIn        string `json:"check_in"`
	Error          string `json:"error,omitempty"`
}

// BatchEvent represents a finished batch
type BatchEvent struct {
	RunID         string `json:"run_id"`
	TotalAccounts int    `json:"total_accounts"`
	SuccessCount  int    `json:"success_count"`
	FailureCount  int    `json:"failure_count"`
	TotalPoints   int64  `json:"total_points"`
	SuccessRate   string `json:"success_rate_percent"`
	Interrupted   bool   `json:"interrupted"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill
type WatermillPublisher struct {
	publisher message.Publisher
}

// NewWatermillPublisher creates a new Watermill publisher
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher: publisher,
	}
}

// PublishAccountRun publishes the result of one account
func (p *WatermillPublisher) PublishAccountRun(ctx context.Context, runID string, run core.AccountRunSummary) error {
	event := AccountRunEvent{
		RunID:          runID,
		Address:        run.Address,
		Succeeded:      run.Succeeded,
		PointsEarned:   run.PointsEarned,
		DrawsCompleted: run.DrawsCompleted,
		CheckIn:        run.CheckIn.String(),
	}
	if run.Err != nil {
		event.Error = run.Err.Error()
	}

	return p.publish(ctx, TopicAccountRun, event)
}

// PublishBatch publishes the batch totals
func (p *WatermillPublisher) PublishBatch(ctx context.Context, runID string, batch core.BatchSummary) error {
	event := BatchEvent{
		RunID:         runID,
		TotalAccounts: batch.TotalAccounts,
		SuccessCount:  batch.SuccessCount,
		FailureCount:  batch.FailureCount,
		TotalPoints:   batch.TotalPoints,
		SuccessRate:   batch.SuccessRatePercent().StringFixed(2),
		Interrupted:   batch.Interrupted,
	}

	return p.publish(ctx, TopicBatch, event)
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) PublishAccountRun(context.Context, string, core.AccountRunSummary) error {
	return nil
}

func (NopPublisher) PublishBatch(context.Context, string, core.BatchSummary) error {
	return nil
}
