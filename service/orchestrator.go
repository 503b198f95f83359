package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/layer-3/xosclaim/config"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
	"go.uber.org/zap"
)

// Orchestrator drives accounts through the handshake and the reward actions, one at a time
type Orchestrator struct {
	auth     ports.Authenticator
	rewards  ports.RewardClient
	reporter ports.Reporter
	events   ports.EventPublisher
	metrics  ports.MetricsRecorder
	logger   *zap.Logger

	proxy  string
	pacing config.DelayRange
	rng    *rand.Rand
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator creates a new account orchestrator
func NewOrchestrator(
	auth ports.Authenticator,
	rewards ports.RewardClient,
	reporter ports.Reporter,
	events ports.EventPublisher,
	metrics ports.MetricsRecorder,
	cfg *config.Config,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		auth:     auth,
		rewards:  rewards,
		reporter: reporter,
		events:   events,
		metrics:  metrics,
		logger:   logger,
		proxy:    cfg.Proxy,
		pacing:   cfg.Batch.AccountDelay,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    sleepContext,
	}
}

// RunSingleAccount logs in with privateKey, then checks in and spends every available draw
func (o *Orchestrator) RunSingleAccount(ctx context.Context, privateKey string) core.AccountRunSummary {
	run := o.processAccount(ctx, privateKey)
	o.record(ctx, uuid.NewString(), run)
	return run
}

// RunBatch processes keys in order with a random pause between accounts.
// A panic in one account counts as a failure and the batch goes on.
// Cancelling ctx stops the batch before the next account.
func (o *Orchestrator) RunBatch(ctx context.Context, privateKeys []string) core.BatchSummary {
	runID := uuid.NewString()
	log := o.logger.With(zap.String("run_id", runID))
	log.Info("batch started", zap.Int("accounts", len(privateKeys)))

	var summary core.BatchSummary
	for i, key := range privateKeys {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		o.reporter.Info("Processing account %d of %d", i+1, len(privateKeys))
		run := o.protectedRun(ctx, key)
		o.record(ctx, runID, run)
		summary.Add(run)

		if i == len(privateKeys)-1 {
			break
		}

		delay := o.pacing.RandomDelay(o.rng)
		o.reporter.Info("Waiting %s before the next account...", delay.Round(time.Second))
		if err := o.sleep(ctx, delay); err != nil {
			summary.Interrupted = true
			break
		}
	}

	o.reportBatch(summary)
	if err := o.events.PublishBatch(ctx, runID, summary); err != nil {
		log.Warn("failed to publish batch event", zap.Error(err))
	}
	log.Info("batch finished",
		zap.Int("total", summary.TotalAccounts),
		zap.Int("succeeded", summary.SuccessCount),
		zap.Int("failed", summary.FailureCount),
		zap.Int64("points", summary.TotalPoints),
		zap.Bool("interrupted", summary.Interrupted),
	)

	return summary
}

func (o *Orchestrator) protectedRun(ctx context.Context, privateKey string) (run core.AccountRunSummary) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("account run panicked", zap.Any("panic", r), zap.Stack("stack"))
			o.reporter.Fail("An unexpected error occurred: %v", r)
			run = core.AccountRunSummary{
				CheckIn: core.OutcomeError,
				Err:     fmt.Errorf("unexpected failure: %v", r),
			}
		}
	}()

	return o.processAccount(ctx, privateKey)
}

func (o *Orchestrator) processAccount(ctx context.Context, privateKey string) core.AccountRunSummary {
	session, err := o.auth.Login(ctx, privateKey)
	if err != nil {
		o.reporter.Fail("Login failed. Unable to process account.")
		return core.AccountRunSummary{CheckIn: core.OutcomeError, Err: err}
	}
	address := session.Identity.Address

	// The profile fetch is the only check that the token is still accepted
	o.reporter.Info("Validating token...")
	profile, err := o.rewards.FetchProfile(ctx, session.Token, o.proxy)
	if err != nil {
		o.reporter.Fail("Token invalid or expired")
		return core.AccountRunSummary{Address: address, CheckIn: core.OutcomeError, Err: err}
	}
	o.reporter.Success("Token valid!")

	o.reporter.Info("Wallet  : %s", profile.WalletAddress)
	o.reporter.Info("Balance : %d PTS", profile.Points)

	claim := o.rewards.ClaimCheckIn(ctx, session.Token, o.proxy)
	o.metrics.RecordCheckIn(claim.Kind)
	o.reportCheckIn(claim)

	run := core.AccountRunSummary{
		Address:   address,
		Succeeded: true,
		CheckIn:   claim.Kind,
	}

	if profile.CurrentDraws <= 0 {
		o.reporter.Warn("Draw    : No Available Draws")
		return run
	}

	o.reporter.Info("Draw    : %d Available", profile.CurrentDraws)
	remaining := profile.CurrentDraws
	for count := 1; remaining > 0; count++ {
		draw := o.rewards.PerformDraw(ctx, session.Token, o.proxy)
		o.metrics.RecordDraw(draw.Kind, draw.Reward)
		if draw.Kind != core.OutcomeSuccess {
			o.reporter.Fail("    > %d Failed", count)
			break
		}

		o.reporter.Success("    > %d Success - Reward %d PTS", count, draw.Reward)
		remaining--
		run.DrawsCompleted++
		run.PointsEarned += draw.Reward
	}

	return run
}

func (o *Orchestrator) reportCheckIn(claim core.ClaimResult) {
	switch claim.Kind {
	case core.OutcomeSuccess:
		o.reporter.Success("Check-In: Day %d Is Claimed - Reward %d PTS", claim.Day, claim.Reward)
	case core.OutcomeAlreadyDone:
		o.reporter.Warn("Check-In: Already Claimed Today")
	case core.OutcomeNotEligible:
		o.reporter.Warn("Check-In: Not Eligible, Connect Your X or Discord Account First")
	default:
		o.reporter.Fail("Check-In: %s", claim.Message)
	}
}

func (o *Orchestrator) reportBatch(summary core.BatchSummary) {
	if summary.Interrupted {
		o.reporter.Warn("Process stopped by user.")
	}
	o.reporter.Info("Accounts: %d Total - %d Succeeded - %d Failed",
		summary.TotalAccounts, summary.SuccessCount, summary.FailureCount)
	o.reporter.Info("Points  : %d PTS Earned", summary.TotalPoints)
	o.reporter.Info("Success : %s%%", summary.SuccessRatePercent().StringFixed(2))
}

func (o *Orchestrator) record(ctx context.Context, runID string, run core.AccountRunSummary) {
	o.metrics.RecordAccount(run)
	if err := o.events.PublishAccountRun(ctx, runID, run); err != nil {
		o.logger.Warn("failed to publish account event",
			zap.String("run_id", runID),
			zap.String("address", run.Address),
			zap.Error(err),
		)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
