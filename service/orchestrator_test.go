package service

import (
	"context"
	"testing"
	"time"

	"github.com/layer-3/xosclaim/adapters/console"
	"github.com/layer-3/xosclaim/adapters/metrics"
	"github.com/layer-3/xosclaim/adapters/signer"
	"github.com/layer-3/xosclaim/adapters/store"
	"github.com/layer-3/xosclaim/config"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testProxy = "http://proxy.local:8080"

type harness struct {
	orchestrator *Orchestrator
	events       *recordingPublisher
	sleeps       []time.Duration
}

func newHarness(auth ports.Authenticator, rewards ports.RewardClient) *harness {
	cfg := config.Default()
	cfg.Proxy = testProxy

	h := &harness{events: &recordingPublisher{}}
	h.orchestrator = NewOrchestrator(auth, rewards, console.Discard{}, h.events, metrics.Nop{}, cfg, zap.NewNop())
	h.orchestrator.sleep = func(ctx context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return ctx.Err()
	}
	return h
}

func TestRunSingleAccountHandshakeFailure(t *testing.T) {
	stages := []core.Stage{
		core.StageFetchWallets,
		core.StageResolveID,
		core.StageFetchChallenge,
		core.StageSubmit,
	}

	for _, stage := range stages {
		t.Run(string(stage), func(t *testing.T) {
			rewards := &fakeRewards{profile: core.UserProfile{Points: 1, CurrentDraws: 3}}
			auth := NewHandshake(&fakeAuthAPI{fail: stage}, signer.NewEthSigner(), store.NewMemoryStore(), console.Discard{}, zap.NewNop())
			h := newHarness(auth, rewards)

			run := h.orchestrator.RunSingleAccount(context.Background(), keyA)
			assert.False(t, run.Succeeded)
			assert.Zero(t, run.PointsEarned)
			assert.Zero(t, rewards.calls())

			var stageErr *core.StageError
			require.ErrorAs(t, run.Err, &stageErr)
			assert.Equal(t, stage, stageErr.Stage)
		})
	}
}

func TestRunSingleAccountDrawLoopStopsOnFailure(t *testing.T) {
	rewards := &fakeRewards{
		profile: core.UserProfile{Points: 100, CurrentDraws: 3, WalletAddress: "addr-a"},
		claim:   core.ClaimResult{Kind: core.OutcomeSuccess, Day: 2, Reward: 10},
		draws: []core.DrawResult{
			{Kind: core.OutcomeSuccess, Reward: 5},
			{Kind: core.OutcomeSuccess, Reward: 7},
			core.DrawError("try later"),
			{Kind: core.OutcomeSuccess, Reward: 100},
		},
	}
	h := newHarness(&fakeAuthenticator{}, rewards)

	run := h.orchestrator.RunSingleAccount(context.Background(), "a")
	assert.True(t, run.Succeeded)
	assert.Equal(t, 2, run.DrawsCompleted)
	assert.Equal(t, int64(12), run.PointsEarned)
	assert.Equal(t, 3, rewards.drawCalls)
	assert.Equal(t, core.OutcomeSuccess, run.CheckIn)
	assert.Equal(t, "addr-a", run.Address)
}

func TestRunSingleAccountSpendsAllDraws(t *testing.T) {
	rewards := &fakeRewards{
		profile: core.UserProfile{CurrentDraws: 2},
		claim:   core.ClaimResult{Kind: core.OutcomeAlreadyDone},
		draws: []core.DrawResult{
			{Kind: core.OutcomeSuccess, Reward: 5},
			{Kind: core.OutcomeSuccess, Reward: 5},
			{Kind: core.OutcomeSuccess, Reward: 5},
		},
	}
	h := newHarness(&fakeAuthenticator{}, rewards)

	run := h.orchestrator.RunSingleAccount(context.Background(), "a")
	assert.True(t, run.Succeeded)
	assert.Equal(t, 2, rewards.drawCalls)
	assert.Equal(t, int64(10), run.PointsEarned)
	assert.Equal(t, core.OutcomeAlreadyDone, run.CheckIn)
}

func TestRunSingleAccountWithoutDraws(t *testing.T) {
	rewards := &fakeRewards{claim: core.ClaimError("failed to claim")}
	h := newHarness(&fakeAuthenticator{}, rewards)

	run := h.orchestrator.RunSingleAccount(context.Background(), "a")

	// A failed check-in does not fail the run
	assert.True(t, run.Succeeded)
	assert.Equal(t, core.OutcomeError, run.CheckIn)
	assert.Zero(t, rewards.drawCalls)
	assert.Zero(t, run.PointsEarned)
}

func TestRunSingleAccountProfileUnavailable(t *testing.T) {
	rewards := &fakeRewards{profileErr: core.ErrProfileUnavailable}
	h := newHarness(&fakeAuthenticator{}, rewards)

	run := h.orchestrator.RunSingleAccount(context.Background(), "a")
	assert.False(t, run.Succeeded)
	assert.ErrorIs(t, run.Err, core.ErrProfileUnavailable)
	assert.Equal(t, 1, rewards.profileCalls)
	assert.Zero(t, rewards.claimCalls)
	assert.Zero(t, rewards.drawCalls)
}

func TestRunSingleAccountThreadsProxy(t *testing.T) {
	rewards := &fakeRewards{
		profile: core.UserProfile{CurrentDraws: 1},
		draws:   []core.DrawResult{{Kind: core.OutcomeSuccess, Reward: 1}},
	}
	h := newHarness(&fakeAuthenticator{}, rewards)

	h.orchestrator.RunSingleAccount(context.Background(), "a")
	assert.Equal(t, []string{testProxy, testProxy, testProxy}, rewards.proxies)
}

func TestRunSingleAccountPublishes(t *testing.T) {
	h := newHarness(&fakeAuthenticator{}, &fakeRewards{})

	run := h.orchestrator.RunSingleAccount(context.Background(), "a")
	require.Len(t, h.events.runs, 1)
	assert.Equal(t, run, h.events.runs[0])
	assert.NotEmpty(t, h.events.runIDs[0])
	assert.Empty(t, h.events.batches)
}

func TestRunBatchSurvivesPanic(t *testing.T) {
	auth := &fakeAuthenticator{}
	rewards := &fakeRewards{
		profile: core.UserProfile{CurrentDraws: 1},
		draws: []core.DrawResult{
			{Kind: core.OutcomeSuccess, Reward: 4},
			{Kind: core.OutcomeSuccess, Reward: 6},
		},
	}
	h := newHarness(auth, rewards)

	summary := h.orchestrator.RunBatch(context.Background(), []string{"a", "panic", "c"})

	assert.Equal(t, []string{"a", "panic", "c"}, auth.logins)
	assert.Equal(t, 3, summary.TotalAccounts)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 1, summary.FailureCount)
	assert.Equal(t, summary.TotalAccounts, summary.SuccessCount+summary.FailureCount)
	assert.Equal(t, int64(10), summary.TotalPoints)
	assert.Equal(t, "66.67", summary.SuccessRatePercent().StringFixed(2))
	assert.False(t, summary.Interrupted)

	require.Len(t, h.events.runs, 3)
	assert.False(t, h.events.runs[1].Succeeded)
	assert.ErrorContains(t, h.events.runs[1].Err, "unexpected fault")
	require.Len(t, h.events.batches, 1)
	assert.Equal(t, summary, h.events.batches[0])

	// every event of one batch carries the same run id
	for _, id := range h.events.runIDs {
		assert.Equal(t, h.events.runIDs[0], id)
	}
}

func TestRunBatchPacing(t *testing.T) {
	h := newHarness(&fakeAuthenticator{}, &fakeRewards{})

	h.orchestrator.RunBatch(context.Background(), []string{"a", "b", "c", "d"})

	// no pause after the last account
	require.Len(t, h.sleeps, 3)
	for _, d := range h.sleeps {
		assert.GreaterOrEqual(t, d, 15*time.Second)
		assert.LessOrEqual(t, d, 30*time.Second)
	}
}

func TestRunBatchSingleKeyDoesNotPause(t *testing.T) {
	h := newHarness(&fakeAuthenticator{}, &fakeRewards{})

	summary := h.orchestrator.RunBatch(context.Background(), []string{"a"})
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Empty(t, h.sleeps)
}

func TestRunBatchCountsFailures(t *testing.T) {
	h := newHarness(&fakeAuthenticator{}, &fakeRewards{})

	summary := h.orchestrator.RunBatch(context.Background(), []string{"fail", "b"})
	assert.Equal(t, 1, summary.FailureCount)
	assert.Equal(t, 1, summary.SuccessCount)
}

func TestRunBatchInterruptedDuringPause(t *testing.T) {
	auth := &fakeAuthenticator{}
	h := newHarness(auth, &fakeRewards{})
	ctx, cancel := context.WithCancel(context.Background())
	h.orchestrator.sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	summary := h.orchestrator.RunBatch(ctx, []string{"a", "b", "c"})
	assert.True(t, summary.Interrupted)
	assert.Equal(t, 1, summary.TotalAccounts)
	assert.Equal(t, []string{"a"}, auth.logins)
	require.Len(t, h.events.batches, 1)
	assert.True(t, h.events.batches[0].Interrupted)
}

func TestRunBatchCancelledBeforeStart(t *testing.T) {
	auth := &fakeAuthenticator{}
	h := newHarness(auth, &fakeRewards{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := h.orchestrator.RunBatch(ctx, []string{"a", "b"})
	assert.True(t, summary.Interrupted)
	assert.Zero(t, summary.TotalAccounts)
	assert.Empty(t, auth.logins)
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
	assert.NoError(t, sleepContext(context.Background(), 0))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
