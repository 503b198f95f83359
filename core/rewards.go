package core

import (
	"github.com/shopspring/decimal"
)

// UserProfile is a snapshot of the account on the reward service
type UserProfile struct {
	Points        int64
	CurrentDraws  int
	WalletAddress string
}

// OutcomeKind tags the result of a reward action
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeAlreadyDone
	OutcomeNotEligible
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAlreadyDone:
		return "already_done"
	case OutcomeNotEligible:
		return "not_eligible"
	default:
		return "error"
	}
}

// ClaimResult is the outcome of a daily check-in
type ClaimResult struct {
	Kind    OutcomeKind
	Day     int    // check-in streak reported on success
	Reward  int64  // points earned on success
	Message string // reason for NotEligible and Error
}

// DrawResult is the outcome of a single draw
type DrawResult struct {
	Kind    OutcomeKind
	Reward  int64
	Message string
}

// ClaimError builds a failed check-in result
func ClaimError(message string) ClaimResult {
	return ClaimResult{Kind: OutcomeError, Message: message}
}

// DrawError builds a failed draw result
func DrawError(message string) DrawResult {
	return DrawResult{Kind: OutcomeError, Message: message}
}

// AccountRunSummary is the result of processing one account
type AccountRunSummary struct {
	Address        string
	Succeeded      bool
	PointsEarned   int64
	DrawsCompleted int
	CheckIn        OutcomeKind
	Err            error
}

// BatchSummary aggregates the runs of a batch
type BatchSummary struct {
	TotalAccounts int
	SuccessCount  int
	FailureCount  int
	TotalPoints   int64
	Interrupted   bool
}

// Add folds one account run into the summary
func (b *BatchSummary) Add(run AccountRunSummary) {
	b.TotalAccounts++
	if run.Succeeded {
		b.SuccessCount++
		b.TotalPoints += run.PointsEarned
		return
	}
	b.FailureCount++
}

// SuccessRatePercent returns the share of successful accounts, rounded to two places
func (b BatchSummary) SuccessRatePercent() decimal.Decimal {
	if b.TotalAccounts == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(b.SuccessCount)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(b.TotalAccounts))).
		Round(2)
}
