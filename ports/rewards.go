package ports

import (
	"context"

	"github.com/layer-3/xosclaim/core"
)

// RewardClient performs the authenticated reward actions.
// An empty proxy means a direct connection.
type RewardClient interface {
	FetchProfile(ctx context.Context, token core.SessionToken, proxy string) (core.UserProfile, error)
	ClaimCheckIn(ctx context.Context, token core.SessionToken, proxy string) core.ClaimResult
	PerformDraw(ctx context.Context, token core.SessionToken, proxy string) core.DrawResult
}
