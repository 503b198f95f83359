package ports

import (
	"context"

	"github.com/layer-3/xosclaim/core"
)

// AuthAPI is the remote side of the session handshake.
// Each call carries its own retry policy.
type AuthAPI interface {
	FetchWallets(ctx context.Context) error
	ResolveIdentity(ctx context.Context, address string) (core.ClientIdentifier, error)
	FetchChallenge(ctx context.Context, address string) (core.ChallengeMessage, error)
	SubmitSignature(ctx context.Context, address string, challenge core.ChallengeMessage, signature core.Signature) (core.SessionToken, error)
}

// Authenticator establishes a session from a private key
type Authenticator interface {
	Login(ctx context.Context, privateKey string) (core.Session, error)
}
