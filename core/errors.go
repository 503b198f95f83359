package core

import (
	"errors"
	"fmt"
)

var (
	ErrTransport          = errors.New("transport error")
	ErrRateLimited        = errors.New("rate limited")
	ErrServer             = errors.New("server error")
	ErrProtocol           = errors.New("unexpected response")
	ErrLocalVerification  = errors.New("local signature verification failed")
	ErrInvalidKey         = errors.New("invalid private key")
	ErrSigning            = errors.New("signing failed")
	ErrProfileUnavailable = errors.New("profile unavailable")
	ErrInvalidProxy       = errors.New("invalid proxy url")
)

// Stage names a step of the session handshake
type Stage string

const (
	StageDeriveIdentity Stage = "derive_identity"
	StageFetchWallets   Stage = "fetch_wallets"
	StageResolveID      Stage = "resolve_identity"
	StageFetchChallenge Stage = "fetch_challenge"
	StageSign           Stage = "sign"
	StageVerifyLocal    Stage = "verify_local"
	StageSubmit         Stage = "submit_signature"
)

// StageError reports the handshake stage that failed
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("handshake failed at %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
