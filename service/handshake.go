package service

import (
	"context"
	"time"

	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
	"go.uber.org/zap"
)

// Handshake establishes a session token from a private key
type Handshake struct {
	api      ports.AuthAPI
	signer   ports.Signer
	store    ports.CredentialStore
	reporter ports.Reporter
	logger   *zap.Logger
}

var _ ports.Authenticator = (*Handshake)(nil)

// NewHandshake creates a new session handshake
func NewHandshake(
	api ports.AuthAPI,
	signer ports.Signer,
	store ports.CredentialStore,
	reporter ports.Reporter,
	logger *zap.Logger,
) *Handshake {
	return &Handshake{
		api:      api,
		signer:   signer,
		store:    store,
		reporter: reporter,
		logger:   logger,
	}
}

// Login runs discovery, identity, challenge, local signing and verification, then submission.
// A failure at any stage is returned as a *core.StageError and nothing after it runs.
func (h *Handshake) Login(ctx context.Context, privateKey string) (core.Session, error) {
	identity, err := h.signer.DeriveIdentity(privateKey)
	if err != nil {
		h.reporter.Fail("Invalid private key: %v", err)
		return core.Session{}, h.failed(core.StageDeriveIdentity, "", err)
	}
	log := h.logger.With(zap.String("address", identity.Address))
	h.reporter.Info("Using wallet: %s", identity.Address)

	if err := h.api.FetchWallets(ctx); err != nil {
		h.reporter.Fail("Failed to connect to XOS. Please try again later.")
		return core.Session{}, h.failed(core.StageFetchWallets, identity.Address, err)
	}
	h.reporter.Success("Successfully fetched wallet data.")

	clientID, err := h.api.ResolveIdentity(ctx, identity.Address)
	if err != nil {
		h.reporter.Fail("Failed to fetch identity. Please try again later.")
		return core.Session{}, h.failed(core.StageResolveID, identity.Address, err)
	}
	h.reporter.Success("Successfully fetched identity data.")

	challenge, err := h.api.FetchChallenge(ctx, identity.Address)
	if err != nil {
		h.reporter.Fail("Failed to get sign message. Please try again later.")
		return core.Session{}, h.failed(core.StageFetchChallenge, identity.Address, err)
	}
	h.reporter.Success("Sign message received successfully.")

	signature, err := h.signer.Sign(identity.PrivateKey, challenge)
	if err != nil {
		h.reporter.Fail("Failed to sign message: %v", err)
		return core.Session{}, h.failed(core.StageSign, identity.Address, err)
	}
	h.reporter.Success("Signature generated successfully.")

	// Never submit a signature that does not recover to our own address
	if !h.signer.VerifyLocally(challenge, signature, identity.Address) {
		h.reporter.Fail("Local signature verification failed: address mismatch.")
		return core.Session{}, h.failed(core.StageVerifyLocal, identity.Address, core.ErrLocalVerification)
	}
	h.reporter.Success("Local signature verification successful.")

	token, err := h.api.SubmitSignature(ctx, identity.Address, challenge, signature)
	if err != nil {
		h.reporter.Fail("Server signature verification failed.")
		return core.Session{}, h.failed(core.StageSubmit, identity.Address, err)
	}

	if err := h.store.Append(ctx, identity.Address, identity.PrivateKey); err != nil {
		// The session is still usable, only the record is lost
		log.Warn("failed to save credentials", zap.Error(err))
		h.reporter.Fail("Failed to save credentials: %v", err)
		h.reporter.Success("Login Success!")
	} else {
		h.reporter.Success("Login Success! Credentials saved.")
	}

	if exp, ok := token.ExpiresAt(); ok {
		log.Debug("session established", zap.Time("expires_at", exp), zap.Duration("valid_for", time.Until(exp)))
	} else {
		log.Debug("session established")
	}

	return core.Session{
		Identity: identity,
		ClientID: clientID,
		Token:    token,
	}, nil
}

func (h *Handshake) failed(stage core.Stage, address string, err error) error {
	h.logger.Error("handshake failed",
		zap.String("stage", string(stage)),
		zap.String("address", address),
		zap.Error(err),
	)
	return &core.StageError{Stage: stage, Err: err}
}
