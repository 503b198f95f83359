package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
)

// fakeAuthAPI succeeds at every stage except fail
type fakeAuthAPI struct {
	fail  core.Stage
	calls []core.Stage
}

func (f *fakeAuthAPI) step(stage core.Stage) error {
	f.calls = append(f.calls, stage)
	if stage == f.fail {
		return fmt.Errorf("%w: scripted failure", core.ErrServer)
	}
	return nil
}

func (f *fakeAuthAPI) FetchWallets(ctx context.Context) error {
	return f.step(core.StageFetchWallets)
}

func (f *fakeAuthAPI) ResolveIdentity(ctx context.Context, address string) (core.ClientIdentifier, error) {
	if err := f.step(core.StageResolveID); err != nil {
		return "", err
	}
	return core.NewClientIdentifier()
}

func (f *fakeAuthAPI) FetchChallenge(ctx context.Context, address string) (core.ChallengeMessage, error) {
	if err := f.step(core.StageFetchChallenge); err != nil {
		return "", err
	}
	return core.ChallengeMessage("Sign in to X.ink\n\nWallet: " + address), nil
}

func (f *fakeAuthAPI) SubmitSignature(ctx context.Context, address string, challenge core.ChallengeMessage, signature core.Signature) (core.SessionToken, error) {
	if err := f.step(core.StageSubmit); err != nil {
		return "", err
	}
	return "token-" + core.SessionToken(address), nil
}

// mismatchSigner signs with another key so local recovery fails
type mismatchSigner struct {
	ports.Signer
	otherKey string
}

func (s mismatchSigner) Sign(privateKey string, challenge core.ChallengeMessage) (core.Signature, error) {
	return s.Signer.Sign(s.otherKey, challenge)
}

type failingStore struct{}

func (failingStore) Append(context.Context, string, string) error {
	return errors.New("disk full")
}

func (failingStore) LoadAllKeys(context.Context) []string {
	return []string{}
}

// fakeRewards serves a fixed profile and claim plus a script of draw results
type fakeRewards struct {
	profile    core.UserProfile
	profileErr error
	claim      core.ClaimResult
	draws      []core.DrawResult

	profileCalls int
	claimCalls   int
	drawCalls    int
	proxies      []string
}

func (f *fakeRewards) FetchProfile(ctx context.Context, token core.SessionToken, proxy string) (core.UserProfile, error) {
	f.profileCalls++
	f.proxies = append(f.proxies, proxy)
	if f.profileErr != nil {
		return core.UserProfile{}, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeRewards) ClaimCheckIn(ctx context.Context, token core.SessionToken, proxy string) core.ClaimResult {
	f.claimCalls++
	f.proxies = append(f.proxies, proxy)
	return f.claim
}

func (f *fakeRewards) PerformDraw(ctx context.Context, token core.SessionToken, proxy string) core.DrawResult {
	f.proxies = append(f.proxies, proxy)
	if f.drawCalls >= len(f.draws) {
		f.drawCalls++
		return core.DrawError("no scripted draw")
	}
	result := f.draws[f.drawCalls]
	f.drawCalls++
	return result
}

func (f *fakeRewards) calls() int {
	return f.profileCalls + f.claimCalls + f.drawCalls
}

// fakeAuthenticator maps keys to sessions; "panic" panics and "fail" fails
type fakeAuthenticator struct {
	logins []string
}

func (f *fakeAuthenticator) Login(ctx context.Context, privateKey string) (core.Session, error) {
	f.logins = append(f.logins, privateKey)
	switch privateKey {
	case "panic":
		panic("unexpected fault")
	case "fail":
		return core.Session{}, &core.StageError{Stage: core.StageFetchWallets, Err: core.ErrTransport}
	}
	return core.Session{
		Identity: core.WalletIdentity{Address: "addr-" + privateKey, PrivateKey: privateKey},
		Token:    core.SessionToken("token-" + privateKey),
	}, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	runIDs  []string
	runs    []core.AccountRunSummary
	batches []core.BatchSummary
}

func (p *recordingPublisher) PublishAccountRun(ctx context.Context, runID string, run core.AccountRunSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runIDs = append(p.runIDs, runID)
	p.runs = append(p.runs, run)
	return nil
}

func (p *recordingPublisher) PublishBatch(ctx context.Context, runID string, batch core.BatchSummary) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runIDs = append(p.runIDs, runID)
	p.batches = append(p.batches, batch)
	return nil
}
