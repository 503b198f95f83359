package remote

import (
	"context"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

// FetchWallets loads the wallet discovery listing
func (c *Client) FetchWallets(ctx context.Context) error {
	rc, err := c.restyFor(c.proxy)
	if err != nil {
		return err
	}

	return c.run(ctx, string(core.StageFetchWallets), c.handshake, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"projectId": c.api.ProjectID,
				"st":        "appkit",
				"sv":        "html-ethers-1.6.8",
				"page":      "1",
				"chains":    c.api.ChainID,
				"entries":   strconv.Itoa(c.api.Entries),
			}).
			Get(c.url(c.api.WalletsBaseURL, "/getWallets"))
		if err := classify(resp, err); err != nil {
			return err
		}

		var body walletsResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		if err := body.validate(); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	})
}

// ResolveIdentity looks up the identity of address.
// Every attempt sends a freshly generated client id; the last one sent is returned.
func (c *Client) ResolveIdentity(ctx context.Context, address string) (core.ClientIdentifier, error) {
	rc, err := c.restyFor(c.proxy)
	if err != nil {
		return "", err
	}

	var clientID core.ClientIdentifier
	err = c.run(ctx, string(core.StageResolveID), c.handshake, func() error {
		id, err := core.NewClientIdentifier()
		if err != nil {
			return backoff.Permanent(err)
		}
		clientID = id

		resp, err := rc.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"projectId": c.api.ProjectID,
				"sender":    address,
				"clientId":  string(clientID),
			}).
			Get(c.url(c.api.IdentityBaseURL, "/identity/"+address))
		if err := classify(resp, err); err != nil {
			return err
		}

		var body identityResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		return nil
	})

	return clientID, err
}

// FetchChallenge asks the reward API for the message to sign
func (c *Client) FetchChallenge(ctx context.Context, address string) (core.ChallengeMessage, error) {
	rc, err := c.restyFor(c.proxy)
	if err != nil {
		return "", err
	}

	var challenge core.ChallengeMessage
	err = c.run(ctx, string(core.StageFetchChallenge), c.handshake, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetQueryParam("walletAddress", address).
			Get(c.url(c.api.BaseURL, "/get-sign-message2"))
		if err := classify(resp, err); err != nil {
			return err
		}

		var body challengeResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		if err := body.validate(); err != nil {
			return backoff.Permanent(err)
		}
		challenge = core.ChallengeMessage(body.Message)
		return nil
	})

	return challenge, err
}

// SubmitSignature exchanges the signed challenge for a session token
func (c *Client) SubmitSignature(ctx context.Context, address string, challenge core.ChallengeMessage, signature core.Signature) (core.SessionToken, error) {
	rc, err := c.restyFor(c.proxy)
	if err != nil {
		return "", err
	}

	payload := verifyRequest{
		WalletAddress: address,
		SignMessage:   string(challenge),
		Signature:     string(signature.Normalized()),
		ReferralCode:  c.api.ReferralCode,
	}

	var token core.SessionToken
	err = c.run(ctx, string(core.StageSubmit), c.handshake, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetBody(payload).
			Post(c.url(c.api.BaseURL, "/verify-signature2"))
		if err := classify(resp, err); err != nil {
			return err
		}

		var body verifyResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		if err := body.validate(); err != nil {
			return backoff.Permanent(err)
		}
		token = core.SessionToken(body.Token)
		return nil
	})

	return token, err
}

func (c *Client) url(base, path string) string {
	return strings.TrimSuffix(base, "/") + path
}
