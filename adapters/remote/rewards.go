package remote

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
	"go.uber.org/zap"
)

var _ ports.RewardClient = (*Client)(nil)

// FetchProfile loads the user profile.
// Any failure after the retry budget is reported as ErrProfileUnavailable.
func (c *Client) FetchProfile(ctx context.Context, token core.SessionToken, proxy string) (core.UserProfile, error) {
	rc, err := c.restyFor(proxy)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("%w: %w", core.ErrProfileUnavailable, err)
	}

	var profile core.UserProfile
	err = c.run(ctx, "profile", c.rewards, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetAuthToken(string(token)).
			Get(c.url(c.api.BaseURL, "/me"))
		if err := classify(resp, err); err != nil {
			return err
		}

		var body profileResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		p, err := body.profile()
		if err != nil {
			return backoff.Permanent(err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("%w: %w", core.ErrProfileUnavailable, err)
	}

	return profile, nil
}

// ClaimCheckIn claims the daily check-in reward
func (c *Client) ClaimCheckIn(ctx context.Context, token core.SessionToken, proxy string) core.ClaimResult {
	rc, err := c.restyFor(proxy)
	if err != nil {
		c.logger.Error("check-in skipped", zap.Error(err))
		return core.ClaimError("failed to claim")
	}

	var result core.ClaimResult
	err = c.run(ctx, "check_in", c.rewards, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetAuthToken(string(token)).
			SetBody(struct{}{}).
			Post(c.url(c.api.BaseURL, "/check-in"))
		if classified := classify(resp, err); classified != nil {
			// A 4xx carrying an error message is the service's answer, not a fault
			var body checkInResponse
			if isClientError(resp) && decodeObject(resp.Body(), &body) == nil && body.Error != "" {
				result = body.result()
				return nil
			}
			return classified
		}

		var body checkInResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		result = body.result()
		return nil
	})
	if err != nil {
		return core.ClaimError("failed to claim")
	}

	return result
}

// PerformDraw consumes one draw
func (c *Client) PerformDraw(ctx context.Context, token core.SessionToken, proxy string) core.DrawResult {
	rc, err := c.restyFor(proxy)
	if err != nil {
		c.logger.Error("draw skipped", zap.Error(err))
		return core.DrawError("failed to draw")
	}

	var result core.DrawResult
	err = c.run(ctx, "draw", c.rewards, func() error {
		resp, err := rc.R().
			SetContext(ctx).
			SetAuthToken(string(token)).
			SetBody(struct{}{}).
			Post(c.url(c.api.BaseURL, "/draw"))
		if classified := classify(resp, err); classified != nil {
			var body drawResponse
			if isClientError(resp) && decodeObject(resp.Body(), &body) == nil && (body.Error != "" || body.Message != "") {
				result = body.result()
				return nil
			}
			return classified
		}

		var body drawResponse
		if err := decodeObject(resp.Body(), &body); err != nil {
			return backoff.Permanent(err)
		}
		result = body.result()
		return nil
	})
	if err != nil {
		return core.DrawError("failed to draw")
	}

	return result
}
