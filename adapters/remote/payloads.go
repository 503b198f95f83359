package remote

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/layer-3/xosclaim/core"
)

const (
	msgAlreadyCheckedIn = "Already checked in today"
	msgFollowRequired   = "Please follow Twitter or join Discord first"
	msgDrawSuccessful   = "Draw successful"
)

// walletsResponse is the wallet discovery listing
type walletsResponse struct {
	Count int             `json:"count"`
	Data  []walletListing `json:"data"`
}

type walletListing struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r walletsResponse) validate() error {
	if r.Data == nil {
		return fmt.Errorf("%w: wallet listing has no data", core.ErrProtocol)
	}
	return nil
}

// identityResponse is the identity lookup; both fields are optional
type identityResponse struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
}

// challengeResponse carries the message to sign
type challengeResponse struct {
	Message string `json:"message"`
}

func (r challengeResponse) validate() error {
	if r.Message == "" {
		return fmt.Errorf("%w: sign message is missing", core.ErrProtocol)
	}
	return nil
}

// verifyRequest submits the signed challenge
type verifyRequest struct {
	WalletAddress string `json:"walletAddress"`
	SignMessage   string `json:"signMessage"`
	Signature     string `json:"signature"`
	ReferralCode  string `json:"referralCode,omitempty"`
}

// verifyResponse carries the session token
type verifyResponse struct {
	Token string `json:"token"`
}

func (r verifyResponse) validate() error {
	if r.Token == "" {
		return fmt.Errorf("%w: session token is missing", core.ErrProtocol)
	}
	return nil
}

// profileResponse wraps the user profile
type profileResponse struct {
	Data *profileData `json:"data"`
}

type profileData struct {
	Points        *int64  `json:"points"`
	CurrentDraws  *int    `json:"currentDraws"`
	WalletAddress *string `json:"walletAddress"`
}

func (r profileResponse) profile() (core.UserProfile, error) {
	if r.Data == nil {
		return core.UserProfile{}, fmt.Errorf("%w: profile data is missing", core.ErrProtocol)
	}

	p := core.UserProfile{WalletAddress: "N/A"}
	if r.Data.Points != nil {
		p.Points = *r.Data.Points
	}
	if r.Data.CurrentDraws != nil {
		p.CurrentDraws = *r.Data.CurrentDraws
	}
	if r.Data.WalletAddress != nil && *r.Data.WalletAddress != "" {
		p.WalletAddress = *r.Data.WalletAddress
	}
	if p.Points < 0 || p.CurrentDraws < 0 {
		return core.UserProfile{}, fmt.Errorf("%w: negative points or draws", core.ErrProtocol)
	}
	return p, nil
}

// checkInResponse is either a success or an error payload
type checkInResponse struct {
	Success      bool   `json:"success"`
	CheckInCount int    `json:"check_in_count"`
	PointsEarned int64  `json:"pointsEarned"`
	Error        string `json:"error"`
}

func (r checkInResponse) result() core.ClaimResult {
	switch {
	case r.Success:
		return core.ClaimResult{Kind: core.OutcomeSuccess, Day: r.CheckInCount, Reward: r.PointsEarned}
	case r.Error == msgAlreadyCheckedIn:
		return core.ClaimResult{Kind: core.OutcomeAlreadyDone}
	case r.Error == msgFollowRequired:
		return core.ClaimResult{Kind: core.OutcomeNotEligible, Message: r.Error}
	case r.Error != "":
		return core.ClaimError(r.Error)
	default:
		return core.ClaimError("Unknown Error")
	}
}

// drawResponse is the draw result
type drawResponse struct {
	Message      string `json:"message"`
	PointsEarned int64  `json:"pointsEarned"`
	Error        string `json:"error"`
}

func (r drawResponse) result() core.DrawResult {
	if r.Message == msgDrawSuccessful {
		return core.DrawResult{Kind: core.OutcomeSuccess, Reward: r.PointsEarned}
	}
	if r.Error != "" {
		return core.DrawError(r.Error)
	}
	if r.Message != "" {
		return core.DrawError(r.Message)
	}
	return core.DrawError("draw failed")
}

// decodeObject decodes a JSON object body, rejecting arrays, scalars and null
func decodeObject(body []byte, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", core.ErrProtocol)
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("%w: %w", core.ErrProtocol, err)
	}
	return nil
}
