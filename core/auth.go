package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// WalletIdentity is the wallet derived from a private key
type WalletIdentity struct {
	Address    string // Checksummed Ethereum address
	PrivateKey string // 32-byte hex private key, always 0x-prefixed
}

// ClientIdentifier is the random client id sent during identity resolution.
// A new one is generated for every identity request, retries included.
type ClientIdentifier string

const clientIDPrefix = "did:key:z6Mk"

// NewClientIdentifier generates a did:key style id from 32 random bytes
func NewClientIdentifier() (ClientIdentifier, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate client id: %w", err)
	}
	return ClientIdentifier(clientIDPrefix + hex.EncodeToString(b)), nil
}

// ChallengeMessage is the message issued by the remote service to be signed
type ChallengeMessage string

// Signature is a hex encoded 65-byte personal message signature
type Signature string

// Normalized returns the signature with a 0x prefix
func (s Signature) Normalized() Signature {
	if strings.HasPrefix(string(s), "0x") {
		return s
	}
	return "0x" + s
}

// SessionToken is the bearer credential returned after a successful handshake
type SessionToken string

// ExpiresAt reads the expiry of the token when it is a JWT carrying an exp claim.
// The token signature is not verified; the result is informational only.
func (t SessionToken) ExpiresAt() (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Session is the result of a successful handshake
type Session struct {
	Identity WalletIdentity
	ClientID ClientIdentifier
	Token    SessionToken
}
