package ports

import "github.com/layer-3/xosclaim/core"

// Signer derives wallets from private keys and signs challenge messages
type Signer interface {
	// DeriveIdentity returns the wallet for a private key
	DeriveIdentity(privateKey string) (core.WalletIdentity, error)

	// Sign signs the challenge as an Ethereum personal message
	Sign(privateKey string, challenge core.ChallengeMessage) (core.Signature, error)

	// VerifyLocally reports whether the signature recovers to the expected address
	VerifyLocally(challenge core.ChallengeMessage, signature core.Signature, expectedAddress string) bool
}
