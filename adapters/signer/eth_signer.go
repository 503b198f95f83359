package signer

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/layer-3/xosclaim/core"
	"github.com/layer-3/xosclaim/ports"
)

const signatureLength = 65

// EthSigner implements the Signer interface with EIP-191 personal messages
type EthSigner struct{}

// NewEthSigner creates a new Ethereum signer
func NewEthSigner() ports.Signer {
	return &EthSigner{}
}

// DeriveIdentity derives the checksummed address of a private key
func (s *EthSigner) DeriveIdentity(privateKey string) (core.WalletIdentity, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return core.WalletIdentity{}, err
	}

	return core.WalletIdentity{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: NormalizeKey(privateKey),
	}, nil
}

// Sign signs the personal-message hash of the challenge.
// The recovery byte is shifted to 27/28 as wallets do.
func (s *EthSigner) Sign(privateKey string, challenge core.ChallengeMessage) (core.Signature, error) {
	key, err := parseKey(privateKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrSigning, err)
	}

	sig, err := crypto.Sign(accounts.TextHash([]byte(challenge)), key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", core.ErrSigning, err)
	}
	sig[crypto.RecoveryIDOffset] += 27

	return core.Signature(hexutil.Encode(sig)), nil
}

// VerifyLocally recovers the signer of the challenge and compares it to the expected address
func (s *EthSigner) VerifyLocally(challenge core.ChallengeMessage, signature core.Signature, expectedAddress string) bool {
	recovered, err := RecoverAddress(challenge, signature)
	if err != nil {
		return false
	}
	return strings.EqualFold(recovered, expectedAddress)
}

// RecoverAddress returns the address that produced a personal-message signature
func RecoverAddress(challenge core.ChallengeMessage, signature core.Signature) (string, error) {
	decoded, err := hexutil.Decode(string(signature.Normalized()))
	if err != nil {
		return "", fmt.Errorf("failed to decode signature: %w", core.ErrLocalVerification)
	}
	if len(decoded) != signatureLength {
		return "", fmt.Errorf("signature must be 65 bytes: %w", core.ErrLocalVerification)
	}

	sig := make([]byte, signatureLength)
	copy(sig, decoded)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(challenge)), sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", core.ErrLocalVerification)
	}

	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// NormalizeKey trims whitespace and adds the 0x prefix
func NormalizeKey(privateKey string) string {
	key := strings.TrimSpace(privateKey)
	if strings.HasPrefix(key, "0x") || strings.HasPrefix(key, "0X") {
		return "0x" + key[2:]
	}
	return "0x" + key
}

func parseKey(privateKey string) (*ecdsa.PrivateKey, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(NormalizeKey(privateKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidKey, err)
	}
	return key, nil
}
