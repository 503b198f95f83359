package ports

import "context"

// CredentialStore persists wallets that logged in successfully
type CredentialStore interface {
	// Append adds a record. Records are never deduplicated or overwritten.
	Append(ctx context.Context, address, privateKey string) error

	// LoadAllKeys returns the stored private keys in first-seen order without duplicates.
	// Unreadable or missing storage yields an empty slice.
	LoadAllKeys(ctx context.Context) []string
}
