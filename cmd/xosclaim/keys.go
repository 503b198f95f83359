package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/layer-3/xosclaim/adapters/store"
	"github.com/layer-3/xosclaim/ports"
	"github.com/manifoldco/promptui"
)

type keySource int

const (
	sourceSingle keySource = iota
	sourceAccounts
	sourceKeyList
)

var ErrNoPrivateKey = errors.New("no private key entered")

func parseMode(mode string) (keySource, error) {
	switch strings.ToLower(mode) {
	case "accounts":
		return sourceAccounts, nil
	case "keys":
		return sourceKeyList, nil
	default:
		return 0, fmt.Errorf("unknown mode %q, expected accounts or keys", mode)
	}
}

// loadKeys returns the keys to process for a source
func loadKeys(ctx context.Context, source keySource, single string, creds ports.CredentialStore, keysFile string) ([]string, error) {
	switch source {
	case sourceAccounts:
		return creds.LoadAllKeys(ctx), nil
	case sourceKeyList:
		return store.LoadKeyList(keysFile)
	default:
		key := strings.TrimSpace(single)
		if key == "" {
			return nil, ErrNoPrivateKey
		}
		return []string{key}, nil
	}
}

// promptSource asks for the key source and, for a single key, the key itself
func promptSource(accountsFile, keysFile string) (keySource, string, error) {
	selectPrompt := promptui.Select{
		Label: "Choose how to log in",
		Items: []string{
			"Enter a private key",
			fmt.Sprintf("Use accounts saved in %s", accountsFile),
			fmt.Sprintf("Use private keys listed in %s", keysFile),
		},
	}
	index, _, err := selectPrompt.Run()
	if err != nil {
		return 0, "", err
	}
	if index > 0 {
		return keySource(index), "", nil
	}

	keyPrompt := promptui.Prompt{
		Label: "Private key (without 0x prefix is also accepted)",
		Mask:  '*',
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return ErrNoPrivateKey
			}
			return nil
		},
	}
	key, err := keyPrompt.Run()
	if err != nil {
		return 0, "", err
	}
	return sourceSingle, key, nil
}
