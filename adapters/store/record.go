package store

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	addressPrefix    = "Address:"
	privateKeyPrefix = "Private Key:"
)

var separator = strings.Repeat("=", 50)

// formatRecord renders one credential record in the account log layout
func formatRecord(address, privateKey string) string {
	return fmt.Sprintf("%s %s\n%s %s\n%s\n", addressPrefix, address, privateKeyPrefix, privateKey, separator)
}

// parseKeys extracts private keys by field prefix, keeping the first occurrence of each
func parseKeys(r io.Reader) []string {
	keys := []string{}
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, privateKeyPrefix) {
			continue
		}
		key := strings.TrimSpace(strings.TrimPrefix(line, privateKeyPrefix))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	return keys
}
