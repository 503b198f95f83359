package store

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadKeyList reads a newline-delimited private key file.
// Blank lines and lines starting with # are skipped; duplicates are kept.
func LoadKeyList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open key list: %w", err)
	}
	defer f.Close()

	keys := []string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys = append(keys, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key list: %w", err)
	}

	return keys, nil
}
