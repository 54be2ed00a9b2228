// Package adapter provides the filesystem and storage boundaries for
// passweaver: the rules file, the wordlist output sink and the session
// store.
package adapter

import (
	"fmt"
	"os"
)

// RulesFileAdapter loads the raw text of a rules file.
type RulesFileAdapter interface {
	Load(path string) (string, error)
}

type localRulesFile struct{}

// NewLocalRulesFileAdapter creates a RulesFileAdapter reading from the
// local filesystem.
func NewLocalRulesFileAdapter() RulesFileAdapter {
	return &localRulesFile{}
}

func (l *localRulesFile) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read rules file %s: %w", path, err)
	}

	return string(data), nil
}
