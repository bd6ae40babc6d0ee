package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gooddeal/storefront/pkg/client"
)

const sessionFile = ".shopctl.yaml"

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return sessionFile
	}
	return filepath.Join(home, sessionFile)
}

// loadSession reads the session file. A missing file is a signed-out session.
func loadSession(path string) (client.SessionState, error) {
	var st client.SessionState
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return st, nil
	}
	if err != nil {
		return st, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(b, &st); err != nil {
		return st, fmt.Errorf("parse session %s: %w", path, err)
	}
	return st, nil
}

// saveSession writes st with owner-only permissions, or removes the file for
// an empty session.
func saveSession(path string, st client.SessionState) error {
	if st == (client.SessionState{}) {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove session: %w", err)
		}
		return nil
	}
	b, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
