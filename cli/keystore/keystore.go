// Package keystore stores bot tokens encrypted on disk.
package keystore

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/petal-labs/ocbot/core"
)

// Keystore defines the interface for token storage.
type Keystore interface {
	// Set stores a token under name.
	Set(name string, token core.Secret) error
	// Get retrieves a token by name. Returns *ErrKeyNotFound if missing.
	Get(name string) (core.Secret, error)
	// Delete removes a token by name.
	Delete(name string) error
	// List returns all stored names, sorted.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns the default keystore file path.
// - macOS/Linux: ~/.ocbot/keys.enc
// - Windows: %USERPROFILE%\.ocbot\keys.enc
func DefaultKeystorePath() string {
	var homeDir string

	if runtime.GOOS == "windows" {
		homeDir = os.Getenv("USERPROFILE")
	} else {
		homeDir = os.Getenv("HOME")
	}

	if homeDir == "" {
		return "keys.enc"
	}

	return filepath.Join(homeDir, ".ocbot", "keys.enc")
}

// NewKeystore opens the default keystore. The master key comes from
// OCBOT_KEYSTORE_PASSPHRASE when set, otherwise from machine identity.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath(), DefaultMasterKeySource())
}
