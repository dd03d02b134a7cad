package keystore

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// PassphraseEnv names the environment variable holding the keystore passphrase.
const PassphraseEnv = "OCBOT_KEYSTORE_PASSPHRASE"

// ErrNoMasterKey is returned when a source has no key to offer.
var ErrNoMasterKey = errors.New("no master key available")

// MasterKeySource supplies the secret the file key is derived from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// StaticMasterKey is a fixed master key.
type StaticMasterKey []byte

// MasterKey returns the key itself.
func (k StaticMasterKey) MasterKey() ([]byte, error) {
	if len(k) == 0 {
		return nil, ErrNoMasterKey
	}
	return []byte(k), nil
}

// EnvMasterKey reads the master key from an environment variable.
type EnvMasterKey string

// MasterKey returns the variable's value.
func (e EnvMasterKey) MasterKey() ([]byte, error) {
	v := os.Getenv(string(e))
	if v == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrNoMasterKey, string(e))
	}
	return []byte(v), nil
}

// PromptMasterKey asks for a passphrase on a terminal without echoing it.
type PromptMasterKey struct {
	FD     int
	Prompt string
	Out    io.Writer
}

// MasterKey reads a passphrase from the terminal.
func (p PromptMasterKey) MasterKey() ([]byte, error) {
	if !term.IsTerminal(p.FD) {
		return nil, fmt.Errorf("%w: stdin is not a terminal", ErrNoMasterKey)
	}
	if p.Out != nil {
		fmt.Fprint(p.Out, p.Prompt)
		defer fmt.Fprintln(p.Out)
	}
	pass, err := term.ReadPassword(p.FD)
	if err != nil {
		return nil, err
	}
	if len(pass) == 0 {
		return nil, ErrNoMasterKey
	}
	return pass, nil
}

// MachineMasterKey derives a key from the host name and user. It keeps
// tokens out of plain text but anyone on the same account can recreate it.
type MachineMasterKey struct{}

// MasterKey returns host and user identity material.
func (MachineMasterKey) MasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	return []byte(hostname + ":" + username + ":ocbot-keystore"), nil
}

// FirstMasterKey tries each source in order and returns the first key found.
type FirstMasterKey []MasterKeySource

// MasterKey returns the first available key.
func (f FirstMasterKey) MasterKey() ([]byte, error) {
	for _, s := range f {
		key, err := s.MasterKey()
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, ErrNoMasterKey) {
			return nil, err
		}
	}
	return nil, ErrNoMasterKey
}

// DefaultMasterKeySource prefers the passphrase variable and falls back to
// machine identity.
func DefaultMasterKeySource() MasterKeySource {
	return FirstMasterKey{EnvMasterKey(PassphraseEnv), MachineMasterKey{}}
}
