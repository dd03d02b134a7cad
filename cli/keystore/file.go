package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/petal-labs/ocbot/core"
)

// File format constants
const (
	magicHeader   = "OCBK"
	formatVersion = byte(0x01)
	saltLength    = 16
	nonceLength   = 12
)

// ErrCorrupt is returned when the keystore file cannot be decrypted.
var ErrCorrupt = errors.New("keystore: file is corrupt or the master key is wrong")

// KDFParams are the Argon2id parameters used to derive the file key.
type KDFParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultKDFParams follows the OWASP Argon2id recommendation.
var DefaultKDFParams = KDFParams{Time: 3, Memory: 64 * 1024, Threads: 4}

// FileKeystore implements Keystore with a single AES-256-GCM encrypted file.
// Format: [magic (4)] [version (1)] [salt (16)] [nonce (12)] [ciphertext]
type FileKeystore struct {
	path      string
	masterKey []byte
	params    KDFParams
	mu        sync.RWMutex
}

// FileOption configures a FileKeystore.
type FileOption func(*FileKeystore)

// WithKDFParams overrides the key derivation cost.
func WithKDFParams(p KDFParams) FileOption {
	return func(f *FileKeystore) { f.params = p }
}

// NewFileKeystore opens the keystore at path with a key from source.
// The file is created on first write.
func NewFileKeystore(path string, source MasterKeySource, opts ...FileOption) (*FileKeystore, error) {
	masterKey, err := source.MasterKey()
	if err != nil {
		return nil, err
	}

	f := &FileKeystore{
		path:      path,
		masterKey: masterKey,
		params:    DefaultKDFParams,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Path returns the keystore file location.
func (f *FileKeystore) Path() string { return f.path }

// Set stores a token.
func (f *FileKeystore) Set(name string, token core.Secret) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadData()
	if err != nil {
		return err
	}

	data[name] = token.Expose()
	return f.saveData(data)
}

// Get retrieves a token by name.
func (f *FileKeystore) Get(name string) (core.Secret, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.loadData()
	if err != nil {
		return core.Secret{}, err
	}

	value, ok := data[name]
	if !ok {
		return core.Secret{}, &ErrKeyNotFound{Name: name}
	}
	return core.NewSecret(value), nil
}

// Delete removes a token by name.
func (f *FileKeystore) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.loadData()
	if err != nil {
		return err
	}

	if _, ok := data[name]; !ok {
		return &ErrKeyNotFound{Name: name}
	}

	delete(data, name)
	return f.saveData(data)
}

// List returns all stored names.
func (f *FileKeystore) List() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.loadData()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (f *FileKeystore) loadData() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	plaintext, err := f.decrypt(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, ErrCorrupt
	}
	return data, nil
}

func (f *FileKeystore) saveData(data map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return err
	}

	ciphertext, err := f.encrypt(plaintext)
	if err != nil {
		return err
	}

	// Write to a temp file first so a crash never truncates the keystore.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, ciphertext, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FileKeystore) deriveKey(salt []byte) []byte {
	return argon2.IDKey(f.masterKey, salt, f.params.Time, f.params.Memory, f.params.Threads, 32)
}

func (f *FileKeystore) gcm(salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(f.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (f *FileKeystore) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	gcm, err := f.gcm(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceLength)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	header := make([]byte, 0, len(magicHeader)+1+saltLength+nonceLength)
	header = append(header, magicHeader...)
	header = append(header, formatVersion)
	header = append(header, salt...)
	header = append(header, nonce...)

	// The header is authenticated as additional data.
	out := make([]byte, len(header), len(header)+len(plaintext)+gcm.Overhead())
	copy(out, header)
	return gcm.Seal(out, nonce, plaintext, header), nil
}

func (f *FileKeystore) decrypt(raw []byte) ([]byte, error) {
	headerLen := len(magicHeader) + 1 + saltLength + nonceLength
	if len(raw) < headerLen || string(raw[:len(magicHeader)]) != magicHeader || raw[len(magicHeader)] != formatVersion {
		return nil, ErrCorrupt
	}

	offset := len(magicHeader) + 1
	salt := raw[offset : offset+saltLength]
	offset += saltLength
	nonce := raw[offset : offset+nonceLength]
	offset += nonceLength
	header := raw[:offset]

	gcm, err := f.gcm(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, raw[offset:], header)
	if err != nil {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}

var _ Keystore = (*FileKeystore)(nil)
