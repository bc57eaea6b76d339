// Package credentials stores the signed-in viewer's session for the
// polybites CLI. The session lives in ~/.polybites/session.yaml with the
// access token encrypted at rest.
//
// Encryption Key Storage:
// The encryption key is stored securely using the system keyring:
// - macOS: Keychain
// - Windows: Credential Manager
// - Linux: Secret Service (libsecret)
//
// For CI/testing environments, set POLYBITES_ENCRYPTION_KEY to a 64-character
// hex string (32 bytes).
package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/polybites/polybites-cli/config"
)

// DefaultSessionFile is the session file name inside the config directory.
const DefaultSessionFile = "session.yaml"

// Common errors.
var (
	// ErrNoSession is returned when no viewer session is stored.
	ErrNoSession = errors.New("not signed in")
	// ErrExpiredSession is returned when the stored session has expired.
	ErrExpiredSession = errors.New("stored session has expired")
	// ErrEncryptionFailed is returned when encryption/decryption fails.
	ErrEncryptionFailed = errors.New("encryption failed")
)

// Session holds the signed-in viewer's identity and access token.
type Session struct {
	// UserID is the viewer's account identifier.
	UserID string `yaml:"user_id"`
	// Name is the viewer's display name, used to seed the name cache.
	Name string `yaml:"name,omitempty"`
	// Email is the viewer's sign-in email.
	Email string `yaml:"email,omitempty"`
	// Token is the access token (encrypted at rest).
	Token string `yaml:"token,omitempty"`
	// ExpiresAt is the token expiration time.
	ExpiresAt time.Time `yaml:"expires_at,omitempty"`
	// LastUpdated is when the session was last written.
	LastUpdated time.Time `yaml:"last_updated"`
}

// Store manages session storage operations.
type Store struct {
	// sessionDir is the directory containing the session file.
	sessionDir string
	// encryptionKey is the key used for encrypting/decrypting the token.
	encryptionKey []byte
	// keyProvider is the source of the encryption key.
	keyProvider KeyProvider
}

// NewStore creates a session store with default settings. It uses the system
// keyring (macOS Keychain, Windows Credential Manager, or Linux Secret
// Service) to store the encryption key securely.
func NewStore() (*Store, error) {
	keyProvider, err := GetDefaultKeyProvider()
	if err != nil {
		return nil, fmt.Errorf("initializing key provider: %w", err)
	}
	return NewStoreWithKeyProvider(keyProvider)
}

// NewStoreWithKeyProvider creates a session store with a custom key provider.
// This is primarily used for testing.
func NewStoreWithKeyProvider(keyProvider KeyProvider) (*Store, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, fmt.Errorf("getting config directory: %w", err)
	}

	key, err := keyProvider.GetKey()
	if err != nil {
		return nil, fmt.Errorf("getting encryption key: %w", err)
	}

	return &Store{
		sessionDir:    dir,
		encryptionKey: key,
		keyProvider:   keyProvider,
	}, nil
}

// SessionPath returns the full path to the session file.
func SessionPath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultSessionFile), nil
}

// Save stores the session, encrypting the token.
func (s *Store) Save(session *Session) error {
	if err := os.MkdirAll(s.sessionDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	stored := *session
	stored.LastUpdated = time.Now()

	if stored.Token != "" {
		encrypted, err := s.encrypt(stored.Token)
		if err != nil {
			return fmt.Errorf("encrypting token: %w", err)
		}
		stored.Token = encrypted
	}

	data, err := yaml.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}

	// Write with restrictive permissions
	path := filepath.Join(s.sessionDir, DefaultSessionFile)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}

	return nil
}

// Load reads and decrypts the stored session.
func (s *Store) Load() (*Session, error) {
	path := filepath.Join(s.sessionDir, DefaultSessionFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	var session Session
	if err := yaml.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session: %w", err)
	}

	if session.Token != "" {
		decrypted, err := s.decrypt(session.Token)
		if err != nil {
			return nil, fmt.Errorf("decrypting token: %w", err)
		}
		session.Token = decrypted
	}

	return &session, nil
}

// Delete removes the stored session.
func (s *Store) Delete() error {
	path := filepath.Join(s.sessionDir, DefaultSessionFile)

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil // Already signed out
		}
		return fmt.Errorf("removing session file: %w", err)
	}

	return nil
}

// Exists checks if a session file exists.
func (s *Store) Exists() bool {
	path := filepath.Join(s.sessionDir, DefaultSessionFile)
	_, err := os.Stat(path)
	return err == nil
}

// Active returns the stored session if it is valid and unexpired.
func (s *Store) Active() (*Session, error) {
	session, err := s.Load()
	if err != nil {
		return nil, err
	}

	if !session.ExpiresAt.IsZero() && time.Now().After(session.ExpiresAt) {
		return nil, ErrExpiredSession
	}

	return session, nil
}

// encrypt encrypts a string using AES-GCM.
func (s *Store) encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: creating cipher: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: creating GCM: %v", ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: generating nonce: %v", ErrEncryptionFailed, err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts an AES-GCM encrypted string.
func (s *Store) decrypt(ciphertext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: decoding base64: %v", ErrEncryptionFailed, err)
	}

	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: creating cipher: %v", ErrEncryptionFailed, err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: creating GCM: %v", ErrEncryptionFailed, err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", ErrEncryptionFailed)
	}

	nonce, ciphertextBytes := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertextBytes, nil)
	if err != nil {
		return "", fmt.Errorf("%w: decryption failed: %v", ErrEncryptionFailed, err)
	}

	return string(plaintext), nil
}

// MaskToken returns a masked token with first/last few characters visible.
func MaskToken(token string) string {
	if len(token) <= 20 {
		return maskAll(len(token))
	}
	return token[:8] + "..." + token[len(token)-8:]
}

func maskAll(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}

// FormatExpiry formats the session expiry time for display.
func FormatExpiry(expiresAt time.Time) string {
	if expiresAt.IsZero() {
		return "never"
	}

	remaining := time.Until(expiresAt)
	if remaining < 0 {
		return "expired"
	}

	if remaining < time.Hour {
		return fmt.Sprintf("%d minutes", int(remaining.Minutes()))
	}
	if remaining < 24*time.Hour {
		return fmt.Sprintf("%d hours", int(remaining.Hours()))
	}
	return fmt.Sprintf("%d days", int(remaining.Hours()/24))
}
