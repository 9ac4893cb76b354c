package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// Key derivation parameters
	SaltSize   = 32
	KeySize    = 32
	Iterations = 100000

	// SaltFile is the file name of the salt inside the data directory.
	SaltFile = "salt"
)

var (
	// ErrCiphertextTooShort is returned when sealed content lacks a nonce.
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	// ErrBadSalt is returned when the salt file exists but is not SaltSize bytes.
	// It is never replaced: a new salt would make existing content unreadable.
	ErrBadSalt = errors.New("salt file has wrong length")
)

// Encryptor seals and opens entry content with AES-256-GCM.
type Encryptor struct {
	key []byte
}

// NewEncryptor derives a key from password and the salt stored in dataDir,
// creating the salt on first use.
func NewEncryptor(password, dataDir string) (*Encryptor, error) {
	if password == "" {
		return nil, errors.New("empty passphrase")
	}
	salt, err := getOrCreateSalt(filepath.Join(dataDir, SaltFile))
	if err != nil {
		return nil, fmt.Errorf("failed to get salt: %w", err)
	}
	return NewEncryptorWithSalt(password, salt), nil
}

// NewEncryptorWithSalt derives a key from password and an explicit salt.
func NewEncryptorWithSalt(password string, salt []byte) *Encryptor {
	key := pbkdf2.Key([]byte(password), salt, Iterations, KeySize, sha256.New)
	return &Encryptor{key: key}
}

// getOrCreateSalt reads the salt at saltPath. A new one is written only when
// the file does not exist yet.
func getOrCreateSalt(saltPath string) ([]byte, error) {
	salt, err := os.ReadFile(saltPath)
	switch {
	case err == nil:
		if len(salt) != SaltSize {
			return nil, fmt.Errorf("%s: %w (%d bytes)", saltPath, ErrBadSalt, len(salt))
		}
		return salt, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}

	salt = make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(saltPath), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create salt directory: %w", err)
	}
	if err := os.WriteFile(saltPath, salt, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write salt file: %w", err)
	}
	return salt, nil
}

func (e *Encryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext and returns it base64 encoded. Empty input stays empty.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}
	gcm, err := e.gcm()
	if err != nil {
		return "", err
	}
	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", ErrCiphertextTooShort
	}
	nonce, body := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, body, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}
