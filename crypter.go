package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"golang.org/x/crypto/chacha20poly1305"
)

// CrypterVersion is the single wire format version this build supports.
// Tokens look like "<version>-<base64url ciphertext>"; bumping the cipher
// means bumping the version so stale tokens fail fast instead of
// decrypting into garbage.
const CrypterVersion = 1

// CrypterSettings configures the AEAD crypter.
type CrypterSettings struct {
	// Key is the symmetric key. Must be exactly chacha20poly1305.KeySize
	// (32) bytes.
	Key []byte
}

// Validate checks the settings before a crypter is built.
func (s CrypterSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Key,
			validation.Required,
			validation.Length(chacha20poly1305.KeySize, chacha20poly1305.KeySize),
		),
	)
}

// AEADCrypter implements Crypter with ChaCha20-Poly1305. The random nonce
// is prepended to the ciphertext before encoding.
type AEADCrypter struct {
	key  []byte
	rand io.Reader
}

var _ Crypter = (*AEADCrypter)(nil)

// NewAEADCrypter builds a version-1 crypter from settings.
func NewAEADCrypter(settings CrypterSettings) (*AEADCrypter, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid crypter settings")
	}

	key := make([]byte, len(settings.Key))
	copy(key, settings.Key)

	return &AEADCrypter{key: key, rand: rand.Reader}, nil
}

// Encrypt seals the plaintext and renders the versioned wire token.
func (c *AEADCrypter) Encrypt(_ context.Context, plaintext []byte) (string, error) {
	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to initialize cipher")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to generate nonce")
	}

	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return strconv.Itoa(CrypterVersion) + "-" + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Decrypt parses the versioned wire token and opens the ciphertext. Tokens
// without a separator or with a non-integer prefix fail with
// ErrUnexpectedFormat; integer versions other than CrypterVersion fail
// with an unknown-version error.
func (c *AEADCrypter) Decrypt(_ context.Context, token string) ([]byte, error) {
	prefix, data, found := strings.Cut(token, "-")
	if !found {
		return nil, ErrUnexpectedFormat
	}

	version, err := strconv.Atoi(prefix)
	if err != nil {
		return nil, ErrUnexpectedFormat
	}

	if version != CrypterVersion {
		return nil, NewUnknownVersionError(version)
	}

	sealed, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return nil, errors.Wrap(err, ErrCryptoFailure.Category, ErrCryptoFailure.Message).
			WithTextCode(ErrCryptoFailure.TextCode)
	}

	aead, err := chacha20poly1305.New(c.key)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "unable to initialize cipher")
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrCryptoFailure
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, ErrCryptoFailure.Category, ErrCryptoFailure.Message).
			WithTextCode(ErrCryptoFailure.TextCode)
	}

	return plaintext, nil
}
