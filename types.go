package auth

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the minimal logging surface the transport and middleware glue
// report through. The token pipeline itself never logs; callers inspect the
// AuthState instead.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Crypter is the versioned symmetric codec producing the wire token.
type Crypter interface {
	Encrypt(ctx context.Context, plaintext []byte) (string, error)
	Decrypt(ctx context.Context, token string) ([]byte, error)
}

// ClaimsCodec signs a claim set into a compact token and verifies/parses it
// back. Implementations own key handling; the claims transform treats them
// as opaque collaborators and passes their errors through unchanged.
type ClaimsCodec interface {
	Encode(ctx context.Context, claims Claims) (string, error)
	Decode(ctx context.Context, token string) (Claims, error)
}

// AuthenticatorCodec converts between the wire token and an Authenticator.
type AuthenticatorCodec interface {
	EncodeAuthenticator(ctx context.Context, authenticator Authenticator) (string, error)
	DecodeAuthenticator(ctx context.Context, token string) (Authenticator, error)
}

// AuthenticatorReader decodes a raw token into an Authenticator. It is the
// reading half of an AuthenticatorCodec, injectable on its own so test
// doubles and custom parsers stay small.
type AuthenticatorReader func(ctx context.Context, token string) (Authenticator, error)

// Config holds the options the builder needs to assemble a provider.
type Config interface {
	GetSigningKey() string
	GetEncryptionKey() string
	GetTokenFormat() string
	GetIssuer() string
	GetAudience() []string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetCookieName() string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(format string) string {
	if strings.HasSuffix(format, "\n") {
		return format
	}
	return format + "\n"
}
