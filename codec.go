package auth

import (
	"context"
	"encoding/json"

	"github.com/goliatone/go-errors"
)

// Token format discriminants understood by the codec registry.
const (
	FormatCrypter = "crypter"
	FormatJWT     = "jwt"
)

// CrypterCodec serializes the Authenticator as JSON and runs it through a
// Crypter, producing an opaque tamper-evident token.
type CrypterCodec struct {
	crypter Crypter
}

var _ AuthenticatorCodec = (*CrypterCodec)(nil)

// NewCrypterCodec builds the codec. The crypter is required.
func NewCrypterCodec(crypter Crypter) (*CrypterCodec, error) {
	if crypter == nil {
		return nil, errors.New("crypter is required", errors.CategoryValidation)
	}
	return &CrypterCodec{crypter: crypter}, nil
}

// EncodeAuthenticator renders the authenticator as an encrypted token.
func (c *CrypterCodec) EncodeAuthenticator(ctx context.Context, authenticator Authenticator) (string, error) {
	data, err := json.Marshal(authenticator)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to serialize authenticator")
	}
	return c.crypter.Encrypt(ctx, data)
}

// DecodeAuthenticator decrypts the token and rebuilds the authenticator.
func (c *CrypterCodec) DecodeAuthenticator(ctx context.Context, token string) (Authenticator, error) {
	data, err := c.crypter.Decrypt(ctx, token)
	if err != nil {
		return Authenticator{}, err
	}

	var authenticator Authenticator
	if err := json.Unmarshal(data, &authenticator); err != nil {
		return Authenticator{}, errors.Wrap(err, errors.CategoryBadInput, "unable to deserialize authenticator").
			WithCode(errors.CodeBadRequest)
	}

	return authenticator, nil
}

// CodecRegistry maps a token format discriminant to the codec that handles
// it. The table is populated at construction time; lookups after that are
// plain map reads, no reflection or per-call negotiation.
type CodecRegistry struct {
	codecs map[string]AuthenticatorCodec
}

// NewCodecRegistry builds an empty registry.
func NewCodecRegistry() *CodecRegistry {
	return &CodecRegistry{codecs: map[string]AuthenticatorCodec{}}
}

// Register binds a format discriminant to a codec. Later registrations for
// the same format win.
func (r *CodecRegistry) Register(format string, codec AuthenticatorCodec) *CodecRegistry {
	if format != "" && codec != nil {
		r.codecs[format] = codec
	}
	return r
}

// Resolve returns the codec registered for the format.
func (r *CodecRegistry) Resolve(format string) (AuthenticatorCodec, error) {
	codec, ok := r.codecs[format]
	if !ok {
		return nil, NewUnknownFormatError(format)
	}
	return codec, nil
}
