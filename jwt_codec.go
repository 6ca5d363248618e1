package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// JWTCodecSettings configures the default ClaimsCodec.
type JWTCodecSettings struct {
	// SigningKey is the HMAC secret used for both signing and
	// verification when no key function is provided.
	SigningKey []byte
	// KeyFunc overrides verification key lookup, e.g. for tokens issued
	// by an external signer.
	KeyFunc jwt.Keyfunc
	// JWKSetURLs builds a refreshing KeyFunc from remote JWK sets when
	// KeyFunc is nil.
	JWKSetURLs []string
}

// jwtPayload is the wire shape of a Claims value: registered claims at the
// top level, everything else under "custom".
type jwtPayload struct {
	jwt.RegisteredClaims
	Custom map[string]any `json:"custom,omitempty"`
}

// JWTClaimsCodec signs and verifies Claims as HS256 JWTs. Registered claim
// validation (exp, nbf) is deliberately left to the validator chain so an
// expired authenticator surfaces as an invalid credential, not a parse
// failure.
type JWTClaimsCodec struct {
	signingKey []byte
	keyFunc    jwt.Keyfunc
	logger     Logger
}

var _ ClaimsCodec = (*JWTClaimsCodec)(nil)

// NewJWTClaimsCodec builds the codec. One of SigningKey, KeyFunc, or
// JWKSetURLs is required.
func NewJWTClaimsCodec(settings JWTCodecSettings) (*JWTClaimsCodec, error) {
	codec := &JWTClaimsCodec{
		signingKey: settings.SigningKey,
		keyFunc:    settings.KeyFunc,
		logger:     defLogger{},
	}

	if codec.keyFunc == nil && len(settings.JWKSetURLs) > 0 {
		kf, err := jwkSetKeyfunc(settings.JWKSetURLs)
		if err != nil {
			return nil, err
		}
		codec.keyFunc = kf
	}

	if codec.keyFunc == nil {
		if len(settings.SigningKey) == 0 {
			return nil, errors.New("one of SigningKey, KeyFunc, or JWKSetURLs is required", errors.CategoryValidation)
		}
		codec.keyFunc = hmacKeyFunc(settings.SigningKey)
	}

	return codec, nil
}

// WithLogger overrides the codec logger.
func (c *JWTClaimsCodec) WithLogger(logger Logger) *JWTClaimsCodec {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Encode signs the claim set with the configured key.
func (c *JWTClaimsCodec) Encode(_ context.Context, claims Claims) (string, error) {
	if len(c.signingKey) == 0 {
		return "", errors.New("codec has no signing key configured", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, toJWTPayload(claims))

	signed, err := token.SignedString(c.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// Decode verifies the token signature and returns the claim set.
func (c *JWTClaimsCodec) Decode(_ context.Context, token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtPayload{}, c.keyFunc, jwt.WithoutClaimsValidation())
	if err != nil {
		return Claims{}, errors.Wrap(err, errors.CategoryAuth, "unable to parse token").
			WithCode(errors.CodeUnauthorized)
	}

	payload, ok := parsed.Claims.(*jwtPayload)
	if !ok {
		c.logger.Error("JWT codec could not decode claims")
		return Claims{}, errors.New("unable to decode claims", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	return fromJWTPayload(payload), nil
}

func toJWTPayload(claims Claims) *jwtPayload {
	payload := &jwtPayload{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   claims.Issuer,
			Subject:  claims.Subject,
			Audience: jwt.ClaimStrings(claims.Audience),
			ID:       claims.ID,
		},
		Custom: claims.Custom,
	}

	if claims.ExpiresAt != nil {
		payload.ExpiresAt = jwt.NewNumericDate(*claims.ExpiresAt)
	}
	if claims.NotBefore != nil {
		payload.NotBefore = jwt.NewNumericDate(*claims.NotBefore)
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = jwt.NewNumericDate(*claims.IssuedAt)
	}

	return payload
}

func fromJWTPayload(payload *jwtPayload) Claims {
	claims := Claims{
		Issuer:   payload.Issuer,
		Subject:  payload.Subject,
		Audience: payload.Audience,
		ID:       payload.ID,
		Custom:   payload.Custom,
	}

	claims.ExpiresAt = numericDateTime(payload.ExpiresAt)
	claims.NotBefore = numericDateTime(payload.NotBefore)
	claims.IssuedAt = numericDateTime(payload.IssuedAt)

	return claims
}

func numericDateTime(date *jwt.NumericDate) *time.Time {
	if date == nil {
		return nil
	}
	t := date.Time
	return &t
}

func hmacKeyFunc(key []byte) jwt.Keyfunc {
	return func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}
}

func jwkSetKeyfunc(urls []string) (jwt.Keyfunc, error) {
	opts := make(map[string]keyfunc.Options, len(urls))
	for _, url := range urls {
		opts[url] = keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute * 5,
			RefreshTimeout:    time.Second * 10,
			RefreshUnknownKID: true,
		}
	}

	multi, err := keyfunc.GetMultiple(opts, keyfunc.MultipleOptions{
		KeySelector: keyfunc.KeySelectorFirst,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load JWK sets")
	}

	return multi.Keyfunc, nil
}
