package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
)

// Claims is a generic JWT claim set. It is the intermediate representation
// between an Authenticator and whatever signer the ClaimsCodec wraps.
type Claims struct {
	Issuer    string         `json:"iss,omitempty"`
	Subject   string         `json:"sub,omitempty"`
	Audience  []string       `json:"aud,omitempty"`
	ExpiresAt *time.Time     `json:"exp,omitempty"`
	NotBefore *time.Time     `json:"nbf,omitempty"`
	IssuedAt  *time.Time     `json:"iat,omitempty"`
	ID        string         `json:"jti,omitempty"`
	Custom    map[string]any `json:"custom,omitempty"`
}

// Custom claim keys carrying the Authenticator fields that have no
// registered claim equivalent.
const (
	ClaimTags        = "tags"
	ClaimFingerprint = "fingerprint"
	ClaimPayload     = "payload"
)

// ClaimsSettings configures the Authenticator to Claims mapping.
type ClaimsSettings struct {
	Issuer   string
	Audience []string
	// NotBefore is added to the encode-time clock to produce the nbf
	// claim. Zero means the token is valid immediately.
	NotBefore time.Duration
}

// Validate checks the settings before a transform is built.
func (s ClaimsSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Issuer, validation.Required),
	)
}

// ClaimsTransform maps an Authenticator to a Claims value and back,
// delegating signing and verification to an injected ClaimsCodec. Codec
// errors pass through unchanged.
type ClaimsTransform struct {
	codec    ClaimsCodec
	settings ClaimsSettings
	now      func() time.Time
}

var _ AuthenticatorCodec = (*ClaimsTransform)(nil)

// NewClaimsTransform builds the transform. The codec is required.
func NewClaimsTransform(codec ClaimsCodec, settings ClaimsSettings) (*ClaimsTransform, error) {
	if codec == nil {
		return nil, errors.New("claims codec is required", errors.CategoryValidation)
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid claims settings")
	}

	return &ClaimsTransform{
		codec:    codec,
		settings: settings,
		now:      time.Now,
	}, nil
}

// WithClock overrides the encode-time clock. Used by tests and by callers
// that already thread a clock through their stack.
func (t *ClaimsTransform) WithClock(now func() time.Time) *ClaimsTransform {
	if now != nil {
		t.now = now
	}
	return t
}

// EncodeAuthenticator renders the authenticator as claims and hands them to
// the codec.
func (t *ClaimsTransform) EncodeAuthenticator(ctx context.Context, authenticator Authenticator) (string, error) {
	claims, err := t.toClaims(authenticator)
	if err != nil {
		return "", err
	}
	return t.codec.Encode(ctx, claims)
}

// DecodeAuthenticator verifies the token through the codec and rebuilds the
// authenticator from the claim set.
func (t *ClaimsTransform) DecodeAuthenticator(ctx context.Context, token string) (Authenticator, error) {
	claims, err := t.codec.Decode(ctx, token)
	if err != nil {
		return Authenticator{}, err
	}
	return t.fromClaims(claims)
}

func (t *ClaimsTransform) toClaims(authenticator Authenticator) (Claims, error) {
	subject, err := encodeSubject(authenticator.Login)
	if err != nil {
		return Claims{}, err
	}

	now := t.now()
	notBefore := now.Add(t.settings.NotBefore)

	var audience []string
	if len(t.settings.Audience) > 0 {
		audience = make([]string, len(t.settings.Audience))
		copy(audience, t.settings.Audience)
	}

	tags := authenticator.Tags
	if tags == nil {
		tags = []string{}
	}

	custom := map[string]any{
		ClaimTags: tags,
	}
	if authenticator.Fingerprint != "" {
		custom[ClaimFingerprint] = authenticator.Fingerprint
	}
	if authenticator.Payload != nil {
		custom[ClaimPayload] = authenticator.Payload
	}

	return Claims{
		Issuer:    t.settings.Issuer,
		Subject:   subject,
		Audience:  audience,
		ExpiresAt: authenticator.Expires,
		NotBefore: &notBefore,
		IssuedAt:  &now,
		ID:        authenticator.ID,
		Custom:    custom,
	}, nil
}

func (t *ClaimsTransform) fromClaims(claims Claims) (Authenticator, error) {
	if claims.Subject == "" {
		return Authenticator{}, ErrMissingSubject
	}

	login, err := decodeSubject(claims.Subject)
	if err != nil {
		return Authenticator{}, err
	}

	authenticator := Authenticator{
		ID:      claims.ID,
		Login:   login,
		Touched: claims.IssuedAt,
		Expires: claims.ExpiresAt,
	}

	if tags, ok := claims.Custom[ClaimTags]; ok {
		authenticator.Tags = toStringSlice(tags)
	}
	if fingerprint, ok := claims.Custom[ClaimFingerprint].(string); ok {
		authenticator.Fingerprint = fingerprint
	}
	if payload, ok := claims.Custom[ClaimPayload].(map[string]any); ok {
		authenticator.Payload = payload
	}

	return authenticator, nil
}

func encodeSubject(login LoginInfo) (string, error) {
	data, err := json.Marshal(login)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "unable to serialize login info")
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

func decodeSubject(subject string) (LoginInfo, error) {
	data, err := base64.RawURLEncoding.DecodeString(subject)
	if err != nil {
		return LoginInfo{}, errors.Wrap(err, ErrMalformedSubject.Category, ErrMalformedSubject.Message).
			WithTextCode(ErrMalformedSubject.TextCode)
	}

	var login LoginInfo
	if err := json.Unmarshal(data, &login); err != nil {
		return LoginInfo{}, errors.Wrap(err, ErrMalformedSubject.Category, ErrMalformedSubject.Message).
			WithTextCode(ErrMalformedSubject.TextCode)
	}

	return login, nil
}

func toStringSlice(value any) []string {
	switch vs := value.(type) {
	case []string:
		out := make([]string, len(vs))
		copy(out, vs)
		return out
	case []any:
		out := make([]string, 0, len(vs))
		for _, v := range vs {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
