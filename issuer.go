package auth

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// IssuerSettings configures authenticator lifetimes.
type IssuerSettings struct {
	// TTL is the absolute validity window stamped into Expires.
	TTL time.Duration
}

// Validate checks the settings before an issuer is built.
func (s IssuerSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.TTL, validation.Required),
	)
}

// IssueOption customizes a single issuance.
type IssueOption func(*Authenticator)

// WithTags stamps tags onto the issued authenticator.
func WithTags(tags ...string) IssueOption {
	return func(a *Authenticator) {
		a.Tags = append(a.Tags, tags...)
	}
}

// WithPayload attaches an opaque payload to the issued authenticator.
func WithPayload(payload map[string]any) IssueOption {
	return func(a *Authenticator) {
		a.Payload = payload
	}
}

// WithFingerprint binds the issued authenticator to a request fingerprint.
func WithFingerprint(fingerprint string) IssueOption {
	return func(a *Authenticator) {
		a.Fingerprint = fingerprint
	}
}

// Issuer creates and refreshes Authenticators. Every produced value is a
// fresh copy; nothing already issued is mutated.
type Issuer struct {
	settings IssuerSettings
	now      func() time.Time
	newID    func() string
}

// NewIssuer builds an issuer from settings.
func NewIssuer(settings IssuerSettings) (*Issuer, error) {
	if err := settings.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid issuer settings")
	}

	return &Issuer{
		settings: settings,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}, nil
}

// WithClock overrides the issuance clock.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	if now != nil {
		i.now = now
	}
	return i
}

// Create issues a new authenticator for the login.
func (i *Issuer) Create(_ context.Context, login LoginInfo, opts ...IssueOption) (Authenticator, error) {
	if login.ProviderID == "" || login.ProviderKey == "" {
		return Authenticator{}, errors.New("login info is incomplete", errors.CategoryValidation)
	}

	now := i.now()
	expires := now.Add(i.settings.TTL)

	authenticator := Authenticator{
		ID:      i.newID(),
		Login:   login,
		Touched: &now,
		Expires: &expires,
	}

	for _, opt := range opts {
		opt(&authenticator)
	}

	return authenticator, nil
}

// Touch returns a copy with a fresh touch timestamp. Called on every
// authenticated exchange before the token is written back.
func (i *Issuer) Touch(authenticator Authenticator) Authenticator {
	return authenticator.WithTouched(i.now())
}

// Renew issues a replacement credential for the same login: new ID, fresh
// windows, everything else carried over.
func (i *Issuer) Renew(ctx context.Context, authenticator Authenticator) (Authenticator, error) {
	renewed, err := i.Create(ctx, authenticator.Login)
	if err != nil {
		return Authenticator{}, err
	}

	renewed.Fingerprint = authenticator.Fingerprint
	renewed.Tags = append([]string(nil), authenticator.Tags...)
	renewed.Payload = authenticator.Payload

	return renewed, nil
}
