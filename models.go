package auth

import (
	"context"
	"time"
)

// LoginInfo identifies an identity within one authentication provider's
// namespace. It is the join key between an Authenticator and the Identity
// it was issued for. Values are compared structurally.
type LoginInfo struct {
	ProviderID  string `json:"provider_id"`
	ProviderKey string `json:"provider_key"`
}

// Authenticator is a server issued credential bound to a LoginInfo. It is
// decoded from a wire token, vetted by validators, and never mutated in
// place: touch and renew produce a new value.
type Authenticator struct {
	ID          string         `json:"id"`
	Login       LoginInfo      `json:"login"`
	Touched     *time.Time     `json:"touched,omitempty"`
	Expires     *time.Time     `json:"expires,omitempty"`
	Fingerprint string         `json:"fingerprint,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Payload     map[string]any `json:"payload,omitempty"`
}

// IsExpired reports whether the authenticator's absolute expiry has passed.
// An authenticator without an expiry never expires.
func (a Authenticator) IsExpired(now time.Time) bool {
	if a.Expires == nil {
		return false
	}
	return !a.Expires.After(now)
}

// IsTimedOut reports whether the authenticator has been idle longer than
// the given window. Authenticators that were never touched do not time out.
func (a Authenticator) IsTimedOut(now time.Time, idle time.Duration) bool {
	if a.Touched == nil || idle <= 0 {
		return false
	}
	return now.Sub(*a.Touched) > idle
}

// WithTouched returns a copy with an updated touch timestamp.
func (a Authenticator) WithTouched(t time.Time) Authenticator {
	a.Touched = &t
	return a
}

// WithExpires returns a copy with an updated absolute expiry.
func (a Authenticator) WithExpires(t time.Time) Authenticator {
	a.Expires = &t
	return a
}

// Identity is the resolved principal corresponding to a LoginInfo. Concrete
// user types live outside this library; anything that can report the
// LoginInfo it was resolved from qualifies.
type Identity interface {
	Login() LoginInfo
}

// IdentityResolver looks up the Identity behind a LoginInfo. A nil Identity
// with a nil error means the credential names nobody, which is a valid
// outcome rather than an error.
type IdentityResolver interface {
	Resolve(ctx context.Context, login LoginInfo) (Identity, error)
}

// IdentityResolverFunc adapts a function into an IdentityResolver.
type IdentityResolverFunc func(ctx context.Context, login LoginInfo) (Identity, error)

// Resolve satisfies the IdentityResolver interface.
func (f IdentityResolverFunc) Resolve(ctx context.Context, login LoginInfo) (Identity, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, login)
}
