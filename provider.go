package auth

import (
	"context"
)

// ProviderID is the identity this provider registers under.
const ProviderID = "authenticator"

// WriteBack refreshes the authenticator into an outgoing response, e.g. by
// re-encoding it into a cookie with a fresh touch timestamp.
type WriteBack[W any] func(ctx context.Context, authenticator Authenticator, res W) (W, error)

// Provider binds the state machine to a request/response exchange. R is
// the transport request type, W the response type.
type Provider[R, W any] struct {
	reader *AuthReader[R]
	target WriteBack[W]
}

// NewProvider wires a provider. The write-back target may be nil when the
// caller refreshes tokens elsewhere.
func NewProvider[R, W any](reader *AuthReader[R], target WriteBack[W]) *Provider[R, W] {
	return &Provider[R, W]{reader: reader, target: target}
}

// ID returns the provider identity.
func (p *Provider[R, W]) ID() string {
	return ProviderID
}

// Read exposes the underlying state machine.
func (p *Provider[R, W]) Read(ctx context.Context, req R) AuthState {
	return p.reader.Read(ctx, req)
}

// Authenticate runs one authentication attempt and hands the outcome to
// the caller's handler. If and only if the attempt authenticated, the
// handler's response is passed through the write-back target so the token
// travels back refreshed; every other outcome returns the handler's
// response untouched.
func (p *Provider[R, W]) Authenticate(ctx context.Context, req R, handler func(AuthState) (W, error)) (W, error) {
	var zero W

	state := p.reader.Read(ctx, req)

	res, err := handler(state)
	if err != nil {
		return zero, err
	}

	if state.Kind == StateAuthenticated && p.target != nil {
		return p.target(ctx, *state.Authenticator, res)
	}

	return res, nil
}
