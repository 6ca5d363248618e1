package auth

import (
	"context"
)

// AuthReader is the authentication state machine: it sequences token
// extraction, decoding, validation, and identity resolution into exactly
// one terminal AuthState. R is the request type of whatever transport the
// caller binds it to.
type AuthReader[R any] struct {
	extract    Step[R, string]
	read       AuthenticatorReader
	validators Validator
	identities IdentityResolver
}

// NewAuthReader wires the state machine. Extractor, reader, and resolver
// are required; a nil validator set means every decoded authenticator is
// considered valid.
func NewAuthReader[R any](
	extract Step[R, string],
	read AuthenticatorReader,
	validators Validator,
	identities IdentityResolver,
) *AuthReader[R] {
	return &AuthReader[R]{
		extract:    extract,
		read:       read,
		validators: validators,
		identities: identities,
	}
}

// Read runs one authentication attempt. It never returns a raised error:
// every failure between decoding and identity resolution is caught where
// it occurs and folded into an AuthFailure state with the original error
// intact. No step is retried.
func (r *AuthReader[R]) Read(ctx context.Context, req R) AuthState {
	token, ok, err := r.extract(ctx, req)
	if err != nil {
		return AuthFailure(err)
	}
	if !ok || token == "" {
		return MissingCredentials()
	}

	authenticator, err := r.read(ctx, token)
	if err != nil {
		return AuthFailure(err)
	}

	if r.validators != nil {
		causes, err := r.validators.IsValid(ctx, authenticator)
		if err != nil {
			return AuthFailure(err)
		}
		if len(causes) > 0 {
			return InvalidCredentials(authenticator, causes)
		}
	}

	identity, err := r.identities.Resolve(ctx, authenticator.Login)
	if err != nil {
		return AuthFailure(err)
	}
	if identity == nil {
		return MissingIdentity(authenticator, authenticator.Login)
	}

	return Authenticated(identity, authenticator, authenticator.Login)
}
