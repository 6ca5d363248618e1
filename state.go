package auth

import "github.com/goliatone/go-errors"

// AuthStateKind discriminates the five terminal outcomes of one
// authentication attempt.
type AuthStateKind uint8

const (
	// StateAuthenticated means the token decoded, validated, and resolved
	// to an identity.
	StateAuthenticated AuthStateKind = iota + 1
	// StateMissingCredentials means the request carried no token. Not an
	// error.
	StateMissingCredentials
	// StateInvalidCredentials means the token decoded but at least one
	// validator rejected it.
	StateInvalidCredentials
	// StateMissingIdentity means the token is structurally valid but its
	// LoginInfo names nobody. Not an error.
	StateMissingIdentity
	// StateAuthFailure means infrastructure failed somewhere between
	// decoding and identity resolution.
	StateAuthFailure
)

// String returns the kind name for logs and diagnostics.
func (k AuthStateKind) String() string {
	switch k {
	case StateAuthenticated:
		return "authenticated"
	case StateMissingCredentials:
		return "missing_credentials"
	case StateInvalidCredentials:
		return "invalid_credentials"
	case StateMissingIdentity:
		return "missing_identity"
	case StateAuthFailure:
		return "auth_failure"
	}
	return "unknown"
}

// AuthState is the terminal outcome of one authentication attempt. Exactly
// one kind is set per pipeline run and the state never transitions after
// that. Which fields are populated depends on the kind; use the
// constructors and Match instead of building values by hand.
type AuthState struct {
	Kind          AuthStateKind
	Identity      Identity
	Authenticator *Authenticator
	Login         *LoginInfo
	Causes        []string
	Err           error
}

// Authenticated builds the success outcome.
func Authenticated(identity Identity, authenticator Authenticator, login LoginInfo) AuthState {
	return AuthState{
		Kind:          StateAuthenticated,
		Identity:      identity,
		Authenticator: &authenticator,
		Login:         &login,
	}
}

// MissingCredentials builds the no-token outcome.
func MissingCredentials() AuthState {
	return AuthState{Kind: StateMissingCredentials}
}

// InvalidCredentials builds the rejected-token outcome. Causes is never
// empty when this state is produced by the pipeline.
func InvalidCredentials(authenticator Authenticator, causes []string) AuthState {
	return AuthState{
		Kind:          StateInvalidCredentials,
		Authenticator: &authenticator,
		Causes:        causes,
	}
}

// MissingIdentity builds the nobody-home outcome.
func MissingIdentity(authenticator Authenticator, login LoginInfo) AuthState {
	return AuthState{
		Kind:          StateMissingIdentity,
		Authenticator: &authenticator,
		Login:         &login,
	}
}

// AuthFailure wraps an infrastructure error as a terminal outcome. The
// original error is kept as-is for caller inspection.
func AuthFailure(err error) AuthState {
	return AuthState{Kind: StateAuthFailure, Err: err}
}

// StateHandlers holds one handler per outcome for Match. Every field is
// required; Match fails on the first nil handler it needs.
type StateHandlers[W any] struct {
	Authenticated      func(identity Identity, authenticator Authenticator, login LoginInfo) (W, error)
	MissingCredentials func() (W, error)
	InvalidCredentials func(authenticator Authenticator, causes []string) (W, error)
	MissingIdentity    func(authenticator Authenticator, login LoginInfo) (W, error)
	Failure            func(err error) (W, error)
}

// Match dispatches the state to its handler. Go has no exhaustive switch,
// so completeness is enforced at runtime: a missing handler is an error,
// not a silent no-op.
func Match[W any](state AuthState, handlers StateHandlers[W]) (W, error) {
	var zero W

	switch state.Kind {
	case StateAuthenticated:
		if handlers.Authenticated == nil {
			return zero, errUnhandledState(state.Kind)
		}
		return handlers.Authenticated(state.Identity, *state.Authenticator, *state.Login)
	case StateMissingCredentials:
		if handlers.MissingCredentials == nil {
			return zero, errUnhandledState(state.Kind)
		}
		return handlers.MissingCredentials()
	case StateInvalidCredentials:
		if handlers.InvalidCredentials == nil {
			return zero, errUnhandledState(state.Kind)
		}
		return handlers.InvalidCredentials(*state.Authenticator, state.Causes)
	case StateMissingIdentity:
		if handlers.MissingIdentity == nil {
			return zero, errUnhandledState(state.Kind)
		}
		return handlers.MissingIdentity(*state.Authenticator, *state.Login)
	case StateAuthFailure:
		if handlers.Failure == nil {
			return zero, errUnhandledState(state.Kind)
		}
		return handlers.Failure(state.Err)
	}

	return zero, errors.New("unknown auth state", errors.CategoryInternal)
}

func errUnhandledState(kind AuthStateKind) error {
	return errors.New("no handler for auth state: "+kind.String(), errors.CategoryInternal)
}
