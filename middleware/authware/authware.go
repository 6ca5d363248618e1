// Package authware runs the full authentication pipeline as request
// middleware: it reads the inbound token through a configured provider,
// exposes the outcome via the router context, and lets the provider
// refresh the token on the way out.
package authware

import (
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	auth "github.com/goliatone/go-authkit"
)

// ErrMissingCredentials is handed to the error handler when the request
// carries no token and Optional is false.
var ErrMissingCredentials = errors.New("no credentials presented", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrMissingIdentity is handed to the error handler when the token is
// valid but names nobody.
var ErrMissingIdentity = errors.New("credentials name no identity", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// Config holds the middleware options.
type Config struct {
	// Provider runs the authentication attempt. Required.
	Provider *auth.Provider[router.Context, router.Context]

	// Filter skips the middleware for matching requests.
	Filter func(router.Context) bool

	// SuccessHandler runs after an authenticated exchange. Defaults to
	// ctx.Next().
	SuccessHandler router.HandlerFunc

	// ErrorHandler receives every non-authenticated outcome. Defaults to
	// a 401 response.
	ErrorHandler router.ErrorHandler

	// ContextKey is where the resolved Identity is stored in the router
	// context. Defaults to "identity".
	ContextKey string

	// StateKey is where the full AuthState is stored. Defaults to
	// "auth_state".
	StateKey string

	// Optional lets unauthenticated requests through instead of failing
	// them. The AuthState is still stored for downstream inspection.
	Optional bool
}

// New builds the middleware.
func New(config ...Config) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		cfg := GetDefaultConfig(config...)
		return func(c router.Context) error {
			if cfg.Filter != nil && cfg.Filter(c) {
				return c.Next()
			}

			var state auth.AuthState
			if _, err := cfg.Provider.Authenticate(c.Context(), c, func(s auth.AuthState) (router.Context, error) {
				state = s
				return c, nil
			}); err != nil {
				// token write-back failed
				return cfg.ErrorHandler(c, err)
			}

			c.Locals(cfg.StateKey, state)

			switch state.Kind {
			case auth.StateAuthenticated:
				c.Locals(cfg.ContextKey, state.Identity)
				return cfg.SuccessHandler(c)
			case auth.StateMissingCredentials:
				if cfg.Optional {
					return c.Next()
				}
				return cfg.ErrorHandler(c, ErrMissingCredentials)
			case auth.StateInvalidCredentials:
				return cfg.ErrorHandler(c, invalidCredentialsError(state.Causes))
			case auth.StateMissingIdentity:
				if cfg.Optional {
					return c.Next()
				}
				return cfg.ErrorHandler(c, ErrMissingIdentity)
			default:
				return cfg.ErrorHandler(c, state.Err)
			}
		}
	}
}

// GetDefaultConfig fills in defaults for unset options. The provider is
// mandatory.
func GetDefaultConfig(config ...Config) (cfg Config) {
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Provider == nil {
		panic("AUTH: authware middleware configuration: Provider is required.")
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c router.Context) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c router.Context, err error) error {
			return c.Status(router.StatusUnauthorized).SendString("Invalid or expired credentials")
		}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "identity"
	}

	if cfg.StateKey == "" {
		cfg.StateKey = "auth_state"
	}

	return cfg
}

func invalidCredentialsError(causes []string) error {
	return errors.New(fmt.Sprintf("credentials rejected: %v", causes), errors.CategoryAuth).
		WithCode(errors.CodeUnauthorized).
		WithMetadata(map[string]any{"causes": causes})
}
