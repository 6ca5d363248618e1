package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Validator vets a decoded Authenticator. A non-empty slice means the
// authenticator is invalid and the entries say why; a non-nil error means
// the check itself could not run and the whole chain evaluation fails.
type Validator interface {
	IsValid(ctx context.Context, authenticator Authenticator) ([]string, error)
}

// ValidatorFunc adapts a function into a Validator.
type ValidatorFunc func(ctx context.Context, authenticator Authenticator) ([]string, error)

// IsValid satisfies the Validator interface.
func (f ValidatorFunc) IsValid(ctx context.Context, authenticator Authenticator) ([]string, error) {
	if f == nil {
		return nil, nil
	}
	return f(ctx, authenticator)
}

// ValidatorChain evaluates every registered validator and aggregates the
// verdict. Validators run concurrently; every result is awaited and the
// invalid entries are concatenated in registration order, so the aggregate
// is deterministic regardless of scheduling. The first infrastructure
// error fails the whole evaluation.
type ValidatorChain struct {
	validators []Validator
}

// NewValidatorChain filters nil validators and returns the chain.
func NewValidatorChain(validators ...Validator) *ValidatorChain {
	filtered := make([]Validator, 0, len(validators))
	for _, v := range validators {
		if v != nil {
			filtered = append(filtered, v)
		}
	}
	return &ValidatorChain{validators: filtered}
}

// IsValid satisfies the Validator interface, so chains nest.
func (c *ValidatorChain) IsValid(ctx context.Context, authenticator Authenticator) ([]string, error) {
	if len(c.validators) == 0 {
		return nil, nil
	}

	type verdict struct {
		invalid []string
		err     error
	}

	verdicts := make([]verdict, len(c.validators))

	var wg sync.WaitGroup
	for i, v := range c.validators {
		wg.Add(1)
		go func(i int, v Validator) {
			defer wg.Done()
			invalid, err := v.IsValid(ctx, authenticator)
			verdicts[i] = verdict{invalid: invalid, err: err}
		}(i, v)
	}
	wg.Wait()

	var aggregate []string
	for _, v := range verdicts {
		if v.err != nil {
			return nil, v.err
		}
		aggregate = append(aggregate, v.invalid...)
	}

	return aggregate, nil
}

// NewStructuralValidator checks that the authenticator carries the fields
// every credential must have: a non-empty ID and a complete LoginInfo.
func NewStructuralValidator() Validator {
	return ValidatorFunc(func(_ context.Context, authenticator Authenticator) ([]string, error) {
		var invalid []string

		if err := validation.Validate(authenticator.ID, validation.Required); err != nil {
			invalid = append(invalid, fmt.Sprintf("id: %s", err.Error()))
		}

		if err := validation.Validate(authenticator.Login.ProviderID, validation.Required); err != nil {
			invalid = append(invalid, fmt.Sprintf("login: provider id %s", err.Error()))
		} else if err := validation.Validate(authenticator.Login.ProviderKey, validation.Required); err != nil {
			invalid = append(invalid, fmt.Sprintf("login: provider key %s", err.Error()))
		}

		return invalid, nil
	})
}

// NewExpiryValidator rejects authenticators whose absolute expiry has
// passed or whose last touch is older than the idle window. A zero idle
// window disables the idle check.
func NewExpiryValidator(idle time.Duration, now func() time.Time) Validator {
	if now == nil {
		now = time.Now
	}
	return ValidatorFunc(func(_ context.Context, authenticator Authenticator) ([]string, error) {
		current := now()

		var invalid []string
		if authenticator.IsExpired(current) {
			invalid = append(invalid, fmt.Sprintf("authenticator expired at %s", authenticator.Expires.Format(time.RFC3339)))
		}
		if authenticator.IsTimedOut(current, idle) {
			invalid = append(invalid, fmt.Sprintf("authenticator idle since %s", authenticator.Touched.Format(time.RFC3339)))
		}

		return invalid, nil
	})
}

// NewFingerprintValidator compares the authenticator's stored fingerprint
// against the one derived from the current request. Authenticators issued
// without a fingerprint pass; a mismatch means the token traveled to a
// context it was not issued for.
func NewFingerprintValidator(expected string) Validator {
	return ValidatorFunc(func(_ context.Context, authenticator Authenticator) ([]string, error) {
		if authenticator.Fingerprint == "" {
			return nil, nil
		}
		if authenticator.Fingerprint != expected {
			return []string{"fingerprint does not match request"}, nil
		}
		return nil, nil
	})
}
