package auth

import "context"

// Step is one stage of a token reader/writer pipeline: a computation
// that may produce a value, produce nothing, or fail. The
// three outcomes are distinct: (value, true, nil) is success, (zero,
// false, nil) is absence, and any non-nil error is failure. Absence is not
// an error; both absence and failure stop a composed pipeline.
type Step[A, B any] func(ctx context.Context, in A) (B, bool, error)

// Then sequences two steps. g runs only when f produced a value; absence
// and failure from f propagate unchanged.
func Then[A, B, C any](f Step[A, B], g Step[B, C]) Step[A, C] {
	return func(ctx context.Context, in A) (C, bool, error) {
		var zero C

		mid, ok, err := f(ctx, in)
		if err != nil || !ok {
			return zero, false, err
		}

		return g(ctx, mid)
	}
}

// FromValue lifts a plain function into a Step that always produces.
func FromValue[A, B any](fn func(ctx context.Context, in A) B) Step[A, B] {
	return func(ctx context.Context, in A) (B, bool, error) {
		return fn(ctx, in), true, nil
	}
}

// FromOptional lifts an optional-returning function into a Step; a false
// second return becomes absence.
func FromOptional[A, B any](fn func(ctx context.Context, in A) (B, bool)) Step[A, B] {
	return func(ctx context.Context, in A) (B, bool, error) {
		out, ok := fn(ctx, in)
		return out, ok, nil
	}
}

// FromResult lifts a fallible function into a Step; a non-nil error
// becomes failure.
func FromResult[A, B any](fn func(ctx context.Context, in A) (B, error)) Step[A, B] {
	return func(ctx context.Context, in A) (B, bool, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero B
			return zero, false, err
		}
		return out, true, nil
	}
}
