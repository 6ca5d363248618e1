package auth_test

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	auth "github.com/goliatone/go-authkit"
)

// testIdentity implements auth.Identity for tests.
type testIdentity struct {
	login auth.LoginInfo
}

func (i testIdentity) Login() auth.LoginInfo {
	return i.login
}

// testRequest is a minimal transport request carrying an optional token.
type testRequest struct {
	token string
}

func testExtractor() auth.Step[testRequest, string] {
	return auth.FromOptional(func(_ context.Context, req testRequest) (string, bool) {
		return req.token, req.token != ""
	})
}

// stubClaimsCodec captures encoded claims and plays back canned results.
type stubClaimsCodec struct {
	encoded   auth.Claims
	token     string
	encodeErr error
	decoded   auth.Claims
	decodeErr error
}

func (s *stubClaimsCodec) Encode(_ context.Context, claims auth.Claims) (string, error) {
	s.encoded = claims
	if s.encodeErr != nil {
		return "", s.encodeErr
	}
	if s.token == "" {
		return "stub-token", nil
	}
	return s.token, nil
}

func (s *stubClaimsCodec) Decode(_ context.Context, _ string) (auth.Claims, error) {
	if s.decodeErr != nil {
		return auth.Claims{}, s.decodeErr
	}
	return s.decoded, nil
}

func errMessage(err error) string {
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}
	return err.Error()
}
