package auth

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// DefaultTokenLookup checks the Authorization header.
var DefaultTokenLookup = "header:" + router.HeaderAuthorization

// TokenExtractor pulls a raw token from a request. Absence is reported
// through the bool, never as an error.
type TokenExtractor func(c router.Context) (string, bool)

// GetTokenExtractors parses a lookup expression like
// "header:Authorization,cookie:session,query:auth_token,param:token" into
// the matching extractor list.
func GetTokenExtractors(tokenLookup string, authSchemes ...string) []TokenExtractor {
	authScheme := "Bearer"
	if len(authSchemes) > 0 {
		authScheme = authSchemes[0]
	}

	extractors := make([]TokenExtractor, 0)

	for _, rootPart := range strings.Split(tokenLookup, ",") {
		parts := strings.Split(strings.TrimSpace(rootPart), ":")
		if len(parts) != 2 {
			continue
		}

		for i, el := range parts {
			parts[i] = strings.TrimSpace(el)
		}

		switch parts[0] {
		case "header":
			extractors = append(extractors, tokenFromHeader(parts[1], authScheme))
		case "query":
			extractors = append(extractors, tokenFromQuery(parts[1]))
		case "param":
			extractors = append(extractors, tokenFromParam(parts[1]))
		case "cookie":
			extractors = append(extractors, tokenFromCookie(parts[1]))
		}
	}

	return extractors
}

// NewRouterExtractor folds the extractor list into a pipeline step over
// router.Context. The first extractor that finds a token wins; none
// finding one is absence, which the state machine maps to
// MissingCredentials.
func NewRouterExtractor(tokenLookup string, authSchemes ...string) Step[router.Context, string] {
	if tokenLookup == "" {
		tokenLookup = DefaultTokenLookup
	}
	extractors := GetTokenExtractors(tokenLookup, authSchemes...)

	return FromOptional(func(_ context.Context, c router.Context) (string, bool) {
		for _, extract := range extractors {
			if token, ok := extract(c); ok {
				return token, true
			}
		}
		return "", false
	})
}

// tokenFromHeader extracts a scheme-prefixed token from a request header.
func tokenFromHeader(header, authScheme string) TokenExtractor {
	return func(c router.Context) (string, bool) {
		a := c.GetString(header, "")
		authScheme = strings.TrimSpace(authScheme)
		l := len(authScheme)
		if l == 0 {
			return strings.TrimSpace(a), a != ""
		}
		if len(a) > l+1 && strings.EqualFold(a[:l], authScheme) {
			return strings.TrimSpace(a[l:]), true
		}
		return "", false
	}
}

// tokenFromQuery extracts a token from the query string.
func tokenFromQuery(param string) TokenExtractor {
	return func(c router.Context) (string, bool) {
		token := c.Query(param, "")
		return token, token != ""
	}
}

// tokenFromParam extracts a token from a URL param.
func tokenFromParam(param string) TokenExtractor {
	return func(c router.Context) (string, bool) {
		token := c.Param(param)
		return token, token != ""
	}
}

// tokenFromCookie extracts a token from the named cookie.
func tokenFromCookie(name string) TokenExtractor {
	return func(c router.Context) (string, bool) {
		token := c.Cookies(name)
		return token, token != ""
	}
}

// CookieSettings configures the write-back cookie.
type CookieSettings struct {
	Name     string
	Duration time.Duration
}

// NewCookieWriteBack returns a write-back target that touches the
// authenticator, re-encodes it, and sets the refreshed token as a cookie
// on the response side of the exchange.
func NewCookieWriteBack(codec AuthenticatorCodec, issuer *Issuer, settings CookieSettings) (WriteBack[router.Context], error) {
	if codec == nil {
		return nil, errors.New("authenticator codec is required", errors.CategoryValidation)
	}
	if settings.Name == "" {
		return nil, errors.New("cookie name is required", errors.CategoryValidation)
	}

	return func(ctx context.Context, authenticator Authenticator, c router.Context) (router.Context, error) {
		if issuer != nil {
			authenticator = issuer.Touch(authenticator)
		}

		token, err := codec.EncodeAuthenticator(ctx, authenticator)
		if err != nil {
			return c, err
		}

		expires := time.Now().Add(settings.Duration)
		if authenticator.Expires != nil {
			expires = *authenticator.Expires
		}

		c.Cookie(&router.Cookie{
			Name:     settings.Name,
			Value:    token,
			Expires:  expires,
			HTTPOnly: true,
			Secure:   true,
			SameSite: "Lax",
		})

		return c, nil
	}, nil
}
