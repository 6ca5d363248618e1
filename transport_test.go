package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-authkit"
)

func TestGetTokenExtractors(t *testing.T) {
	t.Run("parses a multi source lookup", func(t *testing.T) {
		extractors := auth.GetTokenExtractors("header:Authorization,cookie:session,query:auth_token,param:token")
		assert.Len(t, extractors, 4)
	})

	t.Run("skips malformed parts", func(t *testing.T) {
		extractors := auth.GetTokenExtractors("header:Authorization,bogus")
		assert.Len(t, extractors, 1)
	})
}

func TestNewRouterExtractor(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts a bearer token from the header", func(t *testing.T) {
		mc := router.NewMockContext()
		mc.HeadersM["Authorization"] = "Bearer raw-token"
		mc.On("GetString", "Authorization", "").Return("Bearer raw-token").Maybe()

		step := auth.NewRouterExtractor("header:Authorization", "Bearer")
		token, ok, err := step(ctx, mc)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "raw-token", token)
	})

	t.Run("reports absence when nothing matches", func(t *testing.T) {
		mc := router.NewMockContext()
		mc.On("GetString", "Authorization", "").Return("").Maybe()

		step := auth.NewRouterExtractor("header:Authorization", "Bearer")
		_, ok, err := step(ctx, mc)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("falls through to the cookie", func(t *testing.T) {
		mc := router.NewMockContext()
		mc.CookiesM["session"] = "cookie-token"
		mc.On("GetString", "Authorization", "").Return("").Maybe()

		step := auth.NewRouterExtractor("header:Authorization,cookie:session", "Bearer")
		token, ok, err := step(ctx, mc)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "cookie-token", token)
	})

	t.Run("defaults to the authorization header", func(t *testing.T) {
		mc := router.NewMockContext()
		mc.HeadersM[router.HeaderAuthorization] = "Bearer raw-token"
		mc.On("GetString", router.HeaderAuthorization, "").Return("Bearer raw-token").Maybe()

		step := auth.NewRouterExtractor("")
		token, ok, err := step(ctx, mc)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "raw-token", token)
	})
}

func TestNewCookieWriteBack(t *testing.T) {
	ctx := context.Background()
	crypter := newTestCrypter(t)

	codec, err := auth.NewCrypterCodec(crypter)
	require.NoError(t, err)

	t.Run("requires codec and cookie name", func(t *testing.T) {
		_, err := auth.NewCookieWriteBack(nil, nil, auth.CookieSettings{Name: "session"})
		assert.Error(t, err)

		_, err = auth.NewCookieWriteBack(codec, nil, auth.CookieSettings{})
		assert.Error(t, err)
	})

	t.Run("sets the refreshed token as a cookie", func(t *testing.T) {
		issuer, err := auth.NewIssuer(auth.IssuerSettings{TTL: time.Hour})
		require.NoError(t, err)

		writeBack, err := auth.NewCookieWriteBack(codec, issuer, auth.CookieSettings{
			Name:     "session",
			Duration: time.Hour,
		})
		require.NoError(t, err)

		mc := router.NewMockContext()
		mc.On("Cookie", mock.AnythingOfType("*router.Cookie")).Return().Maybe()

		login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
		authenticator, err := issuer.Create(ctx, login)
		require.NoError(t, err)

		_, err = writeBack(ctx, authenticator, mc)
		require.NoError(t, err)
	})
}
