package authware_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-authkit"
	"github.com/goliatone/go-authkit/middleware/authware"
)

type testIdentity struct {
	login auth.LoginInfo
}

func (i testIdentity) Login() auth.LoginInfo {
	return i.login
}

func newProvider(t *testing.T, resolver auth.IdentityResolver, validators ...auth.Validator) *auth.Provider[router.Context, router.Context] {
	t.Helper()

	login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
	reader := auth.NewAuthReader(
		auth.NewRouterExtractor("header:Authorization", "Bearer"),
		func(_ context.Context, _ string) (auth.Authenticator, error) {
			return auth.Authenticator{ID: "auth-id", Login: login}, nil
		},
		auth.NewValidatorChain(validators...),
		resolver,
	)

	return auth.NewProvider[router.Context, router.Context](reader, nil)
}

func resolverOf(identity auth.Identity) auth.IdentityResolver {
	return auth.IdentityResolverFunc(func(_ context.Context, _ auth.LoginInfo) (auth.Identity, error) {
		return identity, nil
	})
}

func passthroughErrors(c router.Context, err error) error {
	return err
}

func TestAuthware_Authenticated(t *testing.T) {
	login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
	identity := testIdentity{login: login}

	mw := authware.New(authware.Config{
		Provider:     newProvider(t, resolverOf(identity)),
		ErrorHandler: passthroughErrors,
	})
	handler := mw(func(c router.Context) error { return c.Next() })

	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer raw-token"
	ctx.On("GetString", "Authorization", "").Return("Bearer raw-token").Maybe()
	ctx.On("Locals", "auth_state", mock.Anything).Return(nil).Maybe()
	ctx.On("Locals", "identity", mock.Anything).Return(nil).Maybe()
	ctx.On("Context").Return(context.Background()).Maybe()

	err := handler(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.NextCalled, "expected the request to proceed")
}

func TestAuthware_MissingCredentials(t *testing.T) {
	login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
	identity := testIdentity{login: login}

	t.Run("fails closed by default", func(t *testing.T) {
		mw := authware.New(authware.Config{
			Provider:     newProvider(t, resolverOf(identity)),
			ErrorHandler: passthroughErrors,
		})
		handler := mw(func(c router.Context) error { return c.Next() })

		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("").Maybe()
		ctx.On("Locals", "auth_state", mock.Anything).Return(nil).Maybe()
		ctx.On("Context").Return(context.Background()).Maybe()

		err := handler(ctx)
		assert.ErrorIs(t, err, authware.ErrMissingCredentials)
	})

	t.Run("optional lets the request through", func(t *testing.T) {
		mw := authware.New(authware.Config{
			Provider:     newProvider(t, resolverOf(identity)),
			ErrorHandler: passthroughErrors,
			Optional:     true,
		})
		handler := mw(func(c router.Context) error { return c.Next() })

		ctx := router.NewMockContext()
		ctx.On("GetString", "Authorization", "").Return("").Maybe()
		ctx.On("Locals", "auth_state", mock.Anything).Return(nil).Maybe()
		ctx.On("Context").Return(context.Background()).Maybe()

		err := handler(ctx)
		require.NoError(t, err)
		assert.True(t, ctx.NextCalled)
	})
}

func TestAuthware_InvalidCredentials(t *testing.T) {
	login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
	identity := testIdentity{login: login}

	rejecting := auth.ValidatorFunc(func(_ context.Context, _ auth.Authenticator) ([]string, error) {
		return []string{"Invalid authenticator"}, nil
	})

	mw := authware.New(authware.Config{
		Provider:     newProvider(t, resolverOf(identity), rejecting),
		ErrorHandler: passthroughErrors,
	})
	handler := mw(func(c router.Context) error { return c.Next() })

	ctx := router.NewMockContext()
	ctx.HeadersM["Authorization"] = "Bearer raw-token"
	ctx.On("GetString", "Authorization", "").Return("Bearer raw-token").Maybe()
	ctx.On("Locals", "auth_state", mock.Anything).Return(nil).Maybe()
	ctx.On("Context").Return(context.Background()).Maybe()

	err := handler(ctx)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "rejected"))
	assert.False(t, ctx.NextCalled)
}

func TestAuthware_Filter(t *testing.T) {
	login := auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"}
	identity := testIdentity{login: login}

	mw := authware.New(authware.Config{
		Provider:     newProvider(t, resolverOf(identity)),
		ErrorHandler: passthroughErrors,
		Filter: func(c router.Context) bool {
			return true
		},
	})
	handler := mw(func(c router.Context) error { return c.Next() })

	ctx := router.NewMockContext()

	err := handler(ctx)
	require.NoError(t, err)
	assert.True(t, ctx.NextCalled, "filter should skip authentication")
}

func TestAuthware_RequiresProvider(t *testing.T) {
	assert.Panics(t, func() {
		authware.GetDefaultConfig(authware.Config{})
	})
}
