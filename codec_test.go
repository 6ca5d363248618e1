package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-authkit"
)

func TestCrypterCodec(t *testing.T) {
	ctx := context.Background()
	crypter := newTestCrypter(t)

	codec, err := auth.NewCrypterCodec(crypter)
	require.NoError(t, err)

	t.Run("requires a crypter", func(t *testing.T) {
		_, err := auth.NewCrypterCodec(nil)
		assert.Error(t, err)
	})

	t.Run("round trips an authenticator", func(t *testing.T) {
		touched := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		expires := touched.Add(time.Hour)

		original := auth.Authenticator{
			ID:          "auth-id",
			Login:       auth.LoginInfo{ProviderID: "credentials", ProviderKey: "user@example.com"},
			Touched:     &touched,
			Expires:     &expires,
			Fingerprint: "fingerprint",
			Tags:        []string{"tag1", "tag1", "tag2"},
			Payload:     map[string]any{"secure": true},
		}

		token, err := codec.EncodeAuthenticator(ctx, original)
		require.NoError(t, err)

		decoded, err := codec.DecodeAuthenticator(ctx, token)
		require.NoError(t, err)

		assert.Equal(t, original.ID, decoded.ID)
		assert.Equal(t, original.Login, decoded.Login)
		assert.Equal(t, original.Fingerprint, decoded.Fingerprint)
		// duplicates and order survive the round trip
		assert.Equal(t, []string{"tag1", "tag1", "tag2"}, decoded.Tags)
		assert.Equal(t, map[string]any{"secure": true}, decoded.Payload)
		require.NotNil(t, decoded.Touched)
		assert.True(t, decoded.Touched.Equal(touched))
		require.NotNil(t, decoded.Expires)
		assert.True(t, decoded.Expires.Equal(expires))
	})

	t.Run("propagates crypter failures", func(t *testing.T) {
		_, err := codec.DecodeAuthenticator(ctx, "garbage")
		require.Error(t, err)
		assert.True(t, auth.IsCryptoError(err))
	})
}

func TestCodecRegistry(t *testing.T) {
	crypter := newTestCrypter(t)
	codec, err := auth.NewCrypterCodec(crypter)
	require.NoError(t, err)

	registry := auth.NewCodecRegistry().Register(auth.FormatCrypter, codec)

	t.Run("resolves registered formats", func(t *testing.T) {
		resolved, err := registry.Resolve(auth.FormatCrypter)
		require.NoError(t, err)
		assert.Equal(t, codec, resolved)
	})

	t.Run("unknown format is an error", func(t *testing.T) {
		_, err := registry.Resolve("paseto")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "paseto")
	})

	t.Run("later registrations win", func(t *testing.T) {
		other, err := auth.NewCrypterCodec(crypter)
		require.NoError(t, err)

		registry.Register(auth.FormatCrypter, other)
		resolved, err := registry.Resolve(auth.FormatCrypter)
		require.NoError(t, err)
		assert.Equal(t, other, resolved)
	})
}
