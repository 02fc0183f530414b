package oauth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/stormpath/apierror"
)

func TestClient_ValidateToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := StartTestIdentityServer(t, testClientID, testClientSecret)
	s.SetAccount(TestAccount{Username: "jlpicard", Password: "uGhd%a8Kl!"})
	c := testClient(t, s)

	t.Run("live-token", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tk, err := c.PasswordGrant(ctx, "jlpicard", "uGhd%a8Kl!")
		require.NoError(err)
		auth, err := c.ValidateToken(ctx, tk.AccessToken)
		require.NoError(err)
		assert.NotEmpty(auth.Href)
		assert.Contains(auth.AccountHref, "/accounts/jlpicard")
		assert.Equal(s.ApplicationHref(), auth.ApplicationHref)
		assert.NotEmpty(auth.TenantHref)
		assert.Equal(tk.AccessToken, auth.JWT)
		assert.NotNil(auth.ExpandedJWT)
	})
	t.Run("unknown-token", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.ValidateToken(ctx, "never-issued")
		require.Error(err)
		var apiErr *apierror.Error
		require.True(errors.As(err, &apiErr))
		assert.Equal(404, apiErr.Status)
		assert.Equal(10011, apiErr.Code)
	})
	t.Run("empty-token", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.ValidateToken(ctx, "")
		require.Error(err)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
}

func TestClient_RevokeToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := StartTestIdentityServer(t, testClientID, testClientSecret)
	s.SetAccount(TestAccount{Username: "jlpicard", Password: "uGhd%a8Kl!"})
	c := testClient(t, s)

	t.Run("revoked-token-fails-validation", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		tk, err := c.PasswordGrant(ctx, "jlpicard", "uGhd%a8Kl!")
		require.NoError(err)
		_, err = c.ValidateToken(ctx, tk.AccessToken)
		require.NoError(err)

		require.NoError(c.RevokeToken(ctx, tk.Href))

		_, err = c.ValidateToken(ctx, tk.AccessToken)
		require.Error(err)
		var apiErr *apierror.Error
		require.True(errors.As(err, &apiErr))
		assert.Equal(404, apiErr.Status)
	})
	t.Run("empty-href", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		err := c.RevokeToken(ctx, "")
		require.Error(err)
		assert.True(errors.Is(err, ErrInvalidParameter))
	})
}

func TestClient_tokenTransportError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := StartTestIdentityServer(t, testClientID, testClientSecret)
	s.SetAccount(TestAccount{Username: "jlpicard", Password: "uGhd%a8Kl!"})
	c := testClient(t, s)
	tk, err := c.PasswordGrant(ctx, "jlpicard", "uGhd%a8Kl!")
	require.NoError(t, err)
	s.Stop()

	t.Run("validate", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.ValidateToken(ctx, tk.AccessToken)
		require.Error(err)
		assert.True(errors.Is(err, apierror.ErrTransport))
		var apiErr *apierror.Error
		assert.False(errors.As(err, &apiErr))
	})
	t.Run("revoke", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		err := c.RevokeToken(ctx, tk.Href)
		require.Error(err)
		assert.True(errors.Is(err, apierror.ErrTransport))
	})
}
