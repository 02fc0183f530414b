package authc_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp/stormpath/apierror"
	"github.com/hashicorp/stormpath/authc"
	"github.com/hashicorp/stormpath/oauth"
)

const (
	testClientID     = "2EV70AHRTYF0JOA7OXAMPLE"
	testClientSecret = "shhh-test-api-key-secret"
)

func testServerAndClient(t *testing.T) (*oauth.TestIdentityServer, *authc.Client) {
	t.Helper()
	s := oauth.StartTestIdentityServer(t, testClientID, testClientSecret)
	c, err := authc.NewClient(s.ApplicationHref(), testClientID, testClientSecret)
	require.NoError(t, err)
	return s, c
}

func TestClient_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, c := testServerAndClient(t)
	directoryHref := s.URL() + "/v1/directories/employees"
	otherStoreHref := s.URL() + "/v1/groups/contractors"
	s.SetAccount(oauth.TestAccount{
		Username:   "jlpicard",
		Email:      "jlpicard@starfleet.example.com",
		Password:   "uGhd%a8Kl!",
		GivenName:  "Jean-Luc",
		Surname:    "Picard",
		StoreHrefs: []string{directoryHref},
	})

	t.Run("valid-credentials", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		got, err := c.Authenticate(ctx, authc.LoginRequest{Login: "jlpicard", Password: "uGhd%a8Kl!"})
		require.NoError(err)
		assert.Contains(got.AccountHref, "/accounts/jlpicard")
		require.NotNil(got.Account)
		assert.Equal("jlpicard@starfleet.example.com", got.Account.Email)
		assert.Equal("Jean-Luc", got.Account.GivenName)
	})
	t.Run("email-as-login", func(t *testing.T) {
		require := require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{Login: "jlpicard@starfleet.example.com", Password: "uGhd%a8Kl!"})
		require.NoError(err)
	})
	t.Run("wrong-password", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{Login: "jlpicard", Password: "wrong"})
		require.Error(err)
		var apiErr *apierror.Error
		require.True(errors.As(err, &apiErr))
		assert.Equal(400, apiErr.Status)
		assert.Equal(7100, apiErr.Code)
	})
	t.Run("pinned-to-matching-store", func(t *testing.T) {
		require := require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{
			Login:            "jlpicard",
			Password:         "uGhd%a8Kl!",
			AccountStoreHref: directoryHref,
		})
		require.NoError(err)
	})
	t.Run("pinned-to-wrong-store", func(t *testing.T) {
		// the same credentials succeed unpinned, so a failure here proves
		// the pin is honored rather than widened
		assert, require := assert.New(t), require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{
			Login:            "jlpicard",
			Password:         "uGhd%a8Kl!",
			AccountStoreHref: otherStoreHref,
		})
		require.Error(err)
		var apiErr *apierror.Error
		require.True(errors.As(err, &apiErr))
		assert.Equal(400, apiErr.Status)
		assert.Equal(7104, apiErr.Code)
	})
}

func TestClient_Authenticate_transportError(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	ctx := context.Background()
	s, c := testServerAndClient(t)
	s.Stop()

	_, err := c.Authenticate(ctx, authc.LoginRequest{Login: "jlpicard", Password: "uGhd%a8Kl!"})
	require.Error(err)
	assert.True(errors.Is(err, apierror.ErrTransport))
	var apiErr *apierror.Error
	assert.False(errors.As(err, &apiErr), "transport failures must not look like service errors")
}

func TestClient_Authenticate_validation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, c := testServerAndClient(t)

	t.Run("empty-login", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{Password: "pw"})
		require.Error(err)
		assert.True(errors.Is(err, authc.ErrInvalidParameter))
	})
	t.Run("empty-password", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{Login: "jlpicard"})
		require.Error(err)
		assert.True(errors.Is(err, authc.ErrInvalidParameter))
	})
	t.Run("both-empty-reports-both", func(t *testing.T) {
		assert, require := assert.New(t), require.New(t)
		_, err := c.Authenticate(ctx, authc.LoginRequest{})
		require.Error(err)
		assert.Contains(err.Error(), "login is empty")
		assert.Contains(err.Error(), "password is empty")
	})
}

func TestNewClient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		appHref   string
		clientID  string
		secret    authc.ClientSecret
		wantErr   bool
		wantIsErr error
	}{
		{
			name:     "valid",
			appHref:  "https://api.example.com/v1/applications/abc",
			clientID: testClientID,
			secret:   testClientSecret,
		},
		{
			name:      "empty-application-href",
			appHref:   "",
			clientID:  testClientID,
			secret:    testClientSecret,
			wantErr:   true,
			wantIsErr: authc.ErrInvalidParameter,
		},
		{
			name:      "empty-client-id",
			appHref:   "https://api.example.com/v1/applications/abc",
			clientID:  "",
			secret:    testClientSecret,
			wantErr:   true,
			wantIsErr: authc.ErrInvalidParameter,
		},
		{
			name:      "empty-client-secret",
			appHref:   "https://api.example.com/v1/applications/abc",
			clientID:  testClientID,
			secret:    "",
			wantErr:   true,
			wantIsErr: authc.ErrInvalidParameter,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			got, err := authc.NewClient(tt.appHref, tt.clientID, tt.secret)
			if tt.wantErr {
				require.Error(err)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted %q but got %q", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			require.NotNil(got)
		})
	}
}
