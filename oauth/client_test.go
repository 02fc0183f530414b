package oauth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testClientID     = "2EV70AHRTYF0JOA7OXAMPLE"
	testClientSecret = "shhh-test-api-key-secret"
)

func TestClientSecret_String(t *testing.T) {
	t.Parallel()
	assert := assert.New(t)
	secret := ClientSecret("bob's phone number")
	assert.Equal(RedactedClientSecret, secret.String())
}

func TestClientSecret_MarshalJSON(t *testing.T) {
	t.Parallel()
	assert, require := assert.New(t), require.New(t)
	secret := ClientSecret("bob's phone number")
	got, err := secret.MarshalJSON()
	require.NoError(err)
	assert.Equal([]byte(fmt.Sprintf(`"%s"`, RedactedClientSecret)), got)
}

func TestNewClient(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		baseHref  string
		clientID  string
		secret    ClientSecret
		opt       []Option
		wantErr   bool
		wantIsErr error
	}{
		{
			name:     "valid",
			baseHref: "https://api.example.com/v1/applications/abc",
			clientID: testClientID,
			secret:   testClientSecret,
		},
		{
			name:     "valid-with-trailing-slash",
			baseHref: "https://api.example.com/v1/applications/abc/",
			clientID: testClientID,
			secret:   testClientSecret,
		},
		{
			name:      "empty-base-href",
			baseHref:  "",
			clientID:  testClientID,
			secret:    testClientSecret,
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "bad-scheme",
			baseHref:  "ldap://api.example.com",
			clientID:  testClientID,
			secret:    testClientSecret,
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "empty-client-id",
			baseHref:  "https://api.example.com/v1/applications/abc",
			clientID:  "",
			secret:    testClientSecret,
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "empty-client-secret",
			baseHref:  "https://api.example.com/v1/applications/abc",
			clientID:  testClientID,
			secret:    "",
			wantErr:   true,
			wantIsErr: ErrInvalidParameter,
		},
		{
			name:      "invalid-ca-pem",
			baseHref:  "https://api.example.com/v1/applications/abc",
			clientID:  testClientID,
			secret:    testClientSecret,
			opt:       []Option{WithProviderCA("not a pem")},
			wantErr:   true,
			wantIsErr: ErrInvalidCACert,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert, require := assert.New(t), require.New(t)
			got, err := NewClient(tt.baseHref, tt.clientID, tt.secret, tt.opt...)
			if tt.wantErr {
				require.Error(err)
				assert.Truef(errors.Is(err, tt.wantIsErr), "wanted %q but got %q", tt.wantIsErr, err)
				return
			}
			require.NoError(err)
			require.NotNil(got)
			assert.Equal("https://api.example.com/v1/applications/abc", got.baseHref)
		})
	}
}
