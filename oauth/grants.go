package oauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"

	"github.com/hashicorp/stormpath/apierror"
	sdkHttp "github.com/hashicorp/stormpath/sdk/http"
)

const tokenPath = "/oauth/token"

func (c *Client) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: string(c.clientSecret),
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseHref + tokenPath,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

// PasswordGrant exchanges an account's login and password for a token pair
// (grant_type=password).  The request is sent once; a failed grant is never
// retried since the service records every login attempt.
func (c *Client) PasswordGrant(ctx context.Context, username string, password string) (*Token, error) {
	const op = "oauth.(Client).PasswordGrant"
	if username == "" {
		return nil, fmt.Errorf("%s: username is empty: %w", op, ErrInvalidParameter)
	}
	if password == "" {
		return nil, fmt.Errorf("%s: password is empty: %w", op, ErrInvalidParameter)
	}
	ctx = sdkHttp.ClientContext(ctx, c.client)
	ot, err := c.oauth2Config().PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		return nil, classifyGrantError(op, err)
	}
	if c.logger != nil {
		c.logger.Debug("password grant succeeded", "username", username)
	}
	return newToken(ot), nil
}

// RefreshGrant exchanges a refresh token for a new token pair
// (grant_type=refresh_token).  The consumed refresh token may be one-time
// use, which is why a failure is surfaced rather than retried; the returned
// pair is always the service's newly issued one, and any Token the caller
// already holds is left untouched.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*Token, error) {
	const op = "oauth.(Client).RefreshGrant"
	if refreshToken == "" {
		return nil, fmt.Errorf("%s: refresh token is empty: %w", op, ErrInvalidParameter)
	}
	ctx = sdkHttp.ClientContext(ctx, c.client)
	ts := c.oauth2Config().TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	ot, err := ts.Token()
	if err != nil {
		return nil, classifyGrantError(op, err)
	}
	if c.logger != nil {
		c.logger.Debug("refresh grant succeeded")
	}
	return newToken(ot), nil
}

// classifyGrantError maps a token-endpoint failure onto the service's error
// envelope when the response carried one; anything without a response is a
// transport failure and propagates wrapped, unretried.
func classifyGrantError(op string, err error) error {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		status := 0
		if rerr.Response != nil {
			status = rerr.Response.StatusCode
		}
		return fmt.Errorf("%s: %w", op, apierror.Parse(status, rerr.Body))
	}
	return fmt.Errorf("%s: token endpoint request failed: %w: %w", op, apierror.ErrTransport, err)
}
