package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/stormpath/apierror"
)

const authTokensPath = "/authTokens/"

// Authentication is the result of validating a bearer access token: the
// resources the token is bound to plus the token's raw and expanded forms.
type Authentication struct {
	// Href locates this authentication resource.
	Href string

	// AccountHref locates the account the token was issued to.
	AccountHref string

	// ApplicationHref locates the application the token was issued for.
	ApplicationHref string

	// TenantHref locates the owning tenant.
	TenantHref string

	// JWT is the raw token that was validated.
	JWT string

	// ExpandedJWT is the service's decoded view of the token.
	ExpandedJWT map[string]interface{}
}

type resourceRef struct {
	Href string `json:"href"`
}

type authTokenResponse struct {
	Href        string                 `json:"href"`
	Account     resourceRef            `json:"account"`
	Application resourceRef            `json:"application"`
	Tenant      resourceRef            `json:"tenant"`
	JWT         string                 `json:"jwt"`
	ExpandedJWT map[string]interface{} `json:"expandedJwt"`
}

// ValidateToken asks the service whether the access token is still good and
// returns the Authentication it resolves to.  A revoked, expired or unknown
// token fails with an *apierror.Error; validation never silently succeeds
// for a dead token.
func (c *Client) ValidateToken(ctx context.Context, accessToken string) (*Authentication, error) {
	const op = "oauth.(Client).ValidateToken"
	if accessToken == "" {
		return nil, fmt.Errorf("%s: access token is empty: %w", op, ErrInvalidParameter)
	}
	endpoint := c.baseHref + authTokensPath + url.PathEscape(accessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: token validation request failed: %w: %w", op, apierror.ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %w", op, apierror.FromResponse(resp))
	}
	defer resp.Body.Close()
	var body authTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: unable to decode response: %w", op, err)
	}
	if c.logger != nil {
		c.logger.Debug("access token validated", "account", body.Account.Href)
	}
	return &Authentication{
		Href:            body.Href,
		AccountHref:     body.Account.Href,
		ApplicationHref: body.Application.Href,
		TenantHref:      body.Tenant.Href,
		JWT:             body.JWT,
		ExpandedJWT:     body.ExpandedJWT,
	}, nil
}

// RevokeToken deletes the access token resource at tokenHref (the Href of a
// Token returned by a grant).  After revocation, validating the same access
// token fails with a service error.
func (c *Client) RevokeToken(ctx context.Context, tokenHref string) error {
	const op = "oauth.(Client).RevokeToken"
	if tokenHref == "" {
		return fmt.Errorf("%s: token href is empty: %w", op, ErrInvalidParameter)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, tokenHref, nil)
	if err != nil {
		return fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.SetBasicAuth(c.clientID, string(c.clientSecret))

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: token revocation request failed: %w: %w", op, apierror.ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s: %w", op, apierror.FromResponse(resp))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if c.logger != nil {
		c.logger.Debug("access token revoked", "href", tokenHref)
	}
	return nil
}
