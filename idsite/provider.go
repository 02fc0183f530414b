package idsite

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-uuid"
	"github.com/hashicorp/stormpath/jwt"
)

const (
	ssoPath       = "/sso"
	ssoLogoutPath = "/sso/logout"

	// requestParam is the query parameter carrying the signed authorization
	// request token on the redirect to the hosted site.
	requestParam = "jwtRequest"

	// responseParam is the query parameter carrying the signed response
	// token on the callback from the hosted site.
	responseParam = "jwtResponse"
)

// Provider builds signed ID Site authorization URLs for one application and
// verifies the signed callback responses.  It holds only immutable state and
// is safe for concurrent use.
type Provider struct {
	applicationHref string
	signing         jwt.SigningContext
	logger          hclog.Logger
	nowFunc         func() time.Time
}

// New creates a Provider for the application identified by applicationHref,
// signing and verifying tokens with the given context.
// Supported options: WithLogger, WithNow
func New(applicationHref string, signing jwt.SigningContext, opt ...Option) (*Provider, error) {
	const op = "idsite.New"
	if applicationHref == "" {
		return nil, fmt.Errorf("%s: application href is empty: %w", op, ErrInvalidParameter)
	}
	if err := signing.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid signing context: %w", op, err)
	}
	opts := getProviderOpts(opt...)
	return &Provider{
		applicationHref: applicationHref,
		signing:         signing,
		logger:          opts.withLogger,
		nowFunc:         opts.withNow,
	}, nil
}

func (p *Provider) now() time.Time {
	if p.nowFunc != nil {
		return p.nowFunc()
	}
	return time.Now()
}

// AuthorizationURL builds the URL an application redirects an end user to in
// order to start the hosted login (or logout) flow.  The URL carries a signed
// request token as its jwtRequest query parameter.  Construction is pure: no
// network call is made, and the caller performs the redirect.
//
// WithCallbackURI is required; an empty callback URI fails locally with the
// same 400/400 error the service would return, before anything is signed.
// Supported options: WithCallbackURI, WithPath, WithState, WithLogout
func (p *Provider) AuthorizationURL(ssoBaseURL string, opt ...Option) (string, error) {
	const op = "idsite.(Provider).AuthorizationURL"
	if ssoBaseURL == "" {
		return "", fmt.Errorf("%s: sso base URL is empty: %w", op, ErrInvalidParameter)
	}
	opts := getURLOpts(opt...)
	if opts.withCallbackURI == "" {
		return "", fmt.Errorf("%s: %w", op, errInvalidCallbackURI())
	}
	u, err := url.Parse(ssoBaseURL)
	if err != nil {
		return "", fmt.Errorf("%s: sso base URL %q is invalid: %w", op, ssoBaseURL, ErrInvalidParameter)
	}

	jti, err := uuid.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("%s: unable to generate jti: %w", op, err)
	}
	claims := map[string]interface{}{
		"iat":    p.now().Unix(),
		"jti":    jti,
		"aud":    p.signing.Issuer,
		"sub":    p.applicationHref,
		"cb_uri": opts.withCallbackURI,
		"path":   opts.withPath,
		"state":  opts.withState,
	}
	token, err := jwt.Encode(claims, p.signing)
	if err != nil {
		return "", fmt.Errorf("%s: unable to sign authorization request: %w", op, err)
	}

	endpoint := ssoPath
	if opts.withLogout {
		endpoint = ssoLogoutPath
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + endpoint
	q := u.Query()
	q.Set(requestParam, token)
	u.RawQuery = q.Encode()
	if p.logger != nil {
		p.logger.Debug("built ID Site authorization url", "logout", opts.withLogout, "jti", jti)
	}
	return u.String(), nil
}
