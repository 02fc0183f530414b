package idsite

import (
	"fmt"
	"net/url"
	"time"

	"github.com/hashicorp/stormpath/jwt"
)

// Statuses the hosted site reports in its callback token.
const (
	StatusAuthenticated = "AUTHENTICATED"
	StatusRegistered    = "REGISTERED"
	StatusLogout        = "LOGOUT"
)

// iatSkew bounds how far into the future a callback token's issued-at claim
// may sit before the token is rejected, allowing for clock drift between the
// service and the local host.
const iatSkew = 10 * time.Second

// Result is the outcome of a successfully verified ID Site callback.  It is
// the only way claims from a callback token reach the caller.
type Result struct {
	// AccountHref locates the account the hosted flow resolved (the token's
	// sub claim).
	AccountHref string

	// Status reports what the end user did on the hosted site, e.g.
	// StatusAuthenticated or StatusRegistered.
	Status string

	// State is the application state passed to AuthorizationURL via
	// WithState, returned unchanged.
	State string

	// IsNewAccount is true when the hosted flow created the account.
	IsNewAccount bool
}

// callbackClaims is the typed view of a callback token's claims.  Known
// claims get named fields; anything else lands in extra so validation stays
// exhaustive while unknown forward-compatible claims are tolerated.  iat and
// exp keep their raw decoded values because a present-but-unparseable value
// is itself a validation failure.
type callbackClaims struct {
	audience string
	subject  string
	status   string
	state    string
	isNewSub bool
	issuedAt interface{}
	expiry   interface{}
	extra    map[string]interface{}
}

func parseCallbackClaims(raw map[string]interface{}) callbackClaims {
	c := callbackClaims{extra: map[string]interface{}{}}
	for k, v := range raw {
		switch k {
		case "aud":
			c.audience, _ = v.(string)
		case "sub":
			c.subject, _ = v.(string)
		case "status":
			c.status, _ = v.(string)
		case "state":
			c.state, _ = v.(string)
		case "isNewSub":
			c.isNewSub, _ = v.(bool)
		case "iat":
			c.issuedAt = v
		case "exp":
			c.expiry = v
		default:
			c.extra[k] = v
		}
	}
	return c
}

// claimCheck validates one aspect of a callback token's claims.  A nil
// return means the check passed.
type claimCheck func(p *Provider, c callbackClaims, now time.Time) *TokenError

// callbackChecks run in order and the first failure wins; later checks never
// see a token an earlier check rejected.
var callbackChecks = []claimCheck{
	checkAudience,
	checkExpiryFormat,
	checkExpired,
	checkIssuedAt,
}

// checkAudience requires the token to be addressed to this client's API key
// id.  A mismatch reports the service's issued-at error pair; see error.go.
func checkAudience(p *Provider, c callbackClaims, _ time.Time) *TokenError {
	if c.audience != p.signing.Issuer {
		return errIssuedAtAfterNow()
	}
	return nil
}

func checkExpiryFormat(_ *Provider, c callbackClaims, _ time.Time) *TokenError {
	if c.expiry == nil {
		return nil
	}
	if _, ok := c.expiry.(float64); !ok {
		return errTokenInvalid()
	}
	return nil
}

func checkExpired(_ *Provider, c callbackClaims, now time.Time) *TokenError {
	exp, ok := c.expiry.(float64)
	if !ok {
		// absent; tokens without exp do not expire
		return nil
	}
	if !time.Unix(int64(exp), 0).After(now) {
		return errTokenExpired()
	}
	return nil
}

func checkIssuedAt(_ *Provider, c callbackClaims, now time.Time) *TokenError {
	iat, ok := c.issuedAt.(float64)
	if !ok {
		return errTokenInvalid()
	}
	if time.Unix(int64(iat), 0).After(now.Add(iatSkew)) {
		return errIssuedAtAfterNow()
	}
	return nil
}

// HandleCallback extracts the jwtResponse token from the callback URL the
// hosted site redirected the end user to, verifies its signature, runs the
// claim checks in order, and returns a Result.
//
// Codec failures (jwt.ErrSignatureInvalid, jwt.ErrMalformedToken) propagate
// unchanged: they indicate a forged or corrupted response rather than a
// documented service failure.  Claim failures surface as a *TokenError
// carrying the service's code and message pair.
func (p *Provider) HandleCallback(responseURL string) (*Result, error) {
	const op = "idsite.(Provider).HandleCallback"
	if responseURL == "" {
		return nil, fmt.Errorf("%s: response URL is empty: %w", op, ErrInvalidParameter)
	}
	u, err := url.Parse(responseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: response URL is invalid: %w", op, ErrInvalidParameter)
	}
	token := u.Query().Get(responseParam)
	if token == "" {
		return nil, fmt.Errorf("%s: response URL has no %s parameter: %w", op, responseParam, ErrMissingToken)
	}

	raw, err := jwt.Decode(token, p.signing)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims := parseCallbackClaims(raw)
	now := p.now()
	for _, check := range callbackChecks {
		if terr := check(p, claims, now); terr != nil {
			if p.logger != nil {
				p.logger.Debug("rejected ID Site callback token", "code", terr.Code)
			}
			return nil, fmt.Errorf("%s: %w", op, terr)
		}
	}
	return &Result{
		AccountHref:  claims.subject,
		Status:       claims.status,
		State:        claims.state,
		IsNewAccount: claims.isNewSub,
	}, nil
}
