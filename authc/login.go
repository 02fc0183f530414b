package authc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"

	"github.com/hashicorp/stormpath/apierror"
)

const loginAttemptsPath = "/loginAttempts"

// LoginRequest describes one login attempt.  It is a value object: construct
// it, pass it to Authenticate, discard it.
type LoginRequest struct {
	// Login is the account's username or email.
	Login string

	// Password is the account's plaintext password; it leaves the process
	// only inside the login attempt body.
	Password string

	// AccountStoreHref optionally pins the attempt to one directory, group
	// or organization.  When empty every account store mapped to the
	// application is searched.
	AccountStoreHref string
}

func (r LoginRequest) validate() error {
	const op = "authc.(LoginRequest).validate"
	var retErr *multierror.Error
	if r.Login == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: login is empty: %w", op, ErrInvalidParameter))
	}
	if r.Password == "" {
		retErr = multierror.Append(retErr, fmt.Errorf("%s: password is empty: %w", op, ErrInvalidParameter))
	}
	return retErr.ErrorOrNil()
}

// Account is the expanded account snapshot the service returns with a
// successful login attempt.
type Account struct {
	Href      string `json:"href"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	GivenName string `json:"givenName"`
	Surname   string `json:"surname"`
	Status    string `json:"status"`
}

// AuthenticationResult is a successful login attempt's outcome.  Nothing is
// persisted by this package; the result is the caller's to keep or discard.
type AuthenticationResult struct {
	// AccountHref locates the authenticated account.
	AccountHref string

	// Account is the expanded account snapshot.
	Account *Account
}

type resourceRef struct {
	Href string `json:"href"`
}

type loginAttempt struct {
	Type         string       `json:"type"`
	Value        string       `json:"value"`
	AccountStore *resourceRef `json:"accountStore,omitempty"`
}

// Authenticate posts the login attempt to the application's login endpoint
// and returns the account it resolved to.  When the request pins an account
// store, a rejection from the service is surfaced as-is: the attempt is
// never re-run against other stores, and no failure is retried.
func (c *Client) Authenticate(ctx context.Context, r LoginRequest) (*AuthenticationResult, error) {
	const op = "authc.(Client).Authenticate"
	if err := r.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	attempt := loginAttempt{
		Type:  "basic",
		Value: base64.StdEncoding.EncodeToString([]byte(r.Login + ":" + r.Password)),
	}
	if r.AccountStoreHref != "" {
		attempt.AccountStore = &resourceRef{Href: r.AccountStoreHref}
	}
	body, err := json.Marshal(attempt)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to marshal login attempt: %w", op, err)
	}

	endpoint := c.applicationHref + loginAttemptsPath + "?expand=account"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: unable to create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.clientID, string(c.clientSecret))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: login attempt request failed: %w: %w", op, apierror.ErrTransport, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s: %w", op, apierror.FromResponse(resp))
	}
	defer resp.Body.Close()
	var decoded struct {
		Account Account `json:"account"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: unable to decode response: %w", op, err)
	}
	if c.logger != nil {
		c.logger.Debug("login attempt succeeded", "account", decoded.Account.Href)
	}
	result := &AuthenticationResult{AccountHref: decoded.Account.Href}
	if decoded.Account.Username != "" || decoded.Account.Email != "" {
		account := decoded.Account
		result.Account = &account
	}
	return result, nil
}
