package oauth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// TestAccount is an account registered with a TestIdentityServer.
type TestAccount struct {
	Href       string
	Username   string
	Email      string
	Password   string
	GivenName  string
	Surname    string
	StoreHrefs []string
}

// TestIdentityServer is an httptest server faking the identity management
// service's application surface: the token endpoint (password and refresh
// grants), token validation, token revocation, and login attempts.  It is
// intended for tests of this SDK and of its consumers.
type TestIdentityServer struct {
	t            *testing.T
	httpServer   *httptest.Server
	clientID     string
	clientSecret string

	mu       sync.Mutex
	accounts map[string]TestAccount // keyed by login (username or email)
	tokens   map[string]string      // access token -> login
	refresh  map[string]string      // refresh token -> login
	revoked  map[string]bool        // access token -> revoked
	seq      int
}

// StartTestIdentityServer creates and starts a running TestIdentityServer.
// The server is stopped when the test (and its subtests) complete.
func StartTestIdentityServer(t *testing.T, clientID string, clientSecret string) *TestIdentityServer {
	t.Helper()
	s := &TestIdentityServer{
		t:            t,
		clientID:     clientID,
		clientSecret: clientSecret,
		accounts:     map[string]TestAccount{},
		tokens:       map[string]string{},
		refresh:      map[string]string{},
		revoked:      map[string]bool{},
	}
	s.httpServer = httptest.NewServer(s)
	t.Cleanup(s.httpServer.Close)
	return s
}

// URL is the base URL the test server is listening on.
func (s *TestIdentityServer) URL() string { return s.httpServer.URL }

// Stop stops the server immediately.  Handy for tests that need the server
// gone before the test's cleanup runs, e.g. to provoke transport failures.
func (s *TestIdentityServer) Stop() { s.httpServer.Close() }

// ApplicationHref is the href of the server's single test application; use
// it as the base href for clients under test.
func (s *TestIdentityServer) ApplicationHref() string {
	return s.httpServer.URL + "/v1/applications/testapp"
}

// SetAccount registers (or replaces) an account, addressable by both its
// username and its email.
func (s *TestIdentityServer) SetAccount(a TestAccount) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.Href == "" {
		a.Href = s.httpServer.URL + "/v1/accounts/" + a.Username
	}
	s.accounts[a.Username] = a
	if a.Email != "" {
		s.accounts[a.Email] = a
	}
}

// ServeHTTP implements http.Handler.
func (s *TestIdentityServer) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.t.Helper()
	switch {
	case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/oauth/token"):
		s.handleToken(w, req)
	case req.Method == http.MethodGet && strings.Contains(req.URL.Path, "/authTokens/"):
		s.handleValidate(w, req)
	case req.Method == http.MethodDelete && strings.Contains(req.URL.Path, "/accessTokens/"):
		s.handleRevoke(w, req)
	case req.Method == http.MethodPost && strings.HasSuffix(req.URL.Path, "/loginAttempts"):
		s.handleLoginAttempt(w, req)
	default:
		writeTestError(w, http.StatusNotFound, 404, "The requested resource does not exist.", "")
	}
}

func (s *TestIdentityServer) handleToken(w http.ResponseWriter, req *http.Request) {
	if !s.checkBasicAuth(w, req) {
		return
	}
	if err := req.ParseForm(); err != nil {
		writeTestError(w, http.StatusBadRequest, 400, "unparseable form body", "")
		return
	}
	var login string
	switch req.PostForm.Get("grant_type") {
	case "password":
		a, ok := s.lookupAccount(req.PostForm.Get("username"))
		if !ok || a.Password != req.PostForm.Get("password") {
			writeTestError(w, http.StatusBadRequest, 7100,
				"Login attempt failed because the specified password is incorrect.",
				"Login attempt failed because the specified password is incorrect.")
			return
		}
		login = a.Username
	case "refresh_token":
		s.mu.Lock()
		l, ok := s.refresh[req.PostForm.Get("refresh_token")]
		s.mu.Unlock()
		if !ok {
			writeTestError(w, http.StatusBadRequest, 10011, "Token is invalid",
				"Token is no longer valid because it has been revoked or is unknown.")
			return
		}
		// the consumed refresh token is one-time use
		s.mu.Lock()
		delete(s.refresh, req.PostForm.Get("refresh_token"))
		s.mu.Unlock()
		login = l
	default:
		writeTestError(w, http.StatusBadRequest, 400, "unsupported grant type", "")
		return
	}

	access, refreshToken, href := s.issue(login)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"access_token":                access,
		"refresh_token":               refreshToken,
		"token_type":                  "bearer",
		"expires_in":                  3600,
		"stormpath_access_token_href": href,
	})
}

func (s *TestIdentityServer) handleValidate(w http.ResponseWriter, req *http.Request) {
	token := req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
	s.mu.Lock()
	login, issued := s.tokens[token]
	revoked := s.revoked[token]
	var account TestAccount
	if issued {
		account = s.accounts[login]
	}
	s.mu.Unlock()
	if !issued || revoked {
		writeTestError(w, http.StatusNotFound, 10011, "Token is invalid",
			"Token does not exist. It has either been revoked or it is expired.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"href":        s.httpServer.URL + "/v1/accessTokens/" + token,
		"account":     map[string]string{"href": account.Href},
		"application": map[string]string{"href": s.ApplicationHref()},
		"tenant":      map[string]string{"href": s.httpServer.URL + "/v1/tenants/testtenant"},
		"jwt":         token,
		"expandedJwt": map[string]interface{}{
			"claims": map[string]interface{}{"sub": account.Href},
		},
	})
}

func (s *TestIdentityServer) handleRevoke(w http.ResponseWriter, req *http.Request) {
	if !s.checkBasicAuth(w, req) {
		return
	}
	token := req.URL.Path[strings.LastIndex(req.URL.Path, "/")+1:]
	s.mu.Lock()
	s.revoked[token] = true
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *TestIdentityServer) handleLoginAttempt(w http.ResponseWriter, req *http.Request) {
	if !s.checkBasicAuth(w, req) {
		return
	}
	var attempt struct {
		Type         string `json:"type"`
		Value        string `json:"value"`
		AccountStore *struct {
			Href string `json:"href"`
		} `json:"accountStore"`
	}
	if err := json.NewDecoder(req.Body).Decode(&attempt); err != nil || attempt.Type != "basic" {
		writeTestError(w, http.StatusBadRequest, 400, "unparseable login attempt", "")
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(attempt.Value)
	if err != nil {
		writeTestError(w, http.StatusBadRequest, 400, "unparseable login attempt value", "")
		return
	}
	login, password, ok := strings.Cut(string(decoded), ":")
	if !ok {
		writeTestError(w, http.StatusBadRequest, 400, "unparseable login attempt value", "")
		return
	}
	a, found := s.lookupAccount(login)
	if !found || a.Password != password {
		writeTestError(w, http.StatusBadRequest, 7100,
			"Login attempt failed because the specified password is incorrect.",
			"Login attempt failed because the specified password is incorrect.")
		return
	}
	if attempt.AccountStore != nil && attempt.AccountStore.Href != "" {
		inStore := false
		for _, href := range a.StoreHrefs {
			if href == attempt.AccountStore.Href {
				inStore = true
				break
			}
		}
		if !inStore {
			writeTestError(w, http.StatusBadRequest, 7104,
				"Login attempt failed because there is no Account in the Application's associated Account Stores.",
				"Login attempt failed because there is no Account in the specified Account Store.")
			return
		}
	}

	accountBody := map[string]interface{}{"href": a.Href}
	if req.URL.Query().Get("expand") == "account" {
		accountBody = map[string]interface{}{
			"href":      a.Href,
			"username":  a.Username,
			"email":     a.Email,
			"givenName": a.GivenName,
			"surname":   a.Surname,
			"status":    "ENABLED",
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"account": accountBody})
}

func (s *TestIdentityServer) lookupAccount(login string) (TestAccount, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[login]
	return a, ok
}

func (s *TestIdentityServer) issue(login string) (access, refreshToken, href string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	access = fmt.Sprintf("test-access-token-%d", s.seq)
	refreshToken = fmt.Sprintf("test-refresh-token-%d", s.seq)
	s.tokens[access] = login
	s.refresh[refreshToken] = login
	return access, refreshToken, s.httpServer.URL + "/v1/accessTokens/" + access
}

func (s *TestIdentityServer) checkBasicAuth(w http.ResponseWriter, req *http.Request) bool {
	id, secret, ok := req.BasicAuth()
	if !ok || id != s.clientID || secret != s.clientSecret {
		writeTestError(w, http.StatusUnauthorized, 401, "Authentication required.", "")
		return false
	}
	return true
}

func writeTestError(w http.ResponseWriter, status, code int, message, developerMessage string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":           status,
		"code":             code,
		"message":          message,
		"developerMessage": developerMessage,
	})
}
