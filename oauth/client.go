package oauth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"

	sdkHttp "github.com/hashicorp/stormpath/sdk/http"
)

type ClientSecret string

// RedactedClientSecret is the redacted string or json for an API key secret
const RedactedClientSecret = "[REDACTED: client secret]"

// String will redact the client secret
func (t ClientSecret) String() string {
	return RedactedClientSecret
}

// MarshalJSON will redact the client secret
func (t ClientSecret) MarshalJSON() ([]byte, error) {
	return json.Marshal(RedactedClientSecret)
}

// Client issues token grants against one application's token endpoint.  It
// holds only immutable state and is safe for concurrent use; the underlying
// http.Client manages its own connection pool.
type Client struct {
	baseHref     string
	clientID     string
	clientSecret ClientSecret
	client       *http.Client
	logger       hclog.Logger
}

// NewClient creates a Client for the application at baseHref, authenticating
// to the service with the API key id and secret.
// Supported options: WithHTTPClient, WithProviderCA, WithLogger
func NewClient(baseHref string, clientID string, clientSecret ClientSecret, opt ...Option) (*Client, error) {
	const op = "oauth.NewClient"
	if baseHref == "" {
		return nil, fmt.Errorf("%s: base href is empty: %w", op, ErrInvalidParameter)
	}
	if clientID == "" {
		return nil, fmt.Errorf("%s: client id is empty: %w", op, ErrInvalidParameter)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%s: client secret is empty: %w", op, ErrInvalidParameter)
	}
	u, err := url.Parse(baseHref)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return nil, fmt.Errorf("%s: base href %q is invalid: %w", op, baseHref, ErrInvalidParameter)
	}

	opts := getClientOpts(opt...)
	httpClient := opts.withHTTPClient
	if httpClient == nil {
		httpClient, err = sdkHttp.NewClient(opts.withProviderCA)
		if err != nil {
			if errors.Is(err, sdkHttp.ErrInvalidCertificatePem) {
				return nil, fmt.Errorf("%s: could not parse CA PEM value: %w", op, ErrInvalidCACert)
			}
			return nil, fmt.Errorf("%s: could not get an http client: %w", op, err)
		}
	}
	return &Client{
		baseHref:     strings.TrimSuffix(baseHref, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		client:       httpClient,
		logger:       opts.withLogger,
	}, nil
}

// clientOptions is the set of available options for NewClient
type clientOptions struct {
	withHTTPClient *http.Client
	withProviderCA string
	withLogger     hclog.Logger
}

// clientDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func clientDefaults() clientOptions {
	return clientOptions{}
}

// getClientOpts gets the defaults and applies the opt overrides passed in.
func getClientOpts(opt ...Option) clientOptions {
	opts := clientDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// Option defines a common functional options type
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		o(opts)
	}
}

// WithHTTPClient provides an optional http client to send requests with,
// replacing the default pooled client.
func WithHTTPClient(client *http.Client) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withHTTPClient = client
		}
	}
}

// WithProviderCA provides an optional CA cert to trust when sending requests
// to the service.
func WithProviderCA(cert string) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withProviderCA = cert
		}
	}
}

// WithLogger provides an optional logger for the client
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*clientOptions); ok {
			o.withLogger = l
		}
	}
}
