package idsite

import (
	"time"

	"github.com/hashicorp/go-hclog"
)

// Option defines a common functional options type
type Option func(interface{})

// ApplyOpts takes a pointer to the options struct as a set of default options
// and applies the slice of opts as overrides.
func ApplyOpts(opts interface{}, opt ...Option) {
	for _, o := range opt {
		o(opts)
	}
}

// providerOptions is the set of available options for New
type providerOptions struct {
	withLogger hclog.Logger
	withNow    func() time.Time
}

// providerDefaults is a handy way to get the defaults at runtime and during
// unit tests.
func providerDefaults() providerOptions {
	return providerOptions{
		withNow: time.Now,
	}
}

// getProviderOpts gets the provider defaults and applies the opt overrides
// passed in.
func getProviderOpts(opt ...Option) providerOptions {
	opts := providerDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// urlOptions is the set of available options for AuthorizationURL
type urlOptions struct {
	withCallbackURI string
	withPath        string
	withState       string
	withLogout      bool
}

func urlDefaults() urlOptions {
	return urlOptions{}
}

func getURLOpts(opt ...Option) urlOptions {
	opts := urlDefaults()
	ApplyOpts(&opts, opt...)
	return opts
}

// WithLogger provides an optional logger for the provider
func WithLogger(l hclog.Logger) Option {
	return func(o interface{}) {
		if o, ok := o.(*providerOptions); ok {
			o.withLogger = l
		}
	}
}

// WithNow provides an optional func to determine the current time, which is
// handy for tests that need a fixed clock.
func WithNow(now func() time.Time) Option {
	return func(o interface{}) {
		if o, ok := o.(*providerOptions); ok {
			o.withNow = now
		}
	}
}

// WithCallbackURI provides the URI the service redirects the end user back to
// once the hosted flow completes.  It is required by AuthorizationURL.
func WithCallbackURI(uri string) Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withCallbackURI = uri
		}
	}
}

// WithPath provides an optional path on the hosted site to send the end user
// to (for example "/#/register").
func WithPath(path string) Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withPath = path
		}
	}
}

// WithState provides optional application state to round-trip through the
// hosted flow; it is returned unchanged in the callback Result.
func WithState(state string) Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withState = state
		}
	}
}

// WithLogout builds a logout URL instead of a login URL, ending the end
// user's hosted session.
func WithLogout() Option {
	return func(o interface{}) {
		if o, ok := o.(*urlOptions); ok {
			o.withLogout = true
		}
	}
}
