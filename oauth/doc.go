// Package oauth implements the token grants the identity management service
// exposes on an application's /oauth/token endpoint: the password grant, the
// refresh grant, bearer token validation, and token revocation.
//
// The Client normalizes every successful grant into a Token value and routes
// every failed response through the apierror package, so callers always
// branch on the service's status and code fields.  Nothing is retried and no
// token is cached: a refresh or validation happens only when the caller asks
// for it.
package oauth
