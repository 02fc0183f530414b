// Package idsite supports the hosted, redirect-based single-sign-on flow
// where the identity management service renders the login UI itself ("ID
// Site").
//
// A Provider builds the signed authorization URL an application redirects an
// end user to (AuthorizationURL), and verifies the signed token the service
// posts back to the application's callback URI (HandleCallback).  Both
// directions use the compact HS256 token format implemented by the jwt
// package, signed with the API client's shared secret.
//
// No claim from a callback token is ever exposed to the caller until every
// validation check has passed; the only successful output is a Result.
package idsite
