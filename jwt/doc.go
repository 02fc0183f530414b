// Package jwt implements the compact signed token format used by the
// identity management service: three base64url segments
// (header.claims.signature) signed with a shared secret under HS256.
//
// Encode and Decode are pure functions over an explicit SigningContext; the
// package keeps no state between calls.  Decode verifies the signature with a
// constant-time comparison and rejects any token whose header algorithm is
// not HS256, so a token cannot substitute a weaker algorithm to bypass
// verification.
package jwt
