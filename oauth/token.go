package oauth

import (
	"time"

	"golang.org/x/oauth2"
)

const expirySkew = 10 * time.Second

// hrefField is the extra token-endpoint response field locating the access
// token resource; it is the handle RevokeToken deletes.
const hrefField = "stormpath_access_token_href"

// Token is the access/refresh token pair returned by a successful grant.
// The caller owns it once returned; the client keeps no copy.
type Token struct {
	// AccessToken is the bearer token presented on authenticated requests.
	AccessToken string

	// RefreshToken can be exchanged for a new pair via RefreshGrant.
	RefreshToken string

	// TokenType is the scheme the access token is used with ("bearer").
	TokenType string

	// ExpiresIn is the access token lifetime in seconds, as reported by the
	// service at issue time.
	ExpiresIn int

	// Href locates the access token resource on the service.
	Href string

	// Expiry is the local time the access token expires at.
	Expiry time.Time
}

func (t *Token) Expired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return t.Expiry.Round(0).Before(time.Now().Add(expirySkew))
}

func (t *Token) Valid() bool {
	if t == nil {
		return false
	}
	if t.AccessToken == "" {
		return false
	}
	return !t.Expired()
}

// newToken normalizes an oauth2 token and its extra response fields into a
// Token.
func newToken(ot *oauth2.Token) *Token {
	t := &Token{
		AccessToken:  ot.AccessToken,
		RefreshToken: ot.RefreshToken,
		TokenType:    ot.TokenType,
		Expiry:       ot.Expiry,
	}
	if href, ok := ot.Extra(hrefField).(string); ok {
		t.Href = href
	}
	if expiresIn, ok := ot.Extra("expires_in").(float64); ok {
		t.ExpiresIn = int(expiresIn)
	}
	return t
}
