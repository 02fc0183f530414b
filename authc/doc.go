// Package authc authenticates account credentials directly against an
// application's login endpoint, without the hosted redirect flow or an OAuth
// grant.
//
// A login attempt can optionally be pinned to a single account store (a
// directory, group or organization mapped to the application).  The pin is
// passed through verbatim: when the account does not live in the named
// store the service rejects the attempt, and this package never widens the
// search to other stores.
package authc
