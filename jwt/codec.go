package jwt

import (
	"encoding/json"
	"fmt"
	"strings"

	jose "gopkg.in/square/go-jose.v2"
)

// AlgHS256 is the only signing algorithm the codec accepts.  Tokens whose
// header claims any other algorithm are rejected before verification.
const AlgHS256 = "HS256"

// SigningContext carries the shared-secret signing material for a single API
// client.  It is a value type and is never mutated after construction: the
// Issuer is the API key id used as the issuer/audience of signed tokens, and
// the Secret is the API key secret the HS256 signature is keyed with.
type SigningContext struct {
	// Issuer is the API key id of the owning client.
	Issuer string

	// Secret is the shared signing secret.
	Secret []byte
}

// Validate the signing context.
func (sc SigningContext) Validate() error {
	const op = "jwt.(SigningContext).Validate"
	if sc.Issuer == "" {
		return fmt.Errorf("%s: issuer is empty: %w", op, ErrInvalidParameter)
	}
	if len(sc.Secret) == 0 {
		return fmt.Errorf("%s: secret is empty: %w", op, ErrInvalidParameter)
	}
	return nil
}

// Encode signs the claims under the context's secret and returns the compact
// serialization header.claims.signature.  The header is always
// {"alg":"HS256","typ":"JWT"}.
func Encode(claims map[string]interface{}, sc SigningContext) (string, error) {
	const op = "jwt.Encode"
	if claims == nil {
		return "", fmt.Errorf("%s: claims are nil: %w", op, ErrInvalidParameter)
	}
	if err := sc.Validate(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%s: unable to marshal claims: %w", op, err)
	}
	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.HS256, Key: sc.Secret},
		(&jose.SignerOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", fmt.Errorf("%s: unable to create signer: %w", op, err)
	}
	jws, err := signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("%s: unable to sign claims: %w", op, err)
	}
	token, err := jws.CompactSerialize()
	if err != nil {
		return "", fmt.Errorf("%s: unable to serialize token: %w", op, err)
	}
	return token, nil
}

// Decode verifies the token's signature under the context's secret and
// returns its claims.  It fails with ErrMalformedToken when the token is not
// three '.'-delimited base64url/JSON segments, ErrUnsupportedAlgorithm when
// the header algorithm is not HS256, and ErrSignatureInvalid when the
// recomputed signature does not match.  Signature comparison is constant
// time.
func Decode(token string, sc SigningContext) (map[string]interface{}, error) {
	const op = "jwt.Decode"
	if token == "" {
		return nil, fmt.Errorf("%s: token is empty: %w", op, ErrInvalidParameter)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(strings.Split(token, ".")) != 3 {
		return nil, fmt.Errorf("%s: token does not have three segments: %w", op, ErrMalformedToken)
	}
	jws, err := jose.ParseSigned(token)
	if err != nil {
		return nil, fmt.Errorf("%s: unable to parse token: %w", op, ErrMalformedToken)
	}
	if len(jws.Signatures) != 1 {
		return nil, fmt.Errorf("%s: token does not have exactly one signature: %w", op, ErrMalformedToken)
	}
	// Check the allow-list before touching the signature, so an attacker
	// controlled header cannot select the verification algorithm.
	if alg := jws.Signatures[0].Header.Algorithm; alg != AlgHS256 {
		return nil, fmt.Errorf("%s: algorithm %q is not allowed: %w", op, alg, ErrUnsupportedAlgorithm)
	}
	payload, err := jws.Verify(sc.Secret)
	if err != nil {
		return nil, fmt.Errorf("%s: signature verification failed: %w", op, ErrSignatureInvalid)
	}
	var claims map[string]interface{}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("%s: unable to unmarshal claims: %w", op, ErrMalformedToken)
	}
	return claims, nil
}
