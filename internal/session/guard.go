package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verdict is the gate's decision for one evaluation. It is recomputed on
// every gated entry and never persisted.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictAuthorized
	VerdictUnauthorized
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case VerdictAuthorized:
		return "authorized"
	case VerdictUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// ExpiryDecoder extracts the expiry timestamp from an access token. ok is
// false when the token carries no decodable expiry, which the guard treats
// as "must refresh".
type ExpiryDecoder interface {
	DecodeExpiry(token string) (expiry time.Time, ok bool)
}

// Refresher mints a new access token from a refresh token. The API client
// implements it.
type Refresher interface {
	RefreshToken(refresh string) (string, error)
}

// Guard decides whether the current user holds a valid credential before a
// protected view is entered, refreshing it transparently when expired.
type Guard struct {
	ring      *Keyring
	refresher Refresher
	decoder   ExpiryDecoder
	now       func() time.Time
}

// NewGuard creates a guard over the given keyring and refresh endpoint. A
// nil decoder defaults to JWT expiry decoding.
func NewGuard(ring *Keyring, refresher Refresher, decoder ExpiryDecoder) *Guard {
	if decoder == nil {
		decoder = JWTDecoder{}
	}
	return &Guard{
		ring:      ring,
		refresher: refresher,
		decoder:   decoder,
		now:       time.Now,
	}
}

// Evaluate produces the authorization verdict for one gated entry:
// no stored token is unauthorized; a token with a future expiry is
// authorized without any network call; an expired or undecodable token
// triggers exactly one refresh attempt.
func (g *Guard) Evaluate() Verdict {
	access, err := g.ring.AccessToken()
	if err != nil || access == "" {
		return VerdictUnauthorized
	}

	expiry, ok := g.decoder.DecodeExpiry(access)
	if ok && !expiry.Before(g.now()) {
		return VerdictAuthorized
	}
	return g.Refresh()
}

// Refresh sends the stored refresh token to the refresh endpoint. On success
// the new access token is stored and the verdict is authorized. On any
// failure the verdict is unauthorized; the stored pair is left as-is —
// clearing is an explicit logout action, never a side effect of this path.
func (g *Guard) Refresh() Verdict {
	refresh, err := g.ring.RefreshToken()
	if err != nil || refresh == "" {
		return VerdictUnauthorized
	}

	access, err := g.refresher.RefreshToken(refresh)
	if err != nil {
		return VerdictUnauthorized
	}
	if err := g.ring.Set(KeyAccessToken, access); err != nil {
		return VerdictUnauthorized
	}
	return VerdictAuthorized
}

// JWTDecoder reads the exp claim from a JWT without verifying its signature.
// The server is the only party that validates tokens; the client only needs
// the expiry to decide whether a refresh is due.
type JWTDecoder struct{}

// DecodeExpiry implements ExpiryDecoder.
func (JWTDecoder) DecodeExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
