package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// stubDecoder maps tokens to fixed expiries; unknown tokens are undecodable.
type stubDecoder map[string]time.Time

func (d stubDecoder) DecodeExpiry(token string) (time.Time, bool) {
	exp, ok := d[token]
	return exp, ok
}

// stubRefresher counts calls and serves a scripted result.
type stubRefresher struct {
	access string
	err    error
	calls  int
}

func (r *stubRefresher) RefreshToken(refresh string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return r.access, nil
}

func newTestGuard(t *testing.T, decoder ExpiryDecoder, refresher Refresher) (*Guard, *Keyring) {
	t.Helper()
	ring := newTestKeyring(t)
	g := NewGuard(ring, refresher, decoder)
	g.now = func() time.Time { return time.Unix(1_000_000, 0) }
	return g, ring
}

func TestEvaluateNoToken(t *testing.T) {
	refresher := &stubRefresher{}
	g, _ := newTestGuard(t, stubDecoder{}, refresher)

	if v := g.Evaluate(); v != VerdictUnauthorized {
		t.Errorf("verdict = %v, want unauthorized", v)
	}
	if refresher.calls != 0 {
		t.Errorf("refresh calls = %d, want 0", refresher.calls)
	}
}

func TestEvaluateValidToken(t *testing.T) {
	refresher := &stubRefresher{}
	decoder := stubDecoder{"fresh": time.Unix(1_000_100, 0)}
	g, ring := newTestGuard(t, decoder, refresher)

	if err := ring.SaveCredentials("fresh", "R1"); err != nil {
		t.Fatal(err)
	}
	if v := g.Evaluate(); v != VerdictAuthorized {
		t.Errorf("verdict = %v, want authorized", v)
	}
	if refresher.calls != 0 {
		t.Errorf("refresh calls = %d, want 0 (no network call for a valid token)", refresher.calls)
	}
}

func TestEvaluateExpiredTokenRefreshes(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"expired", "stale"},
		{"undecodable", "garbage"},
	}
	decoder := stubDecoder{"stale": time.Unix(999_999, 0)}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refresher := &stubRefresher{access: "minted"}
			g, ring := newTestGuard(t, decoder, refresher)
			if err := ring.SaveCredentials(tt.token, "R1"); err != nil {
				t.Fatal(err)
			}

			if v := g.Evaluate(); v != VerdictAuthorized {
				t.Errorf("verdict = %v, want authorized", v)
			}
			if refresher.calls != 1 {
				t.Errorf("refresh calls = %d, want exactly 1", refresher.calls)
			}
			if access, _ := ring.AccessToken(); access != "minted" {
				t.Errorf("stored access token = %q, want %q", access, "minted")
			}
		})
	}
}

func TestRefreshFailureKeepsTokens(t *testing.T) {
	refresher := &stubRefresher{err: errors.New("token is invalid or expired")}
	decoder := stubDecoder{"stale": time.Unix(1, 0)}
	g, ring := newTestGuard(t, decoder, refresher)
	if err := ring.SaveCredentials("stale", "R1"); err != nil {
		t.Fatal(err)
	}

	if v := g.Evaluate(); v != VerdictUnauthorized {
		t.Errorf("verdict = %v, want unauthorized", v)
	}

	// A failed refresh must never destroy the stored pair.
	access, _ := ring.AccessToken()
	refresh, _ := ring.RefreshToken()
	if access != "stale" || refresh != "R1" {
		t.Errorf("tokens after failed refresh = (%q, %q), want (stale, R1)", access, refresh)
	}
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	refresher := &stubRefresher{access: "minted"}
	g, _ := newTestGuard(t, stubDecoder{}, refresher)

	if v := g.Refresh(); v != VerdictUnauthorized {
		t.Errorf("verdict = %v, want unauthorized", v)
	}
	if refresher.calls != 0 {
		t.Errorf("refresh calls = %d, want 0 without a stored refresh token", refresher.calls)
	}
}

func TestJWTDecoder(t *testing.T) {
	exp := time.Unix(2_000_000_000, 0)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": exp.Unix(),
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token failed: %v", err)
	}

	var d JWTDecoder
	got, ok := d.DecodeExpiry(signed)
	if !ok {
		t.Fatal("DecodeExpiry failed on a well-formed token")
	}
	if !got.Equal(exp) {
		t.Errorf("expiry = %v, want %v", got, exp)
	}

	if _, ok := d.DecodeExpiry("not-a-jwt"); ok {
		t.Error("DecodeExpiry accepted garbage")
	}

	// A token without an exp claim is treated as undecodable.
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := d.DecodeExpiry(noExp); ok {
		t.Error("DecodeExpiry accepted a token without an expiry")
	}
}
