package session

import (
	"strconv"
	"time"
)

// OTPCooldown is how long the resend control stays disabled after a
// passcode request.
const OTPCooldown = 600 * time.Second

// OTPLimiter enforces the client-side cooldown between one-time passcode
// requests. The last request timestamp lives in the keyring so the cooldown
// survives process restarts.
type OTPLimiter struct {
	ring *Keyring
	now  func() time.Time
}

// NewOTPLimiter creates a limiter over the given keyring.
func NewOTPLimiter(ring *Keyring) *OTPLimiter {
	return &OTPLimiter{ring: ring, now: time.Now}
}

// Remaining returns how much of the cooldown is left, zero when a new
// request is allowed.
func (l *OTPLimiter) Remaining() time.Duration {
	raw, err := l.ring.Get(KeyOTPRequestedAt)
	if err != nil || raw == "" {
		return 0
	}
	unix, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	elapsed := l.now().Sub(time.Unix(unix, 0))
	// A timestamp from the future (clock rollback) must not lock the
	// resend control beyond one full cooldown.
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= OTPCooldown {
		return 0
	}
	return OTPCooldown - elapsed
}

// Allow reports whether a passcode request may be sent now.
func (l *OTPLimiter) Allow() bool {
	return l.Remaining() == 0
}

// MarkRequested records that a passcode request was just sent, starting the
// cooldown.
func (l *OTPLimiter) MarkRequested() error {
	return l.ring.Set(KeyOTPRequestedAt, strconv.FormatInt(l.now().Unix(), 10))
}
