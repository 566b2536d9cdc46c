// Package forms builds the interactive authentication forms.
package forms

import (
	"errors"
	"net/mail"
	"regexp"
)

// maxEmailLen matches the server-side limit.
const maxEmailLen = 320

var otpPattern = regexp.MustCompile(`^\d{6}$`)

// ValidateRequired rejects empty input.
func ValidateRequired(s string) error {
	if s == "" {
		return errors.New("This field is required.")
	}
	return nil
}

// ValidateEmail checks the address shape and length.
func ValidateEmail(s string) error {
	if err := ValidateRequired(s); err != nil {
		return err
	}
	if len(s) > maxEmailLen {
		return errors.New("Email must be at most 320 characters long.")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return errors.New("Enter a valid email address.")
	}
	return nil
}

// ValidateOTP requires exactly six digits.
func ValidateOTP(s string) error {
	if err := ValidateRequired(s); err != nil {
		return err
	}
	if !otpPattern.MatchString(s) {
		return errors.New("OTP must be exactly 6 digits")
	}
	return nil
}

// MatchesPassword validates the confirm field against the password field.
// The pointer is read at submit time, after the password has been entered.
func MatchesPassword(password *string) func(string) error {
	return func(s string) error {
		if err := ValidateRequired(s); err != nil {
			return err
		}
		if s != *password {
			return errors.New("The two password fields didn't match.")
		}
		return nil
	}
}
