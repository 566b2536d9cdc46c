package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ondrejk/taskwell/internal/api"
	"github.com/ondrejk/taskwell/internal/forms"
	"github.com/ondrejk/taskwell/internal/session"
)

var loginOTP bool

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with a password or a one-time passcode",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show whether a valid session is held",
	RunE:  runWhoami,
}

func init() {
	loginCmd.Flags().BoolVar(&loginOTP, "otp", false, "Sign in with an emailed one-time passcode")
}

func runLogin(cmd *cobra.Command, args []string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	defer ring.Close()
	client := newClient(ring)

	// Login is an auth-only view: an already-valid session goes straight to
	// the dashboard instead.
	guard := session.NewGuard(ring, client, nil)
	if guard.Evaluate() == session.VerdictAuthorized {
		fmt.Println("Already signed in. Run 'taskwell dashboard' to open your tasks.")
		return nil
	}

	values := forms.LoginValues{Method: forms.MethodPassword}
	if loginOTP {
		values.Method = forms.MethodOTP
	} else if !cmd.Flags().Changed("otp") {
		if err := forms.NewMethodForm(&values.Method).Run(); err != nil {
			return err
		}
	}

	if values.Method == forms.MethodOTP {
		return loginWithOTP(ring, client, &values)
	}

	if err := forms.NewPasswordLoginForm(&values).Run(); err != nil {
		return err
	}
	creds, err := client.Login(values.Email, values.Password)
	if err != nil {
		return err
	}
	if err := ring.SaveCredentials(creds.Access, creds.Refresh); err != nil {
		return err
	}
	fmt.Println("Signed in. Run 'taskwell dashboard' to open your tasks.")
	return nil
}

func loginWithOTP(ring *session.Keyring, client *api.Client, values *forms.LoginValues) error {
	if err := forms.NewOTPEmailForm(values).Run(); err != nil {
		return err
	}

	// The resend control stays disabled until the cooldown reaches zero.
	limiter := session.NewOTPLimiter(ring)
	if limiter.Allow() {
		if err := client.RequestOTP(values.Email); err != nil {
			return err
		}
		if err := limiter.MarkRequested(); err != nil {
			return err
		}
		fmt.Println("Passcode sent, check your email.")
	} else {
		fmt.Printf("A passcode was already sent; you can request a new one in %d seconds.\n",
			int(limiter.Remaining().Seconds()))
	}

	if err := forms.NewOTPCodeForm(values).Run(); err != nil {
		return err
	}
	creds, err := client.LoginOTP(values.Email, values.OTP)
	if err != nil {
		return err
	}
	if err := ring.SaveCredentials(creds.Access, creds.Refresh); err != nil {
		return err
	}
	fmt.Println("Signed in. Run 'taskwell dashboard' to open your tasks.")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	defer ring.Close()
	client := newClient(ring)

	guard := session.NewGuard(ring, client, nil)
	if guard.Evaluate() == session.VerdictAuthorized {
		fmt.Println("Already signed in. Run 'taskwell logout' first to register another account.")
		return nil
	}

	var values forms.RegisterValues
	if err := forms.NewRegistrationForm(&values).Run(); err != nil {
		return err
	}

	// Second phase: the async server-side password policy check, run after
	// the synchronous shape checks and before submit.
	violations, err := client.ValidatePassword(values.Password)
	if err != nil {
		return err
	}
	if len(violations) > 0 {
		return fmt.Errorf("password rejected: %s", strings.Join(violations, " "))
	}

	if err := client.Register(values.Email, values.Password, values.Confirm); err != nil {
		return err
	}
	fmt.Println("Verification email sent successfully. Verify your address, then run 'taskwell login'.")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	defer ring.Close()

	if err := ring.ClearCredentials(); err != nil {
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}
	defer ring.Close()
	client := newClient(ring)

	guard := session.NewGuard(ring, client, nil)
	switch guard.Evaluate() {
	case session.VerdictAuthorized:
		fmt.Println("Signed in with a valid session.")
	default:
		fmt.Println("Not signed in. Run 'taskwell login'.")
	}
	return nil
}
