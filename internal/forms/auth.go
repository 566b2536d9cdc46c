package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Login methods.
const (
	MethodPassword = "password"
	MethodOTP      = "otp"
)

// LoginValues collects login form input.
type LoginValues struct {
	Email    string
	Password string
	OTP      string
	Method   string
}

// RegisterValues collects registration form input. The password policy check
// is a separate async step run by the submit path, not part of the form.
type RegisterValues struct {
	Email    string
	Password string
	Confirm  string
}

// theme is the shared huh theme for all taskwell forms.
func theme() *huh.Theme {
	t := huh.ThemeBase()

	indigo := lipgloss.Color("#6366F1")
	gray := lipgloss.Color("#6B7280")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#EF4444")

	t.Group.Title = lipgloss.NewStyle().Foreground(indigo).Bold(true).MarginBottom(1)
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(indigo)
	t.Focused.Title = lipgloss.NewStyle().Foreground(indigo).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(red).SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(red)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(indigo)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(grayLight)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(indigo).SetString("> ")
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(indigo).Bold(true)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().Foreground(gray)

	return t
}

// NewMethodForm asks which login factor to use.
func NewMethodForm(method *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Login method").
				Options(
					huh.NewOption("Password", MethodPassword),
					huh.NewOption("One-time passcode", MethodOTP),
				).
				Value(method),
		).Title("Sign in"),
	).WithTheme(theme())
}

// NewPasswordLoginForm collects email and password.
func NewPasswordLoginForm(v *LoginValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Placeholder("you@example.com").
				Value(&v.Email).
				Validate(ValidateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password).
				Validate(ValidateRequired),
		).Title("Sign in"),
	).WithTheme(theme())
}

// NewOTPEmailForm collects the address a passcode should be mailed to.
func NewOTPEmailForm(v *LoginValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Placeholder("you@example.com").
				Value(&v.Email).
				Validate(ValidateEmail),
		).Title("Sign in with passcode"),
	).WithTheme(theme())
}

// NewOTPCodeForm collects the six-digit passcode.
func NewOTPCodeForm(v *LoginValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("One-time passcode").
				Description("Check your email for the 6-digit code").
				CharLimit(6).
				Value(&v.OTP).
				Validate(ValidateOTP),
		),
	).WithTheme(theme())
}

// NewRegistrationForm collects registration input with the synchronous shape
// checks. Confirm compares against the password field at submit time.
func NewRegistrationForm(v *RegisterValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email address").
				Placeholder("you@example.com").
				Value(&v.Email).
				Validate(ValidateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Password).
				Validate(ValidateRequired),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&v.Confirm).
				Validate(MatchesPassword(&v.Password)),
		).Title("Register an account"),
	).WithTheme(theme())
}
