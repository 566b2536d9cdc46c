package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ondrejk/taskwell/internal/api"
	"github.com/ondrejk/taskwell/internal/config"
	"github.com/ondrejk/taskwell/internal/exitcode"
	"github.com/ondrejk/taskwell/internal/session"
	"github.com/ondrejk/taskwell/internal/task"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "taskwell",
	Short:         "taskwell - terminal client for the task scheduler",
	Long:          `taskwell is a terminal client for a remote task scheduler: sign in with a password or a one-time passcode, then manage and calendar your tasks from the CLI or the interactive dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	apiURL string
	cfg    *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (overrides config and env)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// A .env next to the binary is a convenience for development.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load("")
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		return nil
	}

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the taskwell version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(Version)
	},
}

// openKeyring opens the credential store at its configured location.
func openKeyring() (*session.Keyring, error) {
	return session.OpenKeyring(config.KeyringPath())
}

// newClient builds an API client whose bearer token tracks the keyring, so a
// refresh performed by the guard is picked up by later task calls.
func newClient(ring *session.Keyring) *api.Client {
	return api.NewClient(cfg.APIURL, func() string {
		access, _ := ring.AccessToken()
		return access
	})
}

// errNotSignedIn is the CLI analogue of the redirect to the login page.
var errNotSignedIn = errors.New("not signed in; run 'taskwell login'")

// requireAuth gates a protected command the way a protected route gates a
// view: evaluate the session, refresh transparently when expired, and
// redirect to login otherwise.
func requireAuth(ring *session.Keyring, client *api.Client) error {
	guard := session.NewGuard(ring, client, nil)
	if guard.Evaluate() != session.VerdictAuthorized {
		return errNotSignedIn
	}
	return nil
}

// newStore wires a task store for one command invocation.
func newStore(client *api.Client) *task.Store {
	return task.NewStore(client)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error onto the CLI exit codes.
func exitCodeFor(err error) int {
	if errors.Is(err, errNotSignedIn) {
		return exitcode.AuthError
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindValidation:
			return exitcode.UserError
		case api.KindAuth:
			return exitcode.AuthError
		default:
			return exitcode.BackendError
		}
	}
	return exitcode.UserError
}
