package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/commentify/commentify/internal/notify"
	"github.com/commentify/commentify/internal/session"
)

// newLoginCmd creates the 'login' command
// Args: email (required)
// The password is prompted without echo; piped stdin is read directly.
func (a *App) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Authenticate against the queue service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			password, err := readPassword()
			if err != nil {
				return err
			}

			sess, err := session.Login(cmd.Context(), d.client, d.store, args[0], password)
			if err != nil {
				notify.Errorf(d.sink, "Login failed", "%v", err)
				return err
			}

			notify.Infof(d.sink, "Welcome back!", "Logged in as %s", sess.Email)
			return nil
		},
	}
}

// newRegisterCmd creates the 'register' command
func (a *App) newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <email>",
		Short: "Create an account on the queue service",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			password, err := readPassword()
			if err != nil {
				return err
			}

			resp, err := d.client.Register(cmd.Context(), args[0], args[1], password)
			if err != nil {
				notify.Errorf(d.sink, "Registration failed", "%v", err)
				return err
			}
			if err := d.store.SaveToken(resp.Token); err != nil {
				return fmt.Errorf("persist token: %w", err)
			}

			notify.Infof(d.sink, "Account created", "Registered and logged in as %s", resp.User.Email)
			return nil
		},
	}
}

// newWhoamiCmd creates the 'whoami' command, which verifies the stored
// token against the server rather than only reading local claims.
func (a *App) newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account the stored session belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			if _, err := d.currentSession(); err != nil {
				return err
			}

			user, err := d.client.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			return nil
		},
	}
}

// newLogoutCmd creates the 'logout' command
func (a *App) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear local state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			// The server call is best-effort; local state is always
			// cleared so the device ends up logged out regardless.
			if err := session.Logout(cmd.Context(), d.client, d.store); err != nil && a.verbose {
				fmt.Fprintf(os.Stderr, "logout: %v\n", err)
			}

			notify.Infof(d.sink, "Logged out", "You have been successfully logged out")
			return nil
		},
	}
}

// readPassword prompts for a password without echo when attached to a
// terminal, and reads a single line otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimSpace(line), nil
}
