package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/commentify/commentify/internal/pairing"
	"github.com/commentify/commentify/internal/session"
)

// newPairCmd creates the 'pair' command group
func (a *App) newPairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Pair this session with the browser extension",
		Long: `The browser extension holds the credential comment jobs act with.
Pairing writes a payload to local state for the extension to read, then
polls the server until the extension reports in or the handshake
deadline passes.`,
	}

	cmd.AddCommand(
		a.newPairConnectCmd(),
		a.newPairDisconnectCmd(),
		a.newPairStatusCmd(),
	)

	return cmd
}

// newManager wires a pairing manager for the current session
func (a *App) newManager(d *deps, sess *session.Session) (*pairing.Manager, error) {
	timeout, err := d.cfg.PairingTimeout()
	if err != nil {
		return nil, err
	}
	interval, err := d.cfg.PairingInterval()
	if err != nil {
		return nil, err
	}

	user := pairing.Identity{
		UserID: sess.UserID,
		Email:  sess.Email,
		Token:  sess.Token,
	}
	mgr := pairing.NewManager(d.client, d.store, d.sink, user, timeout, interval)
	mgr.SetVerbose(a.verbose)
	return mgr, nil
}

// newPairConnectCmd creates 'pair connect': arms the handshake and
// blocks until it settles.
func (a *App) newPairConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Start the pairing handshake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			sess, err := d.currentSession()
			if err != nil {
				return err
			}

			mgr, err := a.newManager(d, sess)
			if err != nil {
				return err
			}
			defer mgr.Close()

			// If the extension is already paired from a previous run,
			// the initial check settles the phase without arming.
			phase, err := mgr.CheckNow(cmd.Context())
			if err == nil && phase == pairing.PhaseConnected {
				fmt.Println("Extension already connected.")
				return nil
			}
			if phase == pairing.PhaseWrongUser {
				return fmt.Errorf("extension is paired to a different account; run 'commentify pair disconnect' first")
			}

			if err := mgr.Connect(cmd.Context()); err != nil {
				return err
			}

			switch mgr.Wait(cmd.Context()) {
			case pairing.PhaseConnected:
				return nil
			case pairing.PhaseExpired:
				return fmt.Errorf("pairing timed out")
			case pairing.PhaseWrongUser:
				return fmt.Errorf("extension paired to a different account")
			default:
				return fmt.Errorf("pairing cancelled")
			}
		},
	}
}

// newPairDisconnectCmd creates 'pair disconnect'
func (a *App) newPairDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Remove the extension pairing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			sess, err := d.currentSession()
			if err != nil {
				return err
			}

			mgr, err := a.newManager(d, sess)
			if err != nil {
				return err
			}
			return mgr.Disconnect(cmd.Context())
		},
	}
}

// newPairStatusCmd creates 'pair status': a one-shot phase check
func (a *App) newPairStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the extension is paired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.wire()
			if err != nil {
				return err
			}
			defer d.Close()

			sess, err := d.currentSession()
			if err != nil {
				return err
			}

			mgr, err := a.newManager(d, sess)
			if err != nil {
				return err
			}

			phase, err := mgr.CheckNow(cmd.Context())
			if err != nil {
				return fmt.Errorf("status check failed: %w", err)
			}

			switch phase {
			case pairing.PhaseConnected:
				fmt.Println("Extension connected.")
			case pairing.PhaseWrongUser:
				fmt.Println("Extension paired to a different account.")
			default:
				fmt.Println("Extension not connected.")
			}
			return nil
		},
	}
}
