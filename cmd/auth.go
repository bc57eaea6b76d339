package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/polybites/polybites-cli/credentials"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

// Auth login command flags.
var (
	authLoginUserID string
	authLoginEmail  string
	authLoginToken  string
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the signed-in viewer session",
		Long: `Sign in, sign out, and inspect the stored viewer session.

The session lives in the config directory with the access token encrypted
at rest. The encryption key is held in the system keyring; set
POLYBITES_ENCRYPTION_KEY for headless environments.`,
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the viewer session",
		Long: `Sign in by storing your account id and access token.

The access token is read from --token, or prompted for with hidden input
when the flag is omitted. The account id is verified against the profile
service before the session is saved.

Examples:
  polybites auth login --user-id 5f3c...e2
  polybites auth login --user-id 5f3c...e2 --token "$POLYBITES_TOKEN"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(authLoginUserID) == "" {
				return fmt.Errorf("%w: --user-id is required", pberrors.ErrValidation)
			}
			if err := deps.init(); err != nil {
				return err
			}

			token := authLoginToken
			if token == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Access token: ")
				raw, err := term.ReadPassword(int(os.Stdin.Fd()))
				fmt.Fprintln(cmd.OutOrStdout())
				if err != nil {
					return fmt.Errorf("reading token: %w", err)
				}
				token = strings.TrimSpace(string(raw))
			}
			if token == "" {
				return fmt.Errorf("%w: access token is required", pberrors.ErrValidation)
			}

			// The profile lookup confirms the account exists and gives us the
			// display name to seed into review rendering.
			profile, err := deps.Client.ProfileByAuthID(cmd.Context(), authLoginUserID)
			if err != nil {
				return fmt.Errorf("verifying account: %w", err)
			}

			session := &credentials.Session{
				UserID: authLoginUserID,
				Name:   profile.Name,
				Email:  authLoginEmail,
				Token:  token,
			}
			if err := deps.SaveSession(session); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", displayIdentity(session))
			return nil
		},
	}
	loginCmd.Flags().StringVar(&authLoginUserID, "user-id", "", "account id (required)")
	loginCmd.Flags().StringVar(&authLoginEmail, "email", "", "sign-in email")
	loginCmd.Flags().StringVar(&authLoginToken, "token", "", "access token (prompted when omitted)")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Sign out and delete the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.DropSession(); err != nil {
				return fmt.Errorf("removing session: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := deps.LoadSession()
			if err != nil {
				if err == credentials.ErrNoSession {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				if err == credentials.ErrExpiredSession {
					fmt.Fprintln(cmd.OutOrStdout(), "Session expired. Run 'polybites auth login'.")
					return nil
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Signed in as %s\n", displayIdentity(session))
			fmt.Fprintf(out, "  user id:  %s\n", session.UserID)
			if session.Email != "" {
				fmt.Fprintf(out, "  email:    %s\n", session.Email)
			}
			if session.Token != "" {
				fmt.Fprintf(out, "  token:    %s\n", credentials.MaskToken(session.Token))
			}
			fmt.Fprintf(out, "  expires:  %s\n", credentials.FormatExpiry(session.ExpiresAt))
			return nil
		},
	}

	cmd.AddCommand(loginCmd)
	cmd.AddCommand(logoutCmd)
	cmd.AddCommand(whoamiCmd)
	return cmd
}

// displayIdentity prefers the profile name over the bare account id.
func displayIdentity(session *credentials.Session) string {
	if session.Name != "" {
		return session.Name
	}
	return session.UserID
}
