package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/polybites/polybites-cli/client"
	pberrors "github.com/polybites/polybites-cli/pkg/errors"
)

// Contact command flags.
var (
	contactSubject string
	contactMessage string
)

// NewContactCommand creates the contact-form command.
func NewContactCommand(deps *Deps) *cobra.Command {
	if deps == nil {
		deps = DefaultDeps()
	}

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the site operators",
		Long: `Send a contact-form message to the site operators.

When signed in, the message carries your profile id so replies can reach
you. Signed-out messages are accepted anonymously.

Examples:
  polybites contact --subject "Wrong hours" --message "The Hearth closes at 8pm"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(contactSubject) == "" {
				return fmt.Errorf("%w: --subject is required", pberrors.ErrValidation)
			}
			if strings.TrimSpace(contactMessage) == "" {
				return fmt.Errorf("%w: --message is required", pberrors.ErrValidation)
			}
			if err := deps.init(); err != nil {
				return err
			}

			msg := client.Message{
				Subject: strings.TrimSpace(contactSubject),
				Message: strings.TrimSpace(contactMessage),
			}
			if viewer, err := deps.viewer(); err != nil {
				return err
			} else if viewer != nil {
				msg.ProfileID = viewer.UserID
			}

			if err := deps.Client.SendMessage(cmd.Context(), msg); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Message sent.")
			return nil
		},
	}

	cmd.Flags().StringVar(&contactSubject, "subject", "", "message subject (required)")
	cmd.Flags().StringVar(&contactMessage, "message", "", "message body (required)")
	return cmd
}
