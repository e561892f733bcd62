package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
)

var (
	sendTo      string
	sendSubject string
	sendBody    string

	sendCmd = &cobra.Command{
		Use:   "send",
		Short: "Send an email from the current mailbox",
		Example: `  inboxd send --to alice@example.com --subject "Hi" --body "Hello there"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			id, err := sess.Mail.Send(cmd.Context(), sendTo, sendSubject, sendBody)
			if err != nil {
				return err
			}
			if jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "{\"id\": %q}\n", id)
				return nil
			}
			display.SuccessMsg("Sent message %s to %s", id, sendTo)
			return nil
		},
	}
)

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Recipient address")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "Message subject")
	sendCmd.Flags().StringVar(&sendBody, "body", "", "Message body")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("subject")
	sendCmd.MarkFlagRequired("body")
	rootCmd.AddCommand(sendCmd)
}
