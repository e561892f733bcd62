package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/mail"
	"github.com/inboxd/inboxd/internal/router"
	"github.com/inboxd/inboxd/internal/session"
)

var (
	searchMailboxes string
	searchMax       int64
)

var searchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search messages with Gmail query syntax",
	Example: `  inboxd search "from:someone@example.com"
  inboxd search "subject:urgent is:unread" -n 20
  inboxd search "newer_than:7d" --mailboxes all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		results, err := router.Fanout(cmd.Context(), rtr, parseMailboxes(searchMailboxes), "search",
			func(ctx context.Context, s *session.Session) ([]mail.EmailSummary, error) {
				return s.Mail.Search(ctx, query, searchMax)
			})
		if err != nil {
			return err
		}
		return printSummaries(cmd, results, "No messages found matching: "+query)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchMailboxes, "mailboxes", "", `Target mailboxes (comma-separated, or "all"; default: current)`)
	searchCmd.Flags().Int64VarP(&searchMax, "limit", "n", 50, "Maximum messages per mailbox")
	rootCmd.AddCommand(searchCmd)
}
