package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
	"github.com/inboxd/inboxd/internal/mail"
	"github.com/inboxd/inboxd/internal/router"
	"github.com/inboxd/inboxd/internal/session"
)

var (
	unreadMailboxes string
	unreadMax       int64
)

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "List unread inbox messages",
	Long: `List unread messages from the current mailbox, specific mailboxes,
or all of them. Multi-mailbox results are fetched sequentially and each
item is tagged with its mailbox id.`,
	Example: `  inboxd unread
  inboxd unread --mailboxes all
  inboxd unread --mailboxes personal,work -n 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := router.Fanout(cmd.Context(), rtr, parseMailboxes(unreadMailboxes), "list-unread",
			func(ctx context.Context, s *session.Session) ([]mail.EmailSummary, error) {
				return s.Mail.Unread(ctx, unreadMax)
			})
		if err != nil {
			return err
		}
		return printSummaries(cmd, results, "No unread messages.")
	},
}

// printSummaries renders a tagged summary list as JSON or human output.
func printSummaries(cmd *cobra.Command, results []router.Tagged[mail.EmailSummary], emptyMsg string) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	if len(results) == 0 {
		fmt.Println(emptyMsg)
		return nil
	}
	for i, r := range results {
		display.Email(i+1, r.MailboxID, r.Item.ID, r.Item.From, r.Item.Subject, r.Item.Date, r.Item.Snippet)
	}
	return nil
}

func init() {
	unreadCmd.Flags().StringVar(&unreadMailboxes, "mailboxes", "", `Target mailboxes (comma-separated, or "all"; default: current)`)
	unreadCmd.Flags().Int64VarP(&unreadMax, "limit", "n", 5, "Maximum messages per mailbox")
	rootCmd.AddCommand(unreadCmd)
}
