package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
	"github.com/inboxd/inboxd/internal/mail"
)

// Single-message operations act on the current mailbox.

var readCmd = &cobra.Command{
	Use:   "read ID",
	Short: "Read the full content of a message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		msg, err := sess.Mail.Read(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(msg)
		}
		display.Header(msg.Subject)
		fmt.Printf("%s %s\n", display.Muted.Render("From:"), msg.From)
		fmt.Printf("%s %s\n", display.Muted.Render("To:"), msg.To)
		fmt.Printf("%s %s\n\n", display.Muted.Render("Date:"), msg.Date)
		fmt.Println(msg.Body)
		return nil
	},
}

var trashCmd = &cobra.Command{
	Use:   "trash ID",
	Short: "Move a message to trash",
	Args:  cobra.ExactArgs(1),
	RunE:  messageOp("Trashed", mail.Service.Trash),
}

var markReadCmd = &cobra.Command{
	Use:   "mark-read ID",
	Short: "Mark a message as read",
	Args:  cobra.ExactArgs(1),
	RunE:  messageOp("Marked read", mail.Service.MarkRead),
}

var archiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Archive a message (remove from inbox)",
	Args:  cobra.ExactArgs(1),
	RunE:  messageOp("Archived", mail.Service.Archive),
}

var restoreCmd = &cobra.Command{
	Use:   "restore ID",
	Short: "Restore an archived message to the inbox",
	Args:  cobra.ExactArgs(1),
	RunE:  messageOp("Restored", mail.Service.Restore),
}

// messageOp builds a RunE for commands that apply one operation to one
// message ID on the current mailbox.
func messageOp(verb string, op func(mail.Service, context.Context, string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		if err := op(sess.Mail, cmd.Context(), args[0]); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("%s message %s", verb, args[0])
		}
		return nil
	}
}

var moveCmd = &cobra.Command{
	Use:   "move ID FOLDER",
	Short: "Move a message to a folder (accepts approximate folder names)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		match, err := rtr.ResolveLabel(cmd.Context(), args[1])
		if err != nil {
			return err
		}
		if err := sess.Mail.MoveToFolder(cmd.Context(), args[0], match.ID); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Moved message %s to %q", args[0], match.Name)
		}
		return nil
	},
}

var (
	batchArchiveMax int64

	batchArchiveCmd = &cobra.Command{
		Use:   "batch-archive QUERY",
		Short: "Archive every message matching a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			result, err := sess.Mail.BatchArchive(cmd.Context(), args[0], batchArchiveMax)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			display.SuccessMsg("Archived %d of %d message(s)", result.ArchivedCount, result.TotalFound)
			for _, e := range result.Errors {
				display.WarnMsg("%s", e)
			}
			return nil
		},
	}
)

var (
	archivedMax int64

	archivedCmd = &cobra.Command{
		Use:   "archived",
		Short: "List archived messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			msgs, err := sess.Mail.ListArchived(cmd.Context(), archivedMax)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(msgs)
			}
			if len(msgs) == 0 {
				fmt.Println("No archived messages.")
				return nil
			}
			for i, m := range msgs {
				display.Email(i+1, "", m.ID, m.From, m.Subject, m.Date, m.Snippet)
			}
			return nil
		},
	}
)

func init() {
	batchArchiveCmd.Flags().Int64VarP(&batchArchiveMax, "limit", "n", 100, "Maximum messages to archive")
	archivedCmd.Flags().Int64VarP(&archivedMax, "limit", "n", 50, "Maximum messages to list")

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(trashCmd)
	rootCmd.AddCommand(markReadCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(batchArchiveCmd)
	rootCmd.AddCommand(archivedCmd)
}
