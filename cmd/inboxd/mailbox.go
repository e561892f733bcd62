package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
)

var mailboxCmd = &cobra.Command{
	Use:   "mailbox",
	Short: "Manage mailboxes (list, add, switch, rename, discover)",
}

var mailboxListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured mailboxes",
	RunE: func(cmd *cobra.Command, args []string) error {
		infos := reg.List()
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		}

		if len(infos) == 0 {
			fmt.Println("No mailboxes configured.")
			return nil
		}
		display.Header(fmt.Sprintf("Mailboxes (%d)", len(infos)))
		for _, info := range infos {
			status := "loaded"
			if !info.Loaded {
				status = "service_error"
			}
			email := info.Email
			if email == "" {
				email = display.Dim.Render("(not loaded)")
			}
			fmt.Printf("  %s %s  %s\n", display.StatusDot(status), display.MailboxLabel(info.MailboxID, info.Current), email)
		}
		return nil
	},
}

var mailboxAddCmd = &cobra.Command{
	Use:   "add ID",
	Short: "Add a new mailbox (runs the authorization flow if needed)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := reg.Add(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}
		display.SuccessMsg("Added mailbox %q (%s) — current: %s, total: %d",
			result.MailboxID, result.Email, result.CurrentMailbox, result.TotalMailboxes)
		return nil
	},
}

var mailboxSwitchCmd = &cobra.Command{
	Use:   "switch ID",
	Short: "Switch the current mailbox",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !reg.Switch(args[0]) {
			return fmt.Errorf("mailbox %q not found", args[0])
		}
		if !quietFlag {
			display.SuccessMsg("Switched to mailbox %q", args[0])
		}
		return nil
	},
}

var mailboxRenameCmd = &cobra.Command{
	Use:   "rename OLD NEW",
	Short: "Rename a mailbox, moving its on-disk record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := reg.Rename(args[0], args[1]); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Renamed mailbox %q to %q", args[0], args[1])
		}
		return nil
	},
}

var mailboxDiscoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Rescan the mailbox root and report every mailbox's status",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := reg.Discover(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		display.Header(report.Message)
		for _, m := range report.Discovered {
			line := fmt.Sprintf("  %s %s", display.StatusDot(m.Status), m.MailboxID)
			if m.Email != "" {
				line += "  " + m.Email
			}
			if m.Status != "loaded" {
				line += "  " + display.Dim.Render(m.Message)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	mailboxCmd.AddCommand(mailboxListCmd)
	mailboxCmd.AddCommand(mailboxAddCmd)
	mailboxCmd.AddCommand(mailboxSwitchCmd)
	mailboxCmd.AddCommand(mailboxRenameCmd)
	mailboxCmd.AddCommand(mailboxDiscoverCmd)
	rootCmd.AddCommand(mailboxCmd)
}
