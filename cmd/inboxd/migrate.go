package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
	"github.com/inboxd/inboxd/internal/registry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate LEGACY_DIR",
	Short: "Migrate a legacy flat credential directory into the mailbox layout",
	Long: `Migrate copies every "<id>-credential" file from the legacy directory
into a per-mailbox record under --mailbox-dir, then discovers the result.

A bad legacy file is skipped; the summary counts only mailboxes whose
credential was copied successfully.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if mailboxDir == "" {
			return fmt.Errorf("mailbox directory not set — use --mailbox-dir or INBOXD_MAILBOX_DIR")
		}
		if logger == nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		}

		_, result, err := registry.MigrateFromLegacy(cmd.Context(), args[0], mailboxDir, newFactory(), logger)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		display.SuccessMsg("Migrated %d mailbox(es) from %s to %s", result.Migrated, args[0], mailboxDir)
		for _, m := range result.Report.Discovered {
			fmt.Printf("  %s %s  %s\n", display.StatusDot(m.Status), m.MailboxID, display.Dim.Render(m.Message))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
