package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear per-mailbox caches",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache directory state for every mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		status := reg.CacheStatus()
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		ids := make([]string, 0, len(status))
		for id := range status {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			st := status[id]
			display.Header(id)
			fmt.Printf("  %s %s\n", display.Muted.Render("dir:"), st.CacheDir)
			for _, name := range []string{"labels", "profile"} {
				f := st.Files[name]
				if !f.Exists {
					fmt.Printf("  %-8s %s\n", name, display.Dim.Render("absent"))
					continue
				}
				mod := time.Unix(f.Modified, 0).Format(time.RFC3339)
				fmt.Printf("  %-8s %d bytes, modified %s\n", name, f.Size, mod)
			}
		}
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [ID]",
	Short: "Clear cached labels and profile data (credential is kept)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if !reg.RefreshCache(args[0]) {
				return fmt.Errorf("mailbox %q not found", args[0])
			}
			if !quietFlag {
				display.SuccessMsg("Cleared caches for mailbox %q", args[0])
			}
			return nil
		}

		reg.ClearAllCaches()
		if !quietFlag {
			display.SuccessMsg("Cleared caches for all mailboxes")
		}
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
