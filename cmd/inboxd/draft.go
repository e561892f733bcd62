package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Work with drafts in the current mailbox",
}

var (
	draftTo      string
	draftSubject string
	draftBody    string

	draftCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			d, err := sess.Mail.CreateDraft(cmd.Context(), draftTo, draftSubject, draftBody)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			display.SuccessMsg("Created draft %s", d.ID)
			return nil
		},
	}
)

var draftListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drafts",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		drafts, err := sess.Mail.ListDrafts(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(drafts)
		}
		if len(drafts) == 0 {
			fmt.Println("No drafts.")
			return nil
		}
		for i, d := range drafts {
			subject := d.Subject
			if subject == "" {
				subject = "(no subject)"
			}
			fmt.Printf("%s %s\n", display.Bold.Render(fmt.Sprintf("%d.", i+1)), subject)
			fmt.Printf("   %s %s\n", display.Muted.Render("To:"), defaultStr(d.To, "(none)"))
			fmt.Printf("   %s %s\n", display.Muted.Render("ID:"), d.ID)
			if d.Snippet != "" {
				fmt.Printf("   %s\n", display.Dim.Render(display.Truncate(d.Snippet, 80)))
			}
		}
		return nil
	},
}

func defaultStr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	draftCreateCmd.Flags().StringVar(&draftTo, "to", "", "Recipient address")
	draftCreateCmd.Flags().StringVar(&draftSubject, "subject", "", "Draft subject")
	draftCreateCmd.Flags().StringVar(&draftBody, "body", "", "Draft body")
	draftCreateCmd.MarkFlagRequired("to")

	draftCmd.AddCommand(draftCreateCmd)
	draftCmd.AddCommand(draftListCmd)
	rootCmd.AddCommand(draftCmd)
}
