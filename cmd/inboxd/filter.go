package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
	"github.com/inboxd/inboxd/internal/mail"
)

var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "Manage mail filters on the current mailbox",
}

var filtersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		filters, err := sess.Mail.ListFilters(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(filters)
		}
		if len(filters) == 0 {
			fmt.Println("No filters.")
			return nil
		}
		for i, f := range filters {
			printFilter(i+1, f)
		}
		return nil
	},
}

var filtersGetCmd = &cobra.Command{
	Use:   "get ID",
	Short: "Show one filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		f, err := sess.Mail.GetFilter(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(f)
		}
		printFilter(1, *f)
		return nil
	},
}

var (
	filterFrom          string
	filterTo            string
	filterSubject       string
	filterQuery         string
	filterHasAttachment bool
	filterAddLabels     []string
	filterRemoveLabels  []string
	filterForward       string
	filterNeverSpam     bool

	filtersCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create a filter",
		Example: `  inboxd filters create --from news@example.com --add-label Newsletters
  inboxd filters create --query "subject:(invoice)" --never-spam`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			criteria := mail.FilterCriteria{
				From:          filterFrom,
				To:            filterTo,
				Subject:       filterSubject,
				Query:         filterQuery,
				HasAttachment: filterHasAttachment,
			}
			if criteria == (mail.FilterCriteria{}) {
				return fmt.Errorf("at least one criteria flag is required")
			}

			ctx := cmd.Context()
			action := mail.FilterAction{
				Forward:   filterForward,
				NeverSpam: filterNeverSpam,
			}
			for _, name := range filterAddLabels {
				match, err := rtr.ResolveLabel(ctx, name)
				if err != nil {
					return err
				}
				action.AddLabelIDs = append(action.AddLabelIDs, match.ID)
			}
			for _, name := range filterRemoveLabels {
				match, err := rtr.ResolveLabel(ctx, name)
				if err != nil {
					return err
				}
				action.RemoveLabelIDs = append(action.RemoveLabelIDs, match.ID)
			}

			f, err := sess.Mail.CreateFilter(ctx, criteria, action)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(f)
			}
			display.SuccessMsg("Created filter %s", f.ID)
			return nil
		},
	}
)

var filtersDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a filter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		if err := sess.Mail.DeleteFilter(cmd.Context(), args[0]); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Deleted filter %s", args[0])
		}
		return nil
	},
}

func printFilter(index int, f mail.Filter) {
	fmt.Printf("%s %s\n", display.Bold.Render(fmt.Sprintf("%d.", index)), f.ID)
	var parts []string
	if f.Criteria.From != "" {
		parts = append(parts, "from:"+f.Criteria.From)
	}
	if f.Criteria.To != "" {
		parts = append(parts, "to:"+f.Criteria.To)
	}
	if f.Criteria.Subject != "" {
		parts = append(parts, "subject:"+f.Criteria.Subject)
	}
	if f.Criteria.Query != "" {
		parts = append(parts, f.Criteria.Query)
	}
	if f.Criteria.HasAttachment {
		parts = append(parts, "has:attachment")
	}
	fmt.Printf("   %s %s\n", display.Muted.Render("Match:"), strings.Join(parts, " "))

	var acts []string
	if len(f.Action.AddLabelIDs) > 0 {
		acts = append(acts, "add "+strings.Join(f.Action.AddLabelIDs, ","))
	}
	if len(f.Action.RemoveLabelIDs) > 0 {
		acts = append(acts, "remove "+strings.Join(f.Action.RemoveLabelIDs, ","))
	}
	if f.Action.Forward != "" {
		acts = append(acts, "forward to "+f.Action.Forward)
	}
	if f.Action.NeverSpam {
		acts = append(acts, "never spam")
	}
	fmt.Printf("   %s %s\n", display.Muted.Render("Action:"), strings.Join(acts, "; "))
}

func init() {
	filtersCreateCmd.Flags().StringVar(&filterFrom, "from", "", "Match sender address")
	filtersCreateCmd.Flags().StringVar(&filterTo, "to", "", "Match recipient address")
	filtersCreateCmd.Flags().StringVar(&filterSubject, "subject", "", "Match subject text")
	filtersCreateCmd.Flags().StringVar(&filterQuery, "query", "", "Match a raw search query")
	filtersCreateCmd.Flags().BoolVar(&filterHasAttachment, "has-attachment", false, "Match messages with attachments")
	filtersCreateCmd.Flags().StringSliceVar(&filterAddLabels, "add-label", nil, "Label to apply (repeatable)")
	filtersCreateCmd.Flags().StringSliceVar(&filterRemoveLabels, "remove-label", nil, "Label to remove (repeatable)")
	filtersCreateCmd.Flags().StringVar(&filterForward, "forward", "", "Forward matches to this address")
	filtersCreateCmd.Flags().BoolVar(&filterNeverSpam, "never-spam", false, "Never send matches to spam")

	filtersCmd.AddCommand(filtersListCmd)
	filtersCmd.AddCommand(filtersGetCmd)
	filtersCmd.AddCommand(filtersCreateCmd)
	filtersCmd.AddCommand(filtersDeleteCmd)
	rootCmd.AddCommand(filtersCmd)
}
