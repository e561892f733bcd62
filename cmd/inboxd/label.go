package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/display"
	"github.com/inboxd/inboxd/internal/mail"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Manage labels on the current mailbox",
}

var labelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all labels",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		labels, err := sess.Mail.ListLabels(cmd.Context())
		if err != nil {
			return err
		}
		return printLabels(cmd, labels, "No labels.")
	},
}

var labelsCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		l, err := sess.Mail.CreateLabel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(l)
		}
		display.SuccessMsg("Created label %q (%s)", l.Name, l.ID)
		return nil
	},
}

var labelsApplyCmd = &cobra.Command{
	Use:   "apply MESSAGE LABEL",
	Short: "Apply a label to a message (accepts approximate label names)",
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
		if err := sess.Mail.ApplyLabel(cmd.Context(), args[0], match.ID); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Applied %q to message %s", match.Name, args[0])
		}
		return nil
	},
}

var labelsRemoveCmd = &cobra.Command{
	Use:   "remove MESSAGE LABEL",
	Short: "Remove a label from a message",
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
		if err := sess.Mail.RemoveLabel(cmd.Context(), args[0], match.ID); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Removed %q from message %s", match.Name, args[0])
		}
		return nil
	},
}

var labelsRenameCmd = &cobra.Command{
	Use:   "rename LABEL NEW_NAME",
	Short: "Rename a label",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		match, err := rtr.ResolveLabel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		l, err := sess.Mail.RenameLabel(cmd.Context(), match.ID, args[1])
		if err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Renamed %q to %q", match.Name, l.Name)
		}
		return nil
	},
}

var labelsDeleteCmd = &cobra.Command{
	Use:   "delete LABEL",
	Short: "Delete a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		match, err := rtr.ResolveLabel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := sess.Mail.DeleteLabel(cmd.Context(), match.ID); err != nil {
			return err
		}
		if !quietFlag {
			display.SuccessMsg("Deleted label %q", match.Name)
		}
		return nil
	},
}

var (
	labelSearchMax int64

	labelsSearchCmd = &cobra.Command{
		Use:   "search LABEL",
		Short: "List messages carrying a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := rtr.Current()
			if err != nil {
				return err
			}
			match, err := rtr.ResolveLabel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			msgs, err := sess.Mail.SearchByLabel(cmd.Context(), match.ID, labelSearchMax)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(msgs)
			}
			if len(msgs) == 0 {
				fmt.Printf("No messages with label %q.\n", match.Name)
				return nil
			}
			for i, m := range msgs {
				display.Email(i+1, "", m.ID, m.From, m.Subject, m.Date, m.Snippet)
			}
			return nil
		},
	}
)

var (
	labelFindMax int

	labelsFindCmd = &cobra.Command{
		Use:   "find TERM",
		Short: "Find labels by approximate name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matches, err := rtr.FindLabels(cmd.Context(), args[0], labelFindMax)
			if err != nil {
				return err
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(matches)
			}
			if len(matches) == 0 {
				fmt.Printf("No labels match %q.\n", args[0])
				return nil
			}
			for _, m := range matches {
				fmt.Printf("%s %s %s\n",
					display.Bold.Render(m.Name),
					display.Muted.Render(m.ID),
					display.Dim.Render(fmt.Sprintf("score %d", m.Score)))
			}
			return nil
		},
	}
)

var foldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "List folders (user labels) on the current mailbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := rtr.Current()
		if err != nil {
			return err
		}
		folders, err := sess.Mail.ListFolders(cmd.Context())
		if err != nil {
			return err
		}
		return printLabels(cmd, folders, "No folders.")
	},
}

func printLabels(cmd *cobra.Command, labels []mail.Label, emptyMsg string) error {
	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(labels)
	}
	if len(labels) == 0 {
		fmt.Println(emptyMsg)
		return nil
	}
	for _, l := range labels {
		counts := ""
		if l.MessagesTotal > 0 {
			counts = display.Dim.Render(fmt.Sprintf(" (%d messages, %d unread)", l.MessagesTotal, l.MessagesUnread))
		}
		fmt.Printf("%s %s%s\n", display.Bold.Render(l.Name), display.Muted.Render(l.ID), counts)
	}
	return nil
}

func init() {
	labelsSearchCmd.Flags().Int64VarP(&labelSearchMax, "limit", "n", 50, "Maximum messages to list")
	labelsFindCmd.Flags().IntVarP(&labelFindMax, "limit", "n", 10, "Maximum matches to show")

	labelsCmd.AddCommand(labelsListCmd)
	labelsCmd.AddCommand(labelsCreateCmd)
	labelsCmd.AddCommand(labelsApplyCmd)
	labelsCmd.AddCommand(labelsRemoveCmd)
	labelsCmd.AddCommand(labelsRenameCmd)
	labelsCmd.AddCommand(labelsDeleteCmd)
	labelsCmd.AddCommand(labelsSearchCmd)
	labelsCmd.AddCommand(labelsFindCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(foldersCmd)
}
