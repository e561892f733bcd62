package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/inboxd/inboxd/internal/registry"
	"github.com/inboxd/inboxd/internal/router"
	"github.com/inboxd/inboxd/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

var (
	mailboxDir      string
	credentialsFile string
	startMailbox    string
	jsonOutput      bool
	quietFlag       bool
	maxItems        int

	logger *slog.Logger
	reg    *registry.Registry
	rtr    *router.Router
)

var rootCmd = &cobra.Command{
	Use:   "inboxd",
	Short: "inboxd - multi-account Gmail mailbox registry",
	Long: `Inboxd manages any number of independent Gmail accounts, each with its
own OAuth credential and local cache directory, and fans mail operations
out across them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if runsWithoutRegistry(cmd) {
			return nil
		}
		return initRegistry(cmd)
	},
}

// runsWithoutRegistry reports whether cmd works without a discovered
// registry. Checked against every ancestor so the generated completion
// subcommands (whose own names are shell names) are covered too.
func runsWithoutRegistry(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", "migrate":
			return true
		}
	}
	return false
}

// initRegistry builds the registry from the mailbox root, discovers every
// mailbox, and picks the current one: --mailbox when given, otherwise the
// first loaded mailbox.
func initRegistry(cmd *cobra.Command) error {
	if mailboxDir == "" {
		return fmt.Errorf("mailbox directory not set — use --mailbox-dir or INBOXD_MAILBOX_DIR")
	}

	reg = registry.New(mailboxDir, newFactory(), logger)
	if _, err := reg.Discover(cmd.Context()); err != nil {
		return err
	}

	loaded := reg.IDs()
	if startMailbox != "" {
		if reg.Switch(startMailbox) {
			// requested mailbox exists and is now current
		} else if len(loaded) == 0 {
			// Nothing discovered: create the requested mailbox. This may
			// start the interactive authorization flow.
			if _, err := reg.Add(cmd.Context(), startMailbox); err != nil {
				return fmt.Errorf("create mailbox %q: %w", startMailbox, err)
			}
		} else {
			return fmt.Errorf("mailbox %q not found — available: %s", startMailbox, strings.Join(loaded, ", "))
		}
	} else if len(loaded) > 0 {
		reg.Switch(loaded[0])
	}

	rtr = router.New(reg, logger)
	rtr.MaxItems = maxItems
	return nil
}

func newFactory() session.Factory {
	return &session.GoogleFactory{CredentialsFile: credentialsFile, Log: logger}
}

// parseMailboxes turns the --mailboxes flag into router target semantics:
// unset means current mailbox, "all" means every mailbox.
func parseMailboxes(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("inboxd version %s\n", Version)
	},
}

func init() {
	// .env keeps credential locations out of shell history.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&mailboxDir, "mailbox-dir", os.Getenv("INBOXD_MAILBOX_DIR"), "Directory containing mailbox subdirectories")
	rootCmd.PersistentFlags().StringVar(&credentialsFile, "credentials", os.Getenv("INBOXD_CREDENTIALS"), "OAuth 2.0 client credentials file")
	rootCmd.PersistentFlags().StringVar(&startMailbox, "mailbox", "", "Mailbox to use as current (created if none exist)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().IntVar(&maxItems, "max", 100, "Cap on merged multi-mailbox results")

	cobra.OnInitialize(func() {
		level := slog.LevelInfo
		if quietFlag {
			level = slog.LevelWarn
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	})

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
