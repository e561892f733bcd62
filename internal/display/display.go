// Package display provides terminal formatting for inboxd output.
package display

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	Warn     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
)

// StatusDot returns a colored dot for a mailbox discovery status.
func StatusDot(status string) string {
	switch status {
	case "loaded":
		return Success.Render("●")
	case "missing_credential":
		return Warn.Render("○")
	case "service_error":
		return ErrStyle.Render("●")
	default:
		return Dim.Render("·")
	}
}

// MailboxLabel renders a mailbox id, marking the current one.
func MailboxLabel(id string, current bool) string {
	if current {
		return Bold.Render(id) + Muted.Render(" (current)")
	}
	return id
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	fmt.Println(Success.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// WarnMsg prints a yellow marker + message to stderr.
func WarnMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, Warn.Render("!")+" "+fmt.Sprintf(format, args...))
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}

// Email prints one message summary as an indented block.
func Email(index int, mailboxID, id, from, subject, date, snippet string) {
	tag := ""
	if mailboxID != "" {
		tag = Muted.Render(fmt.Sprintf(" [%s]", mailboxID))
	}
	fmt.Printf("[%d]%s %s\n", index, tag, Bold.Render(Truncate(subject, 70)))
	fmt.Printf("    %s %s\n", Muted.Render("From:"), from)
	fmt.Printf("    %s %s  %s %s\n", Muted.Render("ID:"), id, Muted.Render("Date:"), Dim.Render(date))
	if snippet = strings.TrimSpace(snippet); snippet != "" {
		fmt.Printf("    %s\n", Dim.Render(Truncate(snippet, 100)))
	}
}
