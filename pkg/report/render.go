package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	actionColor  = lipgloss.AdaptiveColor{Light: "#1B7F3B", Dark: "#5FD787"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#B3261E", Dark: "#FF6B6B"}
	warningColor = lipgloss.AdaptiveColor{Light: "#9A6700", Dark: "#F2C744"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6E6E6E", Dark: "#8A8A8A"}

	severityStyles = map[Severity]lipgloss.Style{
		SeverityInfo:    lipgloss.NewStyle().Foreground(mutedColor),
		SeverityAction:  lipgloss.NewStyle().Foreground(actionColor).Bold(true),
		SeverityWarning: lipgloss.NewStyle().Foreground(warningColor).Bold(true),
		SeverityError:   lipgloss.NewStyle().Foreground(errorColor).Bold(true),
	}

	summaryStyle = lipgloss.NewStyle().MarginTop(1).Bold(true)
)

// Document is the JSON shape of a rendered report
type Document struct {
	Changed bool           `json:"changed"`
	Entries []Entry        `json:"entries"`
	Counts  map[string]int `json:"counts"`
}

// Render writes entries in the given format. FormatAuto is treated as text;
// resolve it against the destination first.
func Render(w io.Writer, entries []Entry, changed bool, format Format) error {
	switch format {
	case FormatJSON:
		return renderJSON(w, entries, changed)
	case FormatTerminal:
		return renderTerminal(w, entries, changed)
	default:
		return renderText(w, entries, changed)
	}
}

func renderJSON(w io.Writer, entries []Entry, changed bool) error {
	doc := Document{
		Changed: changed,
		Entries: entries,
		Counts:  make(map[string]int),
	}
	if doc.Entries == nil {
		doc.Entries = []Entry{}
	}
	for sev, n := range CountEntries(entries) {
		doc.Counts[sev.String()] = n
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

func renderText(w io.Writer, entries []Entry, changed bool) error {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%-7s %s\n", strings.ToUpper(e.Severity.String()), e.Message)
	}
	b.WriteString(summaryLine(entries, changed))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func renderTerminal(w io.Writer, entries []Entry, changed bool) error {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(severityStyles[e.Severity].Render(prefixFor(e.Severity)))
		b.WriteString(" ")
		b.WriteString(e.Message)
		b.WriteString("\n")
	}
	b.WriteString(summaryStyle.Render(summaryLine(entries, changed)))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func prefixFor(sev Severity) string {
	switch sev {
	case SeverityAction:
		return strings.TrimSpace(pterm.Success.Prefix.Text)
	case SeverityWarning:
		return strings.TrimSpace(pterm.Warning.Prefix.Text)
	case SeverityError:
		return strings.TrimSpace(pterm.Error.Prefix.Text)
	default:
		return strings.TrimSpace(pterm.Info.Prefix.Text)
	}
}

func summaryLine(entries []Entry, changed bool) string {
	counts := CountEntries(entries)
	state := "design unchanged"
	if changed {
		state = "design modified"
	}
	return fmt.Sprintf("%d updated, %d up to date, %d failed, %s",
		counts[SeverityAction], counts[SeverityInfo], counts[SeverityError], state)
}
