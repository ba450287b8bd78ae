package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity defines the importance of a report entry
type Severity uint8

const (
	// SeverityInfo is for purely informational entries
	SeverityInfo Severity = iota
	// SeverityAction records a change that was applied
	SeverityAction
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityAction:
		return "action"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity is the inverse of Severity.String
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "info":
		return SeverityInfo, nil
	case "action":
		return SeverityAction, nil
	case "warning":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	}
	return SeverityInfo, fmt.Errorf("unknown severity: %s", s)
}

// MarshalJSON encodes the severity by name
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity name
func (s *Severity) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Entry is one reported message
type Entry struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Reporter receives report entries
type Reporter interface {
	Report(message string, severity Severity)
}

// Log is an in-memory append-only Reporter
type Log struct {
	entries []Entry
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{}
}

// Report appends an entry
func (l *Log) Report(message string, severity Severity) {
	l.entries = append(l.entries, Entry{Message: message, Severity: severity})
}

// Entries returns a copy of the collected entries in report order
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Len returns the number of entries
func (l *Log) Len() int {
	return len(l.entries)
}

// Clear drops every entry
func (l *Log) Clear() {
	l.entries = nil
}

// HasErrors reports whether any entry has error severity
func (l *Log) HasErrors() bool {
	for _, e := range l.entries {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Counts tallies entries per severity
func (l *Log) Counts() map[Severity]int {
	return CountEntries(l.entries)
}

// CountEntries tallies entries per severity
func CountEntries(entries []Entry) map[Severity]int {
	counts := make(map[Severity]int)
	for _, e := range entries {
		counts[e.Severity]++
	}
	return counts
}

// Discard is a Reporter that drops everything
var Discard Reporter = discard{}

type discard struct{}

func (discard) Report(string, Severity) {}
