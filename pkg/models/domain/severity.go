package domain

import "strings"

// Severity is the normalized risk tier of a finding.
type Severity string

const (
	SeverityHigh    Severity = "high"
	SeverityMedium  Severity = "medium"
	SeverityLow     Severity = "low"
	SeverityUnknown Severity = "unknown"
)

// Severities lists every severity from most to least urgent.
func Severities() []Severity {
	return []Severity{SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown}
}

// ParseSeverity maps free text ("High", "medium risk") and DISA category
// numerals (I, II, III) onto the closed severity set. It never fails.
func ParseSeverity(s string) Severity {
	v := strings.ToLower(strings.TrimSpace(s))

	switch v {
	case "i":
		return SeverityHigh
	case "ii":
		return SeverityMedium
	case "iii":
		return SeverityLow
	}

	switch {
	case strings.Contains(v, "high"):
		return SeverityHigh
	case strings.Contains(v, "medium"):
		return SeverityMedium
	case strings.Contains(v, "low"):
		return SeverityLow
	default:
		return SeverityUnknown
	}
}

func (s Severity) Valid() bool {
	switch s {
	case SeverityHigh, SeverityMedium, SeverityLow, SeverityUnknown:
		return true
	}
	return false
}

// Rank orders severities for sorting: high sorts first, unknown (and
// anything invalid) last.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// CKL returns the checklist spelling of the severity.
func (s Severity) CKL() string {
	return strings.ToUpper(string(s))
}

func (s Severity) String() string {
	return string(s)
}
