package domain

import "strings"

// Status is the reviewer's disposition of a finding. The DISA checklist
// vocabulary is canonical; older exports used lower-case free text which is
// accepted on read through legacyStatuses.
type Status string

const (
	StatusOpen          Status = "Open"
	StatusNotAFinding   Status = "NotAFinding"
	StatusNotApplicable Status = "Not_Applicable"
	StatusNotReviewed   Status = "Not_Reviewed"
)

// Statuses lists the canonical statuses in display order.
func Statuses() []Status {
	return []Status{StatusOpen, StatusNotAFinding, StatusNotApplicable, StatusNotReviewed}
}

// legacy -> canonical
var legacyStatuses = map[string]Status{
	"not applicable": StatusNotApplicable,
	"not finding":    StatusNotAFinding,
	"open":           StatusOpen,
	"default":        StatusNotReviewed,
}

// canonical -> legacy, used when rendering for people used to the old labels
var legacyLabels = map[Status]string{
	StatusNotApplicable: "not applicable",
	StatusNotAFinding:   "not finding",
	StatusOpen:          "open",
	StatusNotReviewed:   "default",
}

// LookupStatus accepts only exact tokens from either vocabulary
// (case-insensitive). It is used for reviewer input, where a typo should be
// rejected rather than guessed at.
func LookupStatus(s string) (Status, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return StatusNotReviewed, true
	}
	for _, st := range Statuses() {
		if strings.EqualFold(v, string(st)) {
			return st, true
		}
	}
	st, ok := legacyStatuses[strings.ToLower(v)]
	return st, ok
}

// ParseStatus maps any status string found in a document onto the canonical
// vocabulary. Matching is substring tolerant; when several tokens occur the
// precedence is not-applicable, then not-a-finding, then open. Everything
// else, including the empty string, is Not_Reviewed.
func ParseStatus(s string) Status {
	if st, ok := LookupStatus(s); ok {
		return st
	}

	v := strings.ToLower(s)
	v = strings.NewReplacer("_", "", "-", "", " ", "").Replace(v)

	switch {
	case strings.Contains(v, "notapplicable"):
		return StatusNotApplicable
	case strings.Contains(v, "notafinding"), strings.Contains(v, "notfinding"):
		return StatusNotAFinding
	case strings.Contains(v, "open"):
		return StatusOpen
	default:
		return StatusNotReviewed
	}
}

func (s Status) Valid() bool {
	_, ok := legacyLabels[s]
	return ok
}

// Legacy returns the pre-DISA label for the status.
func (s Status) Legacy() string {
	if l, ok := legacyLabels[s]; ok {
		return l
	}
	return legacyLabels[StatusNotReviewed]
}

func (s Status) String() string {
	return string(s)
}
