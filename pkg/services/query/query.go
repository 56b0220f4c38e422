// Package query filters, sorts and groups the findings of an assessment for
// display.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

type SortField string

const (
	SortNone     SortField = ""
	SortTitle    SortField = "title"
	SortSeverity SortField = "severity"
	SortID       SortField = "id"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Options narrows and orders a finding list. Zero values mean "no filter"
// and document order.
type Options struct {
	Search   string
	Severity domain.Severity
	Status   domain.Status
	Sort     SortField
	Order    Order
}

// ParseOptions validates raw request values. "all" is accepted for the
// severity and status filters; status accepts legacy tokens.
func ParseOptions(search, severity, status, sort, order string) (Options, error) {
	opts := Options{Search: strings.TrimSpace(search)}

	if v := strings.ToLower(strings.TrimSpace(severity)); v != "" && v != "all" {
		s := domain.Severity(v)
		if !s.Valid() {
			return Options{}, domain.InvalidArgument("unknown severity %q", severity)
		}
		opts.Severity = s
	}

	if v := strings.TrimSpace(status); v != "" && !strings.EqualFold(v, "all") {
		s, ok := domain.LookupStatus(v)
		if !ok {
			return Options{}, domain.InvalidArgument("unknown status %q", status)
		}
		opts.Status = s
	}

	switch f := SortField(strings.ToLower(strings.TrimSpace(sort))); f {
	case SortNone, SortTitle, SortSeverity, SortID:
		opts.Sort = f
	default:
		return Options{}, domain.InvalidArgument("unknown sort field %q", sort)
	}

	switch o := Order(strings.ToLower(strings.TrimSpace(order))); o {
	case "", OrderAsc:
		opts.Order = OrderAsc
	case OrderDesc:
		opts.Order = OrderDesc
	default:
		return Options{}, domain.InvalidArgument("unknown sort order %q", order)
	}

	return opts, nil
}

// Apply returns the matching findings in the requested order. The input is
// not modified. Findings are expected to be resolved against annotations
// already, so the status filter sees the effective status.
func Apply(findings []domain.Finding, opts Options) []domain.Finding {
	term := strings.ToLower(opts.Search)

	out := make([]domain.Finding, 0, len(findings))
	for _, f := range findings {
		if term != "" && !matches(f, term) {
			continue
		}
		if opts.Severity != "" && f.Severity != opts.Severity {
			continue
		}
		if opts.Status != "" && f.Status != opts.Status {
			continue
		}
		out = append(out, f)
	}

	if cmpFn := comparator(opts.Sort); cmpFn != nil {
		slices.SortStableFunc(out, func(a, b domain.Finding) int {
			c := cmpFn(a, b)
			if opts.Order == OrderDesc {
				return -c
			}
			return c
		})
	}
	return out
}

func matches(f domain.Finding, term string) bool {
	return strings.Contains(strings.ToLower(f.GroupTitle), term) ||
		strings.Contains(strings.ToLower(f.RuleTitle), term) ||
		strings.Contains(strings.ToLower(f.VulnerabilityDiscussion), term)
}

func comparator(field SortField) func(a, b domain.Finding) int {
	switch field {
	case SortTitle:
		return func(a, b domain.Finding) int {
			return cmp.Compare(strings.ToLower(a.GroupTitle), strings.ToLower(b.GroupTitle))
		}
	case SortSeverity:
		return func(a, b domain.Finding) int {
			return cmp.Compare(a.Severity.Rank(), b.Severity.Rank())
		}
	case SortID:
		return func(a, b domain.Finding) int {
			return cmp.Compare(a.ID, b.ID)
		}
	}
	return nil
}

// Group is one severity bucket.
type Group struct {
	Severity domain.Severity
	Findings []domain.Finding
}

// GroupBySeverity buckets findings from high to unknown, keeping their order
// within each bucket. Empty buckets are left out.
func GroupBySeverity(findings []domain.Finding) []Group {
	buckets := map[domain.Severity][]domain.Finding{}
	for _, f := range findings {
		buckets[f.Severity] = append(buckets[f.Severity], f)
	}

	groups := make([]Group, 0, len(buckets))
	for _, s := range domain.Severities() {
		if fs := buckets[s]; len(fs) > 0 {
			groups = append(groups, Group{Severity: s, Findings: fs})
		}
	}
	return groups
}
