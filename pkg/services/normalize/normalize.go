// Package normalize turns parsed XCCDF benchmarks and CKL checklists into a
// single Assessment model.
package normalize

import (
	"context"
	"strings"
	"time"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/xmltree"
)

const (
	rootBenchmark = "Benchmark"
	rootChecklist = "CHECKLIST"
)

// Normalize converts a parsed document tree into an Assessment. It either
// returns a complete assessment or an error, never a partial result.
func Normalize(ctx context.Context, tree xmltree.Node) (*domain.Assessment, error) {
	format, root, err := DetectFormat(tree)
	if err != nil {
		return nil, err
	}

	var a *domain.Assessment
	switch format {
	case domain.FormatXCCDF:
		a, err = fromBenchmark(ctx, root)
	case domain.FormatCKL:
		a, err = fromChecklist(ctx, root)
	}
	if err != nil {
		return nil, err
	}

	a.Findings = assignIDs(ctx, a.Findings)
	return a, nil
}

// NormalizeBytes parses raw document text and normalizes it.
func NormalizeBytes(ctx context.Context, data []byte) (*domain.Assessment, error) {
	tree, err := xmltree.Parse(data)
	if err != nil {
		return nil, domain.MalformedDocument(err)
	}
	return Normalize(ctx, tree)
}

// DetectFormat inspects the root element of a parsed tree.
func DetectFormat(tree xmltree.Node) (domain.DocumentFormat, any, error) {
	if v, ok := tree[rootChecklist]; ok {
		return domain.FormatCKL, v, nil
	}
	if v, ok := tree[rootBenchmark]; ok {
		return domain.FormatXCCDF, v, nil
	}

	root := ""
	for k := range tree {
		root = k
	}
	return "", nil, domain.UnrecognizedDocumentShape(root)
}

// first returns the first element of a possibly repeated child.
func first(v any) any {
	s := xmltree.AsSlice(v)
	if len(s) == 0 {
		return nil
	}
	return s[0]
}

func textOf(v any) string {
	return xmltree.Text(first(v))
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02 Jan 2006",
	"2 Jan 2006",
	"02 January 2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// normalizeDate returns s as YYYY-MM-DD, or "" if it is not a recognizable date.
func normalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return ""
}

// releaseDate pulls the date out of DISA release strings such as
// "Release: 3 Benchmark Date: 24 Jul 2024".
func releaseDate(info string) string {
	const marker = "benchmark date:"
	i := strings.Index(strings.ToLower(info), marker)
	if i < 0 {
		return ""
	}
	return normalizeDate(info[i+len(marker):])
}
