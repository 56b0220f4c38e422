package normalize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	x "github.com/softservesoftware/stig-bee/pkg/xmltree"
)

func fromBenchmark(ctx context.Context, b any) (*domain.Assessment, error) {
	status := first(x.Child(b, "status"))

	version := textOf(x.Child(b, "plain-text"))
	if version == "" {
		version = textOf(x.Child(b, "version"))
	}

	ref := first(x.Child(b, "reference"))
	source := x.Text(ref)
	if source == "" {
		source = textOf(x.Child(ref, "source"))
	}

	a := &domain.Assessment{
		Title:       orDefault(textOf(x.Child(b, "title")), domain.UnknownTitle),
		Description: description(x.Child(b, "description")),
		Version:     orDefault(version, domain.UnknownVersion),
		ReleaseInfo: orDefault(x.Text(status), domain.UnknownReleaseInfo),
		ReleaseDate: normalizeDate(x.Attr(status, "date")),
		Source:      orDefault(source, domain.UnknownSource),
		BenchmarkID: x.Attr(b, "id"),
		Format:      domain.FormatXCCDF,
		Asset:       domain.DefaultAsset(),
	}
	if a.ReleaseDate == "" {
		a.ReleaseDate = releaseDate(version)
	}

	groups := x.AsSlice(x.Child(b, "Group"))
	a.Findings = make([]domain.Finding, 0, len(groups))
	for i, g := range groups {
		f, err := fromGroup(ctx, i, g)
		if err != nil {
			return nil, err
		}
		a.Findings = append(a.Findings, f)
	}
	return a, nil
}

func fromGroup(ctx context.Context, i int, g any) (domain.Finding, error) {
	rules := x.AsSlice(x.Child(g, "Rule"))
	if len(rules) == 0 {
		return domain.Finding{}, domain.IncompleteDocument(fmt.Sprintf("Benchmark.Group[%d].Rule", i))
	}
	if len(rules) > 1 {
		zerolog.Ctx(ctx).Warn().
			Str("group", x.Attr(g, "id")).
			Int("rules", len(rules)).
			Msg("group has more than one rule, using the first")
	}
	rule := rules[0]

	f := domain.Finding{
		ID:                      x.Attr(g, "id"),
		GroupTitle:              textOf(x.Child(g, "title")),
		RuleID:                  x.Attr(rule, "id"),
		RuleVersion:             textOf(x.Child(rule, "version")),
		RuleTitle:               textOf(x.Child(rule, "title")),
		Severity:                domain.ParseSeverity(x.Attr(rule, "severity")),
		VulnerabilityDiscussion: description(x.Child(rule, "description")),
		CheckContent:            textOf(x.Child(first(x.Child(rule, "check")), "check-content")),
		FixText:                 textOf(x.Child(rule, "fixtext")),
		Status:                  domain.ParseStatus(textOf(x.Child(g, "status"))),
		FindingDetails:          textOf(x.Child(g, "findingDetails")),
		Comments:                textOf(x.Child(g, "comments")),
	}

	for _, id := range x.AsSlice(x.Child(rule, "ident")) {
		f.Idents = append(f.Idents, domain.Ident{
			System: x.Attr(id, "system"),
			Value:  x.Text(id),
		})
	}
	return f, nil
}
