package adapters

import (
	"github.com/softservesoftware/stig-bee/pkg/models/api"
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/query"
)

func MapDomainSessionToAPI(s *domain.Session) api.Assessment {
	a := s.Assessment
	return api.Assessment{
		ID:          s.ID,
		FileName:    s.FileName,
		Format:      string(a.Format),
		CreatedAt:   s.CreatedAt,
		Title:       a.Title,
		Description: a.Description,
		Version:     a.Version,
		ReleaseInfo: a.ReleaseInfo,
		ReleaseDate: a.ReleaseDate,
		Source:      a.Source,
		BenchmarkID: a.BenchmarkID,
		Asset:       api.Asset(a.Asset),
		Statistics:  MapDomainStatisticsToAPI(domain.Summarize(s.Findings())),
	}
}

func MapDomainFindingToAPI(f domain.Finding) api.Finding {
	out := api.Finding{
		ID:                      f.ID,
		GroupTitle:              f.GroupTitle,
		RuleID:                  f.RuleID,
		RuleVersion:             f.RuleVersion,
		RuleTitle:               f.RuleTitle,
		Severity:                string(f.Severity),
		VulnerabilityDiscussion: f.VulnerabilityDiscussion,
		CheckContent:            f.CheckContent,
		FixText:                 f.FixText,
		Idents:                  make([]api.Ident, 0, len(f.Idents)),
		Status:                  string(f.Status),
		StatusLabel:             f.Status.Legacy(),
		FindingDetails:          f.FindingDetails,
		Comments:                f.Comments,
	}
	for _, id := range f.Idents {
		out.Idents = append(out.Idents, api.Ident(id))
	}
	return out
}

func MapDomainFindingsToAPI(findings []domain.Finding) []api.Finding {
	out := make([]api.Finding, 0, len(findings))
	for _, f := range findings {
		out = append(out, MapDomainFindingToAPI(f))
	}
	return out
}

func MapQueryGroupsToAPI(groups []query.Group) []api.FindingGroup {
	out := make([]api.FindingGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, api.FindingGroup{
			Severity: string(g.Severity),
			Findings: MapDomainFindingsToAPI(g.Findings),
		})
	}
	return out
}

// MapDomainStatisticsToAPI always lists every status and severity, zero or not.
func MapDomainStatisticsToAPI(s domain.Statistics) api.Statistics {
	out := api.Statistics{
		Total:          s.Total,
		ByStatus:       make(map[string]int),
		BySeverity:     make(map[string]int),
		OpenBySeverity: make(map[string]int),
	}
	for _, st := range domain.Statuses() {
		out.ByStatus[string(st)] = s.ByStatus[st]
	}
	for _, sev := range domain.Severities() {
		out.BySeverity[string(sev)] = s.BySeverity[sev]
		out.OpenBySeverity[string(sev)] = s.OpenBySeverity[sev]
	}
	return out
}

// MapAPIAnnotationToDomain validates reviewer input. Status must be an exact
// token from either vocabulary.
func MapAPIAnnotationToDomain(req api.AnnotationRequest) (domain.Annotation, error) {
	ann := domain.Annotation{
		FindingDetails: req.FindingDetails,
		Comments:       req.Comments,
	}
	if req.Status != nil {
		st, ok := domain.LookupStatus(*req.Status)
		if !ok {
			return domain.Annotation{}, domain.InvalidArgument("unknown status %q", *req.Status)
		}
		ann.Status = &st
	}
	return ann, nil
}

func MapDomainProfilesToAPI(profiles []domain.AssetProfile) []api.AssetProfile {
	out := make([]api.AssetProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, api.AssetProfile{Name: p.Name, Asset: api.Asset(p.Asset)})
	}
	return out
}
