package adapters

import (
	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/models/store"
)

func MapDomainAssessmentToStoreDocument(a *domain.Assessment) *store.AssessmentDocument {
	if a == nil {
		return nil
	}

	doc := &store.AssessmentDocument{
		Title:          a.Title,
		Description:    a.Description,
		Version:        a.Version,
		ReleaseInfo:    a.ReleaseInfo,
		ReleaseDate:    a.ReleaseDate,
		Source:         a.Source,
		BenchmarkID:    a.BenchmarkID,
		Classification: a.Classification,
		FileName:       a.FileName,
		StigUUID:       a.StigUUID,
		Format:         string(a.Format),
		Asset:          store.AssetDocument(a.Asset),
		Findings:       make([]store.FindingDocument, 0, len(a.Findings)),
	}
	for _, f := range a.Findings {
		fd := store.FindingDocument{
			ID:                      f.ID,
			GroupTitle:              f.GroupTitle,
			RuleID:                  f.RuleID,
			RuleVersion:             f.RuleVersion,
			RuleTitle:               f.RuleTitle,
			Severity:                string(f.Severity),
			VulnerabilityDiscussion: f.VulnerabilityDiscussion,
			CheckContent:            f.CheckContent,
			FixText:                 f.FixText,
			Status:                  string(f.Status),
			FindingDetails:          f.FindingDetails,
			Comments:                f.Comments,
		}
		for _, id := range f.Idents {
			fd.Idents = append(fd.Idents, store.IdentDocument(id))
		}
		doc.Findings = append(doc.Findings, fd)
	}
	return doc
}

// MapStoreDocumentToDomain re-validates severity and status, since the
// document left the process boundary as JSON.
func MapStoreDocumentToDomain(doc *store.AssessmentDocument) *domain.Assessment {
	if doc == nil {
		return nil
	}

	a := &domain.Assessment{
		Title:          doc.Title,
		Description:    doc.Description,
		Version:        doc.Version,
		ReleaseInfo:    doc.ReleaseInfo,
		ReleaseDate:    doc.ReleaseDate,
		Source:         doc.Source,
		BenchmarkID:    doc.BenchmarkID,
		Classification: doc.Classification,
		FileName:       doc.FileName,
		StigUUID:       doc.StigUUID,
		Format:         domain.DocumentFormat(doc.Format),
		Asset:          domain.Asset(doc.Asset),
		Findings:       make([]domain.Finding, 0, len(doc.Findings)),
	}
	for _, fd := range doc.Findings {
		f := domain.Finding{
			ID:                      fd.ID,
			GroupTitle:              fd.GroupTitle,
			RuleID:                  fd.RuleID,
			RuleVersion:             fd.RuleVersion,
			RuleTitle:               fd.RuleTitle,
			Severity:                domain.ParseSeverity(fd.Severity),
			VulnerabilityDiscussion: fd.VulnerabilityDiscussion,
			CheckContent:            fd.CheckContent,
			FixText:                 fd.FixText,
			Status:                  domain.ParseStatus(fd.Status),
			FindingDetails:          fd.FindingDetails,
			Comments:                fd.Comments,
		}
		for _, id := range fd.Idents {
			f.Idents = append(f.Idents, domain.Ident(id))
		}
		a.Findings = append(a.Findings, f)
	}
	return a
}

func MapStoreAnnotationsToDomain(rows []store.Annotation) domain.Annotations {
	out := make(domain.Annotations, len(rows))
	for _, r := range rows {
		var ann domain.Annotation
		if r.Status != nil {
			st := domain.ParseStatus(*r.Status)
			ann.Status = &st
		}
		ann.FindingDetails = r.FindingDetails
		ann.Comments = r.Comments
		out[r.FindingID] = ann
	}
	return out
}

func MapDomainAnnotationToStore(assessmentID, findingID string, a domain.Annotation) *store.Annotation {
	row := &store.Annotation{
		AssessmentID:   assessmentID,
		FindingID:      findingID,
		FindingDetails: a.FindingDetails,
		Comments:       a.Comments,
	}
	if a.Status != nil {
		s := string(*a.Status)
		row.Status = &s
	}
	return row
}
