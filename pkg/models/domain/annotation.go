package domain

// Annotation holds a reviewer's edits for one finding. A nil field means
// "not edited", so a saved status and an unsaved comment can coexist.
type Annotation struct {
	Status         *Status
	FindingDetails *string
	Comments       *string
}

func (a Annotation) IsEmpty() bool {
	return a.Status == nil && a.FindingDetails == nil && a.Comments == nil
}

// Merge returns a copy of a with every field set in other applied on top.
func (a Annotation) Merge(other Annotation) Annotation {
	if other.Status != nil {
		a.Status = other.Status
	}
	if other.FindingDetails != nil {
		a.FindingDetails = other.FindingDetails
	}
	if other.Comments != nil {
		a.Comments = other.Comments
	}
	return a
}

// Annotations is keyed by Finding.ID.
type Annotations map[string]Annotation

// Apply returns f with its reviewer fields resolved per field: the
// annotation wins, then the finding's own value, then the default.
func (an Annotations) Apply(f Finding) Finding {
	if ann, ok := an[f.ID]; ok {
		if ann.Status != nil {
			f.Status = *ann.Status
		}
		if ann.FindingDetails != nil {
			f.FindingDetails = *ann.FindingDetails
		}
		if ann.Comments != nil {
			f.Comments = *ann.Comments
		}
	}
	if f.Status == "" {
		f.Status = StatusNotReviewed
	}
	return f
}

// ApplyAll resolves every finding of the assessment.
func (an Annotations) ApplyAll(findings []Finding) []Finding {
	out := make([]Finding, len(findings))
	for i, f := range findings {
		out[i] = an.Apply(f)
	}
	return out
}
