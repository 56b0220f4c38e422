package domain

import "time"

// Session is one uploaded document under review.
type Session struct {
	ID          string
	FileName    string
	CreatedAt   time.Time
	Assessment  *Assessment
	Annotations Annotations
}

// Findings returns the assessment's findings with annotations applied.
func (s *Session) Findings() []Finding {
	return s.Annotations.ApplyAll(s.Assessment.Findings)
}
