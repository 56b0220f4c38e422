package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	stats := Summarize([]Finding{
		{Severity: SeverityHigh, Status: StatusOpen},
		{Severity: SeverityHigh, Status: StatusNotAFinding},
		{Severity: SeverityMedium, Status: StatusOpen},
		{Severity: SeverityUnknown, Status: StatusNotReviewed},
	})

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, map[Status]int{StatusOpen: 2, StatusNotAFinding: 1, StatusNotReviewed: 1}, stats.ByStatus)
	assert.Equal(t, map[Severity]int{SeverityHigh: 2, SeverityMedium: 1, SeverityUnknown: 1}, stats.BySeverity)
	assert.Equal(t, map[Severity]int{SeverityHigh: 1, SeverityMedium: 1}, stats.OpenBySeverity)
}

func TestSummarize_Empty(t *testing.T) {
	stats := Summarize(nil)
	assert.Zero(t, stats.Total)
	assert.NotNil(t, stats.ByStatus)
	assert.Empty(t, stats.OpenBySeverity)
}

func TestNewReport(t *testing.T) {
	a := &Assessment{Title: "T", Version: "1", Format: FormatCKL}
	findings := []Finding{{ID: "V-1", Severity: SeverityLow, Status: StatusNotApplicable}}

	r := NewReport(a, findings)
	assert.Equal(t, "T", r.Title)
	assert.Equal(t, FormatCKL, r.Format)
	assert.Equal(t, 1, r.Statistics.ByStatus[StatusNotApplicable])
	assert.Equal(t, findings, r.Findings)
}

func TestSession_Findings(t *testing.T) {
	open := StatusOpen
	s := &Session{
		Assessment:  &Assessment{Findings: []Finding{{ID: "V-1"}, {ID: "V-2", Status: StatusNotAFinding}}},
		Annotations: Annotations{"V-1": {Status: &open}},
	}

	got := s.Findings()
	assert.Equal(t, StatusOpen, got[0].Status)
	assert.Equal(t, StatusNotAFinding, got[1].Status)
	assert.Empty(t, s.Assessment.Findings[0].Status, "source findings are not modified")
}
