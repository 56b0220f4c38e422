package domain

// Statistics summarizes the effective review state of an assessment.
type Statistics struct {
	Total          int
	ByStatus       map[Status]int
	BySeverity     map[Severity]int
	OpenBySeverity map[Severity]int // only findings still Open
}

// Summarize counts findings whose reviewer fields are already resolved.
func Summarize(findings []Finding) Statistics {
	stats := Statistics{
		Total:          len(findings),
		ByStatus:       make(map[Status]int),
		BySeverity:     make(map[Severity]int),
		OpenBySeverity: make(map[Severity]int),
	}
	for _, f := range findings {
		stats.ByStatus[f.Status]++
		stats.BySeverity[f.Severity]++
		if f.Status == StatusOpen {
			stats.OpenBySeverity[f.Severity]++
		}
	}
	return stats
}

// Report is what the terminal reporters render.
type Report struct {
	Title       string
	Version     string
	ReleaseInfo string
	ReleaseDate string
	Source      string
	BenchmarkID string
	Format      DocumentFormat
	Statistics  Statistics
	Findings    []Finding
}

func NewReport(a *Assessment, findings []Finding) *Report {
	return &Report{
		Title:       a.Title,
		Version:     a.Version,
		ReleaseInfo: a.ReleaseInfo,
		ReleaseDate: a.ReleaseDate,
		Source:      a.Source,
		BenchmarkID: a.BenchmarkID,
		Format:      a.Format,
		Statistics:  Summarize(findings),
		Findings:    findings,
	}
}
