package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

// Reporter outputs reports to the console in a formatted text form
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new console reporter
func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"statuses":   domain.Statuses,
		"severities": domain.Severities,
		"upper": func(s domain.Severity) string {
			return strings.ToUpper(string(s))
		},
	}

	tmpl := `
{{.Title}} [{{.Format}}]
Version: {{.Version}}
Release: {{.ReleaseInfo}}{{if .ReleaseDate}} ({{.ReleaseDate}}){{end}}
Source: {{.Source}}
Findings: {{.Statistics.Total}}

=== Status ===
{{range statuses}}{{.}}: {{index $.Statistics.ByStatus .}}
{{end}}
=== Open by severity ===
{{range severities}}{{.}}: {{index $.Statistics.OpenBySeverity .}}
{{end}}
=== Findings ===
{{range .Findings}}- [{{upper .Severity}}] {{.ID}} {{.RuleTitle}} ({{.Status}})
{{end}}`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}
