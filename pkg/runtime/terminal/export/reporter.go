package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
)

type TableConfig struct {
	IDWidth       int
	SeverityWidth int
	StatusWidth   int
	TitleWidth    int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		IDWidth:       16,
		SeverityWidth: 8,
		StatusWidth:   14,
		TitleWidth:    60,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

func (c *Reporter) Handle(report *domain.Report) error {
	funcMap := template.FuncMap{
		"formatRow": func(id, severity, status, title string) string {
			return fmt.Sprintf("| %-*s | %-*s | %-*s | %-*s |",
				c.config.IDWidth, truncate(id, c.config.IDWidth),
				c.config.SeverityWidth, severity,
				c.config.StatusWidth, status,
				c.config.TitleWidth, truncate(title, c.config.TitleWidth))
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.IDWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.StatusWidth+2),
				strings.Repeat("-", c.config.TitleWidth+2))
		},
		"str": func(v fmt.Stringer) string {
			return v.String()
		},
	}

	tmpl := `
{{.Title}} ({{.Version}}, {{.ReleaseInfo}})
Findings: {{.Statistics.Total}}

{{separator}}
{{formatRow "ID" "Severity" "Status" "Title"}}
{{separator}}
{{range .Findings}}{{formatRow .ID (str .Severity) (str .Status) .RuleTitle}}
{{end}}{{separator}}
`

	t, err := template.New("report").Funcs(funcMap).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, report)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}
