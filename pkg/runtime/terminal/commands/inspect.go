package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/softservesoftware/stig-bee/pkg/models/domain"
	"github.com/softservesoftware/stig-bee/pkg/services/query"
)

type ReportHandler interface {
	Handle(report *domain.Report) error
}

type InspectCmd struct {
	format    string
	search    string
	severity  string
	status    string
	sort      string
	order     string
	reporters map[string]ReportHandler
}

func NewInspectCmd(reporters map[string]ReportHandler) *cobra.Command {
	ic := &InspectCmd{reporters: reporters}
	cmd := &cobra.Command{
		Use:   "inspect <file.xml|file.ckl>",
		Short: "Summarize the findings of a benchmark or checklist",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.format, "format", "text", "Report format (text or table)")
	cmd.Flags().StringVar(&ic.search, "search", "", "Only findings whose titles or discussion contain this text")
	cmd.Flags().StringVar(&ic.severity, "severity", "", "Only findings with this severity (high, medium, low, unknown)")
	cmd.Flags().StringVar(&ic.status, "status", "", "Only findings with this status")
	cmd.Flags().StringVar(&ic.sort, "sort", "", "Sort by title, severity or id")
	cmd.Flags().StringVar(&ic.order, "order", "asc", "Sort order (asc or desc)")

	return cmd
}

func (ic *InspectCmd) run(cmd *cobra.Command, args []string) error {
	reporter, ok := ic.reporters[ic.format]
	if !ok {
		return fmt.Errorf("unsupported format %q", ic.format)
	}

	opts, err := query.ParseOptions(ic.search, ic.severity, ic.status, ic.sort, ic.order)
	if err != nil {
		return err
	}

	a, err := loadAssessment(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	findings := query.Apply(domain.Annotations{}.ApplyAll(a.Findings), opts)
	return reporter.Handle(domain.NewReport(a, findings))
}
