package commands

import (
	"fmt"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/de-tools/reportbot/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

const displayTimeLayout = "Mon 2006-01-02 15:04 MST"

func NewWindowCmd(env *Environment, reporter *export.Reporter) *cobra.Command {
	var (
		weeks int
		count int
	)

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Show the reporting window the commands would scan",
		RunE: func(_ *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}

			calc := env.Calculator
			loc := calc.Location()

			section := domain.ReportSection{
				Title: "Windows",
				Summary: map[string]interface{}{
					"Now":             calc.Now().In(loc).Format(displayTimeLayout),
					"Last breakpoint": calc.LastBreakpoint().Format(displayTimeLayout),
				},
			}

			for weeksBack := weeks; weeksBack < weeks+count; weeksBack++ {
				w, err := calc.Window(weeksBack)
				if err != nil {
					return err
				}
				w = w.In(loc)

				description := ""
				if weeksBack == 0 {
					description = "last breakpoint to now"
				}
				section.Details = append(section.Details, domain.ReportDetail{
					Name:        fmt.Sprintf("%d week(s) back", weeksBack),
					Value:       fmt.Sprintf("%s - %s", w.Start.Format("01-02 15:04"), w.End.Format("01-02 15:04")),
					Unit:        fmt.Sprintf("%.0fh", w.Duration().Hours()),
					Description: description,
				})
			}

			return reporter.Handle(&domain.Report{
				Title:    "Reporting windows",
				Subtitle: fmt.Sprintf("Schedule: %s", calc.Schedule()),
				Sections: []domain.ReportSection{section},
			})
		},
	}

	cmd.Flags().IntVarP(&weeks, "weeks", "w", 1, "How many weeks back (0 = from last breakpoint to now)")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of consecutive windows to show")
	return cmd
}
