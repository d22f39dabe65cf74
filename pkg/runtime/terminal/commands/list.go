package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/de-tools/reportbot/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewCommandsCmd(env *Environment, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the slash commands this build registers",
		RunE: func(_ *cobra.Command, _ []string) error {
			report := &domain.Report{Title: "Slash commands"}

			for _, def := range env.Registry.Definitions() {
				section := domain.ReportSection{
					Title:   "/" + def.Name,
					Summary: map[string]interface{}{"Description": def.Description},
				}
				for _, opt := range def.Options {
					choices := make([]string, 0, len(opt.Choices))
					for _, choice := range opt.Choices {
						choices = append(choices, fmt.Sprint(choice.Value))
					}
					section.Details = append(section.Details, domain.ReportDetail{
						Name:        opt.Name,
						Value:       strings.Join(choices, ", "),
						Unit:        opt.Type.String(),
						Description: opt.Description,
					})
				}
				report.Sections = append(report.Sections, section)
			}

			return reporter.Handle(report)
		},
	}
}
