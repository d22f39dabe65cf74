package adapters

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/api"
	"github.com/de-tools/reportbot/pkg/models/domain"
)

func MapDomainWindowToAPI(w domain.TimeWindow, weeksBack int, schedule domain.ReportingSchedule) api.Window {
	return api.Window{
		WeeksBack:     weeksBack,
		Schedule:      schedule.String(),
		Start:         w.Start,
		End:           w.End,
		DurationHours: w.Duration().Hours(),
	}
}

func MapCommandDefinitionToAPI(def *discordgo.ApplicationCommand) api.Command {
	cmd := api.Command{
		Name:        def.Name,
		Description: def.Description,
	}
	for _, opt := range def.Options {
		option := api.CommandOption{
			Name:        opt.Name,
			Description: opt.Description,
			Type:        opt.Type.String(),
			Required:    opt.Required,
		}
		for _, choice := range opt.Choices {
			option.Choices = append(option.Choices, fmt.Sprintf("%s=%v", choice.Name, choice.Value))
		}
		cmd.Options = append(cmd.Options, option)
	}
	return cmd
}

func MapCommandDefinitionsToAPI(defs []*discordgo.ApplicationCommand) []api.Command {
	result := make([]api.Command, 0, len(defs))
	for _, def := range defs {
		result = append(result, MapCommandDefinitionToAPI(def))
	}
	return result
}
