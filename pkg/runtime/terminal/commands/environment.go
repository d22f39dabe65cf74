package commands

import (
	"github.com/bwmarrin/discordgo"
	botcommands "github.com/de-tools/reportbot/pkg/services/commands"
	"github.com/de-tools/reportbot/pkg/services/config"
	"github.com/de-tools/reportbot/pkg/services/window"
)

// Environment is filled in by the root command before a sub-command runs.
type Environment struct {
	Settings     *config.Settings
	Calculator   *window.Calculator
	Registry     botcommands.Registry
	ProfilesPath string
	Profile      string
}

// Deployer registers slash commands. *discordgo.Session implements it.
type Deployer interface {
	ApplicationCommandBulkOverwrite(
		appID string,
		guildID string,
		cmds []*discordgo.ApplicationCommand,
		options ...discordgo.RequestOption,
	) ([]*discordgo.ApplicationCommand, error)
}

type DeployerFactory func(token string) (Deployer, error)
