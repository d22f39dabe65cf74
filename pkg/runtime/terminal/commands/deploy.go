package commands

import (
	"fmt"
	"io"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewDeployCmd(env *Environment, factory DeployerFactory, out io.Writer) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Register the bot's slash commands with Discord",
		Long: "Replaces every slash command of the application in the profile's guild " +
			"(or globally with --global) with the commands this build provides.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := zerolog.Ctx(ctx)

			deployment, err := config.LoadDeployment(ctx, env.ProfilesPath, env.Profile)
			if err != nil {
				return err
			}

			deployer, err := factory(deployment.Token)
			if err != nil {
				return fmt.Errorf("failed to create discord session: %w", err)
			}

			guildID := deployment.GuildID
			if global {
				guildID = ""
			}

			defs := env.Registry.Definitions()
			fmt.Fprintln(out, "Started refreshing application (/) commands.")

			registered, err := deployer.ApplicationCommandBulkOverwrite(
				deployment.ClientID, guildID, defs, discordgo.WithContext(ctx))
			if err != nil {
				return fmt.Errorf("failed to register commands for %s: %w", deployment, err)
			}

			logger.Info().
				Str("profile", deployment.Profile).
				Str("guild_id", guildID).
				Int("commands", len(registered)).
				Msg("registered slash commands")

			fmt.Fprintf(out, "Successfully reloaded %d application (/) commands.\n", len(registered))
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Register the commands for every guild instead of the profile's guild")
	return cmd
}
