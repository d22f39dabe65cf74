package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/reportbot/pkg/logging"
	"github.com/de-tools/reportbot/pkg/runtime/bot"
	"github.com/de-tools/reportbot/pkg/server"
	"github.com/de-tools/reportbot/pkg/services/commands"
	"github.com/de-tools/reportbot/pkg/services/config"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/de-tools/reportbot/pkg/store/client"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	settingsPath string
	profilesPath string
	profile      string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:          "reportbot",
		Short:        "Run the weekly report Discord bot",
		SilenceUsage: true,
		RunE:         runBot,
	}

	rootCmd.Flags().StringVarP(&settingsPath, "settings", "s", "settings.json",
		"Path to the settings file (json, yaml or toml)")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", config.DefaultProfilesPath(),
		"Path to the deployment profiles file (default is $HOME/.reportbotcfg)")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", config.DefaultProfile,
		"Deployment profile to use")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBot(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	path := settingsPath
	if !cmd.Flags().Changed("settings") {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	settings, err := config.LoadSettings(path)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     settings.Log.Level,
		Format:    settings.Log.Format,
		Component: "bot",
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	deployment, err := config.LoadDeployment(ctx, profilesPath, profile)
	if err != nil {
		return err
	}
	reportChannelID, err := snowflake.Parse(deployment.ChannelID)
	if err != nil {
		return fmt.Errorf("invalid report channel id: %w", err)
	}

	calc, err := window.NewCalculator(settings.Schedule)
	if err != nil {
		return err
	}

	session, err := bot.NewSession(deployment.Token)
	if err != nil {
		return err
	}
	platform, err := client.NewDiscordClient(session)
	if err != nil {
		return err
	}

	registry, err := commands.NewRegistry(commands.Defaults(commands.Dependencies{
		Platform:        platform,
		Calculator:      calc,
		Scanner:         history.NewScanner(),
		ReportChannelID: reportChannelID,
		DoneEmoji:       settings.DoneEmoji,
	})...)
	if err != nil {
		return fmt.Errorf("failed to create command registry: %w", err)
	}

	reportBot, err := bot.New(bot.Options{Gateway: session, Registry: registry})
	if err != nil {
		return err
	}

	logger.Info().
		Str("deployment", deployment.String()).
		Str("schedule", calc.Schedule().String()).
		Time("last_breakpoint", calc.LastBreakpoint()).
		Msg("configuration loaded")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reportBot.Run(ctx)
	})

	if settings.Server.Addr != "" {
		webAPI := server.NewWebAPI(logger, server.Config{
			Addr:            settings.Server.Addr,
			ShutdownTimeout: settings.Server.ShutdownTimeout,
			Dependencies: server.Dependencies{
				Windows:  calc,
				Commands: registry,
			},
		})
		g.Go(func() error {
			return webAPI.Start(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("bot stopped")
		return err
	}
	logger.Info().Msg("bot stopped")
	return nil
}
