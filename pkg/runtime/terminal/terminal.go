package terminal

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/logging"
	"github.com/de-tools/reportbot/pkg/runtime/terminal/commands"
	"github.com/de-tools/reportbot/pkg/runtime/terminal/export"
	botcommands "github.com/de-tools/reportbot/pkg/services/commands"
	"github.com/de-tools/reportbot/pkg/services/config"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const DefaultSettingsPath = "settings.json"

// CLI represents the command-line interface
type CLI struct {
	env       *commands.Environment
	reporter  *export.Reporter
	deployers commands.DeployerFactory
	now       func() time.Time
	logOutput io.Writer
	rootCmd   *cobra.Command

	settingsPath string
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
	// Deployers defaults to a discordgo bot session.
	Deployers commands.DeployerFactory
	// Now defaults to time.Now.
	Now func() time.Time
	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Deployers == nil {
		opts.Deployers = func(token string) (commands.Deployer, error) {
			return discordgo.New("Bot " + token)
		}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		env:       &commands.Environment{},
		reporter:  export.NewReporter(opts.Output),
		deployers: opts.Deployers,
		now:       opts.Now,
		logOutput: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "reportctl",
		Short:             "Operator tool for the weekly report bot",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.prepare,
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.settingsPath, "settings", "s", DefaultSettingsPath,
		"Path to the settings file (json, yaml or toml)")
	flags.StringVar(&cli.env.ProfilesPath, "profiles", config.DefaultProfilesPath(),
		"Path to the deployment profiles file")
	flags.StringVarP(&cli.env.Profile, "profile", "p", config.DefaultProfile,
		"Deployment profile to use")

	cmd.AddCommand(commands.NewDeployCmd(cli.env, cli.deployers, out))
	cmd.AddCommand(commands.NewWindowCmd(cli.env, cli.reporter))
	cmd.AddCommand(commands.NewCommandsCmd(cli.env, cli.reporter))

	return cmd
}

// prepare loads .env and the settings, then builds what sub-commands share.
func (cli *CLI) prepare(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	settingsPath := cli.settingsPath
	if !cmd.Flags().Changed("settings") {
		if _, err := os.Stat(settingsPath); errors.Is(err, fs.ErrNotExist) {
			settingsPath = ""
		}
	}

	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{
		Level:     settings.Log.Level,
		Format:    logging.FormatConsole,
		Component: "cli",
		Writer:    cli.logOutput,
	})
	cmd.SetContext(logger.WithContext(cmd.Context()))

	calc, err := window.NewCalculator(settings.Schedule, window.WithClock(cli.now))
	if err != nil {
		return err
	}

	registry, err := botcommands.NewRegistry(botcommands.Defaults(botcommands.Dependencies{
		Calculator: calc,
		Scanner:    history.NewScanner(),
		DoneEmoji:  settings.DoneEmoji,
	})...)
	if err != nil {
		return err
	}

	cli.env.Settings = settings
	cli.env.Calculator = calc
	cli.env.Registry = registry
	return nil
}
