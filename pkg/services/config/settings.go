package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const envPrefix = "REPORTBOT"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Settings are the runtime knobs of the bot. The schedule keys match the
// legacy settings.json layout.
type Settings struct {
	Schedule  domain.ReportingSchedule `mapstructure:",squash"`
	DoneEmoji string                   `mapstructure:"doneEmoji" validate:"required"`
	Server    ServerSettings           `mapstructure:"server"`
	Log       LogSettings              `mapstructure:"log"`
}

// ServerSettings configure the ops HTTP server. An empty Addr disables it.
type ServerSettings struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" validate:"min=0"`
}

type LogSettings struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", "UTC")
	v.SetDefault("reminderDay", 1)
	v.SetDefault("reminderHour", 9)
	v.SetDefault("reminderMinute", 0)
	v.SetDefault("doneEmoji", "✅")
	v.SetDefault("server.addr", "")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// LoadSettings reads the settings file at path (json, yaml or toml, picked by
// extension) and applies REPORTBOT_* environment overrides, e.g.
// REPORTBOT_TIMEZONE or REPORTBOT_LOG_LEVEL. An empty path uses defaults and
// environment only.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
