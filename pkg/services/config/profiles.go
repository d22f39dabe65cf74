package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const (
	DefaultProfile      = "default"
	defaultProfilesFile = ".reportbotcfg"
)

// Registry reads deployment profiles from an INI file, one section per profile:
//
//	[default]
//	token      = ...
//	client_id  = ...
//	guild_id   = ...
//	channel_id = ...
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetDeployment(ctx context.Context, profile string) (*domain.Deployment, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &cfgRegistry{cfg: cfg}, nil
}

// DefaultProfilesPath is ~/.reportbotcfg.
func DefaultProfilesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return defaultProfilesFile
	}
	return filepath.Join(home, defaultProfilesFile)
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if len(section.Keys()) > 0 {
			profiles = append(profiles, section.Name())
		}
	}
	return profiles, nil
}

func (cr *cfgRegistry) GetDeployment(_ context.Context, profile string) (*domain.Deployment, error) {
	section, err := cr.cfg.GetSection(profile)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", profile)
	}

	return &domain.Deployment{
		Profile:   profile,
		Token:     section.Key("token").String(),
		ClientID:  section.Key("client_id").String(),
		GuildID:   section.Key("guild_id").String(),
		ChannelID: section.Key("channel_id").String(),
	}, nil
}

// LoadDeployment resolves profile from the file at path and applies
// REPORTBOT_TOKEN, REPORTBOT_CLIENT_ID, REPORTBOT_GUILD_ID and
// REPORTBOT_CHANNEL_ID on top. A missing file leaves the environment as the
// only source. The result is validated.
func LoadDeployment(ctx context.Context, path, profile string) (*domain.Deployment, error) {
	logger := zerolog.Ctx(ctx)
	if profile == "" {
		profile = DefaultProfile
	}

	deployment := &domain.Deployment{Profile: profile}

	registry, err := NewRegistry(path)
	switch {
	case err == nil:
		deployment, err = registry.GetDeployment(ctx, profile)
		if err != nil {
			return nil, err
		}
	case errors.Is(err, fs.ErrNotExist):
		logger.Debug().Str("path", path).Msg("profiles file not found, using environment only")
	default:
		return nil, fmt.Errorf("failed to read profiles from %s: %w", path, err)
	}

	env := viper.New()
	env.SetEnvPrefix(envPrefix)
	env.AutomaticEnv()

	override(&deployment.Token, env.GetString("token"))
	override(&deployment.ClientID, env.GetString("client_id"))
	override(&deployment.GuildID, env.GetString("guild_id"))
	override(&deployment.ChannelID, env.GetString("channel_id"))

	if err := validate.Struct(deployment); err != nil {
		return nil, fmt.Errorf("invalid deployment %q: %w", profile, err)
	}
	return deployment, nil
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
