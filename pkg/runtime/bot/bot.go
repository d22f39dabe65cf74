package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/adapters"
	"github.com/de-tools/reportbot/pkg/services/commands"
	"github.com/de-tools/reportbot/pkg/store/client"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

const (
	DefaultIntents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentsMessageContent

	// Interaction tokens stay valid for 15 minutes.
	defaultHandlerTimeout = 14 * time.Minute
)

// Gateway is the subset of *discordgo.Session the bot drives.
type Gateway interface {
	client.InteractionSession
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

type Options struct {
	Gateway        Gateway
	Registry       commands.Registry
	HandlerTimeout time.Duration
}

type Bot struct {
	gateway  Gateway
	registry commands.Registry
	timeout  time.Duration
}

func New(opts Options) (*Bot, error) {
	if opts.Gateway == nil {
		return nil, fmt.Errorf("gateway is nil")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("command registry is nil")
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = defaultHandlerTimeout
	}

	return &Bot{
		gateway:  opts.Gateway,
		registry: opts.Registry,
		timeout:  opts.HandlerTimeout,
	}, nil
}

// NewSession creates a bot session with DefaultIntents.
func NewSession(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = DefaultIntents
	return session, nil
}

// Run connects to the gateway and serves interactions until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	removeReady := b.gateway.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		logger.Info().
			Str("user", r.User.String()).
			Int("guilds", len(r.Guilds)).
			Msg("connected to gateway")
	})
	defer removeReady()

	removeInteraction := b.gateway.AddHandler(func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		b.HandleInteraction(ctx, i)
	})
	defer removeInteraction()

	if err := b.gateway.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}
	logger.Info().Int("commands", len(b.registry.List())).Msg("bot is running")

	<-ctx.Done()

	logger.Info().Msg("shutdown initiated")
	if err := b.gateway.Close(); err != nil {
		return fmt.Errorf("failed to close gateway connection: %w", err)
	}
	return nil
}

// HandleInteraction dispatches application command interactions to the
// registry. Other interaction types are ignored.
func (b *Bot) HandleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if i == nil || i.Interaction == nil || i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	inv, err := NewInvocation(i.Interaction, client.NewInteractionResponder(b.gateway, i.Interaction))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("command", data.Name).Msg("malformed interaction")
		return
	}

	logger := zerolog.Ctx(ctx).With().
		Str("command", data.Name).
		Str("interaction_id", inv.InteractionID.String()).
		Str("user_id", inv.UserID.String()).
		Logger()

	ctx, cancel := context.WithTimeout(logger.WithContext(ctx), b.timeout)
	defer cancel()

	logger.Info().Str("channel_id", inv.ChannelID.String()).Msg("handling command")
	if err := b.registry.Execute(ctx, data.Name, inv); err != nil {
		logger.Debug().Err(err).Msg("command finished with error")
	}
}

// NewInvocation converts an application command interaction.
func NewInvocation(i *discordgo.Interaction, resp commands.Responder) (*commands.Invocation, error) {
	interactionID, err := snowflake.Parse(i.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid interaction id %q: %w", i.ID, err)
	}
	channelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("invalid channel id %q: %w", i.ChannelID, err)
	}

	var guildID snowflake.ID
	if i.GuildID != "" {
		if guildID, err = snowflake.Parse(i.GuildID); err != nil {
			return nil, fmt.Errorf("invalid guild id %q: %w", i.GuildID, err)
		}
	}

	user := i.User
	if i.Member != nil && i.Member.User != nil {
		user = i.Member.User
	}
	if user == nil {
		return nil, fmt.Errorf("interaction %s has no user", i.ID)
	}
	userID, err := snowflake.Parse(user.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id %q: %w", user.ID, err)
	}

	return &commands.Invocation{
		InteractionID: interactionID,
		GuildID:       guildID,
		ChannelID:     channelID,
		UserID:        userID,
		Options:       adapters.MapInteractionOptions(i.ApplicationCommandData().Options),
		Responder:     resp,
	}, nil
}
