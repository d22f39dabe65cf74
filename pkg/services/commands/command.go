package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/disgoorg/snowflake/v2"
)

const (
	DefaultDoneEmoji = "✅"
	defaultWeeksBack = 1
)

// Command is one slash command the bot answers.
type Command interface {
	Name() string
	// Definition is the payload registered with Discord.
	Definition() *discordgo.ApplicationCommand
	Execute(ctx context.Context, inv *Invocation) error
}

// Responder answers the interaction that triggered a command.
type Responder interface {
	Reply(ctx context.Context, content string, ephemeral bool) error
	// Defer acknowledges the interaction without content; the result is sent with EditReply.
	Defer(ctx context.Context, ephemeral bool) error
	EditReply(ctx context.Context, content string) error
	FollowUp(ctx context.Context, content string, ephemeral bool) error
	// Replied reports whether the initial reply has been sent.
	Replied() bool
}

// Platform is the part of the chat platform the commands consume.
type Platform interface {
	Channel(ctx context.Context, id snowflake.ID) (domain.Channel, error)
	ChannelMessages(ctx context.Context, channelID snowflake.ID, limit int, before snowflake.ID) ([]domain.Message, error)
	AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	// RemoveReaction removes emoji from the message for every reactor.
	RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error
	SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error
}

type Invocation struct {
	InteractionID snowflake.ID
	GuildID       snowflake.ID
	ChannelID     snowflake.ID
	UserID        snowflake.ID
	Options       Options
	Responder     Responder
}

// Options are the option values sent with an interaction, keyed by option name.
type Options map[string]any

func (o Options) Int(name string, def int) int {
	switch v := o[name].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

func (o Options) String(name string, def string) string {
	if v, ok := o[name].(string); ok && v != "" {
		return v
	}
	return def
}

// Dependencies are shared by the built-in commands.
type Dependencies struct {
	Platform        Platform
	Calculator      *window.Calculator
	Scanner         *history.Scanner
	ReportChannelID snowflake.ID
	DoneEmoji       string
}

// Defaults returns compileids, markdone and markremove wired to deps.
func Defaults(deps Dependencies) []Command {
	if deps.Scanner == nil {
		deps.Scanner = history.NewScanner()
	}
	if deps.DoneEmoji == "" {
		deps.DoneEmoji = DefaultDoneEmoji
	}

	return []Command{
		NewCompileIDs(deps),
		NewMarkDone(deps),
		NewMarkRemove(deps),
	}
}

// channelSource exposes one channel of the platform as a history source.
type channelSource struct {
	platform  Platform
	channelID snowflake.ID
}

func (c channelSource) MessagesBefore(ctx context.Context, limit int, before snowflake.ID) ([]domain.Message, error) {
	return c.platform.ChannelMessages(ctx, c.channelID, limit, before)
}

// textChannel fetches id and makes sure messages can be read from it.
func textChannel(ctx context.Context, platform Platform, id snowflake.ID) (domain.Channel, error) {
	ch, err := platform.Channel(ctx, id)
	if err != nil {
		return domain.Channel{}, err
	}
	if !ch.TextBased {
		return domain.Channel{}, fmt.Errorf("%w: %s", domain.ErrNotTextBased, id)
	}
	return ch, nil
}

func weeksOption(name, description, zeroLabel string) *discordgo.ApplicationCommandOption {
	choices := []*discordgo.ApplicationCommandOptionChoice{
		{Name: zeroLabel, Value: 0},
		{Name: "1 week", Value: 1},
	}
	for weeks := 2; weeks <= 4; weeks++ {
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  fmt.Sprintf("%d weeks", weeks),
			Value: weeks,
		})
	}

	return &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        name,
		Description: description,
		Required:    false,
		Choices:     choices,
	}
}

func periodLabel(weeksBack int) string {
	if weeksBack == 0 {
		return "last breakpoint to now"
	}
	return fmt.Sprintf("the last %d week(s)", weeksBack)
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
