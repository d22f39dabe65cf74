package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

const (
	DestinationDM      = "dm"
	DestinationChannel = "channel"
)

// CompileIDs reports every user/message identifier posted to the report
// channel during a window.
type CompileIDs struct {
	platform   Platform
	calculator *window.Calculator
	scanner    *history.Scanner
	channelID  snowflake.ID
}

func NewCompileIDs(deps Dependencies) *CompileIDs {
	return &CompileIDs{
		platform:   deps.Platform,
		calculator: deps.Calculator,
		scanner:    deps.Scanner,
		channelID:  deps.ReportChannelID,
	}
}

func (c *CompileIDs) Name() string {
	return "compileids"
}

func (c *CompileIDs) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: "Compiles all user/message IDs from a fixed period in the target channel",
		Options: []*discordgo.ApplicationCommandOption{
			weeksOption("weeks", "How many weeks back to include (0 = from last breakpoint to now)", "0 weeks (until now)"),
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "destination",
				Description: "Where to send the output",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "DM", Value: DestinationDM},
					{Name: "Channel (ephemeral)", Value: DestinationChannel},
				},
			},
		},
	}
}

func (c *CompileIDs) Execute(ctx context.Context, inv *Invocation) error {
	logger := zerolog.Ctx(ctx)
	weeksBack := inv.Options.Int("weeks", defaultWeeksBack)
	destination := inv.Options.String("destination", DestinationChannel)

	// Paging the report channel can outlast the initial response deadline.
	if err := inv.Responder.Defer(ctx, true); err != nil {
		return err
	}

	if _, err := textChannel(ctx, c.platform, c.channelID); err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) || errors.Is(err, domain.ErrNotTextBased) {
			logger.Warn().Err(err).Str("channel_id", c.channelID.String()).Msg("report channel unavailable")
			return inv.Responder.EditReply(ctx, "❌ Target channel not found or not text-based.")
		}
		return err
	}

	w, err := c.calculator.Window(weeksBack)
	if err != nil {
		return err
	}
	w = w.In(c.calculator.Location())

	var messages []domain.Message
	if !w.IsEmpty() {
		src := channelSource{platform: c.platform, channelID: c.channelID}
		if messages, err = c.scanner.Scan(ctx, src, w, history.HalfOpen, nil); err != nil {
			return fmt.Errorf("failed to scan report channel: %w", err)
		}
	}

	mentions := ExtractMentions(messages)
	logger.Info().
		Int("weeks_back", weeksBack).
		Int("messages", len(messages)).
		Int("ids", len(mentions)).
		Str("destination", destination).
		Msg("compiled ids")

	list := formatIDList(mentions, w)
	inline := formatInlineList(mentions)

	if destination == DestinationDM {
		return c.deliverDM(ctx, inv, list, inline)
	}

	if err := inv.Responder.EditReply(ctx, list); err != nil {
		return err
	}
	if inline == "" {
		return nil
	}
	// The list is already delivered; a lost inline copy must not replace it.
	if err := inv.Responder.FollowUp(ctx, inline, true); err != nil {
		logger.Warn().Err(err).Msg("failed to send inline id list")
	}
	return nil
}

func (c *CompileIDs) deliverDM(ctx context.Context, inv *Invocation, list, inline string) error {
	err := c.platform.SendDirectMessage(ctx, inv.UserID, list)
	if err == nil && inline != "" {
		err = c.platform.SendDirectMessage(ctx, inv.UserID, inline)
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("user_id", inv.UserID.String()).Msg("failed to send ids by DM")
		return inv.Responder.EditReply(ctx, "❌ Could not send you a DM. Do you have DMs disabled?")
	}
	return inv.Responder.EditReply(ctx, "📬 I sent the IDs to your DMs!")
}
