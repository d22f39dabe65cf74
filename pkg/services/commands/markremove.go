package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/rs/zerolog"
)

// MarkRemove strips the done emoji from messages of the invoking channel
// inside a window, whoever reacted.
type MarkRemove struct {
	platform   Platform
	calculator *window.Calculator
	scanner    *history.Scanner
	emoji      string
}

func NewMarkRemove(deps Dependencies) *MarkRemove {
	return &MarkRemove{
		platform:   deps.Platform,
		calculator: deps.Calculator,
		scanner:    deps.Scanner,
		emoji:      deps.DoneEmoji,
	}
}

func (m *MarkRemove) Name() string {
	return "markremove"
}

func (m *MarkRemove) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("Removes %s reactions from all messages in the locked window", m.emoji),
		Options: []*discordgo.ApplicationCommandOption{
			weeksOption("weeks", "How many weeks back to include", "0 weeks (from last breakpoint to now)"),
		},
	}
}

func (m *MarkRemove) Execute(ctx context.Context, inv *Invocation) error {
	logger := zerolog.Ctx(ctx)
	weeksBack := inv.Options.Int("weeks", defaultWeeksBack)

	ack := fmt.Sprintf("Removing %s reactions from %s...", m.emoji, periodLabel(weeksBack))
	if err := inv.Responder.Reply(ctx, ack, true); err != nil {
		return err
	}

	if _, err := textChannel(ctx, m.platform, inv.ChannelID); err != nil {
		return err
	}

	w, err := m.calculator.Window(weeksBack)
	if err != nil {
		return err
	}
	if w.IsEmpty() {
		return inv.Responder.EditReply(ctx, fmt.Sprintf("No %s reactions found to remove in that timeframe.", m.emoji))
	}

	src := channelSource{platform: m.platform, channelID: inv.ChannelID}
	messages, err := m.scanner.Scan(ctx, src, w, history.Closed, nil)
	if err != nil {
		return fmt.Errorf("failed to scan channel: %w", err)
	}

	removed := 0
	for _, msg := range messages {
		if !msg.HasReaction(m.emoji) {
			continue
		}
		if err := m.platform.RemoveReaction(ctx, inv.ChannelID, msg.ID, m.emoji); err != nil {
			logger.Warn().Err(err).Str("message_id", msg.ID.String()).Msgf("couldn't remove %s from message", m.emoji)
			continue
		}
		removed++
	}

	logger.Info().
		Int("weeks_back", weeksBack).
		Int("matched", len(messages)).
		Int("removed", removed).
		Msg("removed done reactions")

	if removed == 0 {
		return inv.Responder.EditReply(ctx, fmt.Sprintf("No %s reactions found to remove in that timeframe.", m.emoji))
	}
	return inv.Responder.EditReply(ctx,
		fmt.Sprintf("%s Removed %s from %d message%s.", m.emoji, m.emoji, removed, plural(removed)))
}
