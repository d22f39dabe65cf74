package commands

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/services/history"
	"github.com/de-tools/reportbot/pkg/services/window"
	"github.com/rs/zerolog"
)

// MarkDone reacts with the done emoji to every human message of the invoking
// channel inside a window.
type MarkDone struct {
	platform   Platform
	calculator *window.Calculator
	scanner    *history.Scanner
	emoji      string
}

func NewMarkDone(deps Dependencies) *MarkDone {
	return &MarkDone{
		platform:   deps.Platform,
		calculator: deps.Calculator,
		scanner:    deps.Scanner,
		emoji:      deps.DoneEmoji,
	}
}

func (m *MarkDone) Name() string {
	return "markdone"
}

func (m *MarkDone) Definition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        m.Name(),
		Description: fmt.Sprintf("React to messages in the locked timeframe with a %s", m.emoji),
		Options: []*discordgo.ApplicationCommandOption{
			weeksOption("weeksback", "How many weeks back to mark", "0 weeks (from last breakpoint to now)"),
		},
	}
}

func (m *MarkDone) Execute(ctx context.Context, inv *Invocation) error {
	logger := zerolog.Ctx(ctx)
	weeksBack := inv.Options.Int("weeksback", defaultWeeksBack)

	ack := fmt.Sprintf("Marking messages done %s for %s...", m.emoji, periodLabel(weeksBack))
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
		return inv.Responder.EditReply(ctx, "No messages found to mark done in that timeframe.")
	}

	src := channelSource{platform: m.platform, channelID: inv.ChannelID}
	messages, err := m.scanner.Scan(ctx, src, w, history.Closed, history.NotFromBot)
	if err != nil {
		return fmt.Errorf("failed to scan channel: %w", err)
	}

	reacted := 0
	for _, msg := range messages {
		if err := m.platform.AddReaction(ctx, inv.ChannelID, msg.ID, m.emoji); err != nil {
			logger.Warn().Err(err).Str("message_id", msg.ID.String()).Msg("failed to react to message")
			continue
		}
		reacted++
	}

	logger.Info().
		Int("weeks_back", weeksBack).
		Int("matched", len(messages)).
		Int("reacted", reacted).
		Msg("marked messages done")

	if reacted == 0 {
		return inv.Responder.EditReply(ctx, "No messages found to mark done in that timeframe.")
	}
	return inv.Responder.EditReply(ctx,
		fmt.Sprintf("%s Marked %d message%s as done.", m.emoji, reacted, plural(reacted)))
}
