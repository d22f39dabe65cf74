package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/adapters"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// RESTSession is the subset of *discordgo.Session the platform client calls.
type RESTSession interface {
	Channel(channelID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessages(
		channelID string,
		limit int,
		beforeID, afterID, aroundID string,
		options ...discordgo.RequestOption,
	) ([]*discordgo.Message, error)
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactionsRemoveEmoji(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordClient struct {
	session RESTSession
}

func NewDiscordClient(session RESTSession) (*DiscordClient, error) {
	if session == nil {
		return nil, fmt.Errorf("session is nil")
	}
	return &DiscordClient{session: session}, nil
}

func (c *DiscordClient) Channel(ctx context.Context, id snowflake.ID) (domain.Channel, error) {
	ch, err := c.session.Channel(id.String(), discordgo.WithContext(ctx))
	if err != nil {
		return domain.Channel{}, mapChannelError(id, err)
	}
	return adapters.MapDiscordChannelToDomain(ch)
}

// ChannelMessages returns up to limit messages older than before, newest first.
// A zero before starts at the newest message.
func (c *DiscordClient) ChannelMessages(
	ctx context.Context,
	channelID snowflake.ID,
	limit int,
	before snowflake.ID,
) ([]domain.Message, error) {
	var beforeID string
	if before != 0 {
		beforeID = before.String()
	}

	msgs, err := c.session.ChannelMessages(channelID.String(), limit, beforeID, "", "", discordgo.WithContext(ctx))
	if err != nil {
		return nil, mapChannelError(channelID, err)
	}

	zerolog.Ctx(ctx).Trace().
		Str("channel_id", channelID.String()).
		Str("before", beforeID).
		Int("count", len(msgs)).
		Msg("fetched channel messages")

	return adapters.MapDiscordMessagesToDomain(msgs)
}

func (c *DiscordClient) AddReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	err := c.session.MessageReactionAdd(channelID.String(), messageID.String(), emoji, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to add %s to message %s: %w", emoji, messageID, err)
	}
	return nil
}

func (c *DiscordClient) RemoveReaction(ctx context.Context, channelID, messageID snowflake.ID, emoji string) error {
	err := c.session.MessageReactionsRemoveEmoji(channelID.String(), messageID.String(), emoji, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to remove %s from message %s: %w", emoji, messageID, err)
	}
	return nil
}

func (c *DiscordClient) SendDirectMessage(ctx context.Context, userID snowflake.ID, content string) error {
	dm, err := c.session.UserChannelCreate(userID.String(), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel with %s: %w", userID, err)
	}
	if _, err := c.session.ChannelMessageSend(dm.ID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM to %s: %w", userID, err)
	}
	return nil
}

// mapChannelError turns "unknown channel" and "missing access" answers into
// domain.ErrChannelNotFound.
func mapChannelError(id snowflake.ID, err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return err
	}

	if restErr.Message != nil {
		switch restErr.Message.Code {
		case discordgo.ErrCodeUnknownChannel, discordgo.ErrCodeMissingAccess:
			return fmt.Errorf("%w: %s: %s", domain.ErrChannelNotFound, id, restErr.Message.Message)
		}
	}
	if restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrChannelNotFound, id)
	}
	return err
}
