package adapters

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/disgoorg/snowflake/v2"
)

func MapDiscordMessageToDomain(msg *discordgo.Message) (domain.Message, error) {
	if msg == nil {
		return domain.Message{}, fmt.Errorf("message is nil")
	}

	id, err := snowflake.Parse(msg.ID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid message id %q: %w", msg.ID, err)
	}
	channelID, err := parseOptionalID(msg.ChannelID)
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid channel id %q: %w", msg.ChannelID, err)
	}

	createdAt := msg.Timestamp
	if createdAt.IsZero() {
		createdAt = id.Time()
	}

	result := domain.Message{
		ID:        id,
		ChannelID: channelID,
		CreatedAt: createdAt,
		Content:   msg.Content,
	}

	if msg.Author != nil {
		result.AuthorIsBot = msg.Author.Bot
		if result.AuthorID, err = parseOptionalID(msg.Author.ID); err != nil {
			return domain.Message{}, fmt.Errorf("invalid author id %q: %w", msg.Author.ID, err)
		}
	}

	if len(msg.Reactions) > 0 {
		result.Reactions = make(map[string]int, len(msg.Reactions))
		for _, r := range msg.Reactions {
			if r == nil || r.Emoji == nil {
				continue
			}
			result.Reactions[r.Emoji.APIName()] += r.Count
		}
	}

	return result, nil
}

// MapDiscordMessagesToDomain keeps the order of msgs.
func MapDiscordMessagesToDomain(msgs []*discordgo.Message) ([]domain.Message, error) {
	result := make([]domain.Message, 0, len(msgs))
	for _, msg := range msgs {
		mapped, err := MapDiscordMessageToDomain(msg)
		if err != nil {
			return nil, err
		}
		result = append(result, mapped)
	}
	return result, nil
}

func MapDiscordChannelToDomain(ch *discordgo.Channel) (domain.Channel, error) {
	if ch == nil {
		return domain.Channel{}, fmt.Errorf("channel is nil")
	}

	id, err := snowflake.Parse(ch.ID)
	if err != nil {
		return domain.Channel{}, fmt.Errorf("invalid channel id %q: %w", ch.ID, err)
	}

	return domain.Channel{
		ID:        id,
		Name:      ch.Name,
		TextBased: IsTextBased(ch.Type),
	}, nil
}

// IsTextBased reports whether messages can be read from and reacted to in a
// channel of type t.
func IsTextBased(t discordgo.ChannelType) bool {
	switch t {
	case discordgo.ChannelTypeGuildText,
		discordgo.ChannelTypeDM,
		discordgo.ChannelTypeGroupDM,
		discordgo.ChannelTypeGuildNews,
		discordgo.ChannelTypeGuildNewsThread,
		discordgo.ChannelTypeGuildPublicThread,
		discordgo.ChannelTypeGuildPrivateThread,
		discordgo.ChannelTypeGuildVoice,
		discordgo.ChannelTypeGuildStageVoice:
		return true
	default:
		return false
	}
}

// MapInteractionOptions flattens the top level options of a slash command.
func MapInteractionOptions(opts []*discordgo.ApplicationCommandInteractionDataOption) map[string]any {
	result := make(map[string]any, len(opts))
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt.Type {
		case discordgo.ApplicationCommandOptionInteger:
			result[opt.Name] = opt.IntValue()
		case discordgo.ApplicationCommandOptionString:
			result[opt.Name] = opt.StringValue()
		case discordgo.ApplicationCommandOptionBoolean:
			result[opt.Name] = opt.BoolValue()
		default:
			result[opt.Name] = opt.Value
		}
	}
	return result
}

func parseOptionalID(raw string) (snowflake.ID, error) {
	if raw == "" {
		return 0, nil
	}
	return snowflake.Parse(raw)
}
