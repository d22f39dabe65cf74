package domain

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type Channel struct {
	ID        snowflake.ID
	Name      string
	TextBased bool
}

type Message struct {
	ID          snowflake.ID
	ChannelID   snowflake.ID
	CreatedAt   time.Time
	Content     string
	AuthorID    snowflake.ID
	AuthorIsBot bool
	Reactions   map[string]int // emoji -> reactor count
}

// HasReaction reports whether anyone reacted to the message with emoji.
func (m Message) HasReaction(emoji string) bool {
	return m.Reactions[emoji] > 0
}
