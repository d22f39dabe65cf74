package domain

import "fmt"

// Deployment holds the credentials and targets of one bot installation.
type Deployment struct {
	Profile   string
	Token     string `validate:"required"`
	ClientID  string `validate:"required,numeric"`
	GuildID   string `validate:"required,numeric"`
	ChannelID string `validate:"required,numeric"`
}

func (d Deployment) String() string {
	return fmt.Sprintf("%s:guild=%s,channel=%s", d.Profile, d.GuildID, d.ChannelID)
}
