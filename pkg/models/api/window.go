package api

import "time"

type Window struct {
	WeeksBack     int       `json:"weeks_back"`
	Schedule      string    `json:"schedule"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	DurationHours float64   `json:"duration_hours"`
}

type Command struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Options     []CommandOption `json:"options,omitempty"`
}

type CommandOption struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	Required    bool     `json:"required"`
	Choices     []string `json:"choices,omitempty"`
}

type Health struct {
	Status   string `json:"status"`
	Schedule string `json:"schedule"`
}

type Error struct {
	Error string `json:"error"`
}
