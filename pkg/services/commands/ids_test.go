package commands

import (
	"testing"
	"time"

	"github.com/de-tools/reportbot/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name     string
		contents []string
		expected []string
	}{
		{
			name:     "mention kept and 21 digit run ignored",
			contents: []string{"ping <@123456789012345678> and 98765432109876543210999"},
			expected: []string{"<@123456789012345678>"},
		},
		{
			name:     "length bounds",
			contents: []string{"1234567890123456 12345678901234567 12345678901234567890 123456789012345678901"},
			expected: []string{"<@12345678901234567>", "<@12345678901234567890>"},
		},
		{
			name:     "digits glued to letters are not words",
			contents: []string{"id123456789012345678 123456789012345678x"},
			expected: nil,
		},
		{
			name: "deduplicated in first seen order across messages",
			contents: []string{
				"222222222222222222 111111111111111111",
				"111111111111111111 333333333333333333 222222222222222222",
			},
			expected: []string{
				"<@222222222222222222>",
				"<@111111111111111111>",
				"<@333333333333333333>",
			},
		},
		{
			name:     "message links split on slashes",
			contents: []string{"https://discord.com/channels/111111111111111111/222222222222222222"},
			expected: []string{"<@111111111111111111>", "<@222222222222222222>"},
		},
		{
			name:     "no ids",
			contents: []string{"done for the week", ""},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var messages []domain.Message
			for _, content := range tt.contents {
				messages = append(messages, domain.Message{Content: content})
			}
			assert.Equal(t, tt.expected, ExtractMentions(messages))
		})
	}
}

func TestFormatIDList(t *testing.T) {
	w := domain.TimeWindow{
		Start: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
	}

	assert.Equal(t, "No IDs found in that period.", formatIDList(nil, w))
	assert.Equal(t,
		"**IDs from Mar 4, 2024, 9:00:00 AM to Mar 11, 2024, 9:00:00 AM:**\n```\n<@1>\n<@2>\n```",
		formatIDList([]string{"<@1>", "<@2>"}, w))
}

func TestFormatInlineList(t *testing.T) {
	assert.Empty(t, formatInlineList(nil))
	assert.Equal(t, "**Inline List:**\n```\n<@1> <@2>\n```", formatInlineList([]string{"<@1>", "<@2>"}))
}
