package commands

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/de-tools/reportbot/pkg/models/domain"
)

// idPattern matches runs of 17 to 20 digits standing as a whole word, the
// shape of a Discord snowflake.
var idPattern = regexp.MustCompile(`\b\d{17,20}\b`)

// ExtractMentions collects the identifiers found in messages as <@id>
// mentions, deduplicated in first-seen order.
func ExtractMentions(messages []domain.Message) []string {
	seen := make(map[string]struct{})
	var mentions []string

	for _, msg := range messages {
		for _, id := range idPattern.FindAllString(msg.Content, -1) {
			mention := fmt.Sprintf("<@%s>", id)
			if _, ok := seen[mention]; ok {
				continue
			}
			seen[mention] = struct{}{}
			mentions = append(mentions, mention)
		}
	}
	return mentions
}

const reportTimeLayout = "Jan 2, 2006, 3:04:05 PM"

// formatIDList renders the one-per-line block, or the empty notice.
func formatIDList(mentions []string, w domain.TimeWindow) string {
	if len(mentions) == 0 {
		return "No IDs found in that period."
	}
	return fmt.Sprintf("**IDs from %s to %s:**\n```\n%s\n```",
		w.Start.Format(reportTimeLayout),
		w.End.Format(reportTimeLayout),
		strings.Join(mentions, "\n"))
}

// formatInlineList renders the space separated block. It is empty when there
// is nothing to list.
func formatInlineList(mentions []string) string {
	if len(mentions) == 0 {
		return ""
	}
	return fmt.Sprintf("**Inline List:**\n```\n%s\n```", strings.Join(mentions, " "))
}
