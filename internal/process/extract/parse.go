package extract

import (
	"regexp"
	"strings"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	"github.com/ergognome/discord-digest-bot/internal/process/links"
)

var (
	boldPattern          = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	projectSuffixPattern = regexp.MustCompile(`(?i)\s+(?:implementation|update|development|improvements?|remarks|protocol|v\d+|version\s+\d+|integration)s?\s*$`)
)

// ParseLines splits a generated text blob into candidate lines on the list
// marker boundary.
func ParseLines(blob string) []string {
	var lines []string

	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") {
			lines = append(lines, line)
		}
	}

	return lines
}

// ParseCandidate normalizes one generated line into a typed Candidate.
// The project label is extracted and simplified, and any embedded reference
// link is pulled out together with its identifiers. All downstream stages
// operate on this shape only.
func ParseCandidate(text string) domain.Candidate {
	c := domain.Candidate{Text: strings.TrimSpace(text)}

	if m := boldPattern.FindStringSubmatch(c.Text); m != nil {
		name := strings.TrimSpace(m[1])

		simplified := simplifyProjectName(name)
		if simplified != name {
			c.Text = strings.Replace(c.Text, "**"+name+"**", "**"+simplified+"**", 1)
		}

		c.ProjectName = simplified
	}

	if link := links.ExtractLink(c.Text); link != "" {
		c.ReferenceURL = link

		if _, channelID, messageID, ok := links.ExtractLinkComponents(link); ok {
			c.ChannelID = channelID
			c.MessageID = messageID
		}
	}

	return c
}

// simplifyProjectName standardizes a project label by dropping trailing
// descriptors ("X improvements", "X protocol v2") and keeping the first word
// with its original capitalization.
func simplifyProjectName(name string) string {
	trimmed := projectSuffixPattern.ReplaceAllString(name, "")

	fields := strings.Fields(trimmed)
	if len(fields) == 0 {
		return name
	}

	return fields[0]
}
