package finalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
)

var (
	blankLinesPattern    = regexp.MustCompile(`\n\s*\n\s*\n+`)
	markerSpacingPattern = regexp.MustCompile(`^-\s+`)
	linkSpacingPattern   = regexp.MustCompile(`\(\s+(https://discord\.com/channels/[^)\s]+)\s*\)`)
	bracketGapPattern    = regexp.MustCompile(`\]\s+\(`)
)

// Finalizer normalizes whitespace and markup and assembles the final
// ordered update list. No semantic mutation happens here.
type Finalizer struct{}

func New() *Finalizer {
	return &Finalizer{}
}

// Assemble renders the deduplicated updates as a digest document with a
// header covering the reported window. Order is preserved.
func (f *Finalizer) Assemble(updates []domain.Candidate, daysCovered int) string {
	lines := make([]string, 0, len(updates)+1)
	lines = append(lines, fmt.Sprintf("## Updates from the Past %d Days", daysCovered))

	for _, u := range updates {
		lines = append(lines, NormalizeLine(u.Text))
	}

	return CollapseBlankLines(strings.Join(lines, "\n"))
}

// NormalizeLine fixes marker spacing and link syntax on a single update
// line without touching its content.
func NormalizeLine(text string) string {
	line := strings.TrimSpace(text)
	line = markerSpacingPattern.ReplaceAllString(line, "- ")
	line = bracketGapPattern.ReplaceAllString(line, "](")
	line = linkSpacingPattern.ReplaceAllString(line, "($1)")

	if !strings.HasPrefix(line, "- ") {
		line = "- " + line
	}

	return line
}

// CollapseBlankLines reduces runs of blank lines to a single blank line,
// preserving markdown structure.
func CollapseBlankLines(text string) string {
	return blankLinesPattern.ReplaceAllString(text, "\n\n")
}

var (
	markdownBoldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	discordURLPattern   = regexp.MustCompile(`\(?https://discord\.com/channels/[^)\s]+\)?`)
	multiSpacePattern   = regexp.MustCompile(`\s+`)
)

// FormatForForum reflows a digest for long-form forum posting: blank lines
// around headers, a blank line before each bullet run, and a community
// footer. Markdown and deep links are kept.
func FormatForForum(summary, footer string) string {
	var out []string

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "#"):
			out = append(out, "", line, "")
		case strings.HasPrefix(line, "-"):
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}

			out = append(out, line)
		default:
			out = append(out, line)
		}
	}

	body := strings.Trim(strings.Join(out, "\n"), "\n")
	if footer != "" {
		body += "\n\n---\n" + footer
	}

	return CollapseBlankLines(body)
}

// FormatForSocial strips markdown and deep links for link-hostile surfaces
// such as microblogging, keeping headers as plain lines.
func FormatForSocial(summary string) string {
	var out []string

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			out = append(out, strings.TrimSpace(strings.TrimLeft(line, "#")))

			continue
		}

		line = markdownBoldPattern.ReplaceAllString(line, "$1")
		line = markdownLinkPattern.ReplaceAllString(line, "$1")
		line = discordURLPattern.ReplaceAllString(line, "")
		line = multiSpacePattern.ReplaceAllString(line, " ")

		out = append(out, strings.TrimSpace(line))
	}

	return strings.Join(out, "\n")
}
