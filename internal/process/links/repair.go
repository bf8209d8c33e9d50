package links

import (
	"fmt"
	"regexp"
)

// Repairer reconstructs a malformed or missing reference link from the
// originating chunk's metadata fields.
type Repairer struct {
	serverID string
}

var (
	messageIDPattern = regexp.MustCompile(`Message ID: (\d+)`)
	channelIDPattern = regexp.MustCompile(`Channel ID: (\d+)`)
	linkPattern      = regexp.MustCompile(`https://discord\.com/channels/(\d+)/(\d+)/(\d+)`)
	embeddedLink     = regexp.MustCompile(`\(https://discord\.com/channels/[^)]*\)`)
)

func New(serverID string) *Repairer {
	return &Repairer{serverID: serverID}
}

// Repair rewrites the candidate text with a canonical reference URL rebuilt
// from the chunk's Channel ID / Message ID metadata. The identifiers are
// copied verbatim. Returns false when either identifier cannot be located;
// callers must treat that as unrepairable and drop the candidate.
func (r *Repairer) Repair(text, chunk string) (string, bool) {
	messageID, channelID, ok := ExtractChunkMetadata(chunk)
	if !ok {
		return "", false
	}

	canonical := r.BuildLink(channelID, messageID)

	if embeddedLink.MatchString(text) {
		return embeddedLink.ReplaceAllString(text, "("+canonical+")"), true
	}

	return text + " ([discussion](" + canonical + "))", true
}

// BuildLink assembles the canonical reference URL for the configured server.
func (r *Repairer) BuildLink(channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", r.serverID, channelID, messageID)
}

// ExtractLink returns the first Discord reference URL found in text, or ""
// when none is present.
func ExtractLink(text string) string {
	return linkPattern.FindString(text)
}

// ExtractLinkComponents splits a reference URL into server, channel and
// message identifiers.
func ExtractLinkComponents(link string) (serverID, channelID, messageID string, ok bool) {
	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", "", "", false
	}

	return m[1], m[2], m[3], true
}

// ExtractChunkMetadata locates the message and channel identifiers in a
// chunk's raw metadata fields.
func ExtractChunkMetadata(chunk string) (messageID, channelID string, ok bool) {
	mm := messageIDPattern.FindStringSubmatch(chunk)
	cm := channelIDPattern.FindStringSubmatch(chunk)

	if mm == nil || cm == nil {
		return "", "", false
	}

	return mm[1], cm[1], true
}
