package dedup

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
)

// Log key constants for deduplication.
const (
	logKeyKept       = "kept"
	logKeyMerged     = "merged"
	logKeySimilarity = "similarity"
)

const defaultThreshold = 0.7

// Deduplicator merges near-duplicate candidates across the full accumulated
// set using content similarity with an information-richness tie-break.
type Deduplicator struct {
	threshold float64
	dmp       *diffmatchpatch.DiffMatchPatch
	logger    *zerolog.Logger
}

func New(threshold float64, logger *zerolog.Logger) *Deduplicator {
	if threshold <= 0 || threshold >= 1 {
		threshold = defaultThreshold
	}

	return &Deduplicator{
		threshold: threshold,
		dmp:       diffmatchpatch.New(),
		logger:    logger,
	}
}

// Dedupe returns a stable, first-seen-ordered unique list. For each new
// candidate the stripped core content is compared against every previously
// accepted core; above the threshold the pair forms a duplicate group.
// Within a group, two candidates carrying distinct non-empty reference
// links both survive (they document separate discussion threads);
// otherwise the one with the higher information score wins, replacing the
// loser in place so its ordering position is preserved.
//
// Pairwise comparison is O(n²), acceptable for the tens-to-low-hundreds of
// candidates a run produces.
func (d *Deduplicator) Dedupe(candidates []domain.Candidate) []domain.Candidate {
	var unique []domain.Candidate

	var cores []string

	for _, c := range candidates {
		core := CoreContent(c.Text)

		duplicate := false

		for i, existing := range cores {
			ratio := d.similarity(core, existing)
			if ratio <= d.threshold {
				continue
			}

			// Distinct non-empty links document separate threads: keep both.
			if c.HasLink() && unique[i].HasLink() && c.ReferenceURL != unique[i].ReferenceURL {
				continue
			}

			if InfoScore(c.Text) > InfoScore(unique[i].Text) {
				if d.logger != nil {
					d.logger.Debug().
						Str(logKeyKept, c.ReferenceURL).
						Str(logKeyMerged, unique[i].ReferenceURL).
						Float64(logKeySimilarity, ratio).
						Msg("replacing less informative duplicate")
				}

				unique[i] = c
				cores[i] = core
			}

			observability.DuplicatesMerged.Inc()

			duplicate = true

			break
		}

		if !duplicate {
			unique = append(unique, c)
			cores = append(cores, core)
		}
	}

	return unique
}

// similarity computes a character-level similarity ratio in [0,1] from the
// diff between the two strings.
func (d *Deduplicator) similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}

	if longest == 0 {
		return 1
	}

	diffs := d.dmp.DiffMain(a, b, false)
	distance := d.dmp.DiffLevenshtein(diffs)

	return 1 - float64(distance)/float64(longest)
}

var (
	markdownLinkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	boldPattern         = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	bareURLPattern      = regexp.MustCompile(`https?://\S+`)
	ctaPattern          = regexp.MustCompile(`(?i)(read more|explore|view|catch|delve|find out|check out|discover)\s*(?:more\s*)?`)
)

// CoreContent strips markup, links and emoji from a candidate's text,
// producing the normalized string used for similarity comparison.
func CoreContent(text string) string {
	content := strings.TrimSpace(text)
	content = strings.TrimPrefix(content, "- ")

	content = markdownLinkPattern.ReplaceAllString(content, "$1")
	content = boldPattern.ReplaceAllString(content, "$1")
	content = bareURLPattern.ReplaceAllString(content, "")
	content = ctaPattern.ReplaceAllString(content, "")
	content = stripSymbols(content)

	return strings.Join(strings.Fields(content), " ")
}

// stripSymbols removes emoji and other symbol runes, keeping letters,
// digits, punctuation and spaces.
func stripSymbols(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSymbol(r) {
			return -1
		}

		return r
	}, s)
}

var (
	digitPattern   = regexp.MustCompile(`\d`)
	keywordPattern = regexp.MustCompile(`(?i)(implementation|development|infrastructure|protocol|system|platform|version|strategy)`)
	topicPattern   = regexp.MustCompile(`\*\*[A-Z]`)
)

// Information score bonuses.
const (
	bonusDigits   = 2
	bonusQuotes   = 3
	bonusKeywords = 3
	bonusTopic    = 2
	bonusLink     = 5
)

// InfoScore is the heuristic richness score used to break ties among
// near-duplicate candidates: word count plus bonuses for digits, quoted
// text, domain keyword hits, a bolded topic marker and a reference link.
func InfoScore(text string) int {
	score := len(strings.Fields(text))

	if digitPattern.MatchString(text) {
		score += bonusDigits
	}

	if strings.ContainsAny(text, `"'`) {
		score += bonusQuotes
	}

	if keywordPattern.MatchString(text) {
		score += bonusKeywords
	}

	if topicPattern.MatchString(text) {
		score += bonusTopic
	}

	if bareURLPattern.MatchString(text) {
		score += bonusLink
	}

	return score
}
