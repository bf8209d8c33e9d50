package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
	"github.com/ergognome/discord-digest-bot/internal/platform/observability"
)

// ErrNoExports indicates no export file matched the expected pattern.
var ErrNoExports = errors.New("ingest: no export files found")

var exportNamePattern = regexp.MustCompile(`^json_cleaned_(\d+)d\.csv$`)

const (
	logKeyPath = "path"
	logKeyRows = "rows"
)

// Loader reads cleaned chat export CSVs produced by the export step.
type Loader struct {
	logger *zerolog.Logger
}

func New(logger *zerolog.Logger) *Loader {
	return &Loader{logger: logger}
}

// Export points at one dated export file on disk.
type Export struct {
	Path        string
	DaysCovered int
}

// FindLatestExport walks dir recursively and returns the most recently
// modified export file, with the covered day count parsed from its name.
func (l *Loader) FindLatestExport(dir string) (*Export, error) {
	var latest *Export

	var latestMod int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		m := exportNamePattern.FindStringSubmatch(d.Name())
		if m == nil {
			return nil
		}

		days, convErr := strconv.Atoi(m[1])
		if convErr != nil || days <= 0 {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		if latest == nil || info.ModTime().UnixNano() > latestMod {
			latest = &Export{Path: path, DaysCovered: days}
			latestMod = info.ModTime().UnixNano()
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan export directory %s: %w", dir, err)
	}

	if latest == nil {
		return nil, ErrNoExports
	}

	l.logger.Info().
		Str(logKeyPath, latest.Path).
		Int("days_covered", latest.DaysCovered).
		Msg("selected latest export")

	return latest, nil
}

// Load parses an export CSV into messages. Rows with an empty content or
// unparseable timestamp are skipped with a warning rather than failing the
// whole file.
func (l *Loader) Load(path string) ([]domain.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export %s: %w", path, err)
	}
	defer f.Close()

	messages, err := l.parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse export %s: %w", path, err)
	}

	observability.MessagesLoaded.Add(float64(len(messages)))
	l.logger.Info().Str(logKeyPath, path).Int(logKeyRows, len(messages)).Msg("loaded export")

	return messages, nil
}

func (l *Loader) parse(r io.Reader) ([]domain.Message, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	for _, required := range []string{"channel_id", "channel_name", "message_id", "message_content", "message_timestamp", "author_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("export missing required column %q", required)
		}
	}

	field := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}

		return strings.TrimSpace(row[idx])
	}

	var messages []domain.Message

	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		content := CleanContent(field(row, "message_content"))
		if content == "" {
			continue
		}

		ts, err := dateparse.ParseAny(field(row, "message_timestamp"))
		if err != nil {
			l.logger.Warn().Err(err).Int("line", line).Msg("skipping row with bad timestamp")

			continue
		}

		messages = append(messages, domain.Message{
			ChannelID:       field(row, "channel_id"),
			ChannelName:     field(row, "channel_name"),
			ChannelCategory: field(row, "channel_category"),
			AuthorName:      field(row, "author_name"),
			Content:         content,
			MessageID:       field(row, "message_id"),
			Timestamp:       ts.UTC(),
		})
	}

	return messages, nil
}

// CleanContent strips HTML markup left over from the export step and
// normalizes the text to NFC so downstream length checks are stable.
func CleanContent(s string) string {
	s = norm.NFC.String(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	if strings.ContainsAny(s, "<>") {
		s = stripHTML(s)
	}

	return strings.Join(strings.Fields(s), " ")
}

func stripHTML(s string) string {
	var b strings.Builder

	tok := html.NewTokenizer(strings.NewReader(s))

	for {
		switch tok.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tok.Text())
		}
	}
}
