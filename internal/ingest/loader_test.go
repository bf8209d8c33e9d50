package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportHeader = "channel_id,channel_category,channel_name,message_id,message_content,message_timestamp,message_reactions_count,message_mentions_count,author_id,author_name,author_nickname,role_position\n"

func newTestLoader() *Loader {
	logger := zerolog.Nop()

	return New(&logger)
}

func writeExport(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(exportHeader+body), 0o600))

	return path
}

func TestFindLatestExport(t *testing.T) {
	dir := t.TempDir()

	old := writeExport(t, dir, "json_cleaned_7d.csv", "")
	require.NoError(t, os.Chtimes(old, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))

	sub := filepath.Join(dir, "cleaned")
	require.NoError(t, os.Mkdir(sub, 0o750))
	fresh := writeExport(t, sub, "json_cleaned_2d.csv", "")

	writeExport(t, dir, "other.csv", "")

	got, err := newTestLoader().FindLatestExport(dir)
	require.NoError(t, err)

	assert.Equal(t, fresh, got.Path)
	assert.Equal(t, 2, got.DaysCovered)
}

func TestFindLatestExport_NoMatches(t *testing.T) {
	dir := t.TempDir()
	writeExport(t, dir, "notes.csv", "")

	_, err := newTestLoader().FindLatestExport(dir)
	assert.ErrorIs(t, err, ErrNoExports)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	body := `101,Dev,dev-updates,901,"shipped the connector",2025-06-01T12:00:00Z,3,0,1,alice,al,5
102,Dev,governance,902,"  vote passed  ",2025-06-02 09:30:00 +0000 UTC,0,0,2,bob,,3
103,Dev,dev-updates,903,"",2025-06-01T12:00:00Z,0,0,1,alice,al,5
104,Dev,dev-updates,904,"broken row",not-a-timestamp,0,0,1,alice,al,5
`
	path := writeExport(t, dir, "json_cleaned_7d.csv", body)

	messages, err := newTestLoader().Load(path)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	first := messages[0]
	assert.Equal(t, "101", first.ChannelID)
	assert.Equal(t, "dev-updates", first.ChannelName)
	assert.Equal(t, "Dev", first.ChannelCategory)
	assert.Equal(t, "alice", first.AuthorName)
	assert.Equal(t, "shipped the connector", first.Content)
	assert.Equal(t, "901", first.MessageID)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), first.Timestamp)

	second := messages[1]
	assert.Equal(t, "vote passed", second.Content)
	assert.Equal(t, time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC), second.Timestamp)
}

func TestLoad_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "json_cleaned_1d.csv")
	require.NoError(t, os.WriteFile(path, []byte("channel_id,message_id\n1,2\n"), 0o600))

	_, err := newTestLoader().Load(path)
	assert.ErrorContains(t, err, "message_content")
}

func TestCleanContent(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello world", want: "hello world"},
		{name: "whitespace runs", in: "  a \n b\t c ", want: "a b c"},
		{name: "html markup", in: "<p>release <b>v2</b> is out</p>", want: "release v2 is out"},
		{name: "empty", in: "   ", want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanContent(tc.in))
		})
	}
}
