package finalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
)

func TestAssemble_HeaderAndOrder(t *testing.T) {
	f := New()

	updates := []domain.Candidate{
		{Text: "- 🔧 **Alpha**: shipped the connector ([here](https://discord.com/channels/1/2/3))"},
		{Text: "- 🚀 **Beta**: launched testnet ([here](https://discord.com/channels/1/4/5))"},
	}

	got := f.Assemble(updates, 7)
	lines := strings.Split(got, "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "## Updates from the Past 7 Days", lines[0])
	assert.Contains(t, lines[1], "Alpha")
	assert.Contains(t, lines[2], "Beta")
}

func TestAssemble_Empty(t *testing.T) {
	got := New().Assemble(nil, 3)
	assert.Equal(t, "## Updates from the Past 3 Days", got)
}

func TestNormalizeLine(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "extra marker spacing",
			in:   "-   🔧 update text",
			want: "- 🔧 update text",
		},
		{
			name: "missing marker",
			in:   "🔧 update text",
			want: "- 🔧 update text",
		},
		{
			name: "gap between bracket and paren",
			in:   "- 🔧 done [here] (https://discord.com/channels/1/2/3)",
			want: "- 🔧 done [here](https://discord.com/channels/1/2/3)",
		},
		{
			name: "space inside link parens",
			in:   "- 🔧 done [here]( https://discord.com/channels/1/2/3 )",
			want: "- 🔧 done [here](https://discord.com/channels/1/2/3)",
		},
		{
			name: "surrounding whitespace",
			in:   "  - 🔧 update text  ",
			want: "- 🔧 update text",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeLine(tc.in))
		})
	}
}

func TestCollapseBlankLines(t *testing.T) {
	in := "## Header\n\n\n\n- one\n\n\n- two"
	want := "## Header\n\n- one\n\n- two"
	assert.Equal(t, want, CollapseBlankLines(in))
}

func TestFormatForForum(t *testing.T) {
	in := "## Updates from the Past 7 Days\n" +
		"- 🔧 **Alpha**: shipped ([here](https://discord.com/channels/1/2/3))\n" +
		"- 🚀 **Beta**: launched ([here](https://discord.com/channels/1/4/5))"

	got := FormatForForum(in, "*Generated from the community chat.*")

	assert.True(t, strings.HasPrefix(got, "## Updates from the Past 7 Days"))
	assert.Contains(t, got, "\n\n- 🔧 **Alpha**")
	assert.Contains(t, got, "https://discord.com/channels/1/2/3")
	assert.True(t, strings.HasSuffix(got, "---\n*Generated from the community chat.*"))
	assert.NotContains(t, got, "\n\n\n")
}

func TestFormatForForum_NoFooter(t *testing.T) {
	got := FormatForForum("- 🔧 update line", "")
	assert.Equal(t, "- 🔧 update line", got)
	assert.NotContains(t, got, "---")
}

func TestFormatForSocial(t *testing.T) {
	in := "## Updates from the Past 7 Days\n" +
		"- 🔧 **Alpha**: shipped the connector ([here](https://discord.com/channels/1/2/3))\n" +
		"\n" +
		"- 🚀 **Beta**: launched testnet https://discord.com/channels/1/4/5"

	got := FormatForSocial(in)

	assert.NotContains(t, got, "**")
	assert.NotContains(t, got, "discord.com")
	assert.NotContains(t, got, "[here]")
	assert.Contains(t, got, "Updates from the Past 7 Days")
	assert.Contains(t, got, "Alpha: shipped the connector")
	assert.Contains(t, got, "Beta: launched testnet")
}
