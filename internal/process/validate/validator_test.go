package validate

import (
	"testing"

	"github.com/ergognome/discord-digest-bot/internal/core/domain"
)

const testServerID = "668903786361651200"

const validText = "- 🔧 **Satergo**: confirmed initial support for one wallet, with scalable code for future multi-wallet capabilities ([discussion](https://discord.com/channels/668903786361651200/111/222))"

func validCandidate() domain.Candidate {
	return domain.Candidate{
		Text:         validText,
		ProjectName:  "Satergo",
		ReferenceURL: "https://discord.com/channels/668903786361651200/111/222",
		ChannelID:    "111",
		MessageID:    "222",
	}
}

func TestClassify(t *testing.T) {
	v := New(testServerID, 50)

	tests := []struct {
		name       string
		mutate     func(*domain.Candidate)
		wantValid  bool
		wantReason string
	}{
		{
			name:      "valid candidate",
			mutate:    func(c *domain.Candidate) {},
			wantValid: true,
		},
		{
			name: "no marker glyph",
			mutate: func(c *domain.Candidate) {
				c.Text = "- Satergo confirmed initial support for one wallet, with scalable code for future capabilities"
			},
			wantValid:  false,
			wantReason: ReasonNoMarkerGlyph,
		},
		{
			name: "too short",
			mutate: func(c *domain.Candidate) {
				c.Text = "- 🔧 **Satergo**: short"
			},
			wantValid:  false,
			wantReason: ReasonTooShort,
		},
		{
			name: "missing link",
			mutate: func(c *domain.Candidate) {
				c.ReferenceURL = ""
			},
			wantValid:  false,
			wantReason: ReasonMissingLink,
		},
		{
			name: "wrong server id",
			mutate: func(c *domain.Candidate) {
				c.ReferenceURL = "https://discord.com/channels/999/111/222"
			},
			wantValid:  false,
			wantReason: ReasonInvalidLink,
		},
		{
			name: "non-numeric ids",
			mutate: func(c *domain.Candidate) {
				c.ReferenceURL = "https://discord.com/channels/668903786361651200/abc/222"
			},
			wantValid:  false,
			wantReason: ReasonInvalidLink,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)

			valid, reasons := v.Classify(&c)
			if valid != tt.wantValid {
				t.Fatalf("Classify() valid = %v, want %v (reasons %v)", valid, tt.wantValid, reasons)
			}

			if c.Valid != tt.wantValid {
				t.Errorf("candidate.Valid = %v, want %v", c.Valid, tt.wantValid)
			}

			if !tt.wantValid {
				if len(reasons) == 0 || reasons[len(reasons)-1] != tt.wantReason {
					t.Errorf("Classify() reasons = %v, want last %q", reasons, tt.wantReason)
				}
			}
		})
	}
}

// Classify must be deterministic: the same text and server id always yield
// the same classification.
func TestClassify_Deterministic(t *testing.T) {
	v := New(testServerID, 50)

	for i := 0; i < 10; i++ {
		c := validCandidate()
		if valid, _ := v.Classify(&c); !valid {
			t.Fatalf("Classify() flipped to invalid on run %d", i)
		}
	}
}

func TestRepairable(t *testing.T) {
	tests := []struct {
		name    string
		reasons []string
		want    bool
	}{
		{"missing link", []string{ReasonMissingLink}, true},
		{"invalid link", []string{ReasonInvalidLink}, true},
		{"too short", []string{ReasonTooShort}, false},
		{"mixed", []string{ReasonTooShort, ReasonMissingLink}, false},
		{"none", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Repairable(tt.reasons); got != tt.want {
				t.Errorf("Repairable(%v) = %v, want %v", tt.reasons, got, tt.want)
			}
		})
	}
}

func TestValidLink(t *testing.T) {
	v := New(testServerID, 50)

	if !v.ValidLink("https://discord.com/channels/668903786361651200/123/456") {
		t.Error("ValidLink() rejected a canonical link")
	}

	if v.ValidLink("https://discord.com/channels/668903786361651200/123/456/extra") {
		t.Error("ValidLink() accepted a link with trailing segments")
	}
}
