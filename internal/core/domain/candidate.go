package domain

// Candidate is one parsed line of generated text prior to validation.
// It is normalized into this shape at parse time; downstream stages never
// branch on raw input shape.
type Candidate struct {
	Text           string
	ProjectName    string
	ReferenceURL   string
	ChannelID      string
	MessageID      string
	Valid          bool
	FailureReasons []string
}

// HasLink reports whether the candidate carries a non-empty reference URL.
func (c Candidate) HasLink() bool {
	return c.ReferenceURL != ""
}
