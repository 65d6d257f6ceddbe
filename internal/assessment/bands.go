package assessment

// Band is a feedback label for a percentage range starting at Min.
type Band struct {
	Min     int    `yaml:"min" json:"min"`
	Label   string `yaml:"label" json:"label"`
	Message string `yaml:"message" json:"message"`
}

// BandPolicy maps a percentage to feedback. It is presentation only and never
// changes the pass/fail classification. Bands are ordered by descending Min.
type BandPolicy []Band

// DefaultBands is the banding used across the course pages.
var DefaultBands = BandPolicy{
	{Min: 100, Label: "perfect", Message: "Perfect score. You know this section inside out."},
	{Min: 80, Label: "strong_pass", Message: "Strong result. Review any questions you missed."},
	{Min: 60, Label: "borderline", Message: "Nearly there. Re-read the section and try again."},
	{Min: 0, Label: "keep_practising", Message: "Keep practising. Work through the section once more before retaking."},
}

// For returns the first band whose Min is at or below pct.
func (p BandPolicy) For(pct int) (Band, bool) {
	for _, b := range p {
		if pct >= b.Min {
			return b, true
		}
	}
	return Band{}, false
}
