package widget

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/p-n-ai/trade-courses/internal/assessment"
)

const (
	msgCorrect   = "Correct."
	msgIncorrect = "Not quite."
	msgPassed    = "passed"
	msgNotPassed = "not yet passed"
	msgScored    = "You scored %d out of %d (%d%%), %s. The pass mark is %d%%."
)

// catalog holds the feedback lines per supported locale.
var catalog = map[language.Tag]map[string]string{
	language.BritishEnglish: {
		msgCorrect:   "Correct.",
		msgIncorrect: "Not quite.",
		msgPassed:    "passed",
		msgNotPassed: "not yet passed",
		msgScored:    "You scored %d out of %d (%d%%), %s. The pass mark is %d%%.",
	},
	language.Malay: {
		msgCorrect:   "Betul.",
		msgIncorrect: "Kurang tepat.",
		msgPassed:    "lulus",
		msgNotPassed: "belum lulus",
		msgScored:    "Anda mendapat %d daripada %d (%d%%), %s. Markah lulus ialah %d%%.",
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, msg := range msgs {
			if err := message.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// supported lists the locales with feedback translations. The first entry is
// the fallback.
var supported = []language.Tag{language.BritishEnglish, language.Malay}

var matcher = language.NewMatcher(supported)

// ParseLocale returns the closest supported locale for a BCP 47 string,
// falling back to British English.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return supported[0]
	}
	_, i, _ := matcher.Match(tag)
	return supported[i]
}

// Summary renders a one-line feedback message for a snapshot, or "" when the
// phase has nothing to report.
func Summary(tag language.Tag, snap assessment.Snapshot) string {
	p := message.NewPrinter(tag)
	switch snap.Phase {
	case assessment.PhaseRevealed:
		if snap.IsCorrect != nil && *snap.IsCorrect {
			return p.Sprintf(msgCorrect)
		}
		return p.Sprintf(msgIncorrect)
	case assessment.PhaseComplete:
		if snap.Percentage == nil || snap.Passed == nil {
			return ""
		}
		verdict := p.Sprintf(msgNotPassed)
		if *snap.Passed {
			verdict = p.Sprintf(msgPassed)
		}
		return p.Sprintf(msgScored,
			snap.Score, snap.Total, *snap.Percentage, verdict, snap.PassThreshold)
	}
	return ""
}
