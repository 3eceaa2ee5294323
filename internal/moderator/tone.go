package moderator

import "strings"

// Tone is a coarse sentiment classification of recent customer utterances.
type Tone string

const (
	ToneNegative Tone = "negative"
	ToneNeutral  Tone = "neutral"
	TonePositive Tone = "positive"
)

// toneWindow is how many of the most recent customer utterances the tone
// meter inspects.
const toneWindow = 4

// MeasureTone classifies the customer's recent tone. Only customer-authored
// segments count, and only the last toneWindow of them. The second return is
// false when the transcript has no customer utterances yet; "no data" is
// distinct from a measured neutral.
//
// Negative beats positive beats neutral: a single negative trigger flags the
// session even if positive words are present in the same window.
func MeasureTone(lex Lexicon, segments []Segment) (Tone, bool) {
	var lines []string
	for _, seg := range segments {
		if seg.Actor == ActorCustomer {
			lines = append(lines, strings.ToLower(seg.Text))
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	if len(lines) > toneWindow {
		lines = lines[len(lines)-toneWindow:]
	}

	for _, line := range lines {
		if containsAny(line, lex.Negative) {
			return ToneNegative, true
		}
	}
	for _, line := range lines {
		if containsAny(line, lex.Positive) {
			return TonePositive, true
		}
	}
	return ToneNeutral, true
}
