package moderator

import (
	"context"
	"fmt"
)

// GuidanceResult is the outcome of one Analyse call.
type GuidanceResult struct {
	GuidanceID   string          `json:"guidance_id"`
	GuidanceText string          `json:"guidance_text"`
	MissingItems []ChecklistItem `json:"missing_items"`
	ToneAlert    *Tone           `json:"tone_alert"`
	// NextPollSeconds is reserved for adaptive polling and currently always
	// absent.
	NextPollSeconds *int `json:"next_poll_seconds"`
}

// Engine orchestrates checklist evaluation, tone measurement and guidance
// composition into a single analysis pass over the transcript. It holds no
// mutable state, so concurrent Analyse calls need no locking.
type Engine struct {
	lex      Lexicon
	composer *Composer
}

// NewEngine creates an Engine over the given lexicon and composer.
func NewEngine(lex Lexicon, composer *Composer) *Engine {
	return &Engine{lex: lex, composer: composer}
}

// Analyse evaluates the transcript and returns coaching guidance. A failed
// completion call fails the whole invocation; checklist and tone results are
// never returned partially.
func (e *Engine) Analyse(ctx context.Context, segments []Segment) (*GuidanceResult, error) {
	status := EvaluateChecklist(e.lex, segments)

	var toneAlert *Tone
	if tone, ok := MeasureTone(e.lex, segments); ok {
		toneAlert = &tone
	}

	guidance, err := e.composer.Compose(ctx, status, toneAlert, segments)
	if err != nil {
		return nil, err
	}

	return &GuidanceResult{
		GuidanceID:   guidanceID(segments),
		GuidanceText: guidance,
		MissingItems: status.Missing,
		ToneAlert:    toneAlert,
	}, nil
}

// guidanceID derives an identifier from the transcript length alone. Two
// different transcripts with the same segment count share an id; the UI only
// uses it to dedupe consecutive polls, so the collision is tolerated.
func guidanceID(segments []Segment) string {
	return fmt.Sprintf("guidance-%d", len(segments))
}
