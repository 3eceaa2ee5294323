package moderator

import (
	"context"
	"fmt"
	"strings"

	"github.com/jprochazka/coach/internal/llm"
)

const (
	// transcriptWindow bounds how many trailing segments reach the prompt.
	transcriptWindow = 40

	// Low temperature and a bounded output ceiling keep guidance short and
	// consistent across polls.
	guidanceTemperature = 0.2
	guidanceMaxTokens   = 900

	noTranscriptPlaceholder = "(no transcript yet)"

	taskPreamble = "You receive the current survey transcript and checklist progress."
)

// Composer turns checklist status, tone and the transcript into a prompt,
// calls the text-completion client and returns the guidance text. The client
// and prompt texts are fixed at construction; Compose writes no shared state
// and is safe for concurrent calls.
type Composer struct {
	client       llm.Client
	lex          Lexicon
	checklistMD  string
	instructions string
}

// NewComposer creates a Composer. client may be nil when no provider is
// configured; Compose then fails with ErrNotConfigured.
func NewComposer(client llm.Client, lex Lexicon, checklistMD, instructions string) *Composer {
	return &Composer{
		client:       client,
		lex:          lex,
		checklistMD:  checklistMD,
		instructions: instructions,
	}
}

// Compose generates guidance text for the given analysis state. tone is nil
// when the tone meter had no customer utterances to measure.
func (c *Composer) Compose(ctx context.Context, status ChecklistStatus, tone *Tone, segments []Segment) (string, error) {
	if c.client == nil {
		return "", ErrNotConfigured
	}

	text, err := c.client.Complete(ctx, llm.CompletionRequest{
		System:      c.instructions,
		User:        c.buildRequest(status, tone, segments),
		Temperature: guidanceTemperature,
		MaxTokens:   guidanceMaxTokens,
	})
	if err != nil {
		return "", &UpstreamError{Err: err}
	}
	// An empty completion is passed through; the caller decides whether to
	// re-poll.
	return strings.TrimSpace(text), nil
}

func (c *Composer) buildRequest(status ChecklistStatus, tone *Tone, segments []Segment) string {
	window := segments
	if len(window) > transcriptWindow {
		window = window[len(window)-transcriptWindow:]
	}
	rendered := make([]string, len(window))
	for i, seg := range window {
		rendered[i] = fmt.Sprintf("%s %s: %s", seg.Timestamp, strings.ToUpper(string(seg.Actor)), seg.Text)
	}
	transcript := strings.TrimSpace(strings.Join(rendered, "\n"))
	if transcript == "" {
		transcript = noTranscriptPlaceholder
	}

	statusLines := []string{
		"Completed checklist items: " + listOr(c.labels(status.Completed), "none yet"),
		"Missing checklist items: " + listOr(c.labels(status.Missing), "all complete"),
		"Observed customer tone: " + toneOrNeutral(tone),
	}
	if len(status.Missing) > 0 {
		// The first missing item in checklist order is the coaching focus.
		if tpl, ok := c.lex.Templates[status.Missing[0]]; ok {
			statusLines = append(statusLines, fmt.Sprintf(
				"Priority coaching focus: Coach hint -> %s | Prompt idea -> %s", tpl.Coach, tpl.Prompt))
		}
	}

	return strings.Join([]string{
		taskPreamble,
		"Checklist reference:\n" + c.checklistMD,
		"Status summary:\n" + strings.Join(statusLines, "\n"),
		"Transcript (most recent entries last):\n" + transcript,
	}, "\n\n")
}

func (c *Composer) labels(items []ChecklistItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if label, ok := c.lex.Labels[item]; ok {
			out = append(out, label)
		} else {
			out = append(out, string(item))
		}
	}
	return out
}

func listOr(labels []string, fallback string) string {
	if len(labels) == 0 {
		return fallback
	}
	return strings.Join(labels, ", ")
}

func toneOrNeutral(tone *Tone) string {
	if tone == nil {
		return string(ToneNeutral)
	}
	return string(*tone)
}
