package moderator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jprochazka/coach/internal/llm"
)

// fakeClient records the last completion request and returns a canned reply.
type fakeClient struct {
	lastReq llm.CompletionRequest
	reply   string
	err     error
}

func (f *fakeClient) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	f.lastReq = req
	return f.reply, f.err
}

const (
	testChecklistMD  = "# Checklist\n1. Greeting"
	testInstructions = "You are the moderator."
)

func newTestComposer(client llm.Client) *Composer {
	return NewComposer(client, DefaultLexicon(), testChecklistMD, testInstructions)
}

func TestCompose_NotConfigured(t *testing.T) {
	c := newTestComposer(nil)

	_, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v, want ErrNotConfigured", err)
	}
}

func TestCompose_UpstreamFailure(t *testing.T) {
	client := &fakeClient{err: fmt.Errorf("connection refused")}
	c := newTestComposer(client)

	_, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want *UpstreamError", err)
	}
	if !strings.Contains(upstream.Error(), "connection refused") {
		t.Errorf("error should carry the cause, got %q", upstream.Error())
	}
}

func TestCompose_TrimsResult(t *testing.T) {
	client := &fakeClient{reply: "\n  Ask for the rating next.  \n"}
	c := newTestComposer(client)

	got, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got != "Ask for the rating next." {
		t.Errorf("guidance = %q, want trimmed text", got)
	}
}

func TestCompose_EmptyResultAllowed(t *testing.T) {
	client := &fakeClient{reply: "   "}
	c := newTestComposer(client)

	got, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if got != "" {
		t.Errorf("guidance = %q, want empty string passthrough", got)
	}
}

func TestCompose_RequestParameters(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	c := newTestComposer(client)

	_, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if client.lastReq.System != testInstructions {
		t.Errorf("System = %q, want moderator instructions", client.lastReq.System)
	}
	if client.lastReq.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", client.lastReq.Temperature)
	}
	if client.lastReq.MaxTokens != 900 {
		t.Errorf("MaxTokens = %v, want 900", client.lastReq.MaxTokens)
	}
}

func TestCompose_EmptyTranscriptPlaceholder(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	c := newTestComposer(client)

	_, err := c.Compose(context.Background(), ChecklistStatus{}, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if !strings.Contains(client.lastReq.User, "(no transcript yet)") {
		t.Error("empty transcript should be replaced by the placeholder")
	}
	if !strings.Contains(client.lastReq.User, testChecklistMD) {
		t.Error("prompt should embed the checklist reference markdown")
	}
}

func TestCompose_StatusBlock(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	c := newTestComposer(client)
	lex := DefaultLexicon()

	status := ChecklistStatus{
		Completed: []ChecklistItem{ItemGreeting},
		Missing:   []ChecklistItem{ItemRating, ItemHighlight, ItemPainPoint, ItemSuggestion, ItemClosing},
	}
	tone := ToneNegative
	segments := []Segment{{Actor: ActorCustomer, Text: "this is awful", Timestamp: "10:01:02"}}

	_, err := c.Compose(context.Background(), status, &tone, segments)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	prompt := client.lastReq.User

	if !strings.Contains(prompt, "Completed checklist items: Greeting & consent") {
		t.Errorf("prompt missing completed line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Missing checklist items: Satisfaction rating, Highlight, Pain point, Suggestion, Closing summary") {
		t.Errorf("prompt missing missing-items line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Observed customer tone: negative") {
		t.Errorf("prompt missing tone line:\n%s", prompt)
	}

	// Priority focus comes from the first missing item in checklist order.
	tpl := lex.Templates[ItemRating]
	wantFocus := fmt.Sprintf("Priority coaching focus: Coach hint -> %s | Prompt idea -> %s", tpl.Coach, tpl.Prompt)
	if !strings.Contains(prompt, wantFocus) {
		t.Errorf("prompt missing priority focus line %q:\n%s", wantFocus, prompt)
	}

	if !strings.Contains(prompt, "10:01:02 CUSTOMER: this is awful") {
		t.Errorf("prompt missing rendered transcript line:\n%s", prompt)
	}
}

func TestCompose_AllCompleteOmitsFocus(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	c := newTestComposer(client)

	status := ChecklistStatus{Completed: append([]ChecklistItem{}, ChecklistOrder...)}
	_, err := c.Compose(context.Background(), status, nil, nil)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	prompt := client.lastReq.User

	if !strings.Contains(prompt, "Missing checklist items: all complete") {
		t.Errorf("prompt missing 'all complete' line:\n%s", prompt)
	}
	if strings.Contains(prompt, "Priority coaching focus") {
		t.Error("no priority focus expected when nothing is missing")
	}
	// No tone signal renders as neutral in the status block.
	if !strings.Contains(prompt, "Observed customer tone: neutral") {
		t.Errorf("prompt missing neutral tone fallback:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Completed checklist items: Greeting & consent, Satisfaction rating") {
		t.Errorf("prompt missing completed labels:\n%s", prompt)
	}
}

func TestCompose_WindowsTranscriptToLastForty(t *testing.T) {
	client := &fakeClient{reply: "ok"}
	c := newTestComposer(client)

	var segments []Segment
	for i := 0; i < 50; i++ {
		segments = append(segments, Segment{
			Actor:     ActorCustomer,
			Text:      fmt.Sprintf("utterance-%02d", i),
			Timestamp: fmt.Sprintf("00:00:%02d", i),
		})
	}

	_, err := c.Compose(context.Background(), ChecklistStatus{}, nil, segments)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	prompt := client.lastReq.User

	for i := 0; i < 10; i++ {
		if strings.Contains(prompt, fmt.Sprintf("utterance-%02d", i)) {
			t.Errorf("segment %d is outside the 40-segment window but appears in the prompt", i)
		}
	}
	for i := 10; i < 50; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("utterance-%02d", i)) {
			t.Errorf("segment %d is inside the window but missing from the prompt", i)
		}
	}
}
