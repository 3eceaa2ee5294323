package moderator

import (
	"reflect"
	"testing"
)

func seg(actor Actor, text string) Segment {
	return Segment{Actor: actor, Text: text, Timestamp: "00:00:00"}
}

func TestEvaluateChecklist_GreetingOnly(t *testing.T) {
	lex := DefaultLexicon()
	segments := []Segment{seg(ActorAgent, "Hi there, welcome!")}

	status := EvaluateChecklist(lex, segments)

	if !reflect.DeepEqual(status.Completed, []ChecklistItem{ItemGreeting}) {
		t.Errorf("Completed = %v, want [greeting]", status.Completed)
	}
	want := []ChecklistItem{ItemRating, ItemHighlight, ItemPainPoint, ItemSuggestion, ItemClosing}
	if !reflect.DeepEqual(status.Missing, want) {
		t.Errorf("Missing = %v, want %v", status.Missing, want)
	}
}

func TestEvaluateChecklist_GreetingRequiresAgent(t *testing.T) {
	lex := DefaultLexicon()
	// A customer saying hello does not satisfy the greeting item.
	status := EvaluateChecklist(lex, []Segment{seg(ActorCustomer, "hello there")})

	for _, item := range status.Completed {
		if item == ItemGreeting {
			t.Error("greeting should not be satisfied by a customer segment")
		}
	}
}

func TestEvaluateChecklist_Rating(t *testing.T) {
	lex := DefaultLexicon()

	tests := []struct {
		name      string
		segments  []Segment
		satisfied bool
	}{
		{
			name:      "customer digit",
			segments:  []Segment{seg(ActorCustomer, "I'd say a 4 overall")},
			satisfied: true,
		},
		{
			name:      "agent rating word",
			segments:  []Segment{seg(ActorAgent, "How would you rate your experience?")},
			satisfied: true,
		},
		{
			name: "digit inside larger token still matches",
			// Substring matching is deliberately lenient.
			segments:  []Segment{seg(ActorCustomer, "we have 15 licenses")},
			satisfied: true,
		},
		{
			name:      "agent digit does not count",
			segments:  []Segment{seg(ActorAgent, "from 0 to 9")}, // no 1-5 from customer, no rating word
			satisfied: false,
		},
		{
			name:      "no signal",
			segments:  []Segment{seg(ActorCustomer, "it was fine")},
			satisfied: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := EvaluateChecklist(lex, tt.segments)
			got := false
			for _, item := range status.Completed {
				if item == ItemRating {
					got = true
				}
			}
			if got != tt.satisfied {
				t.Errorf("rating satisfied = %v, want %v", got, tt.satisfied)
			}
		})
	}
}

func TestEvaluateChecklist_AnyActorItems(t *testing.T) {
	lex := DefaultLexicon()
	// highlight, pain_point and suggestion match regardless of actor.
	segments := []Segment{
		seg(ActorCustomer, "the highlight was the onboarding"),
		seg(ActorCustomer, "my main problem is the billing page"),
		seg(ActorAgent, "what would you improve?"),
	}

	status := EvaluateChecklist(lex, segments)

	want := []ChecklistItem{ItemHighlight, ItemPainPoint, ItemSuggestion}
	if !reflect.DeepEqual(status.Completed, want) {
		t.Errorf("Completed = %v, want %v", status.Completed, want)
	}
}

func TestEvaluateChecklist_ClosingRequiresAgent(t *testing.T) {
	lex := DefaultLexicon()

	status := EvaluateChecklist(lex, []Segment{seg(ActorCustomer, "thank you, bye")})
	for _, item := range status.Completed {
		if item == ItemClosing {
			t.Error("closing should not be satisfied by a customer segment")
		}
	}

	status = EvaluateChecklist(lex, []Segment{seg(ActorAgent, "Thank you for your time, here is the summary")})
	found := false
	for _, item := range status.Completed {
		if item == ItemClosing {
			found = true
		}
	}
	if !found {
		t.Error("closing should be satisfied by an agent 'thank'/'summary' segment")
	}
}

func TestEvaluateChecklist_Partition(t *testing.T) {
	lex := DefaultLexicon()

	transcripts := [][]Segment{
		nil,
		{seg(ActorAgent, "Hi there, welcome!")},
		{
			seg(ActorAgent, "Hello! Can you rate us 1 to 5?"),
			seg(ActorCustomer, "I love it, a 5"),
			seg(ActorCustomer, "biggest problem is search"),
			seg(ActorAgent, "anything you wish we would change?"),
			seg(ActorAgent, "Thanks, here's a quick summary."),
		},
	}

	for i, segments := range transcripts {
		status := EvaluateChecklist(lex, segments)

		if len(status.Completed)+len(status.Missing) != len(ChecklistOrder) {
			t.Errorf("transcript %d: completed+missing = %d, want %d",
				i, len(status.Completed)+len(status.Missing), len(ChecklistOrder))
		}

		seen := map[ChecklistItem]int{}
		for _, item := range status.Completed {
			seen[item]++
		}
		for _, item := range status.Missing {
			seen[item]++
		}
		for _, item := range ChecklistOrder {
			if seen[item] != 1 {
				t.Errorf("transcript %d: item %s appears %d times across completed+missing, want 1",
					i, item, seen[item])
			}
		}

		// Missing preserves checklist order.
		pos := map[ChecklistItem]int{}
		for idx, item := range ChecklistOrder {
			pos[item] = idx
		}
		for j := 1; j < len(status.Missing); j++ {
			if pos[status.Missing[j-1]] >= pos[status.Missing[j]] {
				t.Errorf("transcript %d: missing not in checklist order: %v", i, status.Missing)
			}
		}
	}
}

func TestEvaluateChecklist_Deterministic(t *testing.T) {
	lex := DefaultLexicon()
	segments := []Segment{
		seg(ActorAgent, "Hello, welcome to the survey"),
		seg(ActorCustomer, "My main frustration is the mobile app"),
		seg(ActorCustomer, "I'd give it a 3"),
	}

	first := EvaluateChecklist(lex, segments)
	for i := 0; i < 10; i++ {
		again := EvaluateChecklist(lex, segments)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d: status %v differs from first run %v", i, again, first)
		}
	}
}
