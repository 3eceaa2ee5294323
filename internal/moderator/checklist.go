package moderator

import "strings"

// ChecklistItem is one of the fixed topics a survey interview must cover.
type ChecklistItem string

const (
	ItemGreeting   ChecklistItem = "greeting"
	ItemRating     ChecklistItem = "rating"
	ItemHighlight  ChecklistItem = "highlight"
	ItemPainPoint  ChecklistItem = "pain_point"
	ItemSuggestion ChecklistItem = "suggestion"
	ItemClosing    ChecklistItem = "closing"
)

// ChecklistOrder is the canonical order of checklist items. It is fixed for
// the whole process, not derived per session.
var ChecklistOrder = []ChecklistItem{
	ItemGreeting,
	ItemRating,
	ItemHighlight,
	ItemPainPoint,
	ItemSuggestion,
	ItemClosing,
}

// ChecklistStatus partitions the checklist into items already covered by the
// transcript and items still missing. Missing preserves checklist order.
type ChecklistStatus struct {
	Completed []ChecklistItem `json:"completed"`
	Missing   []ChecklistItem `json:"missing"`
}

// ratingDigits are matched as substrings of customer utterances. Substring
// matching also hits tokens like "15" or a timestamp; that leniency is an
// accepted limitation of the heuristic, not something to tighten.
var ratingDigits = []string{"1", "2", "3", "4", "5"}

// EvaluateChecklist scans the full transcript once per item and reports which
// checklist items are satisfied. Evaluation is deterministic: the same
// segment sequence always yields the same status.
func EvaluateChecklist(lex Lexicon, segments []Segment) ChecklistStatus {
	type line struct {
		actor Actor
		text  string
	}
	lowered := make([]line, len(segments))
	for i, seg := range segments {
		lowered[i] = line{actor: seg.Actor, text: strings.ToLower(seg.Text)}
	}

	anyActor := func(words []string) bool {
		for _, l := range lowered {
			if containsAny(l.text, words) {
				return true
			}
		}
		return false
	}
	byActor := func(actor Actor, words []string) bool {
		for _, l := range lowered {
			if l.actor == actor && containsAny(l.text, words) {
				return true
			}
		}
		return false
	}

	satisfied := map[ChecklistItem]bool{
		ItemGreeting: byActor(ActorAgent, lex.Triggers[ItemGreeting]),
		// Either a digit in a customer line or a rating word from the agent
		// counts; the rule is intentionally lenient.
		ItemRating: byActor(ActorCustomer, ratingDigits) ||
			byActor(ActorAgent, lex.Triggers[ItemRating]),
		ItemHighlight:  anyActor(lex.Triggers[ItemHighlight]),
		ItemPainPoint:  anyActor(lex.Triggers[ItemPainPoint]),
		ItemSuggestion: anyActor(lex.Triggers[ItemSuggestion]),
		ItemClosing:    byActor(ActorAgent, lex.Triggers[ItemClosing]),
	}

	completed := make([]ChecklistItem, 0, len(ChecklistOrder))
	missing := make([]ChecklistItem, 0, len(ChecklistOrder))
	for _, item := range ChecklistOrder {
		if satisfied[item] {
			completed = append(completed, item)
		} else {
			missing = append(missing, item)
		}
	}
	return ChecklistStatus{Completed: completed, Missing: missing}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
