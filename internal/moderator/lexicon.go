package moderator

// GuidanceTemplate is the canned coaching pair for one checklist item: a
// short hint for the interviewer and an example prompt they could say.
type GuidanceTemplate struct {
	Coach  string
	Prompt string
}

// Lexicon is the static keyword configuration driving the checklist
// evaluator and the tone meter. It is injected at construction and never
// mutated, so a test can swap in its own word sets without touching engine
// internals. All matching is case-insensitive substring matching against
// lowercased utterance text.
type Lexicon struct {
	// Triggers maps each checklist item to its trigger words.
	Triggers map[ChecklistItem][]string

	// Negative and Positive are the tone polarity sets.
	Negative []string
	Positive []string

	// Labels maps checklist items to the human-readable names used in the
	// status summary sent to the completion model.
	Labels map[ChecklistItem]string

	// Templates holds the per-item coaching templates.
	Templates map[ChecklistItem]GuidanceTemplate
}

// DefaultLexicon returns the production keyword configuration.
func DefaultLexicon() Lexicon {
	return Lexicon{
		Triggers: map[ChecklistItem][]string{
			ItemGreeting:   {"hello", "hi", "hey", "welcome"},
			ItemRating:     {"rate", "rating", "score"},
			ItemHighlight:  {"positive", "highlight", "enjoy", "favourite", "favorite"},
			ItemPainPoint:  {"pain", "frustration", "issue", "problem", "challenge"},
			ItemSuggestion: {"improve", "suggest", "next", "wish", "change"},
			ItemClosing:    {"thank", "appreciate", "summary", "summarise", "summarize"},
		},
		Negative: []string{"angry", "annoyed", "frustrated", "bad", "terrible", "awful", "disappointed"},
		Positive: []string{"great", "good", "happy", "pleased", "love", "fantastic"},
		Labels: map[ChecklistItem]string{
			ItemGreeting:   "Greeting & consent",
			ItemRating:     "Satisfaction rating",
			ItemHighlight:  "Highlight",
			ItemPainPoint:  "Pain point",
			ItemSuggestion: "Suggestion",
			ItemClosing:    "Closing summary",
		},
		Templates: map[ChecklistItem]GuidanceTemplate{
			ItemGreeting: {
				Coach:  "Open warmly and confirm they can stay for the short survey.",
				Prompt: "Hi there! Do you have a minute for a quick satisfaction survey with me?",
			},
			ItemRating: {
				Coach:  "Guide them back to the rating so the survey stays measurable.",
				Prompt: "On a scale of 1 to 5, how satisfied are you overall right now?",
			},
			ItemHighlight: {
				Coach:  "Invite a specific positive moment before you explore pain points.",
				Prompt: "What has gone especially well recently that we should keep doing?",
			},
			ItemPainPoint: {
				Coach:  "Surface the main friction so we capture what is not working.",
				Prompt: "What has been frustrating or could be better about your recent experience?",
			},
			ItemSuggestion: {
				Coach:  "Collect a concrete next step we could act on.",
				Prompt: "What is one change we could make that would improve things for you?",
			},
			ItemClosing: {
				Coach:  "Summarise highlight, pain point, and suggestion, then thank them before ending.",
				Prompt: "Thanks for the insight. I will recap the highlight, pain point, and suggestion before we finish.",
			},
		},
	}
}
