package moderator

// Actor identifies who spoke a transcript segment.
type Actor string

const (
	ActorAgent    Actor = "agent"
	ActorCustomer Actor = "customer"
)

// Segment is one utterance in the interview transcript. Segments arrive in
// chronological order (oldest first); the engine relies on that ordering for
// its "most recent" windows and never reorders them.
type Segment struct {
	Actor     Actor  `json:"actor"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}
