package entities

// KnowledgeEntry maps a group of keywords to one canned advisory.
// Entries are evaluated in table order; the first entry with any keyword
// contained in the message wins.
type KnowledgeEntry struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Response string   `json:"response" yaml:"response"`
}

// ResolveOutcome records how a chat message was answered
type ResolveOutcome string

const (
	ResolveOutcomeResolved ResolveOutcome = "resolved"
	ResolveOutcomeFallback ResolveOutcome = "fallback"
)

// KnowledgeMatch is the result of routing one message through the table
type KnowledgeMatch struct {
	Response string         `json:"response"`
	Keyword  string         `json:"keyword,omitempty"`
	Index    int            `json:"index"`
	Outcome  ResolveOutcome `json:"outcome"`
}
