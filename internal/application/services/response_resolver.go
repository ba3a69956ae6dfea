package services

import (
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/knowledge"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
)

// FallbackResponse is returned when no keyword in the table matches
const FallbackResponse = "I understand you're asking about health concerns. For accurate medical advice, please consult with a healthcare professional. I can provide general health information and guide you to resources."

// ResponseResolver routes free-text chat messages to canned advisories
type ResponseResolver struct {
	entries []entities.KnowledgeEntry
}

// NewResponseResolver creates a resolver over table
func NewResponseResolver(table *knowledge.Table) *ResponseResolver {
	return &ResponseResolver{entries: table.Entries()}
}

// Resolve returns the advisory for message, or FallbackResponse
func (r *ResponseResolver) Resolve(message string) string {
	return r.Match(message).Response
}

// Match is Resolve with the matching keyword and entry index.
// Index is -1 for the fallback.
func (r *ResponseResolver) Match(message string) entities.KnowledgeMatch {
	folded := utils.FoldText(message)
	if folded != "" {
		for i, entry := range r.entries {
			for _, keyword := range entry.Keywords {
				if strings.Contains(folded, keyword) {
					return entities.KnowledgeMatch{
						Response: entry.Response,
						Keyword:  keyword,
						Index:    i,
						Outcome:  entities.ResolveOutcomeResolved,
					}
				}
			}
		}
	}

	return entities.KnowledgeMatch{
		Response: FallbackResponse,
		Index:    -1,
		Outcome:  entities.ResolveOutcomeFallback,
	}
}
