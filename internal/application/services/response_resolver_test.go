package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/chikitsamitra/internal/application/services"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/internal/knowledge"
)

func newResolver(t *testing.T, entries ...entities.KnowledgeEntry) *services.ResponseResolver {
	t.Helper()
	table, err := knowledge.New(entries)
	require.NoError(t, err)
	return services.NewResponseResolver(table)
}

func TestResponseResolver_FirstMatchInTableOrder(t *testing.T) {
	resolver := newResolver(t,
		entities.KnowledgeEntry{Keywords: []string{"fever", "temperature"}, Response: "fever advice"},
		entities.KnowledgeEntry{Keywords: []string{"headache"}, Response: "headache advice"},
	)

	assert.Equal(t, "fever advice", resolver.Resolve("I have a HEADACHE and a Fever"))
	assert.Equal(t, "headache advice", resolver.Resolve("my headache is bad"))

	match := resolver.Match("High Temperature since morning")
	assert.Equal(t, "temperature", match.Keyword)
	assert.Equal(t, 0, match.Index)
	assert.Equal(t, entities.ResolveOutcomeResolved, match.Outcome)
}

func TestResponseResolver_SubstringMatching(t *testing.T) {
	resolver := newResolver(t, entities.KnowledgeEntry{Keywords: []string{"hi"}, Response: "greeting"})

	// substring semantics: "this" contains "hi"
	assert.Equal(t, "greeting", resolver.Resolve("this is urgent"))
}

func TestResponseResolver_Fallback(t *testing.T) {
	resolver := newResolver(t, entities.KnowledgeEntry{Keywords: []string{"fever"}, Response: "fever advice"})

	for _, msg := range []string{"", "   ", "tell me about insurance"} {
		match := resolver.Match(msg)
		assert.Equal(t, services.FallbackResponse, match.Response)
		assert.Equal(t, -1, match.Index)
		assert.Equal(t, entities.ResolveOutcomeFallback, match.Outcome)
	}
}

func TestResponseResolver_DefaultTable(t *testing.T) {
	table, err := knowledge.Default()
	require.NoError(t, err)
	resolver := services.NewResponseResolver(table)

	assert.Equal(t, "Hello! I'm here to help with your health questions. What would you like to know?", resolver.Resolve("Hello there"))
	assert.Contains(t, resolver.Resolve("Fever since yesterday"), "For fever")
	// "think" contains the greeting keyword "hi", which comes first in the table
	assert.Contains(t, resolver.Resolve("I think I have a fever"), "Hello!")
	assert.Equal(t, services.FallbackResponse, resolver.Resolve("xyzzy"))
}
