// Package knowledge holds the ordered keyword table the chat assistant answers from.
package knowledge

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
	"gopkg.in/yaml.v3"
)

//go:embed table.yaml
var embeddedTable []byte

// Table is an immutable, ordered set of knowledge entries
type Table struct {
	entries []entities.KnowledgeEntry
}

type tableDocument struct {
	Entries []entities.KnowledgeEntry `yaml:"entries"`
}

// Default returns the table shipped with the binary
func Default() (*Table, error) {
	return Parse(embeddedTable)
}

// Load reads a table from path, or returns the default table when path is empty
func Load(path string) (*Table, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML table document
func Parse(data []byte) (*Table, error) {
	var doc tableDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse knowledge table: %w", err)
	}
	return New(doc.Entries)
}

// New validates entries and builds a table. Keywords are folded to lower case.
func New(entries []entities.KnowledgeEntry) (*Table, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge table has no entries")
	}

	out := make([]entities.KnowledgeEntry, 0, len(entries))
	for i, entry := range entries {
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("knowledge entry %d has no keywords", i)
		}
		if strings.TrimSpace(entry.Response) == "" {
			return nil, fmt.Errorf("knowledge entry %d has an empty response", i)
		}

		keywords := make([]string, 0, len(entry.Keywords))
		for _, kw := range entry.Keywords {
			folded := utils.FoldText(kw)
			if folded == "" {
				return nil, fmt.Errorf("knowledge entry %d has an empty keyword", i)
			}
			keywords = append(keywords, folded)
		}
		out = append(out, entities.KnowledgeEntry{Keywords: keywords, Response: entry.Response})
	}

	return &Table{entries: out}, nil
}

// Len returns the number of entries
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns the entries in priority order
func (t *Table) Entries() []entities.KnowledgeEntry {
	out := make([]entities.KnowledgeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
