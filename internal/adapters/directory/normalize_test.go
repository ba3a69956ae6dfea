package directory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zatekoja/chikitsamitra/internal/adapters/directory"
	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
)

func TestNormalizeHospital_Aliases(t *testing.T) {
	tests := []struct {
		name     string
		row      entities.DirectoryRecord
		expected entities.Hospital
	}{
		{
			name:     "canonical columns",
			row:      entities.DirectoryRecord{"Name": " AIIMS ", "State": "Delhi", "District": "New Delhi"},
			expected: entities.Hospital{Name: "AIIMS", State: "Delhi", District: "New Delhi"},
		},
		{
			name:     "lower-case columns",
			row:      entities.DirectoryRecord{"name": "KEM", "state": "Maharashtra", "district": "Mumbai"},
			expected: entities.Hospital{Name: "KEM", State: "Maharashtra", District: "Mumbai"},
		},
		{
			name:     "hospital name column",
			row:      entities.DirectoryRecord{"Hospital Name": "PGIMER", "State": "Chandigarh"},
			expected: entities.Hospital{Name: "PGIMER", State: "Chandigarh"},
		},
		{
			name:     "long name column",
			row:      entities.DirectoryRecord{"Name (Hospital Name)": "CMC Vellore"},
			expected: entities.Hospital{Name: "CMC Vellore"},
		},
		{
			name:     "blank earlier alias falls through",
			row:      entities.DirectoryRecord{"Name": "  ", "name": "JIPMER"},
			expected: entities.Hospital{Name: "JIPMER"},
		},
		{
			name:     "numeric cell",
			row:      entities.DirectoryRecord{"Name": float64(108)},
			expected: entities.Hospital{Name: "108"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, directory.NormalizeHospital(tt.row))
		})
	}
}

func TestNormalizeScheme_Defaults(t *testing.T) {
	scheme := directory.NormalizeScheme(entities.DirectoryRecord{"desc": "Cashless cover"})
	assert.Equal(t, entities.Scheme{TargetAudience: "All India", Title: "Untitled", Description: "Cashless cover"}, scheme)

	scheme = directory.NormalizeScheme(entities.DirectoryRecord{
		"Target Audience": "Kerala",
		"scheme_name":     "KASP",
		"Description":     "State insurance",
	})
	assert.Equal(t, entities.Scheme{TargetAudience: "Kerala", Title: "KASP", Description: "State insurance"}, scheme)
}

func TestNormalizeFAQ_Defaults(t *testing.T) {
	assert.Equal(t, entities.FAQ{Question: "Question", Answer: "Drink ORS"}, directory.NormalizeFAQ(entities.DirectoryRecord{"a": "Drink ORS"}))
	assert.Equal(t, entities.FAQ{Question: "What is ORS?", Answer: "Salts"}, directory.NormalizeFAQ(entities.DirectoryRecord{"Question": "What is ORS?", "Answer": "Salts"}))
}

func TestIsSentinelAudience(t *testing.T) {
	assert.True(t, directory.IsSentinelAudience(""))
	assert.True(t, directory.IsSentinelAudience("all india"))
	assert.True(t, directory.IsSentinelAudience(" ALL INDIA "))
	assert.False(t, directory.IsSentinelAudience("Kerala"))
}
