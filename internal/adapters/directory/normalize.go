package directory

import (
	"strconv"
	"strings"

	"github.com/zatekoja/chikitsamitra/internal/domain/entities"
	"github.com/zatekoja/chikitsamitra/pkg/utils"
)

// Field aliases, one list per canonical field, in lookup order. Sheet authors
// have used each of these spellings.
var (
	hospitalNameAliases      = []string{"Name", "name", "Hospital Name", "Name (Hospital Name)"}
	stateAliases             = []string{"State", "state"}
	districtAliases          = []string{"District", "district"}
	audienceAliases          = []string{"Target Audience", "state", "State"}
	schemeTitleAliases       = []string{"Scheme Name", "scheme_name", "Scheme", "title"}
	schemeDescriptionAliases = []string{"Description", "description", "desc"}
	faqQuestionAliases       = []string{"question", "Question", "q"}
	faqAnswerAliases         = []string{"answer", "Answer", "a"}
)

// Defaults for required display fields
const (
	defaultSchemeTitle = "Untitled"
	defaultQuestion    = "Question"
)

// pick returns the first alias with a non-blank value, normalized
func pick(rec entities.DirectoryRecord, aliases []string) string {
	for _, alias := range aliases {
		raw, ok := rec[alias]
		if !ok {
			continue
		}
		if v := utils.NormalizeText(cellString(raw)); v != "" {
			return v
		}
	}
	return ""
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return ""
	}
}

// NormalizeHospital maps a Hospitals row to a Hospital
func NormalizeHospital(rec entities.DirectoryRecord) entities.Hospital {
	return entities.Hospital{
		Name:     pick(rec, hospitalNameAliases),
		State:    pick(rec, stateAliases),
		District: pick(rec, districtAliases),
	}
}

// NormalizeAudience returns the audience of a Schemes row. Blank means all of India.
func NormalizeAudience(rec entities.DirectoryRecord) string {
	if audience := pick(rec, audienceAliases); audience != "" {
		return audience
	}
	return entities.SentinelAudience
}

// NormalizeScheme maps a Schemes row to a Scheme
func NormalizeScheme(rec entities.DirectoryRecord) entities.Scheme {
	title := pick(rec, schemeTitleAliases)
	if title == "" {
		title = defaultSchemeTitle
	}
	return entities.Scheme{
		TargetAudience: NormalizeAudience(rec),
		Title:          title,
		Description:    pick(rec, schemeDescriptionAliases),
	}
}

// NormalizeFAQ maps a Medical_FAQ row to an FAQ
func NormalizeFAQ(rec entities.DirectoryRecord) entities.FAQ {
	question := pick(rec, faqQuestionAliases)
	if question == "" {
		question = defaultQuestion
	}
	return entities.FAQ{
		Question: question,
		Answer:   pick(rec, faqAnswerAliases),
	}
}

// IsSentinelAudience reports whether audience means every audience
func IsSentinelAudience(audience string) bool {
	return strings.TrimSpace(audience) == "" || utils.EqualFold(audience, entities.SentinelAudience)
}
