package domain

import (
	"fmt"
	"strings"
)

// ValueKind discriminates the typed payload of a ParsedValue.
type ValueKind string

// The possible shapes of a parsed model response, one per task type.
const (
	// KindChoice is a single option index; -1 signals an unparsable response.
	KindChoice ValueKind = "choice"

	// KindRanking is an ordered, deduplicated list of numeric ranks;
	// an empty list signals duplicate-rank rejection.
	KindRanking ValueKind = "ranking"

	// KindRetrieval is a length-capped list of selected item indexes.
	KindRetrieval ValueKind = "retrieval"

	// KindEntities is a list of extracted entity names.
	KindEntities ValueKind = "entities"

	// KindText is trimmed free text; never fails, worst case empty.
	KindText ValueKind = "text"
)

// UnparsableChoice is the sentinel returned when a multiple-choice
// response cannot be converted to an option index. It never equals a
// valid ground truth index, so it scores zero naturally.
const UnparsableChoice = -1

// ParsedValue is the typed result of parsing one raw model response.
// Exactly one payload field is meaningful, selected by Kind. Values are
// derived once by a parser and never mutated afterwards.
type ParsedValue struct {
	Kind ValueKind

	Choice    int
	Ranking   []float64
	Retrieved []int
	Entities  []string
	Text      string
}

// ChoiceValue builds a multiple-choice parsed value.
func ChoiceValue(idx int) ParsedValue { return ParsedValue{Kind: KindChoice, Choice: idx} }

// RankingValue builds a ranking parsed value.
func RankingValue(ranks []float64) ParsedValue {
	return ParsedValue{Kind: KindRanking, Ranking: ranks}
}

// RetrievalValue builds a retrieval parsed value.
func RetrievalValue(indexes []int) ParsedValue {
	return ParsedValue{Kind: KindRetrieval, Retrieved: indexes}
}

// EntitiesValue builds a named-entity-recognition parsed value.
func EntitiesValue(entities []string) ParsedValue {
	return ParsedValue{Kind: KindEntities, Entities: entities}
}

// TextValue builds a generation parsed value.
func TextValue(text string) ParsedValue { return ParsedValue{Kind: KindText, Text: text} }

// String renders the payload for progress logging.
func (v ParsedValue) String() string {
	switch v.Kind {
	case KindChoice:
		return fmt.Sprintf("%d", v.Choice)
	case KindRanking:
		parts := make([]string, len(v.Ranking))
		for i, r := range v.Ranking {
			parts[i] = strings.TrimSuffix(fmt.Sprintf("%g", r), ".0")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRetrieval:
		parts := make([]string, len(v.Retrieved))
		for i, n := range v.Retrieved {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindEntities:
		return "[" + strings.Join(v.Entities, ", ") + "]"
	case KindText:
		return v.Text
	default:
		return ""
	}
}
