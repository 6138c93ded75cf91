// Package parsers converts raw free-text model responses into the typed
// values each task type expects. Parsers tolerate malformed, truncated,
// and noisy output: every structured task type degrades to a safe default
// instead of failing, so a bad response costs score rather than the run.
package parsers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahrav/shopbench/internal/domain"
	"github.com/ahrav/shopbench/internal/ports"
)

// Truncation caps applied after tokenization. Responses listing more
// entries than the benchmark asks for keep only the leading ones.
const (
	// MaxRankingEntries caps a ranking at its first five ranks.
	MaxRankingEntries = 5

	// MaxRetrievalEntries caps a retrieval list at its first three indexes.
	MaxRetrievalEntries = 3
)

// Registry maps task types to their response parsers. The set is closed
// at construction; an unrecognized task type is a configuration error.
type Registry struct {
	parsers map[domain.TaskType]ports.Parser
}

// NewRegistry builds the registry with one parser per benchmark task type.
func NewRegistry() *Registry {
	reg := &Registry{parsers: make(map[domain.TaskType]ports.Parser)}
	for _, p := range []ports.Parser{
		multipleChoiceParser{},
		rankingParser{},
		retrievalParser{},
		entityParser{},
		generationParser{},
	} {
		reg.parsers[p.TaskType()] = p
	}
	return reg
}

// For returns the parser for a task type, or ErrUnsupportedTaskType for
// anything outside the closed set.
func (r *Registry) For(t domain.TaskType) (ports.Parser, error) {
	p, ok := r.parsers[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedTaskType, t)
	}
	return p, nil
}

// Parse is a convenience that resolves the parser and applies it.
func (r *Registry) Parse(t domain.TaskType, raw string) (domain.ParsedValue, error) {
	p, err := r.For(t)
	if err != nil {
		return domain.ParsedValue{}, err
	}
	return p.Parse(raw), nil
}

var _ ports.Parser = multipleChoiceParser{}

// multipleChoiceParser reads a single option index. The whole trimmed
// response must convert to an integer; anything else yields the -1
// sentinel, which never matches a valid truth index.
type multipleChoiceParser struct{}

func (multipleChoiceParser) TaskType() domain.TaskType { return domain.TaskMultipleChoice }

func (multipleChoiceParser) Parse(raw string) domain.ParsedValue {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return domain.ChoiceValue(domain.UnparsableChoice)
	}
	return domain.ChoiceValue(n)
}

var _ ports.Parser = rankingParser{}

// rankingParser reads an ordered list of numeric ranks. Alphabetic noise
// is dropped token by token, the list is capped at MaxRankingEntries, and
// any duplicate surviving truncation rejects the whole list: a ranking
// must be permutation-like, and duplicates are unrecoverable ambiguity.
type rankingParser struct{}

func (rankingParser) TaskType() domain.TaskType { return domain.TaskRanking }

func (rankingParser) Parse(raw string) domain.ParsedValue {
	ranks := make([]float64, 0, MaxRankingEntries)
	for _, tok := range numericTokens(raw) {
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			continue
		}
		ranks = append(ranks, n)
		if len(ranks) == MaxRankingEntries {
			break
		}
	}

	seen := make(map[float64]struct{}, len(ranks))
	for _, r := range ranks {
		if _, dup := seen[r]; dup {
			return domain.RankingValue([]float64{})
		}
		seen[r] = struct{}{}
	}
	return domain.RankingValue(ranks)
}

var _ ports.Parser = retrievalParser{}

// retrievalParser reads a list of selected item indexes. It shares the
// ranking parser's sanitization but keeps integers only, caps the list at
// MaxRetrievalEntries, and has no duplicate-rejection rule.
type retrievalParser struct{}

func (retrievalParser) TaskType() domain.TaskType { return domain.TaskRetrieval }

func (retrievalParser) Parse(raw string) domain.ParsedValue {
	indexes := make([]int, 0, MaxRetrievalEntries)
	for _, tok := range numericTokens(raw) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		indexes = append(indexes, n)
		if len(indexes) == MaxRetrievalEntries {
			break
		}
	}
	return domain.RetrievalValue(indexes)
}

var _ ports.Parser = entityParser{}

// entityParser reads a list of entity names. It first attempts to read
// the response as a literal list of strings; when that fails it falls
// back to splitting on commas and trimming each fragment. The fallback is
// a normal, expected outcome, not an error path, and never fails on
// arbitrary input.
type entityParser struct{}

func (entityParser) TaskType() domain.TaskType { return domain.TaskNamedEntityRecognition }

func (entityParser) Parse(raw string) domain.ParsedValue {
	if entities, ok := parseLiteralStringList(raw); ok {
		return domain.EntitiesValue(entities)
	}

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.EntitiesValue([]string{})
	}
	var entities []string
	for _, frag := range strings.Split(trimmed, ",") {
		frag = strings.TrimSpace(frag)
		if frag != "" {
			entities = append(entities, frag)
		}
	}
	return domain.EntitiesValue(entities)
}

var _ ports.Parser = generationParser{}

// generationParser passes free text through trimmed. It never fails;
// the worst case is an empty string.
type generationParser struct{}

func (generationParser) TaskType() domain.TaskType { return domain.TaskGeneration }

func (generationParser) Parse(raw string) domain.ParsedValue {
	return domain.TextValue(strings.TrimSpace(raw))
}

// numericTokens strips every character except digits, decimal points,
// commas, brackets, and spaces, then splits on commas and returns the
// non-empty trimmed tokens. Alphabetic noise inside a token disappears
// with the characters that carried it.
func numericTokens(raw string) []string {
	var sanitized strings.Builder
	sanitized.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == ',', r == ' ', r == '.':
			sanitized.WriteRune(r)
		case r == '[', r == ']':
			// Brackets survive sanitization but carry no token content.
		}
	}

	parts := strings.Split(sanitized.String(), ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}
