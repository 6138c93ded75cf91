package model

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
)

func init() {
	RegisterFactory("dummy", func(config ClientConfig) (Core, error) {
		return NewDummyModel(config.Seed), nil
	})
}

// dummyCompletions are the canned free-form responses the dummy model
// samples from. The shapes cover every task type's parser so a smoke run
// exercises the whole pipeline.
var dummyCompletions = []string{
	"[3, 1, 2, 5, 4]",
	"[0, 1, 2]",
	`["battery", "charger"]`,
	"This is a placeholder answer.",
	"2",
}

var _ Core = (*DummyModel)(nil)

// DummyModel is an offline collaborator for smoke runs and tests. Its
// randomness comes from an explicit seed rather than ambient global
// state, so two runs with the same seed produce identical outputs.
type DummyModel struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDummyModel creates a dummy model driven by the given seed.
func NewDummyModel(seed int64) *DummyModel {
	return &DummyModel{rng: rand.New(rand.NewSource(seed))}
}

// ModelName identifies the dummy backend in logs and metric labels.
func (m *DummyModel) ModelName() string { return "dummy" }

// Predict returns a random option index for multiple-choice prompts and
// a random canned completion otherwise. The mutex keeps the generator's
// sequence well-defined under the batched client's fan-out.
func (m *DummyModel) Predict(_ context.Context, _ string, isMultipleChoice bool) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if isMultipleChoice {
		return strconv.Itoa(m.rng.Intn(4)), nil
	}
	return dummyCompletions[m.rng.Intn(len(dummyCompletions))], nil
}
