package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/shopbench/internal/domain"
)

func TestRegistry_Get(t *testing.T) {
	reg := NewRegistry(Config{})

	for _, name := range []string{
		MetricAccuracy,
		MetricHitRate3,
		MetricRougeL,
		MetricSentTransformer,
		MetricMultilingualSentTransformer,
		MetricMicroF1,
		MetricNDCG,
		MetricBLEU,
		MetricJPBLEU,
	} {
		m, err := reg.Get(name)
		require.NoError(t, err, "metric %q", name)
		assert.Equal(t, name, m.Name())
	}
}

func TestRegistry_Get_UnknownMetric(t *testing.T) {
	reg := NewRegistry(Config{})

	_, err := reg.Get("micro-f1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)
	// A near-miss should point at the intended name.
	assert.Contains(t, err.Error(), `"micro f1"`)
}

func TestRegistry_Names_Stable(t *testing.T) {
	reg := NewRegistry(Config{})
	names := reg.Names()
	assert.Len(t, names, 9)
	assert.Equal(t, names, reg.Names())
}
