package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestF1KnownValues(t *testing.T) {
	// positives={a,b}, negatives={c}, instances={a,c}:
	// tp=1, fn=1, fp=1 → precision=0.5, recall=0.5, F1=0.5
	assert.InDelta(t, 0.5, F1{}.Score(1, 1, 1, 0), 1e-9)

	// perfect classifier
	assert.InDelta(t, 1.0, F1{}.Score(5, 0, 0, 3), 1e-9)

	// nothing retrieved: zero denominators never panic, score 0
	assert.Equal(t, 0.0, F1{}.Score(0, 2, 0, 1))
	assert.Equal(t, 0.0, F1{}.Score(0, 0, 0, 0))
}

func TestMetricBounds(t *testing.T) {
	metrics := []Metric{F1{}, Accuracy{}, Precision{}, Recall{}, Jaccard{}}
	cases := [][4]int{
		{0, 0, 0, 0},
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
		{3, 2, 1, 4},
		{100, 0, 100, 0},
	}
	for _, m := range metrics {
		for _, c := range cases {
			score := m.Score(c[0], c[1], c[2], c[3])
			assert.GreaterOrEqual(t, score, 0.0, "%s%v", m.Name(), c)
			assert.LessOrEqual(t, score, 1.0, "%s%v", m.Name(), c)
		}
	}
}

func TestAccuracy(t *testing.T) {
	assert.InDelta(t, 0.75, Accuracy{}.Score(3, 1, 0, 0), 1e-9)
	assert.InDelta(t, 1.0, Accuracy{}.Score(2, 0, 0, 2), 1e-9)
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 1.0/3.0, Jaccard{}.Score(1, 1, 1, 0), 1e-9)
}

func TestByName(t *testing.T) {
	for _, name := range []string{"f1", "accuracy", "precision", "recall", "jaccard", "", "F1"} {
		m, err := ByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, m)
	}
	_, err := ByName("mcc")
	assert.Error(t, err)
}
