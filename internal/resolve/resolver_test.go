package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchStrategies(t *testing.T) {
	candidates := []string{"config.json", "src/config.py", "config/config.yaml"}

	tests := []struct {
		name     string
		strategy Strategy
		want     string
	}{
		{"first", StrategyFirst, "config.json"},
		{"default empty", "", "config.json"},
		{"longest", StrategyLongest, "config/config.yaml"},
		{"shortest", StrategyShortest, "config.json"},
		{"most specific", StrategyMostSpecific, "src/config.py"},
		{"skip", StrategySkip, ""},
		{"unknown falls back to first", "newest", "config.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Batch{Strategy: tt.strategy}.Choose("config", candidates)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBatchTiesKeepEarliestCandidate(t *testing.T) {
	candidates := []string{"a/util.py", "b/util.py"}

	got, err := Batch{Strategy: StrategyLongest}.Choose("util", candidates)
	require.NoError(t, err)
	assert.Equal(t, "a/util.py", got)

	got, err = Batch{Strategy: StrategyMostSpecific}.Choose("util", candidates)
	require.NoError(t, err)
	assert.Equal(t, "a/util.py", got)
}

func TestBatchTrivialInputs(t *testing.T) {
	got, err := Batch{Strategy: StrategySkip}.Choose("x", nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Batch{Strategy: StrategySkip}.Choose("x", []string{"only.py"})
	require.NoError(t, err)
	assert.Equal(t, "only.py", got, "a single candidate is no conflict")
}

func TestStrategiesListsAllPolicies(t *testing.T) {
	names := Strategies()
	assert.Equal(t, []string{"first", "longest", "shortest", "most_specific", "skip"}, names)
}
