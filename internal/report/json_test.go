// internal/report/json_test.go
package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatterBasic(t *testing.T) {
	f := NewJSONFormatter()
	r := New("plan.md", "out")
	r.FilesInTree = 5
	r.FilesCreated = 5
	r.DirsCreated = 2
	r.UnassignedBlocks = 1
	r.DurationMs = 500
	r.Add("⚠️ something odd")

	out, err := f.Format(r)
	require.NoError(t, err)

	var decoded map[string]any
	err = json.Unmarshal(out, &decoded)
	require.NoError(t, err)

	assert.Equal(t, "plan.md", decoded["input"])
	assert.Equal(t, "out", decoded["output_dir"])
	assert.Equal(t, float64(5), decoded["files_in_tree"])
	assert.Equal(t, float64(2), decoded["dirs_created"])
	assert.Equal(t, float64(1), decoded["unassigned_blocks"])
	assert.Equal(t, float64(500), decoded["duration_ms"])

	warns, ok := decoded["warnings"].([]any)
	require.True(t, ok)
	assert.Len(t, warns, 1)
}

func TestJSONFormatterOmitsEmptyLists(t *testing.T) {
	f := NewJSONFormatter()
	out, err := f.Format(New("plan.md", "out"))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))

	_, hasWarnings := decoded["warnings"]
	_, hasErrors := decoded["errors"]
	assert.False(t, hasWarnings)
	assert.False(t, hasErrors)
}
