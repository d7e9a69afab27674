// internal/report/term_test.go
package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryClean(t *testing.T) {
	r := New("plan.md", "out")
	r.FilesWritten = 3

	s := Summary(r)
	assert.Contains(t, s, "---- Final Report ----")
	assert.Contains(t, s, "Files written: 3")
	assert.Contains(t, s, "✅ All files created and verified successfully")
}

func TestSummaryUnassigned(t *testing.T) {
	r := New("plan.md", "out")
	r.UnassignedBlocks = 2

	s := Summary(r)
	assert.Contains(t, s, "2 unassigned block(s) saved in UNASSIGNED/")
}

func TestSummaryErrorsWin(t *testing.T) {
	r := New("plan.md", "out")
	r.UnassignedBlocks = 2
	r.Add("❌ boom")

	s := Summary(r)
	assert.Contains(t, s, "1 error(s)")
	assert.NotContains(t, s, "unassigned block(s)")
}

func TestTermRenderer(t *testing.T) {
	tr, err := NewTermRenderer(80)
	require.NoError(t, err)

	out, err := tr.Render("# Report\n\nHello **world**")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "world")
}

func TestTermRendererEmpty(t *testing.T) {
	tr, err := NewTermRenderer(80)
	require.NoError(t, err)

	out, err := tr.Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
