package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brainmapp/internal/testkit"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func fixture(t *testing.T) string {
	t.Helper()
	t.Setenv("GIN_MODE", "test")
	kit := testkit.NewResultsKit(t.TempDir())
	left, right, err := kit.AddModel("activity", "thickness", "Intercept", "MVPA", "Age")
	require.NoError(t, err)

	betas := []float32{0.5, 0.3, 0.9, 0.1}
	require.NoError(t, kit.WriteStack(left, 1, []float32{1, 1, 0, 0}, betas))
	require.NoError(t, kit.WriteStack(right, 1, []float32{0, 0, 0, 1}, betas))
	require.NoError(t, kit.WriteStack(left, 2, []float32{0, 1, 1, 0}, betas))
	require.NoError(t, kit.WriteStack(right, 2, []float32{0, 0, 0, 0}, betas))
	return kit.Root
}

func TestScanCommand(t *testing.T) {
	root := fixture(t)
	require.NoError(t, os.Mkdir(filepath.Join(root, "lh.orphan.area"), 0o755))

	out, err := run(t, "scan", root)
	require.NoError(t, err)
	assert.Contains(t, out, "1 models in "+root)
	assert.Contains(t, out, "activity.thickness: MVPA, Age")
	assert.Contains(t, out, "1 entries skipped")
}

func TestSummaryCommand(t *testing.T) {
	root := fixture(t)
	xlsx := filepath.Join(t.TempDir(), "summary.xlsx")

	out, err := run(t, "summary", root, "activity.thickness", "MVPA", "--resolution", "native", "--xlsx", xlsx)
	require.NoError(t, err)
	assert.Contains(t, out, "MVPA (activity.thickness) (stack 1)")
	assert.Contains(t, out, "2 clusters identified (1 in the left and 1 in the right hemisphere).")
	assert.Contains(t, out, "Mean beta value [range] = 0.25 [0.10; 0.50]")

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestOverlapCommand(t *testing.T) {
	root := fixture(t)

	out, err := run(t, "overlap", root, "activity.thickness", "MVPA", "activity.thickness", "Age")
	require.NoError(t, err)
	assert.Contains(t, out, "There was a 25% (1 vertices) overlap")
	assert.Contains(t, out, "50% (2 vertices) was unique to MVPA (activity.thickness)")
	assert.Contains(t, out, "25% (1 vertices) was unique to Age (activity.thickness)")
}

func TestSummaryUnknownTerm(t *testing.T) {
	root := fixture(t)
	_, err := run(t, "summary", root, "activity.thickness", "Intercept")
	assert.Error(t, err)
}

func TestDemoCommand(t *testing.T) {
	t.Setenv("GIN_MODE", "test")
	dir := t.TempDir()

	_, err := run(t, "demo", dir, "--nodes", "200")
	require.NoError(t, err)

	out, err := run(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 models in "+dir)
	assert.Contains(t, out, "sleep.area: Duration, Age")
}
