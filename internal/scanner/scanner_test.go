package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brainmapp/domain/results"
	"brainmapp/domain/surface"
	"brainmapp/internal/errors"
	"brainmapp/internal/testkit"
)

func TestScanBuildsCatalog(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, err := kit.AddModelDir("l", "modelA", "t", "Intercept", "Age", "Sex")
	require.NoError(t, err)
	_, err = kit.AddModelDir("r", "modelA", "t", "Intercept", "Age", "Sex")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)

	key := results.ModelKey{Name: "modelA", Measure: "t"}
	require.Contains(t, res.Catalog, key)
	model := res.Catalog[key]
	assert.Equal(t, map[string]int{"Age": 1, "Sex": 2}, model.Terms)
	assert.Equal(t, []string{"Age", "Sex"}, model.Order)
	assert.Equal(t, filepath.Join(root, "l.modelA.t"), model.Dirs[surface.Left])
	assert.Equal(t, filepath.Join(root, "r.modelA.t"), model.Dirs[surface.Right])
}

func TestScanNeverExposesIntercept(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("m1", "area", "Intercept", "x")
	require.NoError(t, err)
	_, _, err = kit.AddModel("m2", "thickness", "Intercept", "a", "b", "c")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, res.Catalog, 2)

	for key, model := range res.Catalog {
		assert.NotContains(t, model.Terms, "Intercept", key.String())
		for term, stack := range model.Terms {
			assert.NotZero(t, stack, "term %s of %s", term, key)
		}
	}
}

func TestScanDiscardsSingleHemisphere(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("paired", "t", "Intercept", "Age")
	require.NoError(t, err)
	_, err = kit.AddModelDir("lh", "orphan", "t", "Intercept", "Age")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)

	assert.NotContains(t, res.Catalog, results.ModelKey{Name: "orphan", Measure: "t"})
	assert.Contains(t, res.Catalog, results.ModelKey{Name: "paired", Measure: "t"})
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, results.SingleHemisphere, res.Diagnostics[0].Kind)
	assert.Equal(t, "orphan.t", res.Diagnostics[0].Subject)
}

func TestScanReportsDuplicateHemisphere(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("m", "t", "Intercept", "Age")
	require.NoError(t, err)
	_, err = kit.AddModelDir("l", "m", "t", "Intercept", "Sex")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)

	// Directories are read in name order, so l.m.t wins over lh.m.t.
	model, ok := res.Catalog[results.ModelKey{Name: "m", Measure: "t"}]
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "l.m.t"), model.Dirs[surface.Left])
	assert.Equal(t, []string{"Sex"}, model.Order)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, results.DuplicateHemi, res.Diagnostics[0].Kind)
	assert.Equal(t, "lh.m.t", res.Diagnostics[0].Subject)
}

func TestScanDiscardsMissingMarker(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("good", "t", "Intercept", "Age")
	require.NoError(t, err)
	// Directory without a term table, and its twin with one.
	_, err = kit.AddModelDir("lh", "broken", "t")
	require.NoError(t, err)
	_, err = kit.AddModelDir("rh", "broken", "t", "Intercept", "Age")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, res.Catalog, 1)
	kinds := map[results.DiagnosticKind]string{}
	for _, d := range res.Diagnostics {
		kinds[d.Kind] = d.Subject
	}
	assert.Equal(t, "lh.broken.t", kinds[results.MissingMarker])
	assert.Equal(t, "broken.t", kinds[results.SingleHemisphere])
}

func TestScanDiscardsBadNamesAndIgnoresFiles(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("good", "t", "Intercept", "Age")
	require.NoError(t, err)
	_, err = kit.AddModelDir("xh", "weird", "t", "Intercept", "Age")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.txt"), []byte("notes"), 0o644))

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, res.Catalog, 1)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, results.BadName, res.Diagnostics[0].Kind)
}

func TestScanDottedModelName(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	_, _, err := kit.AddModel("pa.adj", "thickness", "Intercept", "MVPA")
	require.NoError(t, err)

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Contains(t, res.Catalog, results.ModelKey{Name: "pa.adj", Measure: "thickness"})
}

func TestScanMalformedMarker(t *testing.T) {
	root := t.TempDir()
	kit := testkit.NewResultsKit(root)
	left, right, err := kit.AddModel("bad", "t")
	require.NoError(t, err)
	for _, dir := range []string{left, right} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFile),
			[]byte("stack_name\tstack_number\nIntercept\t0\nAge\tone\n"), 0o644))
	}

	res, err := New().Scan(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, res.Catalog)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, results.BadMarker, res.Diagnostics[0].Kind)
}

func TestScanEmptyRoot(t *testing.T) {
	res, err := New().Scan(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.NotNil(t, res.Catalog)
	assert.Empty(t, res.Catalog)
}

func TestScanMissingRoot(t *testing.T) {
	res, err := New().Scan(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsCode(err, errors.CodeScanError))
}

func TestScanRootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := New().Scan(context.Background(), path)
	assert.True(t, errors.IsCode(err, errors.CodeScanError))
}

func TestParseStackNamesColumnOrder(t *testing.T) {
	table := "stack_number\tstack_name\n0\tIntercept\n1\tAge\n2\tSex\n"
	terms, err := ParseStackNames(strings.NewReader(table))
	require.NoError(t, err)
	assert.Equal(t, []Term{{Name: "Age", Stack: 1}, {Name: "Sex", Stack: 2}}, terms)
}

func TestParseStackNamesErrors(t *testing.T) {
	_, err := ParseStackNames(strings.NewReader(""))
	assert.Error(t, err)

	_, err = ParseStackNames(strings.NewReader("only_one_column\nx\n"))
	assert.Error(t, err)

	_, err = ParseStackNames(strings.NewReader("stack_name\tstack_number\n"))
	assert.Error(t, err)
}

func TestParseStackNamesInterceptOnly(t *testing.T) {
	terms, err := ParseStackNames(strings.NewReader("stack_name\tstack_number\nIntercept\t0\n"))
	require.NoError(t, err)
	assert.Empty(t, terms)
}
