package results

import (
	"fmt"
	"sort"
	"strings"

	"brainmapp/domain/surface"
)

// ModelKey identifies a fitted model independently of hemisphere.
type ModelKey struct {
	Name    string
	Measure string
}

// String returns the "<name>.<measure>" identifier shown to users.
func (k ModelKey) String() string {
	return k.Name + "." + k.Measure
}

// ParseModelKey parses "<name>.<measure>". The measure is the last dot
// separated component, so model names may themselves contain dots.
func ParseModelKey(s string) (ModelKey, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return ModelKey{}, fmt.Errorf("model identifier %q is not <name>.<measure>", s)
	}
	return ModelKey{Name: s[:i], Measure: s[i+1:]}, nil
}

// ResultEntry is one validated hemisphere directory of a model.
type ResultEntry struct {
	Hemisphere surface.Hemisphere
	Key        ModelKey
	Dir        string
}

// Model is a catalog entry: the selectable terms of a model plus the
// directories holding each hemisphere's output.
type Model struct {
	Key ModelKey
	// Terms maps term name to its 1-based stack index.
	Terms map[string]int
	// Order lists term names in stack order.
	Order []string
	Dirs  map[surface.Hemisphere]string
}

// Stack resolves a term name to its stack index.
func (m Model) Stack(term string) (int, bool) {
	n, ok := m.Terms[term]
	return n, ok
}

// Catalog maps model keys to models. It is built by the scanner and treated as
// read-only afterwards.
type Catalog map[ModelKey]Model

// Keys returns the model keys sorted by identifier.
func (c Catalog) Keys() []ModelKey {
	keys := make([]ModelKey, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// Lookup resolves a selection to its model and stack index.
func (c Catalog) Lookup(sel Selection) (Model, int, error) {
	m, ok := c[sel.Model]
	if !ok {
		return Model{}, 0, fmt.Errorf("model %s is not in the catalog", sel.Model)
	}
	stack, ok := m.Stack(sel.Term)
	if !ok {
		return Model{}, 0, fmt.Errorf("term %q is not a term of model %s", sel.Term, sel.Model)
	}
	return m, stack, nil
}

// Selection is a (model, term) pair chosen in a result panel.
type Selection struct {
	Model ModelKey
	Term  string
}

func (s Selection) String() string {
	return fmt.Sprintf("%s (%s)", s.Term, s.Model)
}

// DiagnosticKind classifies why a directory was left out of the catalog.
type DiagnosticKind string

const (
	MissingMarker    DiagnosticKind = "missing_marker"
	BadName          DiagnosticKind = "bad_name"
	SingleHemisphere DiagnosticKind = "single_hemisphere"
	BadMarker        DiagnosticKind = "bad_marker"
	DuplicateHemi    DiagnosticKind = "duplicate_hemisphere"
)

// Diagnostic records a discarded entry. Discards never fail a scan.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Subject string         `json:"subject"`
	Message string         `json:"message"`
}

// ScanResult is the outcome of scanning a results root.
type ScanResult struct {
	Root        string
	Catalog     Catalog
	Diagnostics []Diagnostic
}
