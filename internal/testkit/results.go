package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"brainmapp/internal/config"
	"brainmapp/internal/mgh"
)

// ResultsKit writes result directories in the layout produced by the
// analysis pipeline. It backs package tests and the demo command.
type ResultsKit struct {
	Root      string
	Threshold string
}

// NewResultsKit creates a kit rooted at root, using the default threshold label.
func NewResultsKit(root string) *ResultsKit {
	return &ResultsKit{Root: root, Threshold: config.DefaultSigThreshold}
}

// AddModelDir creates <root>/<prefix>.<name>.<measure> with a term table
// listing terms in stack order (the first is the intercept). It returns the
// directory path.
func (k *ResultsKit) AddModelDir(prefix, name, measure string, terms ...string) (string, error) {
	dir := filepath.Join(k.Root, fmt.Sprintf("%s.%s.%s", prefix, name, measure))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if len(terms) == 0 {
		return dir, nil
	}

	var b strings.Builder
	b.WriteString("stack_name\tstack_number\n")
	for i, term := range terms {
		fmt.Fprintf(&b, "%s\t%d\n", term, i)
	}
	if err := os.WriteFile(filepath.Join(dir, "stack_names.txt"), []byte(b.String()), 0o644); err != nil {
		return "", err
	}
	return dir, nil
}

// AddModel creates both hemisphere directories of a model using the lh/rh
// prefixes the pipeline writes.
func (k *ResultsKit) AddModel(name, measure string, terms ...string) (left, right string, err error) {
	if left, err = k.AddModelDir("lh", name, measure, terms...); err != nil {
		return "", "", err
	}
	if right, err = k.AddModelDir("rh", name, measure, terms...); err != nil {
		return "", "", err
	}
	return left, right, nil
}

// ClusterPath returns the cluster-membership volume path of a stack.
func (k *ResultsKit) ClusterPath(dir string, stack int) string {
	return filepath.Join(dir, fmt.Sprintf("stack%d.cache.th%s.abs.sig.ocn.mgh", stack, k.Threshold))
}

// CoefPath returns the beta-coefficient volume path of a stack.
func (k *ResultsKit) CoefPath(dir string, stack int) string {
	return filepath.Join(dir, fmt.Sprintf("stack%d.coef.mgh", stack))
}

// WriteStack writes the cluster and coefficient volumes of a stack. A nil
// betas slice skips the coefficient file.
func (k *ResultsKit) WriteStack(dir string, stack int, clusters, betas []float32) error {
	if err := mgh.WriteFile(k.ClusterPath(dir, stack), clusters); err != nil {
		return err
	}
	if betas == nil {
		return nil
	}
	return mgh.WriteFile(k.CoefPath(dir, stack), betas)
}

// DemoSpec configures GenerateDemo.
type DemoSpec struct {
	Nodes int
	Seed  int64
}

// GenerateDemo writes two synthetic models with blob-shaped clusters so the
// dashboard can be tried without pipeline output.
func (k *ResultsKit) GenerateDemo(spec DemoSpec) error {
	if spec.Nodes <= 0 {
		return fmt.Errorf("demo needs a positive node count")
	}
	rng := rand.New(rand.NewSource(spec.Seed))

	models := []struct {
		name    string
		measure string
		terms   []string
	}{
		{"activity", "thickness", []string{"Intercept", "MVPA", "Age", "Sex"}},
		{"sleep", "area", []string{"Intercept", "Duration", "Age"}},
	}

	for _, m := range models {
		left, right, err := k.AddModel(m.name, m.measure, m.terms...)
		if err != nil {
			return err
		}
		for stack := 1; stack < len(m.terms); stack++ {
			for _, dir := range []string{left, right} {
				clusters, betas := syntheticStack(rng, spec.Nodes)
				if err := k.WriteStack(dir, stack, clusters, betas); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// syntheticStack places up to three contiguous index ranges as clusters and
// draws a smooth signed effect inside each.
func syntheticStack(rng *rand.Rand, nodes int) ([]float32, []float32) {
	clusters := make([]float32, nodes)
	betas := make([]float32, nodes)
	for i := range betas {
		betas[i] = float32(rng.NormFloat64() * 0.01)
	}

	n := rng.Intn(4)
	for c := 1; c <= n; c++ {
		width := nodes/20 + rng.Intn(nodes/20+1)
		start := rng.Intn(max(nodes-width, 1))
		sign := 1.0
		if rng.Intn(2) == 0 {
			sign = -1.0
		}
		for i := start; i < start+width && i < nodes; i++ {
			clusters[i] = float32(c)
			phase := float64(i-start) / float64(width)
			betas[i] = float32(sign * (0.05 + 0.2*math.Sin(math.Pi*phase)))
		}
	}
	return clusters, betas
}
