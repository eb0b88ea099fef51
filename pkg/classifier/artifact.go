package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/nimeshabuddhika/fraud-prediction-api/pkg"
)

const (
	KindLogistic     = "logistic"
	KindTreeEnsemble = "tree_ensemble"

	defaultThreshold = 0.5
)

var ErrInvalidArtifact = errors.New("invalid model artifact")

// Artifact is the serialized model produced by the training pipeline.
//
// Numeric columns feed the model under their own name. A categorical column is one-hot
// encoded into inputs named "<column>=<category>"; a category outside the vocabulary
// encodes to all zeros.
type Artifact struct {
	Name       string              `json:"name"`
	Version    string              `json:"version"`
	Kind       string              `json:"kind"`
	Features   []string            `json:"features"`
	Categories map[string][]string `json:"categories"`
	Threshold  *float64            `json:"threshold,omitempty"`
	Logistic   *LogisticParams     `json:"logistic,omitempty"`
	Trees      []Tree              `json:"trees,omitempty"`
}

type LogisticParams struct {
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// Tree is a binary decision tree stored as a flat node list rooted at index 0.
// Children always point forward, which rules out cycles.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is either a split (Input <= Threshold goes Left, otherwise Right) or a leaf.
type Node struct {
	Input     string   `json:"input,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Left      int      `json:"left,omitempty"`
	Right     int      `json:"right,omitempty"`
	Leaf      *float64 `json:"leaf,omitempty"`
}

// ArtifactModel evaluates a validated Artifact. It is read-only after load.
type ArtifactModel struct {
	artifact  Artifact
	inputs    map[string]bool
	threshold float64
	// weights in feature order, one-hot inputs in vocabulary order
	weights []weightedInput
}

type weightedInput struct {
	input  string
	weight float64
}

// LoadArtifact reads and validates a JSON model file.
func LoadArtifact(path string) (*ArtifactModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	return NewArtifactModel(a)
}

// NewArtifactModel validates a and prepares it for scoring.
func NewArtifactModel(a Artifact) (*ArtifactModel, error) {
	if err := ValidateColumns(a.Features); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	threshold := defaultThreshold
	if a.Threshold != nil {
		threshold = *a.Threshold
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidArtifact, threshold)
	}

	inputs := make(map[string]bool)
	var ordered []string
	for _, f := range a.Features {
		if !IsCategorical(f) {
			inputs[f] = true
			ordered = append(ordered, f)
			continue
		}
		for _, cat := range a.Categories[f] {
			name := oneHotName(f, cat)
			if !inputs[name] {
				ordered = append(ordered, name)
			}
			inputs[name] = true
		}
	}
	for col := range a.Categories {
		if !IsCategorical(col) {
			return nil, fmt.Errorf("%w: categories declared for non-categorical column %q", ErrInvalidArtifact, col)
		}
	}

	var weights []weightedInput
	switch a.Kind {
	case KindLogistic:
		if a.Logistic == nil {
			return nil, fmt.Errorf("%w: logistic parameters missing", ErrInvalidArtifact)
		}
		for in := range a.Logistic.Weights {
			if !inputs[in] {
				return nil, fmt.Errorf("%w: weight for unknown input %q", ErrInvalidArtifact, in)
			}
		}
		for _, in := range ordered {
			if w, ok := a.Logistic.Weights[in]; ok {
				weights = append(weights, weightedInput{input: in, weight: w})
			}
		}
	case KindTreeEnsemble:
		if len(a.Trees) == 0 {
			return nil, fmt.Errorf("%w: tree ensemble has no trees", ErrInvalidArtifact)
		}
		for i, t := range a.Trees {
			if err := t.validate(inputs); err != nil {
				return nil, fmt.Errorf("%w: tree %d: %v", ErrInvalidArtifact, i, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", ErrInvalidArtifact, a.Kind)
	}
	return &ArtifactModel{artifact: a, inputs: inputs, threshold: threshold, weights: weights}, nil
}

func (t Tree) validate(inputs map[string]bool) error {
	if len(t.Nodes) == 0 {
		return errors.New("no nodes")
	}
	for i, n := range t.Nodes {
		if n.Leaf != nil {
			if math.IsNaN(*n.Leaf) || math.IsInf(*n.Leaf, 0) {
				return fmt.Errorf("node %d: leaf is not finite", i)
			}
			continue
		}
		if !inputs[n.Input] {
			return fmt.Errorf("node %d: unknown input %q", i, n.Input)
		}
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(t.Nodes) {
				return fmt.Errorf("node %d: child index %d out of range", i, child)
			}
		}
	}
	return nil
}

func (m *ArtifactModel) Info() ModelInfo {
	return ModelInfo{
		Name:     m.artifact.Name,
		Version:  m.artifact.Version,
		Source:   pkg.ModelSourceFile,
		Features: m.artifact.Features,
	}
}

func (m *ArtifactModel) Predict(_ context.Context, row Row) (Prediction, error) {
	x, err := m.encode(row)
	if err != nil {
		return Prediction{}, err
	}

	var score float64
	switch m.artifact.Kind {
	case KindLogistic:
		z := m.artifact.Logistic.Intercept
		for _, w := range m.weights {
			z += w.weight * x[w.input]
		}
		score = 1 / (1 + math.Exp(-z))
	case KindTreeEnsemble:
		var sum float64
		for _, t := range m.artifact.Trees {
			sum += t.eval(x)
		}
		score = sum / float64(len(m.artifact.Trees))
	}
	if math.IsNaN(score) {
		return Prediction{}, errors.New("model produced NaN score")
	}

	verdict := pkg.VerdictLegitimate
	if score >= m.threshold {
		verdict = pkg.VerdictFraud
	}
	return Prediction{Verdict: verdict, Score: score}, nil
}

// encode turns the row into the model's input vector.
func (m *ArtifactModel) encode(row Row) (map[string]float64, error) {
	x := make(map[string]float64, len(m.inputs))
	for _, f := range m.artifact.Features {
		if IsCategorical(f) {
			v, err := row.String(f)
			if err != nil {
				return nil, err
			}
			name := oneHotName(f, v)
			if m.inputs[name] {
				x[name] = 1
			}
			continue
		}
		v, err := row.Float(f)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("column %q is not finite", f)
		}
		x[f] = v
	}
	return x, nil
}

func (t Tree) eval(x map[string]float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf != nil {
			return *n.Leaf
		}
		if x[n.Input] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func oneHotName(col, category string) string {
	return col + "=" + category
}
