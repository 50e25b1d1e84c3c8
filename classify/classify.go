// Package classify - post-processing for classification model outputs.
package classify

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/visionkit/go-annotate/labels"
)

// Prediction is one class hypothesis with its probability.
type Prediction struct {
	// The class index in the model's output order.
	Index int
	// The softmax probability of the class.
	Score float32
	// The display name, when resolved against a label map.
	Label string
}

// Softmax converts raw logits into probabilities that sum to 1. The
// maximum logit is subtracted before exponentiation to keep the
// intermediate values from overflowing float32.
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		probs[i] = math32.Exp(v - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// TopK returns the k most probable classes in descending probability
// order. Ties keep the lower index first. k larger than the class count
// returns everything.
func TopK(probs []float32, k int) []Prediction {
	if k <= 0 || len(probs) == 0 {
		return nil
	}
	if k > len(probs) {
		k = len(probs)
	}

	preds := make([]Prediction, len(probs))
	for i, p := range probs {
		preds[i] = Prediction{Index: i, Score: p}
	}
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Score > preds[j].Score
	})
	return preds[:k]
}

// TopKLabels resolves the top k predictions against a label map. The
// map's offset must match the model's class indexing; an unknown index
// propagates labels.ErrLabelNotFound.
func TopKLabels(probs []float32, k int, m *labels.Map) ([]Prediction, error) {
	if m == nil {
		return nil, fmt.Errorf("label map is required")
	}

	preds := TopK(probs, k)
	for i := range preds {
		name, err := m.Lookup(preds[i].Index + m.Offset())
		if err != nil {
			return nil, err
		}
		preds[i].Label = name
	}
	return preds, nil
}
