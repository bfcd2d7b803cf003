// Package evaluation implements ranking-quality metrics for comparing
// recommendation result sets against a ground-truth set of titles.
package evaluation

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"
)

// PrecisionRecall holds precision, recall and F1 at a cutoff
type PrecisionRecall struct {
	Precision float64
	Recall    float64
	F1        float64
}

// PrecisionRecallAtK scores the first k recommended titles against the
// ground truth
func PrecisionRecallAtK(recommended, groundTruth []string, k int) PrecisionRecall {
	if k > 0 && len(recommended) > k {
		recommended = recommended[:k]
	}

	recommendedSet := mapset.NewSet(recommended...)
	truthSet := mapset.NewSet(groundTruth...)

	if recommendedSet.Cardinality() == 0 || truthSet.Cardinality() == 0 {
		return PrecisionRecall{}
	}

	truePositives := float64(recommendedSet.Intersect(truthSet).Cardinality())
	precision := truePositives / float64(recommendedSet.Cardinality())
	recall := truePositives / float64(truthSet.Cardinality())

	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * (precision * recall) / (precision + recall)
	}

	return PrecisionRecall{
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}

// NDCGAtK computes normalised discounted cumulative gain at k with binary
// relevance: 1 when the recommended title is in the ground truth
func NDCGAtK(recommended, groundTruth []string, k int) float64 {
	if k > 0 && len(recommended) > k {
		recommended = recommended[:k]
	}
	if len(recommended) == 0 {
		return 0
	}

	truthSet := mapset.NewSet(groundTruth...)

	relevance := make([]float64, 0, len(recommended))
	for _, title := range recommended {
		if truthSet.Contains(title) {
			relevance = append(relevance, 1)
		} else {
			relevance = append(relevance, 0)
		}
	}

	ideal := truthSet.Cardinality()
	if k > 0 && ideal > k {
		ideal = k
	}
	idealRelevance := make([]float64, ideal)
	for i := range idealRelevance {
		idealRelevance[i] = 1
	}

	idcg := dcg(idealRelevance)
	if idcg == 0 {
		return 0
	}
	return dcg(relevance) / idcg
}

func dcg(relevance []float64) float64 {
	var sum float64
	for i, score := range relevance {
		sum += score / math.Log2(float64(i)+2)
	}
	return sum
}
