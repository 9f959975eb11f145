package metric

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Scores holds the metrics computed for one submission.
type Scores struct {
	AUCROC float64 `json:"auc_roc"`
	AUPRC  float64 `json:"auprc"`
}

// Compute returns both ranking metrics over binary labels and predicted
// probabilities. Inputs must be the same length, non-empty, contain
// both classes, and be free of NaNs.
func Compute(labels []bool, probs []float64) (*Scores, error) {
	if err := check(labels, probs); err != nil {
		return nil, err
	}

	return &Scores{
		AUCROC: rocAUC(labels, probs),
		AUPRC:  prAUC(labels, probs),
	}, nil
}

func check(labels []bool, probs []float64) error {
	if len(labels) != len(probs) {
		return errors.Errorf("labels and probabilities differ in length: %d vs %d", len(labels), len(probs))
	}
	if len(labels) == 0 {
		return errors.New("no observations to score")
	}

	var pos, neg int
	for i, p := range probs {
		if math.IsNaN(p) {
			return errors.Errorf("probability at index %d is not a number", i)
		}
		if labels[i] {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return errors.New("only one class present, ranking metrics are not defined")
	}

	return nil
}

// rocAUC integrates the ROC curve produced by treating probs as a
// binary classifier score.
func rocAUC(labels []bool, probs []float64) float64 {
	y := make([]float64, len(probs))
	copy(y, probs)
	classes := make([]bool, len(labels))
	copy(classes, labels)

	// stat.ROC wants scores in ascending order with classes alongside.
	sort.Sort(byScore{y: y, classes: classes})
	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)

	return integrate.Trapezoidal(fpr, tpr)
}

// prAUC integrates precision over recall, walking score cutoffs from
// high to low and closing the curve at recall 0, precision 1.
func prAUC(labels []bool, probs []float64) float64 {
	recall, precision := prCurve(labels, probs)
	return integrate.Trapezoidal(recall, precision)
}

// prCurve returns the precision-recall curve in ascending recall order.
// Tied scores share a single cutoff point and the curve stops once full
// recall is reached.
func prCurve(labels []bool, probs []float64) (recall, precision []float64) {
	n := len(probs)
	ord := make([]int, n)
	for i := range ord {
		ord[i] = i
	}
	sort.Slice(ord, func(a, b int) bool { return probs[ord[a]] > probs[ord[b]] })

	var total int
	for _, l := range labels {
		if l {
			total++
		}
	}

	recall = append(recall, 0)
	precision = append(precision, 1)

	var tp, fp int
	for i, idx := range ord {
		if labels[idx] {
			tp++
		} else {
			fp++
		}
		if i+1 < n && probs[ord[i+1]] == probs[idx] {
			continue
		}
		recall = append(recall, float64(tp)/float64(total))
		precision = append(precision, float64(tp)/float64(tp+fp))
		if tp == total {
			break
		}
	}

	return recall, precision
}

type byScore struct {
	y       []float64
	classes []bool
}

func (s byScore) Len() int           { return len(s.y) }
func (s byScore) Less(i, j int) bool { return s.y[i] < s.y[j] }
func (s byScore) Swap(i, j int) {
	s.y[i], s.y[j] = s.y[j], s.y[i]
	s.classes[i], s.classes[j] = s.classes[j], s.classes[i]
}
