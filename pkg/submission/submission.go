package submission

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// Truth is one goldstandard row: a case identifier and its binary label.
type Truth struct {
	ID    string
	Label int
}

// Prediction is one submission row: a case identifier and the predicted
// probability of the positive label.
type Prediction struct {
	ID          string
	Probability float64
}

// ReadTruth loads the goldstandard CSV. Columns beyond the two named
// ones are ignored.
func ReadTruth(path, idCol, labelCol string) ([]Truth, error) {
	rows, idx, err := readCSV(path, idCol, labelCol)
	if err != nil {
		return nil, err
	}

	out := make([]Truth, 0, len(rows))
	for i, rec := range rows {
		label, err := strconv.Atoi(rec[idx[1]])
		if err != nil {
			return nil, errors.Errorf("%s: row %d: invalid %s value: %q", path, i+2, labelCol, rec[idx[1]])
		}
		out = append(out, Truth{ID: rec[idx[0]], Label: label})
	}

	return out, nil
}

// ReadPredictions loads the submission CSV. Columns beyond the two
// named ones are ignored.
func ReadPredictions(path, idCol, probCol string) ([]Prediction, error) {
	rows, idx, err := readCSV(path, idCol, probCol)
	if err != nil {
		return nil, err
	}

	out := make([]Prediction, 0, len(rows))
	for i, rec := range rows {
		prob, err := strconv.ParseFloat(rec[idx[1]], 64)
		if err != nil {
			return nil, errors.Errorf("%s: row %d: invalid %s value: %q", path, i+2, probCol, rec[idx[1]])
		}
		out = append(out, Prediction{ID: rec[idx[0]], Probability: prob})
	}

	return out, nil
}

// Join pairs each truth row with its predicted probability, preserving
// the goldstandard row order. Every truth id must have exactly one
// prediction and every label must be binary.
func Join(truth []Truth, preds []Prediction) ([]bool, []float64, error) {
	if len(truth) == 0 {
		return nil, nil, errors.New("goldstandard has no rows")
	}

	byID := make(map[string]float64, len(preds))
	for _, p := range preds {
		if _, ok := byID[p.ID]; ok {
			return nil, nil, errors.Errorf("duplicate prediction id: %s", p.ID)
		}
		byID[p.ID] = p.Probability
	}

	labels := make([]bool, len(truth))
	probs := make([]float64, len(truth))
	for i, tr := range truth {
		if tr.Label != 0 && tr.Label != 1 {
			return nil, nil, errors.Errorf("label for id %s is not binary: %d", tr.ID, tr.Label)
		}
		prob, ok := byID[tr.ID]
		if !ok {
			return nil, nil, errors.Errorf("no prediction for id: %s", tr.ID)
		}
		if math.IsNaN(prob) {
			return nil, nil, errors.Errorf("prediction for id %s is not a number", tr.ID)
		}
		labels[i] = tr.Label == 1
		probs[i] = prob
	}

	return labels, probs, nil
}

// readCSV returns the data records and the positions of the requested
// columns within each record.
func readCSV(path string, cols ...string) ([][]string, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error opening file: %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "error reading header: %s", path)
	}

	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = -1
		for j, h := range header {
			if h == c {
				idx[i] = j
				break
			}
		}
		if idx[i] == -1 {
			return nil, nil, errors.Errorf("%s: missing required column: %s", path, c)
		}
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "error reading records: %s", path)
		}
		rows = append(rows, rec)
	}

	return rows, idx, nil
}
