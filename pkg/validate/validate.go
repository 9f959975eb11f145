package validate

import (
	"fmt"
	"math"

	"github.com/openchallenges/scorer/pkg/config"
	"github.com/openchallenges/scorer/pkg/submission"
)

// Known challenge task numbers. Task 1 is the binary classification task.
var knownTasks = map[int]bool{
	1: true,
}

// Input carries everything one validation pass needs.
type Input struct {
	TaskNumber int
	GoldFile   string
	PredFile   string
	Conf       *config.Config
}

// Run checks the submission format and returns one message per problem
// found. An empty slice means the submission is ready for scoring.
func Run(in Input) []string {
	if in.Conf == nil {
		in.Conf = config.Default()
	}

	if !knownTasks[in.TaskNumber] {
		return []string{fmt.Sprintf("Invalid challenge task number specified: `%d`", in.TaskNumber)}
	}

	cols := in.Conf.Columns

	truth, err := submission.ReadTruth(in.GoldFile, cols.ID, cols.Label)
	if err != nil {
		return []string{fmt.Sprintf("Goldstandard file could not be read: %v", err)}
	}

	preds, err := submission.ReadPredictions(in.PredFile, cols.ID, cols.Probability)
	if err != nil {
		return []string{fmt.Sprintf("Prediction file could not be read: %v", err)}
	}

	var errs []string

	truthIDs := make(map[string]bool, len(truth))
	for _, tr := range truth {
		truthIDs[tr.ID] = true
	}

	seen := make(map[string]bool, len(preds))
	for _, p := range preds {
		if seen[p.ID] {
			errs = append(errs, fmt.Sprintf("Duplicate prediction id: `%s`", p.ID))
		}
		seen[p.ID] = true

		if !truthIDs[p.ID] {
			errs = append(errs, fmt.Sprintf("Unknown prediction id: `%s`", p.ID))
		}
		if math.IsNaN(p.Probability) || p.Probability < 0 || p.Probability > 1 {
			errs = append(errs, fmt.Sprintf("Probability for id `%s` must be between 0 and 1", p.ID))
		}
	}

	for _, tr := range truth {
		if !seen[tr.ID] {
			errs = append(errs, fmt.Sprintf("Missing prediction for id: `%s`", tr.ID))
		}
	}

	return errs
}
