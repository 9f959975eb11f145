package scoring

import (
	"github.com/openchallenges/scorer/pkg/config"
	"github.com/openchallenges/scorer/pkg/gold"
	"github.com/openchallenges/scorer/pkg/metric"
	"github.com/openchallenges/scorer/pkg/result"
	"github.com/openchallenges/scorer/pkg/submission"
	log "github.com/sirupsen/logrus"
)

// Messages persisted into the results document on the two failure paths.
const (
	scoringErrMsg    = "Error encountered during scoring; submission not evaluated."
	validationErrMsg = "Submission could not be evaluated due to validation errors."
)

// Options for one scoring pass.
type Options struct {
	PredictionsFile    string
	GoldstandardFolder string
	OutputFile         string
	Conf               *config.Config
}

// Outcome is what the scoring pass decided. Status is also the last
// line printed to stdout for the orchestrator.
type Outcome struct {
	Status string         `json:"status"`
	Errors string         `json:"errors,omitempty"`
	Scores *metric.Scores `json:"scores,omitempty"`
}

// Run executes the scoring step: gate on the validation status, extract
// the groundtruth, compute metrics, and merge the outcome back into the
// results document. Submission problems surface in the document, not as
// a returned error; only infrastructure failures do that.
func Run(opts Options) (*Outcome, error) {
	if opts.Conf == nil {
		opts.Conf = config.Default()
	}

	doc, err := result.Load(opts.OutputFile)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Status: result.StatusInvalid}

	if doc.Validated() {
		goldFile, err := gold.Extract(opts.GoldstandardFolder, opts.Conf.ManifestFileName)
		if err != nil {
			return nil, err
		}

		scores, err := scoreFiles(goldFile, opts.PredictionsFile, opts.Conf)
		if err != nil {
			log.Warnf("scoring failed: %v", err)
			out.Errors = scoringErrMsg
		} else {
			out.Status = result.StatusScored
			out.Scores = scores
		}
	} else {
		out.Errors = validationErrMsg
	}

	doc.Set(result.KeyScoreStatus, out.Status)
	doc.SetError(result.KeyScoreErrors, out.Errors)
	if out.Scores != nil {
		doc.Set("auc_roc", out.Scores.AUCROC)
		doc.Set("auprc", out.Scores.AUPRC)
	}

	if err := doc.Save(); err != nil {
		return nil, err
	}

	return out, nil
}

// scoreFiles joins predictions onto the goldstandard and computes the
// ranking metrics.
func scoreFiles(goldFile, predFile string, conf *config.Config) (*metric.Scores, error) {
	cols := conf.Columns

	truth, err := submission.ReadTruth(goldFile, cols.ID, cols.Label)
	if err != nil {
		return nil, err
	}

	preds, err := submission.ReadPredictions(predFile, cols.ID, cols.Probability)
	if err != nil {
		return nil, err
	}

	labels, probs, err := submission.Join(truth, preds)
	if err != nil {
		return nil, err
	}

	return metric.Compute(labels, probs)
}
