package main

import (
	"fmt"
	"time"

	"github.com/openchallenges/scorer/pkg/config"
	"github.com/openchallenges/scorer/pkg/data"
	"github.com/openchallenges/scorer/pkg/scoring"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const outputFileDefault = "results.json"

var (
	predictionsFileFlag = &cli.StringFlag{
		Name:     "predictions_file",
		Aliases:  []string{"p"},
		Usage:    "Path to the prediction file",
		Required: true,
	}

	goldstandardFolderFlag = &cli.StringFlag{
		Name:     "goldstandard_folder",
		Aliases:  []string{"g"},
		Usage:    "Path to the folder containing the goldstandard file",
		Required: true,
	}

	outputFileFlag = &cli.StringFlag{
		Name:    "output_file",
		Aliases: []string{"o"},
		Usage:   "Path to save/update the results JSON file",
		Value:   outputFileDefault,
	}

	scoreCmd = &cli.Command{
		Name:    "score",
		Aliases: []string{"s"},
		Usage:   "Score a validated submission against the goldstandard",
		Action:  cmdScore,
		Flags: []cli.Flag{
			predictionsFileFlag,
			goldstandardFolderFlag,
			outputFileFlag,
		},
	}
)

func cmdScore(c *cli.Context) error {
	start := time.Now()

	conf, err := config.ReadOrCreate(confDirPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	out, err := scoring.Run(scoring.Options{
		PredictionsFile:    c.String(predictionsFileFlag.Name),
		GoldstandardFolder: c.String(goldstandardFolderFlag.Name),
		OutputFile:         c.String(outputFileFlag.Name),
		Conf:               conf,
	})
	if err != nil {
		return errors.Wrap(err, "scoring failed")
	}

	r := &data.Run{
		Submission: c.String(predictionsFileFlag.Name),
		Kind:       data.RunKindScore,
		Status:     out.Status,
		Errors:     out.Errors,
		Duration:   time.Since(start).String(),
	}
	if out.Scores != nil {
		r.AUCROC = &out.Scores.AUCROC
		r.AUPRC = &out.Scores.AUPRC
	}
	recordRun(r)

	// The orchestrator scrapes the status from the last stdout line.
	fmt.Fprintln(c.App.Writer, out.Status)
	return nil
}
