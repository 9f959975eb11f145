package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/openchallenges/scorer/pkg/config"
	"github.com/openchallenges/scorer/pkg/data"
	"github.com/openchallenges/scorer/pkg/gold"
	"github.com/openchallenges/scorer/pkg/result"
	"github.com/openchallenges/scorer/pkg/validate"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

// invalidFilePrefix marks submissions the platform already rejected as
// an unaccepted file type.
const invalidFilePrefix = "INVALID"

var (
	taskNumberFlag = &cli.IntFlag{
		Name:     "task_number",
		Aliases:  []string{"t"},
		Usage:    "Challenge task number of the submission",
		Required: true,
	}

	validateCmd = &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the submission format before scoring",
		Action:  cmdValidate,
		Flags: []cli.Flag{
			predictionsFileFlag,
			goldstandardFolderFlag,
			taskNumberFlag,
			outputFileFlag,
		},
	}
)

func cmdValidate(c *cli.Context) error {
	start := time.Now()
	predFile := c.String(predictionsFileFlag.Name)
	outputFile := c.String(outputFileFlag.Name)

	conf, err := config.ReadOrCreate(confDirPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config")
	}

	var errs []string
	if strings.HasPrefix(filepath.Base(predFile), invalidFilePrefix) {
		errs = []string{"Submission is not an accepted file type."}
	} else {
		goldFile, err := gold.Extract(c.String(goldstandardFolderFlag.Name), conf.ManifestFileName)
		if err != nil {
			return errors.Wrap(err, "failed to extract goldstandard file")
		}

		errs = validate.Run(validate.Input{
			TaskNumber: c.Int(taskNumberFlag.Name),
			GoldFile:   goldFile,
			PredFile:   predFile,
			Conf:       conf,
		})
	}

	status := result.StatusValidated
	if len(errs) > 0 {
		status = result.StatusInvalid
	}

	doc, err := result.Load(outputFile)
	if err != nil {
		return err
	}
	doc.Set(result.KeyValidationStatus, status)
	doc.SetError(result.KeyValidationErrors, strings.Join(errs, "\n"))
	if err := doc.Save(); err != nil {
		return err
	}

	recordRun(&data.Run{
		Submission: predFile,
		Kind:       data.RunKindValidate,
		Status:     status,
		Errors:     result.Truncate(strings.Join(errs, "\n")),
		Duration:   time.Since(start).String(),
	})

	// The orchestrator scrapes the status from the last stdout line.
	fmt.Fprintln(c.App.Writer, status)
	return nil
}
