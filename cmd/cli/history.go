package main

import (
	"encoding/json"
	"fmt"

	"github.com/openchallenges/scorer/pkg/data"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const historyLimitDefault = 50

var (
	historyKindFlag = &cli.StringFlag{
		Name:     "kind",
		Usage:    fmt.Sprintf("Run kind (%s, %s)", data.RunKindValidate, data.RunKindScore),
		Required: false,
	}

	historyLimitFlag = &cli.IntFlag{
		Name:     "limit",
		Usage:    "Limits number of results returned",
		Value:    historyLimitDefault,
		Required: false,
	}

	historyCmd = &cli.Command{
		Name:   "history",
		Usage:  "List previously recorded validation and scoring runs",
		Action: cmdHistory,
		Flags: []cli.Flag{
			historyKindFlag,
			historyLimitFlag,
		},
	}
)

func cmdHistory(c *cli.Context) error {
	db, err := getDB()
	if err != nil {
		return errors.Wrap(err, "failed to open run history")
	}
	defer db.Close()

	list, err := data.QueryRuns(db, c.String(historyKindFlag.Name), c.Int(historyLimitFlag.Name))
	if err != nil {
		return errors.Wrap(err, "failed to query runs")
	}

	if err := json.NewEncoder(c.App.Writer).Encode(list); err != nil {
		return errors.Wrapf(err, "error encoding list: %+v", list)
	}

	return nil
}
