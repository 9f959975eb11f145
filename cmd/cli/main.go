package main

import (
	"database/sql"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/openchallenges/scorer/pkg/data"
	"github.com/openchallenges/scorer/pkg/logging"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const dirMode = 0700

var (
	name    = "scorer"
	version = "v0.0.1-default"
	commit  = ""

	confDirPath = path.Join(getHomeDir(), "."+name)
	dbFilePath  = path.Join(getHomeDir(), "."+name, data.DataFileName)
	debug       = false

	debugFlag = &cli.BoolFlag{
		Name:        "debug",
		Usage:       "Prints verbose logs (optional, default: false)",
		Destination: &debug,
	}

	dbFilePathFlag = &cli.StringFlag{
		Name:  "db",
		Usage: fmt.Sprintf("Path to the Sqlite run history file (optional, defaults to $HOME/.%s/%s)", name, data.DataFileName),
	}
)

func main() {
	// stdout carries only the workflow status line.
	logging.Init(os.Stderr, "info")

	app := newApp()
	if err := app.Run(os.Args); err != nil {
		fatalErr(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     name,
		Version:  fmt.Sprintf("%s - (commit: %s)", version, commit),
		Compiled: time.Now(),
		Usage:    "Validates and scores data challenge submissions",
		Flags: []cli.Flag{
			debugFlag,
			dbFilePathFlag,
		},
		Commands: []*cli.Command{
			validateCmd,
			scoreCmd,
			historyCmd,
		},
		Before: func(c *cli.Context) error {
			if c.Bool(debugFlag.Name) {
				log.SetLevel(log.DebugLevel)
			}

			if p := c.String(dbFilePathFlag.Name); p != "" {
				dbFilePath = p
			}
			return nil
		},
	}
}

func fatalErr(err error) {
	if err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

// getDB initializes the run history store on first use.
func getDB() (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbFilePath), dirMode); err != nil {
		return nil, errors.Wrapf(err, "error creating data dir: %s", filepath.Dir(dbFilePath))
	}
	if err := data.Init(dbFilePath); err != nil {
		return nil, err
	}
	return data.GetDB(dbFilePath)
}

// recordRun appends to the local run history. History is advisory; a
// failure here must not change the workflow outcome.
func recordRun(r *data.Run) {
	db, err := getDB()
	if err != nil {
		log.Warnf("run history unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := data.SaveRun(db, r); err != nil {
		log.Warnf("failed to record run: %v", err)
	}
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Debugf("error getting home dir, using current dir instead: %v", err)
		return "."
	}
	return home
}
