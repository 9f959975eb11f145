package logging

import (
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Init configures the process-wide logger for CLI output. Logs go to
// the given writer, which must not be stdout: stdout is reserved for
// the workflow status line the orchestrator scrapes.
func Init(w io.Writer, level string) {
	log.SetOutput(w)
	log.SetLevel(ParseLevel(level))
	log.SetReportCaller(false)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:          false,
		DisableTimestamp:       true,
		ForceColors:            true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})
}

// ParseLevel converts a string log level to a logrus level.
// Defaults to info for unrecognized strings.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
