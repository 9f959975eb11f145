package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openchallenges/scorer/pkg/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// setupHarness redirects the config and run history locations into a
// temp dir and returns an app writing stdout into a buffer, mirroring
// how the orchestrator invokes the binary.
func setupHarness(t *testing.T) (string, *bytes.Buffer, *cli.App) {
	t.Helper()
	dir := t.TempDir()

	origConf, origDB := confDirPath, dbFilePath
	confDirPath = filepath.Join(dir, "conf")
	dbFilePath = filepath.Join(dir, "conf", "runs.db")
	t.Cleanup(func() {
		confDirPath, dbFilePath = origConf, origDB
	})

	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	return dir, out, app
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func writeGoldFolder(t *testing.T, dir string) string {
	t.Helper()
	folder := filepath.Join(dir, "groundtruth")
	require.NoError(t, os.MkdirAll(folder, 0700))
	writeFile(t, filepath.Join(folder, "truth.csv"), "id,disease\nA_01,1\nA_02,0\nA_03,1\n")
	return folder
}

func readDoc(t *testing.T, path string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	doc := map[string]any{}
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

func TestValidate_InvalidSubmissionType(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "INVALID_predictions.txt"), "foo")
	outputFile := filepath.Join(dir, "results.json")

	err := app.Run([]string{name, "validate",
		"-p", predFile, "-g", folder, "-t", "1", "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusInvalid, doc["validation_status"])
	assert.NotEmpty(t, doc["validation_errors"])
}

func TestValidate_ValidSubmission(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.5\nA_02,0.5\nA_03,0.5\n")
	outputFile := filepath.Join(dir, "results.json")

	err := app.Run([]string{name, "validate",
		"-p", predFile, "-g", folder, "-t", "1", "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusValidated, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusValidated, doc["validation_status"])
	assert.Equal(t, "", doc["validation_errors"])
}

func TestValidate_LongErrorMessage(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)

	// Enough unknown ids to push the joined message well past the cap.
	var sb strings.Builder
	sb.WriteString("id,probability\n")
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "B_%03d,0.5\n", i)
	}
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"), sb.String())
	outputFile := filepath.Join(dir, "results.json")

	err := app.Run([]string{name, "validate",
		"-p", predFile, "-g", folder, "-t", "1", "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusInvalid, doc["validation_status"])

	msg, ok := doc["validation_errors"].(string)
	require.True(t, ok)
	assert.Less(t, len(msg), 500)
	assert.True(t, strings.HasSuffix(msg, "..."))
}

func TestValidate_InvalidTaskNumber(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.5\nA_02,0.5\nA_03,0.5\n")
	outputFile := filepath.Join(dir, "results.json")

	err := app.Run([]string{name, "validate",
		"-p", predFile, "-g", folder, "-t", "99999", "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Contains(t, doc["validation_errors"], "Invalid challenge task number specified: `99999`")
}

func TestScore_Validated(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.9\nA_02,0.2\nA_03,0.8\n")
	outputFile := writeFile(t, filepath.Join(dir, "results.json"),
		`{"validation_status":"VALIDATED","validation_errors":""}`)

	err := app.Run([]string{name, "score",
		"-p", predFile, "-g", folder, "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusScored, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusScored, doc["score_status"])
	assert.Equal(t, "", doc["score_errors"])
	assert.InDelta(t, 1.0, doc["auc_roc"].(float64), 1e-9)
	assert.InDelta(t, 1.0, doc["auprc"].(float64), 1e-9)
}

func TestScore_NotValidated(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.9\nA_02,0.2\nA_03,0.8\n")
	outputFile := writeFile(t, filepath.Join(dir, "results.json"),
		`{"validation_status":"INVALID","validation_errors":"bad column"}`)

	err := app.Run([]string{name, "score",
		"-p", predFile, "-g", folder, "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusInvalid, doc["score_status"])
	assert.Contains(t, doc["score_errors"], "validation errors")
	_, ok := doc["auc_roc"]
	assert.False(t, ok)
}

func TestScore_ScoringError(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	// No prediction for A_03 fails the join during scoring.
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.9\nA_02,0.2\n")
	outputFile := writeFile(t, filepath.Join(dir, "results.json"),
		`{"validation_status":"VALIDATED","validation_errors":""}`)

	err := app.Run([]string{name, "score",
		"-p", predFile, "-g", folder, "-o", outputFile})
	require.NoError(t, err)
	assert.Equal(t, result.StatusInvalid, lastLine(out.String()))

	doc := readDoc(t, outputFile)
	assert.Equal(t, result.StatusInvalid, doc["score_status"])
	assert.Contains(t, doc["score_errors"], "Error encountered during scoring")
}

func TestHistory(t *testing.T) {
	dir, out, app := setupHarness(t)
	folder := writeGoldFolder(t, dir)
	predFile := writeFile(t, filepath.Join(dir, "predictions.csv"),
		"id,probability\nA_01,0.5\nA_02,0.5\nA_03,0.5\n")
	outputFile := filepath.Join(dir, "results.json")

	require.NoError(t, app.Run([]string{name, "validate",
		"-p", predFile, "-g", folder, "-t", "1", "-o", outputFile}))
	out.Reset()

	require.NoError(t, app.Run([]string{name, "history", "--kind", "validate"}))

	list := []map[string]any{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &list))
	require.NotEmpty(t, list)
	assert.Equal(t, "validate", list[0]["kind"])
	assert.Equal(t, result.StatusValidated, list[0]["status"])
}
