package data

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
)

// Run kinds recorded in the history.
const (
	RunKindValidate = "validate"
	RunKindScore    = "score"
)

const queryRunLimitDefault = 50

var (
	insertRun = `INSERT INTO run (submission, kind, status, errors, auc_roc, auprc, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	selectRuns = `SELECT id, submission, kind, status, errors, auc_roc, auprc, duration, created_at
		FROM run`
)

// Run is one recorded harness execution.
type Run struct {
	ID         int64     `json:"id"`
	Submission string    `json:"submission"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	Errors     string    `json:"errors,omitempty"`
	AUCROC     *float64  `json:"auc_roc,omitempty"`
	AUPRC      *float64  `json:"auprc,omitempty"`
	Duration   string    `json:"duration,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveRun appends one run record.
func SaveRun(db *sql.DB, r *Run) error {
	if db == nil {
		return errDBNotInitialized
	}
	if r == nil {
		return errors.New("run required")
	}
	if r.Submission == "" || r.Kind == "" || r.Status == "" {
		return errors.Errorf("submission: %s, kind: %s, status: %s are all required",
			r.Submission, r.Kind, r.Status)
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	stmt, err := db.Prepare(insertRun)
	if err != nil {
		return errors.Wrap(err, "failed to prepare run insert statement")
	}

	res, err := stmt.Exec(r.Submission, r.Kind, r.Status, r.Errors, r.AUCROC, r.AUPRC, r.Duration, r.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to insert run")
	}

	if id, err := res.LastInsertId(); err == nil {
		r.ID = id
	}

	return nil
}

// QueryRuns returns the most recent runs, optionally filtered by kind.
func QueryRuns(db *sql.DB, kind string, limit int) ([]*Run, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if limit <= 0 {
		limit = queryRunLimitDefault
	}

	q := selectRuns
	args := make([]any, 0, 2)
	if kind != "" {
		q += ` WHERE kind = ?`
		args = append(args, kind)
	}
	q += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	stmt, err := db.Prepare(q)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare run select statement")
	}

	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query runs")
	}
	defer rows.Close()

	list := make([]*Run, 0)
	for rows.Next() {
		r := &Run{}
		var aucROC, auprc sql.NullFloat64
		if err := rows.Scan(&r.ID, &r.Submission, &r.Kind, &r.Status, &r.Errors,
			&aucROC, &auprc, &r.Duration, &r.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan run row")
		}
		if aucROC.Valid {
			v := aucROC.Float64
			r.AUCROC = &v
		}
		if auprc.Valid {
			v := auprc.Float64
			r.AUPRC = &v
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating run rows")
	}

	return list, nil
}
