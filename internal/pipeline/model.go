package pipeline

import (
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// LoadRun is the journal row written for every invocation: which sheets fed
// the run, how it ended, and a per-stage summary.
type LoadRun struct {
	ID         string         `gorm:"primaryKey;size:36;column:id" json:"id"`
	StartedAt  time.Time      `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	Status     string         `gorm:"size:20;not null" json:"status"`
	Error      string         `gorm:"type:text" json:"error,omitempty"`
	Sheets     pq.StringArray `gorm:"type:text[]" json:"sheets"`
	Summary    datatypes.JSON `gorm:"type:jsonb" json:"summary,omitempty"`
}

func (LoadRun) TableName() string { return "loader_runs" }

const (
	runStatusRunning = "running"
	runStatusOK      = "ok"
	runStatusFailed  = "failed"
)

// RowIssue records one skipped row with enough context to diagnose it: the
// sheet, the 1-based data row index, the failing field, and the row's cells
// in sheet column order.
type RowIssue struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID     string         `gorm:"size:36;index;column:run_id" json:"run_id"`
	Sheet     string         `gorm:"size:100;not null" json:"sheet"`
	RowIndex  int            `gorm:"not null" json:"row_index"`
	Field     string         `gorm:"size:100" json:"field"`
	Reason    string         `gorm:"type:text;not null" json:"reason"`
	RowData   datatypes.JSON `gorm:"type:jsonb" json:"row_data,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (RowIssue) TableName() string { return "loader_row_issues" }

// StageStats summarizes one pipeline stage for the run report.
type StageStats struct {
	Stage     string `json:"stage"`
	Source    string `json:"source"`
	Attempted int    `json:"attempted"`
	Inserted  int    `json:"inserted"`
	Skipped   int    `json:"skipped"`
}

const (
	sourceFile        = "file"
	sourceSynthesized = "synthesized"
	sourceDerived     = "derived"
)

type StageAbortError struct {
	Stage     string
	Failures  int
	Threshold int
}

func (e *StageAbortError) Error() string {
	return fmt.Sprintf("stage %s aborted: %d row failures exceed threshold %d",
		e.Stage, e.Failures, e.Threshold)
}

// ConstraintViolationError wraps a store-level rejection of a row the
// validator had already accepted.
type ConstraintViolationError struct {
	Table string
	Err   error
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("store rejected row for %s: %v", e.Table, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }
