package ports

import (
	"context"
	"time"

	"junitmig/internal/core/config"
	"junitmig/internal/data/state"
	"junitmig/internal/engine/rewrite"
)

// Mode selects what a run does with rewritten output.
type Mode string

const (
	// ModeApply writes rewritten files in place.
	ModeApply Mode = "apply"
	// ModeCheck reports files that would change without writing.
	ModeCheck Mode = "check"
	// ModeDiff is ModeCheck plus the before/after content for diff rendering.
	ModeDiff Mode = "diff"
)

func (m Mode) Writes() bool { return m == ModeApply }

// StateStore abstracts the per-file ledger used to skip unchanged files.
type StateStore interface {
	Lookup(path string) (state.FileState, bool, error)
	Record(fs state.FileState) error
	SaveRun(run state.Run) error
	LoadRuns(limit int) ([]state.Run, error)
	Close() error
}

// RunRequest defines one pass over a set of files or directories.
type RunRequest struct {
	Paths   []string
	Mode    Mode
	NoCache bool
}

// FileOutcome is the result for a single compilation unit. A unit that fails
// is left unchanged and carries Err.
type FileOutcome struct {
	Path           string
	Changed        bool
	Skipped        string
	Changes        []rewrite.Change
	Warnings       []rewrite.Diagnostic
	ImportsAdded   []string
	ImportsRemoved []string
	Before         []byte
	After          []byte
	Err            error
}

// RunResult summarizes a completed run.
type RunResult struct {
	ID           string
	Mode         Mode
	StartedAt    time.Time
	FinishedAt   time.Time
	FilesScanned int
	FilesChanged int
	FilesSkipped int
	Rewrites     int
	Warnings     int
	Errors       int
	Files        []FileOutcome
}

// RuleInfo describes a registered rule.
type RuleInfo struct {
	ID          string
	Description string
	Enabled     bool
}

// MigrationService is the driving port used by the CLI.
type MigrationService interface {
	Run(ctx context.Context, req RunRequest) (RunResult, error)
	Watch(ctx context.Context, paths []string, onRun func(RunResult, error)) error
	Rules() []RuleInfo
	UpdateConfig(ctx context.Context, cfg *config.Config) error
	Close() error
}
