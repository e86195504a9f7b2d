package model

import "time"

// Outcome is the result of processing one unit in a stage.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeSkipped Outcome = "skipped"
	OutcomeEmpty   Outcome = "empty"
	OutcomeFailed  Outcome = "failed"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageTranscribe  Stage = "transcribe"
	StageSummarize   Stage = "summarize"
	StageActionItems Stage = "actions"
	StageDigest      Stage = "digest"
)

// UnitRecord is one row of the run ledger.
type UnitRecord struct {
	ID           int64
	RunID        string
	Stage        Stage
	Unit         string
	InputPath    string
	OutputPath   string
	Outcome      Outcome
	ErrorMessage string
	Duration     time.Duration
	AudioSeconds float64
	ProcessedAt  time.Time
}
