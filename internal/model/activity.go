package model

import "time"

// OperationKind names one of the taskpane's AI operations.
type OperationKind string

const (
	OperationReword  OperationKind = "reword"
	OperationCompose OperationKind = "compose"
	OperationAnalyze OperationKind = "analyze"
)

// Outcome values for an Activity entry.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Activity records that an operation ran. It deliberately carries no
// request or result text.
type Activity struct {
	ID         string        `json:"id" db:"id"`
	Kind       OperationKind `json:"kind" db:"kind"`
	Outcome    string        `json:"outcome" db:"outcome"`
	Error      string        `json:"error" db:"error"`
	DurationMS int64         `json:"duration_ms" db:"duration_ms"`
	HostID     string        `json:"host_id" db:"host_id"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
