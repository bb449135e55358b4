package models

import "time"

// ExecutionLog tracks the outcome of a single rule-firing attempt for
// auditing. Rows are append-only and never mutated after creation.
type ExecutionLog struct {
	ID         string    `json:"id" db:"id"`                           // UUID
	RuleID     string    `json:"rule_id" db:"rule_id"`                 // Rule being logged
	Status     RunStatus `json:"status" db:"status"`                   // "success" or "failure"
	EventName  *string   `json:"event_name,omitempty" db:"event_name"` // Firing event, nil for schedule runs
	ResultJSON *string   `json:"result,omitempty" db:"result_json"`    // Details on success
	ErrorMsg   *string   `json:"error,omitempty" db:"error_message"`   // Details on failure
	CreatedAt  time.Time `json:"created_at" db:"created_at"`           // Timestamp of the attempt
}
