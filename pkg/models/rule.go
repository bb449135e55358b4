package models

import "time"

type TriggerType string

const (
	EventTrigger    TriggerType = "event"
	ScheduleTrigger TriggerType = "schedule"
)

type RunStatus string

const (
	SuccessRunStatus RunStatus = "success"
	FailureRunStatus RunStatus = "failure"
)

// Rule represents a persisted automation definition: a trigger, an
// optional condition tree and an ordered list of actions.
type Rule struct {
	ID          string      `json:"id" db:"id"`                             // UUID
	BrandID     *string     `json:"brand_id,omitempty" db:"brand_id"`       // nil means global
	Name        string      `json:"name" db:"name"`                         // Descriptive name (e.g., "VIP order alert")
	Description *string     `json:"description,omitempty" db:"description"` // Optional free text
	TriggerType TriggerType `json:"trigger_type" db:"trigger_type"`         // "event" or "schedule", immutable
	// TriggerEvent filters event rules by name; nil matches any event.
	TriggerEvent *string `json:"trigger_event,omitempty" db:"trigger_event"`
	// Serialized configs. Parsing lives in config.go; malformed JSON
	// degrades to defaults instead of failing the rule.
	TriggerConfigJSON   *string    `json:"trigger_config,omitempty" db:"trigger_config"`
	ConditionConfigJSON *string    `json:"condition_config,omitempty" db:"condition_config"`
	ActionsConfigJSON   *string    `json:"actions_config,omitempty" db:"actions_config"`
	Enabled             bool       `json:"enabled" db:"enabled"`
	LastRunAt           *time.Time `json:"last_run_at,omitempty" db:"last_run_at"`
	LastRunStatus       *RunStatus `json:"last_run_status,omitempty" db:"last_run_status"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// ScheduleConfig is the parsed form of TriggerConfigJSON for schedule rules.
type ScheduleConfig struct {
	Cadence string `json:"cadence"` // "hourly" or "daily"
	Hour    int    `json:"hour"`    // target hour for daily cadence
}

const (
	HourlyCadence = "hourly"
	DailyCadence  = "daily"
)

// DefaultScheduleConfig is substituted when a schedule rule carries a
// missing or unparsable trigger config.
func DefaultScheduleConfig() ScheduleConfig {
	return ScheduleConfig{Cadence: DailyCadence, Hour: 0}
}
