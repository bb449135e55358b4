package storage

import (
	"time"

	"github.com/brandops/automation/pkg/models"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a rule does not exist. It is the only
// error class the engine surfaces to its callers.
var ErrNotFound = errors.New("not found")

// Store defines the storage operations for the automation engine.
type Store interface {
	// Rule administration
	SaveRule(r models.Rule) error
	GetRule(id string) (models.Rule, error)
	UpdateRule(r models.Rule) error
	DeleteRule(id string) error
	ListRules() ([]models.Rule, error)

	// Matching queries. Only enabled rules are returned; event rules
	// with a nil trigger_event match any event name.
	ListEnabledEventRules(eventName string) ([]models.Rule, error)
	ListEnabledScheduleRules() ([]models.Rule, error)

	// UpdateRuleRunStatus writes the last-run bookkeeping after an
	// execution attempt. These are the only rule fields the engine
	// itself mutates.
	UpdateRuleRunStatus(id string, runAt time.Time, status models.RunStatus) error

	// Execution log operations (append-only)
	SaveExecutionLog(l models.ExecutionLog) error
	ListExecutionLogs(ruleID string) ([]models.ExecutionLog, error)

	Close() error
}
