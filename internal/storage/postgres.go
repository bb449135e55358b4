package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/storage"
)

type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveRule inserts a new automation rule
func (s *PostgresStore) SaveRule(r models.Rule) error {
	_, err := s.db.Exec(`
		INSERT INTO automation_rules
			(id, brand_id, name, description, trigger_type, trigger_event,
			 trigger_config, condition_config, actions_config, enabled,
			 created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.ID, r.BrandID, r.Name, r.Description, r.TriggerType, r.TriggerEvent,
		r.TriggerConfigJSON, r.ConditionConfigJSON, r.ActionsConfigJSON, r.Enabled,
		r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save rule: %w", err)
	}
	return nil
}

// GetRule retrieves a rule by ID
func (s *PostgresStore) GetRule(id string) (models.Rule, error) {
	var rule models.Rule
	err := s.db.Get(&rule, "SELECT * FROM automation_rules WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return models.Rule{}, storage.ErrNotFound
	}
	if err != nil {
		return models.Rule{}, fmt.Errorf("get rule %s: %w", id, err)
	}
	return rule, nil
}

func (s *PostgresStore) UpdateRule(r models.Rule) error {
	res, err := s.db.Exec(`
		UPDATE automation_rules
		SET brand_id = $1, name = $2, description = $3, trigger_event = $4,
			trigger_config = $5, condition_config = $6, actions_config = $7,
			enabled = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`,
		r.BrandID, r.Name, r.Description, r.TriggerEvent,
		r.TriggerConfigJSON, r.ConditionConfigJSON, r.ActionsConfigJSON,
		r.Enabled, r.ID)
	if err != nil {
		return fmt.Errorf("update rule %s: %w", r.ID, err)
	}
	return checkAffected(res)
}

func (s *PostgresStore) DeleteRule(id string) error {
	res, err := s.db.Exec("DELETE FROM automation_rules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete rule %s: %w", id, err)
	}
	return checkAffected(res)
}

func (s *PostgresStore) ListRules() ([]models.Rule, error) {
	rules := []models.Rule{}
	err := s.db.Select(&rules, "SELECT * FROM automation_rules ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return rules, nil
}

// ListEnabledEventRules returns enabled event rules matching the event
// name. A NULL trigger_event is a wildcard and matches every name.
func (s *PostgresStore) ListEnabledEventRules(eventName string) ([]models.Rule, error) {
	rules := []models.Rule{}
	err := s.db.Select(&rules, `
		SELECT * FROM automation_rules
		WHERE enabled = TRUE
		  AND trigger_type = 'event'
		  AND (trigger_event IS NULL OR trigger_event = $1)`,
		eventName)
	if err != nil {
		return nil, fmt.Errorf("list event rules for '%s': %w", eventName, err)
	}
	return rules, nil
}

func (s *PostgresStore) ListEnabledScheduleRules() ([]models.Rule, error) {
	rules := []models.Rule{}
	err := s.db.Select(&rules, `
		SELECT * FROM automation_rules
		WHERE enabled = TRUE AND trigger_type = 'schedule'`)
	if err != nil {
		return nil, fmt.Errorf("list schedule rules: %w", err)
	}
	return rules, nil
}

// UpdateRuleRunStatus writes the last-run bookkeeping after an attempt
func (s *PostgresStore) UpdateRuleRunStatus(id string, runAt time.Time, status models.RunStatus) error {
	res, err := s.db.Exec(`
		UPDATE automation_rules
		SET last_run_at = $1, last_run_status = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3`,
		runAt, status, id)
	if err != nil {
		return fmt.Errorf("update run status for rule %s: %w", id, err)
	}
	return checkAffected(res)
}

// SaveExecutionLog appends one immutable audit row
func (s *PostgresStore) SaveExecutionLog(l models.ExecutionLog) error {
	_, err := s.db.Exec(`
		INSERT INTO execution_logs
			(id, rule_id, status, event_name, result_json, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.RuleID, l.Status, l.EventName, l.ResultJSON, l.ErrorMsg, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("save execution log: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListExecutionLogs(ruleID string) ([]models.ExecutionLog, error) {
	logs := []models.ExecutionLog{}
	err := s.db.Select(&logs, `
		SELECT * FROM execution_logs WHERE rule_id = $1 ORDER BY created_at DESC`,
		ruleID)
	if err != nil {
		return nil, fmt.Errorf("list execution logs for rule %s: %w", ruleID, err)
	}
	return logs, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
