package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brandops/automation/pkg/models"
)

// Rule administration. Invalid construction is rejected here, at
// create/update time, so the execution path only ever deals with
// parse-and-degrade. Mutations invalidate the schedule-rule cache.

func (s *AutomationService) CreateRule(r models.Rule) (models.Rule, error) {
	if err := validateRule(&r); err != nil {
		return models.Rule{}, err
	}
	r.ID = uuid.NewString()
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	if err := s.store.SaveRule(r); err != nil {
		return models.Rule{}, err
	}
	s.cache.Invalidate()
	s.logger.Infof("Created rule '%s' with ID %s", r.Name, r.ID)
	return r, nil
}

func (s *AutomationService) UpdateRule(r models.Rule) error {
	if err := validateRule(&r); err != nil {
		return err
	}
	existing, err := s.store.GetRule(r.ID)
	if err != nil {
		return err
	}
	// The trigger classification is fixed at creation; it decides
	// which matcher owns the rule.
	if r.TriggerType != existing.TriggerType {
		return errors.New("trigger type cannot be changed after creation")
	}
	r.UpdatedAt = time.Now()
	if err := s.store.UpdateRule(r); err != nil {
		return err
	}
	s.cache.Invalidate()
	s.logger.Infof("Updated rule '%s' (%s)", r.Name, r.ID)
	return nil
}

func (s *AutomationService) DeleteRule(id string) error {
	if err := s.store.DeleteRule(id); err != nil {
		return err
	}
	s.cache.Invalidate()
	s.logger.Infof("Deleted rule %s", id)
	return nil
}

func (s *AutomationService) GetRule(id string) (models.Rule, error) {
	return s.store.GetRule(id)
}

func (s *AutomationService) ListRules() ([]models.Rule, error) {
	return s.store.ListRules()
}

func (s *AutomationService) ListExecutionLogs(ruleID string) ([]models.ExecutionLog, error) {
	if _, err := s.store.GetRule(ruleID); err != nil {
		return nil, err
	}
	return s.store.ListExecutionLogs(ruleID)
}

func validateRule(r *models.Rule) error {
	if r.Name == "" {
		return errors.New("rule name cannot be empty")
	}
	if len(r.Name) > 100 {
		return errors.New("rule name too long (max 100 characters)")
	}
	switch r.TriggerType {
	case models.EventTrigger, models.ScheduleTrigger:
	default:
		return errors.Errorf("invalid trigger type '%s'; must be 'event' or 'schedule'", r.TriggerType)
	}
	if r.TriggerEvent != nil && r.TriggerType != models.EventTrigger {
		return errors.New("trigger event filter is only valid on event rules")
	}
	// Stored configs must be well-formed at write time even though
	// reads degrade gracefully.
	if r.ConditionConfigJSON != nil {
		var tree models.ConditionTree
		if err := json.Unmarshal([]byte(*r.ConditionConfigJSON), &tree); err != nil {
			return errors.Wrap(err, "invalid condition config")
		}
	}
	if r.ActionsConfigJSON != nil {
		var actions []models.Action
		if err := json.Unmarshal([]byte(*r.ActionsConfigJSON), &actions); err != nil {
			return errors.Wrap(err, "invalid actions config")
		}
	}
	if r.TriggerConfigJSON != nil && r.TriggerType == models.ScheduleTrigger {
		var cfg models.ScheduleConfig
		if err := json.Unmarshal([]byte(*r.TriggerConfigJSON), &cfg); err != nil {
			return errors.Wrap(err, "invalid trigger config")
		}
	}
	return nil
}
