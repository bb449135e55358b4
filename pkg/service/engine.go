package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/storage"
)

// Logger defines the logging interface for AutomationService
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// AutomationService is the automation engine: it matches inbound
// domain events and scheduler ticks against stored rules, evaluates
// their conditions, runs their actions and records the outcome.
type AutomationService struct {
	store   storage.Store
	cache   RuleCache
	runner  *ActionRunner
	logger  Logger
	workers int
}

func NewAutomationService(store storage.Store, cache RuleCache, runner *ActionRunner, logger Logger) *AutomationService {
	return &AutomationService{
		store:   store,
		cache:   cache,
		runner:  runner,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
}

// HandleEvent is the event-bus subscriber entry point. It loads the
// enabled event rules matching the event's name and brand scope and
// executes each one independently: a failing rule leaves its failure
// trail but never blocks the others or the publisher. It returns once
// processing for the whole event has completed.
func (s *AutomationService) HandleEvent(ctx context.Context, event models.Event) error {
	candidates, err := s.store.ListEnabledEventRules(event.Name)
	if err != nil {
		return err
	}

	brandID := event.BrandID()
	var matched []models.Rule
	for _, rule := range candidates {
		if rule.BrandID != nil && (brandID == nil || *rule.BrandID != *brandID) {
			continue
		}
		matched = append(matched, rule)
	}
	if len(matched) == 0 {
		return nil
	}
	s.logger.Infof("Event '%s' matched %d rule(s)", event.Name, len(matched))

	// Bounded parallel execution; executeRule never returns an error,
	// so one rule cannot affect another's outcome.
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	for _, rule := range matched {
		wg.Add(1)
		sem <- struct{}{}
		go func(r models.Rule) {
			defer wg.Done()
			defer func() { <-sem }()
			s.executeRule(ctx, r, &event)
		}(rule)
	}
	wg.Wait()
	return nil
}

// RunRule attempts execution of one rule on demand, bypassing both
// trigger matching and the schedule due-check. It is the "run now"
// operator path; an unknown id surfaces as storage.ErrNotFound.
func (s *AutomationService) RunRule(ctx context.Context, ruleID string) error {
	rule, err := s.store.GetRule(ruleID)
	if err != nil {
		return err
	}
	s.executeRule(ctx, rule, nil)
	return nil
}

// executeRule is the coordinator for one execution attempt:
// re-verify filters, evaluate conditions, run actions, record the
// outcome. A condition miss is silent; an action error is recorded in
// the execution log and the rule bookkeeping but never propagated, so
// rules stay isolated from each other.
func (s *AutomationService) executeRule(ctx context.Context, rule models.Rule, event *models.Event) {
	if !rule.Enabled {
		return
	}
	// The matcher already filtered, but re-check here so a stale
	// candidate list cannot fire a rule it shouldn't.
	if event != nil {
		if rule.TriggerEvent != nil && *rule.TriggerEvent != event.Name {
			return
		}
		brandID := event.BrandID()
		if rule.BrandID != nil && (brandID == nil || *rule.BrandID != *brandID) {
			return
		}
	}

	payload := map[string]interface{}{}
	if event != nil && event.Payload != nil {
		payload = event.Payload
	}
	tree := models.ParseConditionConfig(rule.ConditionConfigJSON)
	if !EvaluateConditions(tree, payload) {
		return
	}

	actions := models.ParseActionsConfig(rule.ActionsConfigJSON)
	runErr := s.runner.Run(ctx, actions, event)

	var eventName *string
	if event != nil {
		n := event.Name
		eventName = &n
	}
	now := time.Now()
	entry := models.ExecutionLog{
		ID:        uuid.NewString(),
		RuleID:    rule.ID,
		EventName: eventName,
		CreatedAt: now,
	}
	status := models.SuccessRunStatus
	if runErr != nil {
		status = models.FailureRunStatus
		msg := runErr.Error()
		if msg == "" {
			msg = "Unknown automation error"
		}
		entry.ErrorMsg = &msg
		s.logger.Errorf("Rule '%s' (%s) failed: %v", rule.Name, rule.ID, runErr)
	} else {
		result := `{"message":"Actions executed"}`
		entry.ResultJSON = &result
	}
	entry.Status = status

	// Two separate writes: the log row and the rule bookkeeping are
	// not transactional, matching the at-least-once model.
	if err := s.store.SaveExecutionLog(entry); err != nil {
		s.logger.Errorf("Failed to save execution log for rule %s: %v", rule.ID, err)
	}
	if err := s.store.UpdateRuleRunStatus(rule.ID, now, status); err != nil {
		s.logger.Errorf("Failed to update run status for rule %s: %v", rule.ID, err)
	}
}
