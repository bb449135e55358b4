package service

import (
	"context"
	"time"

	"github.com/brandops/automation/pkg/models"
)

// RunScheduled surfaces due schedule rules to the coordinator. It is
// driven by an external tick (a process cron calling it on a fixed
// interval); the engine manages no timer of its own. Condition trees
// of schedule rules evaluate against an empty payload.
func (s *AutomationService) RunScheduled(ctx context.Context, now time.Time) error {
	rules := s.cache.GetScheduleRules()
	if rules == nil {
		var err error
		rules, err = s.store.ListEnabledScheduleRules()
		if err != nil {
			return err
		}
		s.cache.SetScheduleRules(rules)
	}

	for _, rule := range rules {
		cfg := models.ParseScheduleConfig(rule.TriggerConfigJSON)
		if !scheduleDue(cfg, now) {
			continue
		}
		s.logger.Infof("Schedule rule '%s' (%s) is due", rule.Name, rule.ID)
		s.executeRule(ctx, rule, nil)
	}
	return nil
}

// scheduleDue decides whether a cadence fires on this tick: hourly is
// always due, daily fires on its target hour, anything else never
// fires.
func scheduleDue(cfg models.ScheduleConfig, now time.Time) bool {
	switch cfg.Cadence {
	case models.HourlyCadence:
		return true
	case models.DailyCadence:
		return now.Hour() == cfg.Hour
	default:
		return false
	}
}
