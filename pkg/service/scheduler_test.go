package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/storage"
)

func scheduleRule(name, triggerConfig string) models.Rule {
	r := models.Rule{
		Name:              name,
		TriggerType:       models.ScheduleTrigger,
		ActionsConfigJSON: strPtr(`[{"type":"notification"}]`),
		Enabled:           true,
	}
	if triggerConfig != "" {
		r.TriggerConfigJSON = &triggerConfig
	}
	return r
}

func at(hour int) time.Time {
	return time.Date(2026, 8, 31, hour, 30, 0, 0, time.UTC)
}

func TestRunScheduled_DailyCadence(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	rule := saveRule(t, store, scheduleRule("daily nine", `{"cadence":"daily","hour":9}`))

	// Wrong hour: not due.
	assert.NoError(t, svc.RunScheduled(context.Background(), at(10)))
	assert.Empty(t, notifier.notifications())
	logs, _ := store.ListExecutionLogs(rule.ID)
	assert.Empty(t, logs)

	// Target hour: due.
	assert.NoError(t, svc.RunScheduled(context.Background(), at(9)))
	assert.Len(t, notifier.notifications(), 1)
	logs, _ = store.ListExecutionLogs(rule.ID)
	assert.Len(t, logs, 1)
	assert.Nil(t, logs[0].EventName)
}

func TestRunScheduled_HourlyAlwaysDue(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	saveRule(t, store, scheduleRule("hourly", `{"cadence":"hourly"}`))

	assert.NoError(t, svc.RunScheduled(context.Background(), at(3)))
	assert.NoError(t, svc.RunScheduled(context.Background(), at(17)))
	assert.Len(t, notifier.notifications(), 2)
}

func TestRunScheduled_MalformedConfigDefaultsToDailyMidnight(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	saveRule(t, store, scheduleRule("broken config", `{cadence:`))

	assert.NoError(t, svc.RunScheduled(context.Background(), at(9)))
	assert.Empty(t, notifier.notifications())

	assert.NoError(t, svc.RunScheduled(context.Background(), at(0)))
	assert.Len(t, notifier.notifications(), 1)
}

func TestRunScheduled_UnknownCadenceNeverDue(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	saveRule(t, store, scheduleRule("weekly", `{"cadence":"weekly"}`))

	for hour := 0; hour < 24; hour++ {
		assert.NoError(t, svc.RunScheduled(context.Background(), at(hour)))
	}
	assert.Empty(t, notifier.notifications())
}

func TestRunScheduled_SkipsDisabledRules(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	rule := scheduleRule("disabled hourly", `{"cadence":"hourly"}`)
	rule.Enabled = false
	rule = saveRule(t, store, rule)

	assert.NoError(t, svc.RunScheduled(context.Background(), at(5)))
	assert.Empty(t, notifier.notifications())
	logs, _ := store.ListExecutionLogs(rule.ID)
	assert.Empty(t, logs)
}

func TestRunScheduled_ConditionAgainstEmptyPayload(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	// A condition requiring payload data can never match on a
	// schedule run: the payload is empty.
	rule := scheduleRule("conditional", `{"cadence":"hourly"}`)
	rule.ConditionConfigJSON = strPtr(`{"all":[{"path":"amount","op":"gt","value":0}]}`)
	rule = saveRule(t, store, rule)

	assert.NoError(t, svc.RunScheduled(context.Background(), at(12)))
	assert.Empty(t, notifier.notifications())
	logs, _ := store.ListExecutionLogs(rule.ID)
	assert.Empty(t, logs)
}
