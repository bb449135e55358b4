package storage_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	internal_storage "github.com/brandops/automation/internal/storage"
	"github.com/brandops/automation/internal/testutil"
	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/storage"
)

func strPtr(s string) *string { return &s }

func newRule(name string, triggerType models.TriggerType) models.Rule {
	now := time.Now()
	return models.Rule{
		ID:          uuid.NewString(),
		Name:        name,
		TriggerType: triggerType,
		Enabled:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestPostgresStore(t *testing.T) {
	testDB := testutil.SetupTestDB(t)
	defer testDB.Teardown(t)

	newStore := func(t *testing.T) *internal_storage.PostgresStore {
		store, err := internal_storage.NewPostgresStore(testDB.ConnStr)
		assert.NoError(t, err)
		t.Cleanup(func() {
			_, err := testDB.DB.Exec("TRUNCATE TABLE automation_rules CASCADE")
			assert.NoError(t, err)
			store.Close()
		})
		return store
	}

	t.Run("SaveAndGetRule", func(t *testing.T) {
		store := newStore(t)
		rule := newRule("TestRule", models.EventTrigger)
		rule.TriggerEvent = strPtr("order.created")
		rule.ConditionConfigJSON = strPtr(`{"all":[{"path":"total","op":"gt","value":10}]}`)

		assert.NoError(t, store.SaveRule(rule))

		saved, err := store.GetRule(rule.ID)
		assert.NoError(t, err)
		assert.Equal(t, rule.Name, saved.Name)
		assert.Equal(t, models.EventTrigger, saved.TriggerType)
		assert.Equal(t, "order.created", *saved.TriggerEvent)
		assert.Nil(t, saved.LastRunAt)
		assert.Nil(t, saved.LastRunStatus)
	})

	t.Run("GetNonExistingRule", func(t *testing.T) {
		store := newStore(t)
		_, err := store.GetRule(uuid.NewString())
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateRule", func(t *testing.T) {
		store := newStore(t)
		rule := newRule("Original", models.EventTrigger)
		assert.NoError(t, store.SaveRule(rule))

		rule.Name = "Renamed"
		rule.Enabled = false
		assert.NoError(t, store.UpdateRule(rule))

		updated, err := store.GetRule(rule.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.False(t, updated.Enabled)
	})

	t.Run("UpdateNonExistingRule", func(t *testing.T) {
		store := newStore(t)
		err := store.UpdateRule(newRule("ghost", models.EventTrigger))
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteRule", func(t *testing.T) {
		store := newStore(t)
		rule := newRule("ToDelete", models.EventTrigger)
		assert.NoError(t, store.SaveRule(rule))
		assert.NoError(t, store.DeleteRule(rule.ID))
		_, err := store.GetRule(rule.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ListEnabledEventRules", func(t *testing.T) {
		store := newStore(t)

		exact := newRule("Exact", models.EventTrigger)
		exact.TriggerEvent = strPtr("order.created")
		assert.NoError(t, store.SaveRule(exact))

		wildcard := newRule("Wildcard", models.EventTrigger)
		assert.NoError(t, store.SaveRule(wildcard))

		other := newRule("Other", models.EventTrigger)
		other.TriggerEvent = strPtr("campaign.launched")
		assert.NoError(t, store.SaveRule(other))

		disabled := newRule("Disabled", models.EventTrigger)
		disabled.Enabled = false
		assert.NoError(t, store.SaveRule(disabled))

		scheduled := newRule("Scheduled", models.ScheduleTrigger)
		assert.NoError(t, store.SaveRule(scheduled))

		rules, err := store.ListEnabledEventRules("order.created")
		assert.NoError(t, err)
		assert.Len(t, rules, 2)

		names := []string{rules[0].Name, rules[1].Name}
		assert.Contains(t, names, "Exact")
		assert.Contains(t, names, "Wildcard")
	})

	t.Run("ListEnabledScheduleRules", func(t *testing.T) {
		store := newStore(t)

		hourly := newRule("Hourly", models.ScheduleTrigger)
		hourly.TriggerConfigJSON = strPtr(`{"cadence":"hourly"}`)
		assert.NoError(t, store.SaveRule(hourly))

		disabled := newRule("DisabledSchedule", models.ScheduleTrigger)
		disabled.Enabled = false
		assert.NoError(t, store.SaveRule(disabled))

		eventRule := newRule("EventRule", models.EventTrigger)
		assert.NoError(t, store.SaveRule(eventRule))

		rules, err := store.ListEnabledScheduleRules()
		assert.NoError(t, err)
		assert.Len(t, rules, 1)
		assert.Equal(t, "Hourly", rules[0].Name)
	})

	t.Run("UpdateRuleRunStatus", func(t *testing.T) {
		store := newStore(t)
		rule := newRule("Bookkeeping", models.EventTrigger)
		assert.NoError(t, store.SaveRule(rule))

		runAt := time.Now()
		assert.NoError(t, store.UpdateRuleRunStatus(rule.ID, runAt, models.FailureRunStatus))

		updated, err := store.GetRule(rule.ID)
		assert.NoError(t, err)
		assert.NotNil(t, updated.LastRunAt)
		assert.Equal(t, models.FailureRunStatus, *updated.LastRunStatus)
	})

	t.Run("ExecutionLogs", func(t *testing.T) {
		store := newStore(t)
		rule := newRule("Audited", models.EventTrigger)
		assert.NoError(t, store.SaveRule(rule))

		success := models.ExecutionLog{
			ID:         uuid.NewString(),
			RuleID:     rule.ID,
			Status:     models.SuccessRunStatus,
			EventName:  strPtr("order.created"),
			ResultJSON: strPtr(`{"message":"Actions executed"}`),
			CreatedAt:  time.Now().Add(-time.Minute),
		}
		failure := models.ExecutionLog{
			ID:        uuid.NewString(),
			RuleID:    rule.ID,
			Status:    models.FailureRunStatus,
			ErrorMsg:  strPtr("delivery refused"),
			CreatedAt: time.Now(),
		}
		assert.NoError(t, store.SaveExecutionLog(success))
		assert.NoError(t, store.SaveExecutionLog(failure))

		logs, err := store.ListExecutionLogs(rule.ID)
		assert.NoError(t, err)
		assert.Len(t, logs, 2)
		// Newest first
		assert.Equal(t, models.FailureRunStatus, logs[0].Status)
		assert.Equal(t, "delivery refused", *logs[0].ErrorMsg)
		assert.Equal(t, models.SuccessRunStatus, logs[1].Status)
	})

	t.Run("ActionsConfigRoundTrip", func(t *testing.T) {
		store := newStore(t)
		actions := []models.Action{
			{Type: "notification", Params: map[string]interface{}{"userId": "u1"}},
			{Type: "log"},
		}
		encoded, err := models.EncodeActionsConfig(actions)
		assert.NoError(t, err)

		rule := newRule("RoundTrip", models.EventTrigger)
		rule.ActionsConfigJSON = encoded
		assert.NoError(t, store.SaveRule(rule))

		saved, err := store.GetRule(rule.ID)
		assert.NoError(t, err)
		decoded := models.ParseActionsConfig(saved.ActionsConfigJSON)
		assert.Len(t, decoded, 2)
		assert.Equal(t, "notification", decoded[0].Type)
		assert.Equal(t, "u1", decoded[0].Params["userId"])
		assert.Equal(t, "log", decoded[1].Type)
	})
}
