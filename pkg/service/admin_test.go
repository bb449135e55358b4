package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/brandops/automation/pkg/models"
	"github.com/brandops/automation/pkg/storage"
)

func TestCreateRule_Validation(t *testing.T) {
	svc := newService(storage.NewMockStore(), &mockNotifier{})

	t.Run("EmptyName", func(t *testing.T) {
		_, err := svc.CreateRule(models.Rule{TriggerType: models.EventTrigger})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("InvalidTriggerType", func(t *testing.T) {
		_, err := svc.CreateRule(models.Rule{Name: "bad", TriggerType: "webhook"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "trigger type")
	})

	t.Run("EventFilterOnScheduleRule", func(t *testing.T) {
		_, err := svc.CreateRule(models.Rule{
			Name:         "bad",
			TriggerType:  models.ScheduleTrigger,
			TriggerEvent: strPtr("order.created"),
		})
		assert.Error(t, err)
	})

	t.Run("MalformedConditionConfigRejected", func(t *testing.T) {
		_, err := svc.CreateRule(models.Rule{
			Name:                "bad",
			TriggerType:         models.EventTrigger,
			ConditionConfigJSON: strPtr(`{"all":`),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "condition config")
	})

	t.Run("MalformedActionsConfigRejected", func(t *testing.T) {
		_, err := svc.CreateRule(models.Rule{
			Name:              "bad",
			TriggerType:       models.EventTrigger,
			ActionsConfigJSON: strPtr(`[{`),
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "actions config")
	})

	t.Run("ValidRuleGetsID", func(t *testing.T) {
		created, err := svc.CreateRule(models.Rule{
			Name:        "ok",
			TriggerType: models.EventTrigger,
			Enabled:     true,
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
	})
}

func TestUpdateRule_TriggerTypeImmutable(t *testing.T) {
	svc := newService(storage.NewMockStore(), &mockNotifier{})

	created, err := svc.CreateRule(models.Rule{
		Name:        "fixed trigger",
		TriggerType: models.EventTrigger,
		Enabled:     true,
	})
	assert.NoError(t, err)

	created.TriggerType = models.ScheduleTrigger
	err = svc.UpdateRule(created)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "trigger type")
}

func TestUpdateRule_NotFound(t *testing.T) {
	svc := newService(storage.NewMockStore(), &mockNotifier{})

	err := svc.UpdateRule(models.Rule{
		ID:          "00000000-0000-0000-0000-000000000000",
		Name:        "ghost",
		TriggerType: models.EventTrigger,
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAdminMutationsInvalidateScheduleCache(t *testing.T) {
	store := storage.NewMockStore()
	notifier := &mockNotifier{}
	svc := newService(store, notifier)

	// Prime the cache with an empty schedule list.
	assert.NoError(t, svc.RunScheduled(context.Background(), time.Now()))

	created, err := svc.CreateRule(models.Rule{
		Name:              "new hourly",
		TriggerType:       models.ScheduleTrigger,
		TriggerConfigJSON: strPtr(`{"cadence":"hourly"}`),
		ActionsConfigJSON: strPtr(`[{"type":"notification"}]`),
		Enabled:           true,
	})
	assert.NoError(t, err)

	// The create must have invalidated the cached list; the new rule
	// fires on the very next tick.
	assert.NoError(t, svc.RunScheduled(context.Background(), time.Now()))
	assert.Len(t, notifier.notifications(), 1)

	assert.NoError(t, svc.DeleteRule(created.ID))
	assert.NoError(t, svc.RunScheduled(context.Background(), time.Now()))
	assert.Len(t, notifier.notifications(), 1)
}

func TestListExecutionLogs_UnknownRule(t *testing.T) {
	svc := newService(storage.NewMockStore(), &mockNotifier{})
	_, err := svc.ListExecutionLogs("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
