package service

import (
	"context"
	"fmt"

	"github.com/brandops/automation/pkg/models"
)

// Notifier is the external notification collaborator invoked by the
// "notification" action type. Delivery failures propagate as action
// errors and are recorded by the coordinator.
type Notifier interface {
	CreateNotification(ctx context.Context, n models.Notification) error
}

// ActionHandler executes one action. The event is nil for
// schedule-triggered and manual runs.
type ActionHandler func(ctx context.Context, action models.Action, event *models.Event) error

// ActionRunner dispatches actions by type string. Known types are
// registered up front; unknown types are no-ops so a misconfigured
// action never aborts the rest of the list.
type ActionRunner struct {
	handlers map[string]ActionHandler
	logger   Logger
}

func NewActionRunner(notifier Notifier, logger Logger) *ActionRunner {
	r := &ActionRunner{
		handlers: make(map[string]ActionHandler),
		logger:   logger,
	}
	r.Register(models.NotificationAction, notificationHandler(notifier))
	r.Register(models.LogAction, r.logHandler)
	return r
}

// Register installs a handler for an action type, replacing any
// existing one.
func (r *ActionRunner) Register(actionType string, h ActionHandler) {
	r.handlers[actionType] = h
}

// Run executes actions in declaration order. The first action error
// aborts the remaining actions in the list; the caller records the
// whole attempt as failed.
func (r *ActionRunner) Run(ctx context.Context, actions []models.Action, event *models.Event) error {
	for _, action := range actions {
		handler, ok := r.handlers[action.Type]
		if !ok {
			r.logger.Infof("Skipping unknown action type '%s'", action.Type)
			continue
		}
		if err := handler(ctx, action, event); err != nil {
			return err
		}
	}
	return nil
}

func notificationHandler(notifier Notifier) ActionHandler {
	return func(ctx context.Context, action models.Action, event *models.Event) error {
		n := models.Notification{
			Type:    "automation",
			Title:   "Automation triggered",
			Message: "An automation rule fired",
		}
		if event != nil {
			n.BrandID = event.BrandID()
			n.Message = fmt.Sprintf("Automation rule fired for event '%s'", event.Name)
			n.Data = event.Payload
		}
		if n.BrandID == nil {
			if v, ok := stringParam(action.Params, "brandId"); ok {
				n.BrandID = &v
			}
		}
		if v, ok := stringParam(action.Params, "userId"); ok {
			n.UserID = &v
		}
		if v, ok := stringParam(action.Params, "type"); ok {
			n.Type = v
		}
		if v, ok := stringParam(action.Params, "title"); ok {
			n.Title = v
		}
		if v, ok := stringParam(action.Params, "message"); ok {
			n.Message = v
		}
		return notifier.CreateNotification(ctx, n)
	}
}

// logHandler writes the action params plus the firing event name to
// the operational log. It always succeeds.
func (r *ActionRunner) logHandler(ctx context.Context, action models.Action, event *models.Event) error {
	eventName := ""
	if event != nil {
		eventName = event.Name
	}
	r.logger.Infof("Automation log action: event=%q params=%v", eventName, action.Params)
	return nil
}

func stringParam(params map[string]interface{}, key string) (string, bool) {
	if params == nil {
		return "", false
	}
	v, ok := params[key].(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
