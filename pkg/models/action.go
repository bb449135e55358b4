package models

const (
	NotificationAction = "notification"
	LogAction          = "log"
)

// Action is a typed, parameterized side effect executed when a rule
// fires. Unknown types are ignored by the runner.
type Action struct {
	Type   string                 `json:"type"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// Notification is the payload handed to the notification collaborator
// by the "notification" action type.
type Notification struct {
	UserID  *string                `json:"user_id,omitempty"`
	BrandID *string                `json:"brand_id,omitempty"`
	Type    string                 `json:"type"`
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data,omitempty"`
}
