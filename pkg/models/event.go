package models

// EventContext carries contextual metadata published alongside a
// domain event, most notably the brand scope.
type EventContext struct {
	BrandID *string `json:"brand_id,omitempty"`
	UserID  *string `json:"user_id,omitempty"`
}

// Event is the bus envelope: a name, an arbitrary payload and context.
type Event struct {
	Name    string                 `json:"name"`
	Payload map[string]interface{} `json:"payload,omitempty"`
	Context EventContext           `json:"context,omitempty"`
}

// BrandID resolves the brand scope of the event, falling back to a
// "brandId" field inside the payload when the context carries none.
func (e *Event) BrandID() *string {
	if e == nil {
		return nil
	}
	if e.Context.BrandID != nil {
		return e.Context.BrandID
	}
	if e.Payload != nil {
		if v, ok := e.Payload["brandId"].(string); ok {
			return &v
		}
	}
	return nil
}
