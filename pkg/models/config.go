package models

import "encoding/json"

// The JSON columns on a rule are parsed in exactly one place so the
// malformed-JSON-never-throws contract holds uniformly: condition and
// action configs degrade to nil, schedule configs degrade to the
// daily default.

// ParseConditionConfig decodes ConditionConfigJSON. Nil means "always
// match", including for malformed input.
func ParseConditionConfig(raw *string) *ConditionTree {
	if raw == nil || *raw == "" {
		return nil
	}
	var tree ConditionTree
	if err := json.Unmarshal([]byte(*raw), &tree); err != nil {
		return nil
	}
	return &tree
}

// ParseActionsConfig decodes ActionsConfigJSON. Malformed input yields
// an empty action list.
func ParseActionsConfig(raw *string) []Action {
	if raw == nil || *raw == "" {
		return nil
	}
	var actions []Action
	if err := json.Unmarshal([]byte(*raw), &actions); err != nil {
		return nil
	}
	return actions
}

// ParseScheduleConfig decodes TriggerConfigJSON for schedule rules,
// substituting the daily default when the column is absent or
// unparsable.
func ParseScheduleConfig(raw *string) ScheduleConfig {
	cfg := DefaultScheduleConfig()
	if raw == nil || *raw == "" {
		return cfg
	}
	var parsed ScheduleConfig
	if err := json.Unmarshal([]byte(*raw), &parsed); err != nil {
		return cfg
	}
	if parsed.Cadence == "" {
		parsed.Cadence = DailyCadence
	}
	return parsed
}

// EncodeActionsConfig serializes an action list for storage,
// preserving declaration order.
func EncodeActionsConfig(actions []Action) (*string, error) {
	if actions == nil {
		return nil, nil
	}
	b, err := json.Marshal(actions)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// EncodeConditionConfig serializes a condition tree for storage.
func EncodeConditionConfig(tree *ConditionTree) (*string, error) {
	if tree == nil {
		return nil, nil
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
