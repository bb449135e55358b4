package models

type Operator string

const (
	OpEq       Operator = "eq"
	OpNeq      Operator = "neq"
	OpGt       Operator = "gt"
	OpLt       Operator = "lt"
	OpIncludes Operator = "includes"
)

// Condition is a single field comparison against an event payload.
// Path is a dot-separated walk over the payload mapping.
type Condition struct {
	Path  string      `json:"path"`
	Op    Operator    `json:"op"`
	Value interface{} `json:"value"`
}

// ConditionTree is a two-level boolean structure: every condition in
// All must hold, and when Any is non-empty at least one of it must
// hold. An empty tree matches everything.
type ConditionTree struct {
	All []Condition `json:"all,omitempty"`
	Any []Condition `json:"any,omitempty"`
}
