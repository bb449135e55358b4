package service

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/brandops/automation/pkg/models"
)

// EvaluateConditions tests a condition tree against an event payload.
// Every condition in All must hold; when Any is non-empty at least one
// of it must hold as well. A nil or empty tree always matches. The
// all-then-any precedence is deliberate: this is an AND-group with an
// optional OR-group, not a general boolean expression language.
func EvaluateConditions(tree *models.ConditionTree, payload map[string]interface{}) bool {
	if tree == nil {
		return true
	}
	if len(tree.All) > 0 {
		for _, c := range tree.All {
			if !evaluateOne(c, payload) {
				return false
			}
		}
	}
	if len(tree.Any) > 0 {
		for _, c := range tree.Any {
			if evaluateOne(c, payload) {
				return true
			}
		}
		return false
	}
	return true
}

func evaluateOne(c models.Condition, payload map[string]interface{}) bool {
	resolved, found := resolvePath(payload, c.Path)
	switch c.Op {
	case models.OpEq:
		return found && valueEquals(resolved, c.Value)
	case models.OpNeq:
		return !found || !valueEquals(resolved, c.Value)
	case models.OpGt:
		return toNumber(resolved) > toNumber(c.Value)
	case models.OpLt:
		return toNumber(resolved) < toNumber(c.Value)
	case models.OpIncludes:
		return includes(resolved, c.Value)
	default:
		return false
	}
}

// resolvePath walks a dot-separated path over nested maps. A missing
// segment or a non-map intermediate yields (nil, false).
func resolvePath(payload map[string]interface{}, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}
	var current interface{} = payload
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// valueEquals compares a resolved payload value with a condition
// value. Numbers compare numerically regardless of concrete type
// since payloads arrive through JSON decoding; everything else
// compares by deep equality.
func valueEquals(a, b interface{}) bool {
	na, aNum := asNumber(a)
	nb, bNum := asNumber(b)
	if aNum && bNum {
		return na == nb
	}
	if aNum != bNum {
		return false
	}
	return reflect.DeepEqual(a, b)
}

// asNumber reports whether v is a numeric value, without string
// coercion.
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// toNumber coerces for the ordered comparisons: numeric strings parse,
// booleans map to 0/1, anything else is NaN so the comparison fails.
func toNumber(v interface{}) float64 {
	if f, ok := asNumber(v); ok {
		return f
	}
	switch n := v.(type) {
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case bool:
		if n {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

// includes matches element membership for sequences and substring
// containment when both sides are strings.
func includes(resolved, value interface{}) bool {
	switch seq := resolved.(type) {
	case []interface{}:
		for _, el := range seq {
			if valueEquals(el, value) {
				return true
			}
		}
		return false
	case []string:
		s, ok := value.(string)
		if !ok {
			return false
		}
		for _, el := range seq {
			if el == s {
				return true
			}
		}
		return false
	case string:
		s, ok := value.(string)
		if !ok {
			return false
		}
		return strings.Contains(seq, s)
	default:
		return false
	}
}
