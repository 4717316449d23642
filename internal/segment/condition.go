package segment

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Logic determines how a list of conditions combines.
type Logic string

const (
	LogicAnd Logic = "AND"
	LogicOr  Logic = "OR"
)

// IsValidLogic checks if the logic value is valid
func IsValidLogic(logic Logic) bool {
	return logic == LogicAnd || logic == LogicOr
}

// Field identifies a filterable customer attribute.
type Field string

const (
	FieldTotalSpending Field = "totalSpending"
	FieldOrderCount    Field = "orderCount"
	FieldLastVisit     Field = "lastVisit"
	FieldName          Field = "name"
	FieldEmail         Field = "email"
)

// Kind is the value type a field expects.
type Kind int

const (
	KindNumber Kind = iota
	KindDate
	KindText
)

// fieldKinds ties each field to its expected value type. Value parsing and
// operator checks are keyed off this table, so an unknown field is rejected
// before any evaluation happens.
var fieldKinds = map[Field]Kind{
	FieldTotalSpending: KindNumber,
	FieldOrderCount:    KindNumber,
	FieldLastVisit:     KindDate,
	FieldName:          KindText,
	FieldEmail:         KindText,
}

// KindOf returns the expected value kind for a field.
func KindOf(field Field) (Kind, bool) {
	kind, ok := fieldKinds[field]
	return kind, ok
}

// Operator is a comparison applied between a customer attribute and a
// condition value.
type Operator string

const (
	OpGreaterThan  Operator = ">"
	OpLessThan     Operator = "<"
	OpGreaterEqual Operator = ">="
	OpLessEqual    Operator = "<="
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpContains     Operator = "contains"
)

// IsValidOperator checks if the operator is a known comparison
func IsValidOperator(op Operator) bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual, OpEqual, OpNotEqual, OpContains:
		return true
	default:
		return false
	}
}

// operatorAllowed reports whether an operator makes sense for a value kind.
// Ordering operators need numbers or dates; contains needs text.
func operatorAllowed(op Operator, kind Kind) bool {
	switch op {
	case OpGreaterThan, OpLessThan, OpGreaterEqual, OpLessEqual:
		return kind == KindNumber || kind == KindDate
	case OpContains:
		return kind == KindText
	case OpEqual, OpNotEqual:
		return true
	default:
		return false
	}
}

// Value is a tagged union keyed by the owning field's kind. Exactly one of
// the branches is populated, decided at parse time.
type Value struct {
	Kind   Kind
	Number float64
	Date   time.Time
	Text   string
}

// Condition is one predicate over a customer record.
type Condition struct {
	Field    Field    `json:"field"`
	Operator Operator `json:"operator"`
	Value    Value    `json:"value"`
}

// conditionWire is the over-the-wire shape: value arrives as a loosely typed
// JSON scalar (string, number or boolean) and is narrowed against the field.
type conditionWire struct {
	Field    Field           `json:"field"`
	Operator Operator        `json:"operator"`
	Value    json.RawMessage `json:"value"`
}

// UnmarshalJSON decodes and validates a condition in one step, so malformed
// conditions never reach evaluation.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var wire conditionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	parsed, err := ParseCondition(wire.Field, wire.Operator, wire.Value)
	if err != nil {
		return err
	}

	*c = *parsed
	return nil
}

// MarshalJSON emits the loosely typed wire shape expected by API consumers.
func (c Condition) MarshalJSON() ([]byte, error) {
	var value interface{}
	switch c.Value.Kind {
	case KindNumber:
		value = c.Value.Number
	case KindDate:
		value = c.Value.Date.Format(time.RFC3339)
	case KindText:
		value = c.Value.Text
	}

	return json.Marshal(map[string]interface{}{
		"field":    c.Field,
		"operator": c.Operator,
		"value":    value,
	})
}

// ParseCondition validates a raw condition and narrows its value to the
// field's expected kind. Unknown fields, unknown operators, operator/kind
// mismatches and value type mismatches are all rejected here.
func ParseCondition(field Field, op Operator, rawValue json.RawMessage) (*Condition, error) {
	kind, ok := KindOf(field)
	if !ok {
		return nil, &InvalidConditionError{Reason: fmt.Sprintf("unknown field: %q", field)}
	}

	if !IsValidOperator(op) {
		return nil, &InvalidConditionError{Reason: fmt.Sprintf("unknown operator: %q", op)}
	}

	if !operatorAllowed(op, kind) {
		return nil, &InvalidConditionError{
			Reason: fmt.Sprintf("operator %q cannot be applied to field %q", op, field),
		}
	}

	value, err := parseValue(kind, rawValue)
	if err != nil {
		return nil, &InvalidConditionError{
			Reason: fmt.Sprintf("invalid value for field %q: %v", field, err),
		}
	}

	return &Condition{Field: field, Operator: op, Value: *value}, nil
}

// parseValue narrows a raw JSON scalar to the expected kind. Numeric fields
// accept JSON numbers or numeric strings; date fields accept ISO-8601
// strings; text fields accept strings.
func parseValue(kind Kind, raw json.RawMessage) (*Value, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("value is required")
	}

	switch kind {
	case KindNumber:
		var n float64
		if err := json.Unmarshal(raw, &n); err == nil {
			return &Value{Kind: KindNumber, Number: n}, nil
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, fmt.Errorf("expected a number, got %q", s)
			}
			return &Value{Kind: KindNumber, Number: n}, nil
		}
		return nil, fmt.Errorf("expected a number")

	case KindDate:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected an ISO-8601 date string")
		}
		t, err := parseDate(s)
		if err != nil {
			return nil, err
		}
		return &Value{Kind: KindDate, Date: t}, nil

	case KindText:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected a string")
		}
		if s == "" {
			return nil, fmt.Errorf("value cannot be empty")
		}
		return &Value{Kind: KindText, Text: s}, nil

	default:
		return nil, fmt.Errorf("unsupported value kind")
	}
}

// parseDate accepts full RFC 3339 timestamps or bare dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("expected an ISO-8601 date, got %q", s)
}

// InvalidConditionError reports a condition rejected at construction time.
type InvalidConditionError struct {
	Reason string
}

func (e *InvalidConditionError) Error() string {
	return "invalid segment condition: " + e.Reason
}

// ValidateConditions checks a condition list and its combining logic.
// The list must be non-empty and the logic must be AND or OR.
func ValidateConditions(conditions []Condition, logic Logic) error {
	if len(conditions) == 0 {
		return &InvalidConditionError{Reason: "at least one condition is required"}
	}
	if !IsValidLogic(logic) {
		return &InvalidConditionError{Reason: fmt.Sprintf("unknown logic: %q (must be AND or OR)", logic)}
	}
	return nil
}
