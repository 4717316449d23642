package segment

import (
	"strings"
	"time"
)

// Profile is the evaluable view of one customer. OrderCount is derived from
// the customer's orders, the rest comes straight off the customer record.
// A nil LastVisit means the customer has never visited.
type Profile struct {
	TotalSpending float64
	OrderCount    int
	LastVisit     *time.Time
	Name          string
	Email         string
}

// Evaluate applies a single condition to a customer profile. A comparison
// that cannot be made (missing last visit, kind mismatch) is false, never an
// error: construction-time validation already rejected malformed conditions,
// so anything left over is a data gap on the customer side.
func Evaluate(profile Profile, cond Condition) bool {
	switch cond.Value.Kind {
	case KindNumber:
		actual, ok := numberField(profile, cond.Field)
		if !ok {
			return false
		}
		return compareNumbers(actual, cond.Operator, cond.Value.Number)

	case KindDate:
		actual, ok := dateField(profile, cond.Field)
		if !ok {
			return false
		}
		return compareDates(actual, cond.Operator, cond.Value.Date)

	case KindText:
		actual, ok := textField(profile, cond.Field)
		if !ok {
			return false
		}
		return compareText(actual, cond.Operator, cond.Value.Text)

	default:
		return false
	}
}

// EvaluateAll combines conditions under AND or OR semantics. AND requires
// every condition to hold; OR requires at least one. An empty condition list
// matches nothing under either logic.
func EvaluateAll(profile Profile, conditions []Condition, logic Logic) bool {
	if len(conditions) == 0 {
		return false
	}

	if logic == LogicOr {
		for _, cond := range conditions {
			if Evaluate(profile, cond) {
				return true
			}
		}
		return false
	}

	for _, cond := range conditions {
		if !Evaluate(profile, cond) {
			return false
		}
	}
	return true
}

func numberField(profile Profile, field Field) (float64, bool) {
	switch field {
	case FieldTotalSpending:
		return profile.TotalSpending, true
	case FieldOrderCount:
		return float64(profile.OrderCount), true
	default:
		return 0, false
	}
}

func dateField(profile Profile, field Field) (time.Time, bool) {
	switch field {
	case FieldLastVisit:
		if profile.LastVisit == nil {
			return time.Time{}, false
		}
		return *profile.LastVisit, true
	default:
		return time.Time{}, false
	}
}

func textField(profile Profile, field Field) (string, bool) {
	switch field {
	case FieldName:
		return profile.Name, true
	case FieldEmail:
		return profile.Email, true
	default:
		return "", false
	}
}

func compareNumbers(actual float64, op Operator, expected float64) bool {
	switch op {
	case OpGreaterThan:
		return actual > expected
	case OpLessThan:
		return actual < expected
	case OpGreaterEqual:
		return actual >= expected
	case OpLessEqual:
		return actual <= expected
	case OpEqual:
		return actual == expected
	case OpNotEqual:
		return actual != expected
	default:
		return false
	}
}

func compareDates(actual time.Time, op Operator, expected time.Time) bool {
	switch op {
	case OpGreaterThan:
		return actual.After(expected)
	case OpLessThan:
		return actual.Before(expected)
	case OpGreaterEqual:
		return !actual.Before(expected)
	case OpLessEqual:
		return !actual.After(expected)
	case OpEqual:
		return actual.Equal(expected)
	case OpNotEqual:
		return !actual.Equal(expected)
	default:
		return false
	}
}

func compareText(actual string, op Operator, expected string) bool {
	switch op {
	case OpEqual:
		return strings.EqualFold(actual, expected)
	case OpNotEqual:
		return !strings.EqualFold(actual, expected)
	case OpContains:
		return strings.Contains(strings.ToLower(actual), strings.ToLower(expected))
	default:
		return false
	}
}
