package segment

import (
	"testing"
	"time"
)

func numberCond(field Field, op Operator, n float64) Condition {
	return Condition{Field: field, Operator: op, Value: Value{Kind: KindNumber, Number: n}}
}

func textCond(field Field, op Operator, s string) Condition {
	return Condition{Field: field, Operator: op, Value: Value{Kind: KindText, Text: s}}
}

func dateCond(op Operator, t time.Time) Condition {
	return Condition{Field: FieldLastVisit, Operator: op, Value: Value{Kind: KindDate, Date: t}}
}

func TestEvaluate(t *testing.T) {
	visit := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	profile := Profile{
		TotalSpending: 750,
		OrderCount:    4,
		LastVisit:     &visit,
		Name:          "Alice Wanjiku",
		Email:         "alice@example.com",
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"spending greater than", numberCond(FieldTotalSpending, OpGreaterThan, 500), true},
		{"spending not greater than", numberCond(FieldTotalSpending, OpGreaterThan, 1000), false},
		{"spending boundary excluded", numberCond(FieldTotalSpending, OpGreaterThan, 750), false},
		{"spending boundary included", numberCond(FieldTotalSpending, OpGreaterEqual, 750), true},
		{"order count equal", numberCond(FieldOrderCount, OpEqual, 4), true},
		{"order count not equal", numberCond(FieldOrderCount, OpNotEqual, 4), false},
		{"visit before cutoff", dateCond(OpLessThan, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), true},
		{"visit after cutoff", dateCond(OpGreaterThan, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)), false},
		{"name equality is case insensitive", textCond(FieldName, OpEqual, "alice wanjiku"), true},
		{"email contains is case insensitive", textCond(FieldEmail, OpContains, "@EXAMPLE"), true},
		{"email does not contain", textCond(FieldEmail, OpContains, "@other.com"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evaluate(profile, tt.cond); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateMissingLastVisit(t *testing.T) {
	profile := Profile{TotalSpending: 100}

	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, op := range []Operator{OpLessThan, OpGreaterThan, OpEqual, OpNotEqual} {
		if Evaluate(profile, dateCond(op, cutoff)) {
			t.Errorf("Evaluate(%s) on missing last visit = true, want false", op)
		}
	}
}

func TestEvaluateAll(t *testing.T) {
	profile := Profile{
		TotalSpending: 750,
		OrderCount:    2,
		Name:          "Bob",
		Email:         "bob@example.com",
	}

	highSpend := numberCond(FieldTotalSpending, OpGreaterThan, 500)
	manyOrders := numberCond(FieldOrderCount, OpGreaterThan, 5)

	tests := []struct {
		name       string
		conditions []Condition
		logic      Logic
		want       bool
	}{
		{"AND all hold", []Condition{highSpend, numberCond(FieldOrderCount, OpGreaterThan, 1)}, LogicAnd, true},
		{"AND one fails", []Condition{highSpend, manyOrders}, LogicAnd, false},
		{"OR one holds", []Condition{highSpend, manyOrders}, LogicOr, true},
		{"OR none hold", []Condition{manyOrders, textCond(FieldName, OpEqual, "Carol")}, LogicOr, false},
		{"single condition under AND", []Condition{highSpend}, LogicAnd, true},
		{"single condition under OR", []Condition{highSpend}, LogicOr, true},
		{"empty list matches nothing under AND", nil, LogicAnd, false},
		{"empty list matches nothing under OR", nil, LogicOr, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateAll(profile, tt.conditions, tt.logic); got != tt.want {
				t.Errorf("EvaluateAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A single condition must produce the same result whichever logic is chosen.
func TestSingleConditionLogicIndependence(t *testing.T) {
	profile := Profile{TotalSpending: 300}
	cond := []Condition{numberCond(FieldTotalSpending, OpLessThan, 500)}

	andResult := EvaluateAll(profile, cond, LogicAnd)
	orResult := EvaluateAll(profile, cond, LogicOr)
	if andResult != orResult {
		t.Errorf("single condition diverged: AND=%v OR=%v", andResult, orResult)
	}
}
