package segment

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		operator Operator
		value    string
		wantErr  bool
	}{
		{
			name:     "number field with JSON number",
			field:    FieldTotalSpending,
			operator: OpGreaterThan,
			value:    `500`,
			wantErr:  false,
		},
		{
			name:     "number field with numeric string",
			field:    FieldTotalSpending,
			operator: OpGreaterThan,
			value:    `"500"`,
			wantErr:  false,
		},
		{
			name:     "order count equality",
			field:    FieldOrderCount,
			operator: OpEqual,
			value:    `3`,
			wantErr:  false,
		},
		{
			name:     "date field with RFC 3339",
			field:    FieldLastVisit,
			operator: OpLessThan,
			value:    `"2026-01-15T10:00:00Z"`,
			wantErr:  false,
		},
		{
			name:     "date field with bare date",
			field:    FieldLastVisit,
			operator: OpGreaterEqual,
			value:    `"2026-01-15"`,
			wantErr:  false,
		},
		{
			name:     "text field with contains",
			field:    FieldEmail,
			operator: OpContains,
			value:    `"@example.com"`,
			wantErr:  false,
		},
		{
			name:     "unknown field",
			field:    "loyaltyTier",
			operator: OpEqual,
			value:    `"gold"`,
			wantErr:  true,
		},
		{
			name:     "unknown operator",
			field:    FieldTotalSpending,
			operator: "~",
			value:    `500`,
			wantErr:  true,
		},
		{
			name:     "contains on a number field",
			field:    FieldTotalSpending,
			operator: OpContains,
			value:    `500`,
			wantErr:  true,
		},
		{
			name:     "ordering operator on a text field",
			field:    FieldName,
			operator: OpGreaterThan,
			value:    `"Alice"`,
			wantErr:  true,
		},
		{
			name:     "non-numeric string for number field",
			field:    FieldTotalSpending,
			operator: OpGreaterThan,
			value:    `"lots"`,
			wantErr:  true,
		},
		{
			name:     "number for date field",
			field:    FieldLastVisit,
			operator: OpLessThan,
			value:    `1700000000`,
			wantErr:  true,
		},
		{
			name:     "malformed date string",
			field:    FieldLastVisit,
			operator: OpLessThan,
			value:    `"yesterday"`,
			wantErr:  true,
		},
		{
			name:     "empty text value",
			field:    FieldName,
			operator: OpEqual,
			value:    `""`,
			wantErr:  true,
		},
		{
			name:     "missing value",
			field:    FieldTotalSpending,
			operator: OpGreaterThan,
			value:    ``,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cond, err := ParseCondition(tt.field, tt.operator, json.RawMessage(tt.value))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseCondition() expected error, got %+v", cond)
				}
				var condErr *InvalidConditionError
				if !asInvalidCondition(err, &condErr) {
					t.Errorf("ParseCondition() error = %T, want *InvalidConditionError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCondition() unexpected error: %v", err)
			}
		})
	}
}

func asInvalidCondition(err error, target **InvalidConditionError) bool {
	e, ok := err.(*InvalidConditionError)
	if ok {
		*target = e
	}
	return ok
}

func TestParseConditionNarrowsNumericString(t *testing.T) {
	cond, err := ParseCondition(FieldTotalSpending, OpGreaterThan, json.RawMessage(`" 500.5 "`))
	if err != nil {
		t.Fatalf("ParseCondition() error: %v", err)
	}
	if cond.Value.Kind != KindNumber {
		t.Errorf("Value.Kind = %v, want KindNumber", cond.Value.Kind)
	}
	if cond.Value.Number != 500.5 {
		t.Errorf("Value.Number = %v, want 500.5", cond.Value.Number)
	}
}

func TestConditionUnmarshalJSON(t *testing.T) {
	raw := `{"field":"lastVisit","operator":"<","value":"2026-03-01"}`

	var cond Condition
	if err := json.Unmarshal([]byte(raw), &cond); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if cond.Field != FieldLastVisit {
		t.Errorf("Field = %q, want %q", cond.Field, FieldLastVisit)
	}
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !cond.Value.Date.Equal(want) {
		t.Errorf("Value.Date = %v, want %v", cond.Value.Date, want)
	}
}

func TestConditionUnmarshalJSONRejectsBadCondition(t *testing.T) {
	raw := `{"field":"totalSpending","operator":"contains","value":500}`

	var cond Condition
	if err := json.Unmarshal([]byte(raw), &cond); err == nil {
		t.Fatal("Unmarshal() expected error for operator/kind mismatch")
	}
}

func TestConditionMarshalRoundTrip(t *testing.T) {
	cond, err := ParseCondition(FieldEmail, OpContains, json.RawMessage(`"@example.com"`))
	if err != nil {
		t.Fatalf("ParseCondition() error: %v", err)
	}

	data, err := json.Marshal(cond)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var back Condition
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if back.Value.Text != "@example.com" {
		t.Errorf("round-tripped text = %q, want %q", back.Value.Text, "@example.com")
	}
}

func TestValidateConditions(t *testing.T) {
	valid := Condition{Field: FieldOrderCount, Operator: OpGreaterThan, Value: Value{Kind: KindNumber, Number: 1}}

	tests := []struct {
		name       string
		conditions []Condition
		logic      Logic
		wantErr    bool
	}{
		{"single condition with AND", []Condition{valid}, LogicAnd, false},
		{"single condition with OR", []Condition{valid}, LogicOr, false},
		{"empty list", nil, LogicAnd, true},
		{"unknown logic", []Condition{valid}, "XOR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConditions(tt.conditions, tt.logic)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConditions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
