package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type line struct {
	Name string
	Qty  int
}

type order struct {
	Number string
	Lines  []line
}

func orderRules() *RuleSet[order] {
	lineRules := NewRuleSet[line]().
		String("Name", "Name is required.", func(l line) string { return l.Name }, NotBlank).
		Rule("Qty", "Qty must be positive.", func(l line) bool { return l.Qty > 0 })

	rules := NewRuleSet[order]().
		String("Number", "Number is required.", func(o order) string { return o.Number }, NotBlank).
		String("Number", "Number is too long.", func(o order) string { return o.Number }, MaxLen(5))
	return Each(rules, "Lines", func(o order) []line { return o.Lines }, lineRules)
}

func TestRuleSet_Valid(t *testing.T) {
	result := orderRules().Validate(order{Number: "A1", Lines: []line{{Name: "beer", Qty: 1}}})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestRuleSet_CollectsEveryFailure(t *testing.T) {
	result := orderRules().Validate(order{
		Number: "  ",
		Lines:  []line{{Name: "ok", Qty: 1}, {Name: "", Qty: 0}},
	})

	assert.False(t, result.IsValid)
	assert.Equal(t, []FieldError{
		{Field: "Number", Message: "Number is required."},
		{Field: "Lines[1].Name", Message: "Name is required."},
		{Field: "Lines[1].Qty", Message: "Qty must be positive."},
	}, result.Errors)
	assert.True(t, result.HasMessage("Qty must be positive."))
	assert.False(t, result.HasMessage("Number is too long."))
}

func TestResult_FieldMapJoinsMessages(t *testing.T) {
	result := Result{Errors: []FieldError{
		{Field: "Quantity", Message: "a."},
		{Field: "Quantity", Message: "b."},
		{Field: "Product", Message: "c."},
	}}

	assert.Equal(t, map[string]string{"Quantity": "a.; b.", "Product": "c."}, result.FieldMap())
	assert.Equal(t, []string{"a.", "b.", "c."}, result.Messages())
}

func TestMaxLenCountsRunes(t *testing.T) {
	assert.True(t, MaxLen(4)("pão!"))
	assert.False(t, MaxLen(3)("pão!"))
}
