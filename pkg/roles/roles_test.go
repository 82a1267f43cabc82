package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		required Role
		expected bool
	}{
		{"admin satisfies admin", Admin, Admin, true},
		{"admin satisfies operator", Admin, Operator, true},
		{"manager satisfies operator", Manager, Operator, true},
		{"manager does not satisfy admin", Manager, Admin, false},
		{"operator does not satisfy manager", Operator, Manager, false},
		{"operator satisfies operator", Operator, Operator, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.role.HasPermission(tt.required))
		})
	}
}

func TestIsValid(t *testing.T) {
	assert.True(t, Operator.IsValid())
	assert.True(t, Manager.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("superhero").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestUnknownRoleFallsBackToOperatorLevel(t *testing.T) {
	assert.Equal(t, OperatorLevel, Role("unknown").GetHierarchyLevel())
}
