package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMovementStatus(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    MovementStatus
		wantErr bool
	}{
		{name: "in transit", value: "in_transit", want: MovementInTransit},
		{name: "completed", value: "completed", want: MovementCompleted},
		{name: "unknown", value: "cancelled", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMovementStatus(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMovementStatusIsTerminal(t *testing.T) {
	assert.False(t, MovementInTransit.IsTerminal())
	assert.True(t, MovementCompleted.IsTerminal())
}

func TestNewRegistryStatus(t *testing.T) {
	got, err := NewRegistryStatus("active")
	assert.NoError(t, err)
	assert.Equal(t, RegistryActive, got)

	got, err = NewRegistryStatus("inactive")
	assert.NoError(t, err)
	assert.Equal(t, RegistryInactive, got)

	_, err = NewRegistryStatus("deleted")
	assert.Error(t, err)
}
