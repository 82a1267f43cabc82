package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBarcode(t *testing.T) {
	tests := []struct {
		name       string
		partNumber string
		want       string
	}{
		{name: "plain part number", partNumber: "BC-102", want: "MP-BC-102"},
		{name: "lowercase input", partNumber: "bc-102", want: "MP-BC-102"},
		{name: "surrounding whitespace", partNumber: "  PK-001 ", want: "MP-PK-001"},
		{name: "inner spaces collapse", partNumber: "brake pad 22", want: "MP-BRAKE-PAD-22"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := NewBarcode(tt.partNumber)
			assert.Equal(t, tt.want, code.String())
		})
	}
}
