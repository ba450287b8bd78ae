package types_test

import (
	"testing"

	"github.com/arthur-debert/relink/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestMandatoryFieldID(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Reference", types.FieldReference},
		{"value", types.FieldValue},
		{"FOOTPRINT", types.FieldFootprint},
		{"Datasheet", types.FieldDatasheet},
		{"Tolerance", -1},
		{"", -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, types.MandatoryFieldID(tt.name))
		})
	}
}
