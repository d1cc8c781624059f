package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckOwnership(t *testing.T) {
	tests := []struct {
		name        string
		ownerID     uint
		principalID uint
		want        bool
	}{
		{"same id owns", 7, 7, true},
		{"different id denied", 7, 8, false},
		{"zero owner fails closed", 0, 7, false},
		{"zero principal fails closed", 7, 0, false},
		{"both zero fails closed", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckOwnership(tt.ownerID, tt.principalID))
		})
	}
}
