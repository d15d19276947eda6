package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomInt(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
	}{
		{name: "post id range", min: 1, max: 100},
		{name: "negative range", min: -5, max: 5},
		{name: "two values", min: 0, max: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen := make(map[int]bool)
			for range 5000 {
				v := RandomInt(tt.min, tt.max)
				assert.GreaterOrEqual(t, v, tt.min)
				assert.LessOrEqual(t, v, tt.max)
				seen[v] = true
			}
			// both bounds are inclusive
			assert.True(t, seen[tt.min], "min never produced")
			assert.True(t, seen[tt.max], "max never produced")
		})
	}
}

func TestRandomInt_SingleValue(t *testing.T) {
	for range 100 {
		assert.Equal(t, 42, RandomInt(42, 42))
	}
}
