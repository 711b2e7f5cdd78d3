package celestial

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoonAt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		at   time.Time
		want Phase
	}{
		{"reference new moon", referenceNewMoon, NewMoon},
		{"one lunation later", referenceNewMoon.Add(LunarMonth), NewMoon},
		{"a week after new moon", referenceNewMoon.Add(LunarMonth / 4), FirstQuarter},
		{"half a lunation", referenceNewMoon.Add(LunarMonth / 2), FullMoon},
		{"three quarters", referenceNewMoon.Add(3 * LunarMonth / 4), LastQuarter},
		{"before the epoch", referenceNewMoon.Add(-LunarMonth / 2), FullMoon},
		{"crescent", referenceNewMoon.Add(LunarMonth / 10), WaxingCrescent},
		{"waning crescent", referenceNewMoon.Add(9 * LunarMonth / 10), WaningCrescent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MoonAt(tc.at)
			assert.Equal(t, tc.want, got.Phase)
			assert.GreaterOrEqual(t, got.Fraction, 0.0)
			assert.Less(t, got.Fraction, 1.0)
		})
	}
}

func TestPhaseBoundaries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NewMoon, phaseFor(0.0))
	assert.Equal(t, NewMoon, phaseFor(0.99))
	assert.Equal(t, WaxingCrescent, phaseFor(0.02))
	assert.Equal(t, FirstQuarter, phaseFor(0.25))
	assert.Equal(t, WaxingGibbous, phaseFor(0.27))
	assert.Equal(t, FullMoon, phaseFor(0.5))
	assert.Equal(t, WaningGibbous, phaseFor(0.52))
	assert.Equal(t, LastQuarter, phaseFor(0.75))
	assert.Equal(t, WaningCrescent, phaseFor(0.77))
	assert.Equal(t, WaningCrescent, phaseFor(0.98))
}
