// Package celestial computes the moon phase shown next to the daily card.
package celestial

import (
	"math"
	"time"
)

// Phase names a moon phase.
type Phase string

// Moon phases in lunation order.
const (
	NewMoon        Phase = "New Moon"
	WaxingCrescent Phase = "Waxing Crescent"
	FirstQuarter   Phase = "First Quarter"
	WaxingGibbous  Phase = "Waxing Gibbous"
	FullMoon       Phase = "Full Moon"
	WaningGibbous  Phase = "Waning Gibbous"
	LastQuarter    Phase = "Last Quarter"
	WaningCrescent Phase = "Waning Crescent"
)

// LunarMonth is the mean synodic month.
const LunarMonth = 2551442889 * time.Millisecond

// referenceNewMoon is a known new moon used as the epoch of the cycle.
var referenceNewMoon = time.Date(2000, time.January, 6, 18, 14, 0, 0, time.UTC)

// Moon describes the moon at an instant.
type Moon struct {
	Phase Phase `json:"phase"`
	// Fraction is the position in the lunation, 0 at new moon and 0.5 at full.
	Fraction float64 `json:"fraction"`
}

// MoonAt returns the moon phase at t using the mean lunation. It is accurate
// to within a day or so, which is enough for display.
func MoonAt(t time.Time) Moon {
	elapsed := t.Sub(referenceNewMoon).Milliseconds()
	month := LunarMonth.Milliseconds()

	fraction := float64(elapsed%month) / float64(month)
	if fraction < 0 {
		fraction++
	}
	fraction = math.Round(fraction*1e6) / 1e6

	return Moon{Phase: phaseFor(fraction), Fraction: fraction}
}

func phaseFor(f float64) Phase {
	switch {
	case f < 0.02 || f > 0.98:
		return NewMoon
	case f < 0.23:
		return WaxingCrescent
	case f < 0.27:
		return FirstQuarter
	case f < 0.48:
		return WaxingGibbous
	case f < 0.52:
		return FullMoon
	case f < 0.73:
		return WaningGibbous
	case f < 0.77:
		return LastQuarter
	default:
		return WaningCrescent
	}
}
