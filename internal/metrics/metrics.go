package metrics

import (
	"github.com/san-kum/tcvsim/internal/particle"
	"github.com/san-kum/tcvsim/internal/sim"
)

// Defaults returns the metric set attached to every run. Containment is
// included only when bounds are given, EnergyDrift only for force-free runs.
func Defaults(bounds *particle.Rect, forceFree bool) []sim.Metric {
	ms := []sim.Metric{
		NewKineticEnergy(),
		NewMaxSpeed(),
		NewSpeedSpread(),
	}
	if bounds != nil {
		ms = append(ms, NewContainment(*bounds))
	}
	if forceFree {
		ms = append(ms, NewEnergyDrift())
	}
	return ms
}
