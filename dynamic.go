/*
Copyright © 2016 the Dispersion authors.
This file is part of Dispersion.

Dispersion is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Dispersion is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Dispersion.  If not, see <http://www.gnu.org/licenses/>.
*/

package dispersion

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStep is returned when a dynamic puff is stepped by a
// time that is not a positive finite number.
var ErrInvalidStep = errors.New("dispersion: time step must be positive and finite")

// DynamicPuff is a puff that is advanced through time in steps,
// moving with the wind at the time of each step. Its spread grows
// with the total distance traveled and never shrinks, even when the
// wind changes direction.
//
// The wind is read from the Atmosphere at each step, so changing the
// Atmosphere between steps changes the puff's course.
//
// A DynamicPuff is not safe for concurrent use.
type DynamicPuff struct {
	puff *Puff

	time      float64 // [s]
	center    Vector
	start     Vector
	path      []Vector
	traveled  float64 // [m]
	virtHoriz float64 // [m]
	virtVert  float64 // [m]
	stdY      float64 // [m]
	stdZ      float64 // [m]
}

// DynamicPuffOption sets optional DynamicPuff properties.
type DynamicPuffOption func(*DynamicPuff)

// Center sets the starting location of the puff center [m]. The
// default is directly above the source at the effective source height.
func Center(c Vector) DynamicPuffOption {
	return func(p *DynamicPuff) { p.center = c }
}

// NewDynamicPuff creates a new dynamic puff of mass [g] released
// from src.
func NewDynamicPuff(atm *Atmosphere, src *Source, mass float64, opts ...DynamicPuffOption) *DynamicPuff {
	p := &DynamicPuff{puff: NewPuff(atm, src, mass)}
	p.center = Vector{Z: p.EffectiveSourceHeight()}
	for _, o := range opts {
		o(p)
	}
	p.start = p.center
	return p
}

func (p *DynamicPuff) String() string {
	return fmt.Sprintf("Puff of %g g at %s after %g s", p.Mass(), p.center, p.time)
}

// Mass returns the mass released [g].
func (p *DynamicPuff) Mass() float64 { return p.puff.MassReleased }

// Atmosphere returns the puff's surroundings.
func (p *DynamicPuff) Atmosphere() *Atmosphere { return p.puff.Atmosphere() }

// Source returns the source of the puff.
func (p *DynamicPuff) Source() *Source { return p.puff.Source() }

// EffectiveSourceHeight returns the stack height plus plume rise [m].
func (p *DynamicPuff) EffectiveSourceHeight() float64 { return p.puff.EffectiveSourceHeight() }

// SetEffectiveSourceHeight overrides the calculated effective source
// height [m]. It does not move the puff center.
func (p *DynamicPuff) SetEffectiveSourceHeight(h float64) *DynamicPuff {
	p.puff.SetEffectiveSourceHeight(h)
	return p
}

// MaxConcentration returns ErrUnsupported.
func (p *DynamicPuff) MaxConcentration() (float64, error) { return p.puff.MaxConcentration() }

// MaxConcentrationX returns ErrUnsupported.
func (p *DynamicPuff) MaxConcentrationX() (float64, error) { return p.puff.MaxConcentrationX() }

// Time returns the time since release [s].
func (p *DynamicPuff) Time() float64 { return p.time }

// Center returns the current location of the puff center [m].
func (p *DynamicPuff) Center() Vector { return p.center }

// Start returns the location the puff was released from [m].
func (p *DynamicPuff) Start() Vector { return p.start }

// Path returns the location of the puff center after each step.
// The returned slice is a copy.
func (p *DynamicPuff) Path() []Vector {
	o := make([]Vector, len(p.path))
	copy(o, p.path)
	return o
}

// DistanceFromStart returns the straight-line distance [m] between
// the release location and the current center.
func (p *DynamicPuff) DistanceFromStart() float64 {
	return p.center.Sub(p.start).Length()
}

// DistanceTraveled returns the length [m] of the path the puff center
// has followed. It is never less than DistanceFromStart.
func (p *DynamicPuff) DistanceTraveled() float64 { return p.traveled }

// StdY returns the current crosswind spread [m].
func (p *DynamicPuff) StdY() float64 { return p.stdY }

// StdZ returns the current vertical spread [m].
func (p *DynamicPuff) StdZ() float64 { return p.stdZ }

// VirtualHorizontalOffset returns the downwind distance [m] that would
// produce the crosswind spread the puff had before its last step.
func (p *DynamicPuff) VirtualHorizontalOffset() float64 { return p.virtHoriz }

// VirtualVerticalOffset returns the downwind distance [m] that would
// produce the vertical spread the puff had before its last step.
func (p *DynamicPuff) VirtualVerticalOffset() float64 { return p.virtVert }

// Step advances the puff by dt seconds using the current wind.
func (p *DynamicPuff) Step(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return fmt.Errorf("%w: %g", ErrInvalidStep, dt)
	}
	grade := p.Atmosphere().Grade()
	yc := StdYCoefficients(grade, p.traveled)
	zc := StdZCoefficients(grade, p.traveled)

	// Distances that would have produced the current spread.
	p.virtHoriz = yc.Distance(p.stdY)
	p.virtVert = zc.Distance(p.stdZ)

	move := p.Atmosphere().Wind().Scale(dt)
	d := move.Length()

	p.stdY = yc.Sigma(p.virtHoriz + d)
	p.stdZ = zc.Sigma(p.virtVert + d)

	p.time += dt
	p.center = p.center.Add(move)
	p.path = append(p.path, p.center)
	p.traveled += d
	return nil
}

// Concentration returns the current concentration [g/m³] at (x, y, z)
// [m]. The coordinates are measured from the source location, not
// from the current puff center; callers wanting concentrations
// relative to the center must translate them first. Before the first
// step the concentration is zero.
func (p *DynamicPuff) Concentration(x, y, z float64) float64 {
	if p.time == 0 {
		return 0
	}
	return puffConcentration(p.Mass(), p.stdY, p.stdZ,
		p.EffectiveSourceHeight(), x, y, z)
}

// GroundConcentration returns the current concentration at ground level.
func (p *DynamicPuff) GroundConcentration(x, y float64) float64 {
	return p.Concentration(x, y, 0)
}

// DynamicDecayPuff is a DynamicPuff of radioactive material.
//
// A DynamicDecayPuff is not safe for concurrent use.
type DynamicDecayPuff struct {
	*DynamicPuff
	Decay
}

// NewDynamicDecayPuff creates a dynamic puff of mass [g] of material
// with the given half-life [s].
func NewDynamicDecayPuff(atm *Atmosphere, src *Source, mass, halfLife float64,
	opts ...DynamicPuffOption) *DynamicDecayPuff {
	return &DynamicDecayPuff{
		DynamicPuff: NewDynamicPuff(atm, src, mass, opts...),
		Decay:       NewDecay(halfLife),
	}
}

func (p *DynamicDecayPuff) String() string {
	return fmt.Sprintf("%s with %s", p.DynamicPuff, p.Decay)
}

// Concentration returns the current concentration [g/m³] reduced by
// decay over the travel time to x at ground-level wind speed.
// Coordinates are measured from the source location.
func (p *DynamicDecayPuff) Concentration(x, y, z float64) float64 {
	c := p.DynamicPuff.Concentration(x, y, z)
	if c == 0 {
		return 0
	}
	return c * p.Term(x, p.Atmosphere().WindSpeed())
}

// GroundConcentration returns the current decayed concentration at
// ground level.
func (p *DynamicDecayPuff) GroundConcentration(x, y float64) float64 {
	return p.Concentration(x, y, 0)
}
