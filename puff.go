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
	"fmt"
	"math"
)

// twoPiToOnePointFive is (2π)^1.5.
var twoPiToOnePointFive = math.Pow(2*math.Pi, 1.5)

// Puff is an instantaneous release of MassReleased grams that is
// carried downwind at the wind speed at the effective source height.
// It shares the spread and plume rise calculations of a Plume.
type Puff struct {
	plume        *Plume
	MassReleased float64 // [g]
}

// NewPuff creates a new puff of mass [g] released from src.
func NewPuff(atm *Atmosphere, src *Source, mass float64) *Puff {
	return &Puff{plume: NewPlume(atm, src), MassReleased: mass}
}

func (p *Puff) String() string {
	return fmt.Sprintf("Puff of %g g from %s", p.MassReleased, p.plume)
}

// Plume returns the plume the puff's spread is calculated from.
func (p *Puff) Plume() *Plume { return p.plume }

// Atmosphere returns the puff's surroundings.
func (p *Puff) Atmosphere() *Atmosphere { return p.plume.Atmosphere }

// Source returns the source of the puff.
func (p *Puff) Source() *Source { return p.plume.Source }

// StdY returns σy [m] at downwind distance x [m].
func (p *Puff) StdY(x float64) float64 { return p.plume.StdY(x) }

// StdZ returns σz [m] at downwind distance x [m].
func (p *Puff) StdZ(x float64) float64 { return p.plume.StdZ(x) }

// EffectiveSourceHeight returns the stack height plus plume rise [m].
func (p *Puff) EffectiveSourceHeight() float64 { return p.plume.EffectiveSourceHeight() }

// SetEffectiveSourceHeight overrides the calculated effective source
// height [m].
func (p *Puff) SetEffectiveSourceHeight(h float64) *Puff {
	p.plume.SetEffectiveSourceHeight(h)
	return p
}

// InvalidateEffectiveSourceHeight discards the stored effective
// source height.
func (p *Puff) InvalidateEffectiveSourceHeight() *Puff {
	p.plume.InvalidateEffectiveSourceHeight()
	return p
}

// WindSpeedAtSourceHeight returns the wind speed [m/s] at the
// effective source height.
func (p *Puff) WindSpeedAtSourceHeight() float64 { return p.plume.WindSpeedAtSourceHeight() }

// CenterX returns the downwind distance [m] the center of the puff
// has traveled t seconds after release.
func (p *Puff) CenterX(t float64) float64 {
	return p.WindSpeedAtSourceHeight() * t
}

// ConcentrationAt returns the concentration [g/m³] t seconds after
// release. The spread of the puff is that reached after traveling
// CenterX(t); x is the along-wind distance [m] from the puff center
// and y and z are the crosswind distance and height [m]. Before
// release (t <= 0), or if the puff has not moved, the concentration
// is zero.
func (p *Puff) ConcentrationAt(x, y, z, t float64) float64 {
	if t <= 0 || !(p.Atmosphere().WindSpeed() > 0) {
		return 0
	}
	d := p.CenterX(t)
	if !(d > 0) {
		return 0
	}
	return puffConcentration(p.MassReleased, p.StdY(d), p.StdZ(d),
		p.EffectiveSourceHeight(), x, y, z)
}

// GroundConcentrationAt returns the concentration at ground level
// t seconds after release.
func (p *Puff) GroundConcentrationAt(x, y, t float64) float64 {
	return p.ConcentrationAt(x, y, 0, t)
}

// At returns the puff frozen at t seconds after release.
func (p *Puff) At(t float64) Concentrator {
	return puffAt{p: p, t: t}
}

type puffAt struct {
	p *Puff
	t float64
}

func (pa puffAt) Concentration(x, y, z float64) float64 {
	return pa.p.ConcentrationAt(x, y, z, pa.t)
}

// Dose returns the time-integrated concentration [g·s/m³] at
// (x, y, z) between start and end [s], sampling every step seconds.
func (p *Puff) Dose(x, y, z, start, end, step float64) float64 {
	return Integrate(start, end, func(t float64) float64 {
		return p.ConcentrationAt(x, y, z, t)
	}, step)
}

// MaxConcentration is not defined for an instantaneous release and
// always returns ErrUnsupported.
func (p *Puff) MaxConcentration() (float64, error) {
	return math.NaN(), ErrUnsupported
}

// MaxConcentrationX is not defined for an instantaneous release and
// always returns ErrUnsupported.
func (p *Puff) MaxConcentrationX() (float64, error) {
	return math.NaN(), ErrUnsupported
}

// puffConcentration is the Gaussian puff formula for mass [g] with
// spreads stdY and stdZ [m] centered at height H [m].
func puffConcentration(mass, stdY, stdZ, H, x, y, z float64) float64 {
	if stdY == 0 || stdZ == 0 {
		return 0
	}
	a := mass / (twoPiToOnePointFive * stdY * stdY * stdZ)
	b := math.Exp(-0.5 * (x / stdY) * (x / stdY))
	c := math.Exp(-0.5 * (y / stdY) * (y / stdY))
	d := math.Exp(-0.5 * ((z - H) / stdZ) * ((z - H) / stdZ))
	return a * b * c * d
}

// DecayPuff is a Puff of radioactive material.
type DecayPuff struct {
	*Puff
	Decay
}

// NewDecayPuff creates a puff of mass [g] of material with the given
// half-life [s].
func NewDecayPuff(atm *Atmosphere, src *Source, mass, halfLife float64) *DecayPuff {
	return &DecayPuff{Puff: NewPuff(atm, src, mass), Decay: NewDecay(halfLife)}
}

func (p *DecayPuff) String() string {
	return fmt.Sprintf("%s with %s", p.Puff, p.Decay)
}

// ConcentrationAt returns the puff concentration [g/m³] reduced by
// decay over the travel time to x at ground-level wind speed.
func (p *DecayPuff) ConcentrationAt(x, y, z, t float64) float64 {
	c := p.Puff.ConcentrationAt(x, y, z, t)
	if c == 0 {
		return 0
	}
	return c * p.Term(x, p.Atmosphere().WindSpeed())
}

// GroundConcentrationAt returns the decayed concentration at ground
// level t seconds after release.
func (p *DecayPuff) GroundConcentrationAt(x, y, t float64) float64 {
	return p.ConcentrationAt(x, y, 0, t)
}

// At returns the decaying puff frozen at t seconds after release.
func (p *DecayPuff) At(t float64) Concentrator {
	return decayPuffAt{p: p, t: t}
}

type decayPuffAt struct {
	p *DecayPuff
	t float64
}

func (pa decayPuffAt) Concentration(x, y, z float64) float64 {
	return pa.p.ConcentrationAt(x, y, z, pa.t)
}

// Dose returns the time-integrated decayed concentration [g·s/m³].
func (p *DecayPuff) Dose(x, y, z, start, end, step float64) float64 {
	return Integrate(start, end, func(t float64) float64 {
		return p.ConcentrationAt(x, y, z, t)
	}, step)
}

// Shift returns c with its downwind axis moved by dx [m], so that
// the concentration at x is c's concentration at x-dx. Shifting a
// puff frozen at time t by its CenterX(t) measures x from the
// source instead of the puff center.
func Shift(c Concentrator, dx float64) Concentrator {
	return shifted{c: c, dx: dx}
}

type shifted struct {
	c  Concentrator
	dx float64
}

func (s shifted) Concentration(x, y, z float64) float64 {
	return s.c.Concentration(x-s.dx, y, z)
}
