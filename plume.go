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

// Package dispersion calculates pollutant concentrations downwind of
// a point release using Gaussian plume and puff models.
package dispersion

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Version gives the version number.
const Version = "1.0.0"

// ErrUnsupported is returned when a model does not support the
// requested operation.
var ErrUnsupported = errors.New("dispersion: operation not supported by this model")

// Concentrator is implemented by models that can calculate a
// concentration [g/m³] at a point (x, y, z) [m], where x is the
// downwind distance, y is the crosswind distance, and z is the height
// above the ground.
type Concentrator interface {
	Concentration(x, y, z float64) float64
}

// Plume is a steady-state Gaussian plume from a continuous source.
//
// Atmosphere and Source are referenced, not copied. The effective
// source height is calculated the first time it is needed and then
// kept; call InvalidateEffectiveSourceHeight after changing the
// Atmosphere or Source to have it recalculated.
type Plume struct {
	Atmosphere *Atmosphere
	Source     *Source

	mu           sync.Mutex
	effHeight    float64
	effHeightSet bool
}

// NewPlume creates a new plume for the given surroundings and source.
func NewPlume(atm *Atmosphere, src *Source) *Plume {
	return &Plume{Atmosphere: atm, Source: src}
}

func (p *Plume) String() string {
	return fmt.Sprintf("%s in %s", p.Source, p.Atmosphere)
}

// StdYCoeffs returns the σy coefficients at downwind distance x [m].
func (p *Plume) StdYCoeffs(x float64) StdYCoeffs {
	return StdYCoefficients(p.Atmosphere.Grade(), x)
}

// StdZCoeffs returns the σz coefficients at downwind distance x [m].
func (p *Plume) StdZCoeffs(x float64) StdZCoeffs {
	return StdZCoefficients(p.Atmosphere.Grade(), x)
}

// StdY returns the crosswind standard deviation of the plume [m] at
// downwind distance x [m].
func (p *Plume) StdY(x float64) float64 {
	return p.StdYCoeffs(x).Sigma(x)
}

// StdZ returns the vertical standard deviation of the plume [m] at
// downwind distance x [m].
func (p *Plume) StdZ(x float64) float64 {
	return p.StdZCoeffs(x).Sigma(x)
}

// EffectiveSourceHeight returns the stack height plus plume rise [m].
func (p *Plume) EffectiveSourceHeight() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.effHeightSet {
		p.effHeight = p.Source.Height + p.MaxRise(0)
		p.effHeightSet = true
	}
	return p.effHeight
}

// SetEffectiveSourceHeight overrides the calculated effective source
// height [m].
func (p *Plume) SetEffectiveSourceHeight(h float64) *Plume {
	p.mu.Lock()
	p.effHeight = h
	p.effHeightSet = true
	p.mu.Unlock()
	return p
}

// InvalidateEffectiveSourceHeight discards the stored effective source
// height, whether calculated or set manually, so that it will be
// recalculated the next time it is needed.
func (p *Plume) InvalidateEffectiveSourceHeight() *Plume {
	p.mu.Lock()
	p.effHeightSet = false
	p.mu.Unlock()
	return p
}

// WindSpeedAtSourceHeight returns the wind speed [m/s] at the
// effective source height.
func (p *Plume) WindSpeedAtSourceHeight() float64 {
	return p.Atmosphere.WindSpeedAt(p.EffectiveSourceHeight())
}

// Concentration returns the steady-state concentration [g/m³] at
// (x, y, z) [m], including reflection from the ground. Points at or
// upwind of the source (x <= 0) and calm conditions have zero
// concentration.
func (p *Plume) Concentration(x, y, z float64) float64 {
	if x <= 0 || !(p.Atmosphere.WindSpeed() > 0) {
		return 0
	}
	U := p.WindSpeedAtSourceHeight()
	if !(U > 0) {
		return 0
	}
	stdY := p.StdY(x)
	stdZ := p.StdZ(x)
	H := p.EffectiveSourceHeight()

	a := p.Source.EmissionRate / (2 * math.Pi * stdY * stdZ * U)
	b := math.Exp(-y * y / (2 * stdY * stdY))
	c := math.Exp(-(z - H) * (z - H) / (2 * stdZ * stdZ))
	d := math.Exp(-(z + H) * (z + H) / (2 * stdZ * stdZ))
	return a * b * (c + d)
}

// GroundConcentration returns the concentration at ground level.
func (p *Plume) GroundConcentration(x, y float64) float64 {
	return p.Concentration(x, y, 0)
}

// MaxConcentrationX returns the downwind distance [m] of the maximum
// ground-level concentration, using the spread coefficients at 5 km.
func (p *Plume) MaxConcentrationX() (float64, error) {
	const refX = 5000.
	yc := p.StdYCoeffs(refX)
	zc := p.StdZCoeffs(refX)
	H := p.EffectiveSourceHeight()
	pt1 := zc.B * H * H / (zc.A * zc.A * (yc.D + zc.B))
	return math.Pow(pt1, 1/(2*zc.B)), nil
}

// MaxConcentration returns the maximum ground-level concentration
// [g/m³] along the plume centerline.
func (p *Plume) MaxConcentration() (float64, error) {
	if !(p.Atmosphere.WindSpeed() > 0) {
		return 0, nil
	}
	x, err := p.MaxConcentrationX()
	if err != nil {
		return math.NaN(), err
	}
	U := p.WindSpeedAtSourceHeight()
	if !(x > 0) || !(U > 0) {
		return 0, nil
	}
	stdY := p.StdY(x)
	stdZ := p.StdZ(x)
	H := p.EffectiveSourceHeight()
	a := p.Source.EmissionRate / (math.Pi * stdY * stdZ * U)
	b := math.Exp(-0.5 * (H / stdZ) * (H / stdZ))
	return a * b, nil
}

// Stat holds the plume spread and concentration at a location.
type Stat struct {
	X, Y, Z       float64 // [m]
	StdY, StdZ    float64 // [m]
	Concentration float64 // [g/m³]
}

// StatsForXs returns ground-level centerline statistics at each of
// the given downwind distances [m].
func (p *Plume) StatsForXs(xs []float64) []Stat {
	stats := make([]Stat, len(xs))
	for i, x := range xs {
		stats[i] = Stat{
			X:             x,
			StdY:          p.StdY(x),
			StdZ:          p.StdZ(x),
			Concentration: p.Concentration(x, 0, 0),
		}
	}
	return stats
}

// StatsForCoords returns statistics at each of the given points [m].
func (p *Plume) StatsForCoords(coords []Vector) []Stat {
	stats := make([]Stat, len(coords))
	for i, c := range coords {
		stats[i] = Stat{
			X:             c.X,
			Y:             c.Y,
			Z:             c.Z,
			StdY:          p.StdY(c.X),
			StdZ:          p.StdZ(c.X),
			Concentration: p.Concentration(c.X, c.Y, c.Z),
		}
	}
	return stats
}
