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

// Package fallout estimates the cloud created by an explosion and
// the dispersion of the material it lofts.
package fallout

import (
	"fmt"
	"math"

	"github.com/ctessum/unit"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/dispersion"
)

// QTNT is the specific energy of TNT [MJ/kg].
const QTNT = 4.184

// MaxYield is the largest weapon yield [kt] the cloud scaling laws
// are intended for.
const MaxYield = 1000.

// Log receives warnings about bombs outside the range of the
// scaling laws.
var Log logrus.FieldLogger = logrus.StandardLogger()

// StandardAtmosphere returns a new calm, clear atmosphere at 288.2 K
// with the sun 65° above the horizon.
func StandardAtmosphere() *dispersion.Atmosphere {
	return dispersion.NewAtmosphere(dispersion.Vector{}, 0, 65, 288.2)
}

// TNTEquivalentFactor returns the ratio of the specific energy qExp
// [MJ/kg] of an explosive to that of TNT.
func TNTEquivalentFactor(qExp float64) float64 {
	return qExp / QTNT
}

// TNTEquivalent returns the TNT-equivalent mass of mass of an
// explosive with specific energy qExp [MJ/kg].
func TNTEquivalent(qExp, mass float64) float64 {
	return TNTEquivalentFactor(qExp) * mass
}

// Bomb is an explosion of a TNT-equivalent mass [kg] and the cloud
// it creates. The cloud is represented as a point source at the
// cloud height and dispersed as a puff.
type Bomb struct {
	mass   float64 // [kg TNT]
	atm    *dispersion.Atmosphere
	source *dispersion.Source
	puff   *dispersion.Puff
}

// NewBomb creates a bomb of TNT-equivalent mass [kg] exploding in
// atm. If atm is nil, StandardAtmosphere is used.
func NewBomb(tntMass float64, atm *dispersion.Atmosphere) (*Bomb, error) {
	if !(tntMass > 0) || math.IsInf(tntMass, 1) {
		return nil, fmt.Errorf("fallout: invalid TNT-equivalent mass %g; it must be positive", tntMass)
	}
	if atm == nil {
		atm = StandardAtmosphere()
	}
	b := &Bomb{mass: tntMass, atm: atm}
	h := b.CloudHeight()
	b.source = &dispersion.Source{
		Type:         dispersion.Point,
		EmissionRate: math.Inf(1),
		Height:       h,
		Radius:       b.CloudRadius(),
		Temperature:  b.GasTemperature(h),
		ExitVelocity: b.GasVelocity(h),
	}
	// The stabilized cloud does not rise further.
	b.puff = dispersion.NewPuff(atm, b.source, tntMass).SetEffectiveSourceHeight(h)
	if y := b.Yield(); y > MaxYield {
		Log.WithFields(logrus.Fields{
			"yield": y,
			"max":   MaxYield,
		}).Warn("fallout: bomb cloud scaling laws are meant for yields under 1000 kt")
	}
	return b, nil
}

func (b *Bomb) String() string {
	return fmt.Sprintf("%g kt bomb", b.Yield())
}

// Mass returns the TNT-equivalent mass [kg].
func (b *Bomb) Mass() float64 { return b.mass }

// Energy returns the energy released by the explosion.
func (b *Bomb) Energy() *unit.Unit {
	return unit.New(b.mass*QTNT*1.e6, unit.Joule)
}

// Yield returns the weapon yield [kt].
func (b *Bomb) Yield() float64 { return b.mass / 1.e6 }

// Atmosphere returns the surroundings of the explosion.
func (b *Bomb) Atmosphere() *dispersion.Atmosphere { return b.atm }

// Source returns the cloud as a point source.
func (b *Bomb) Source() *dispersion.Source { return b.source }

// Puff returns the dispersion of the cloud.
func (b *Bomb) Puff() *dispersion.Puff { return b.puff }

// BlastRadius returns the radius [m] of the fireball.
func (b *Bomb) BlastRadius() float64 {
	return 30 * math.Cbrt(b.Yield())
}

// CloudHeight returns the height [m] of the stabilized cloud.
func (b *Bomb) CloudHeight() float64 {
	y := b.Yield()
	switch {
	case y < 2:
		return 1740 * math.Pow(y, 0.229)
	case y < 20:
		return 1720 * math.Pow(y, 0.261)
	default:
		return 2040 * math.Pow(y, 0.204)
	}
}

func (b *Bomb) mainCloudRadius() float64 {
	return 872 * math.Pow(b.Yield(), 0.427)
}

// CloudRadius returns the radius [m] of the stabilized cloud.
func (b *Bomb) CloudRadius() float64 {
	y := b.Yield()
	r := b.mainCloudRadius()
	switch {
	case y < 20:
		return 0.5 * r
	case y <= MaxYield:
		return 0.5*r - 0.3*r*(y-20)/980
	default:
		return 0.2*r - 0.1*r*(y-MaxYield)/9000
	}
}

// Overpressure returns the peak overpressure at distance r [m] from
// the explosion, as a fraction of ambient pressure.
func (b *Bomb) Overpressure(r float64) float64 {
	m := b.mass
	return 0.84/r*math.Cbrt(m) +
		2.7/(r*r)*math.Pow(m, 2./3.) +
		7/(r*r*r)*m
}

// OverpressurePressure returns the peak overpressure at distance
// r [m] as a pressure, given the ambient pressure of the atmosphere.
func (b *Bomb) OverpressurePressure(r float64) *unit.Unit {
	const pascalsPerAtm = 101325.
	return unit.New(b.Overpressure(r)*b.atm.Pressure()*pascalsPerAtm, unit.Pascal)
}

// GasVelocity returns the velocity [m/s] of the gas behind the shock
// front at distance r [m].
func (b *Bomb) GasVelocity(r float64) float64 {
	p := b.Overpressure(r)
	return 243 * p / math.Sqrt(1+0.86*p)
}

// GasTemperature returns the temperature [K] of the gas behind the
// shock front at distance r [m].
func (b *Bomb) GasTemperature(r float64) float64 {
	p := b.Overpressure(r)
	return b.atm.Temperature() * (1 + p) * (7 + p) / (7 + 6*p)
}

// PositiveShockPhaseDuration returns the duration [s] of the positive
// pressure phase at distance r [m].
func (b *Bomb) PositiveShockPhaseDuration(r float64) float64 {
	return 1.3 * math.Pow(b.mass, 1./6.) * math.Sqrt(r) * 0.001
}
