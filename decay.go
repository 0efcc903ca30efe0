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

// Decay is first-order radioactive decay during transport.
type Decay struct {
	coeff float64 // [1/s]
}

// NewDecay returns the decay for a material with the given half-life
// [s]. An infinite half-life means no decay.
func NewDecay(halfLife float64) Decay {
	if math.IsInf(halfLife, 1) {
		return Decay{}
	}
	return Decay{coeff: math.Ln2 / halfLife}
}

// Coefficient returns the decay coefficient ln(2)/halfLife [1/s].
func (d Decay) Coefficient() float64 { return d.coeff }

// HalfLife returns the half-life [s]. It is +Inf when there is
// no decay.
func (d Decay) HalfLife() float64 {
	if d.coeff == 0 {
		return math.Inf(1)
	}
	return math.Ln2 / d.coeff
}

// Term returns the fraction of material remaining after traveling
// downwind distance x [m] at wind speed u [m/s].
func (d Decay) Term(x, u float64) float64 {
	if d.coeff == 0 || x == 0 {
		return 1
	}
	return math.Exp(-d.coeff * x / u)
}

func (d Decay) String() string {
	return fmt.Sprintf("decay with half-life %g s", d.HalfLife())
}

// DecayPlume is a Plume of radioactive material.
type DecayPlume struct {
	*Plume
	Decay
}

// NewDecayPlume creates a plume of material with the given
// half-life [s].
func NewDecayPlume(atm *Atmosphere, src *Source, halfLife float64) *DecayPlume {
	return &DecayPlume{Plume: NewPlume(atm, src), Decay: NewDecay(halfLife)}
}

func (p *DecayPlume) String() string {
	return fmt.Sprintf("%s with %s", p.Plume, p.Decay)
}

// Concentration returns the plume concentration [g/m³] at (x, y, z)
// reduced by decay over the travel time at ground-level wind speed.
func (p *DecayPlume) Concentration(x, y, z float64) float64 {
	c := p.Plume.Concentration(x, y, z)
	if c == 0 {
		return 0
	}
	return c * p.Term(x, p.Atmosphere.WindSpeed())
}

// GroundConcentration returns the decayed concentration at ground level.
func (p *DecayPlume) GroundConcentration(x, y float64) float64 {
	return p.Concentration(x, y, 0)
}

// WithDecay wraps c so that its concentrations are reduced by decay of
// material with the given half-life [s], using the ground-level wind
// speed of atm to convert downwind distance to travel time.
func WithDecay(c Concentrator, atm *Atmosphere, halfLife float64) Concentrator {
	return decayed{c: c, atm: atm, Decay: NewDecay(halfLife)}
}

type decayed struct {
	c   Concentrator
	atm *Atmosphere
	Decay
}

func (d decayed) Concentration(x, y, z float64) float64 {
	c := d.c.Concentration(x, y, z)
	if c == 0 {
		return 0
	}
	return c * d.Term(x, d.atm.WindSpeed())
}
