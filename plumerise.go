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

	"github.com/ctessum/atmos/plumerise"
)

// G is the acceleration of gravity [m/s²].
const G = 9.8

// Stability parameters used for plume rise under stable conditions.
const (
	stabilityParamE = 0.018
	stabilityParamF = 0.025
)

// buoyancyFlux returns the buoyancy flux of the source [m⁴/s³].
func (p *Plume) buoyancyFlux() float64 {
	s := p.Source
	return G * s.ExitVelocity * s.Radius * s.Radius *
		(s.Temperature - p.Atmosphere.Temperature()) / s.Temperature
}

// stabilityParam returns the stability parameter for stable grades.
func stabilityParam(g StabilityGrade) float64 {
	if g == GradeE {
		return stabilityParamE
	}
	return stabilityParamF
}

// MaxRise calculates the plume rise [m] at downwind distance x [m]
// using the Briggs buoyancy- and momentum-dominated formulas, returning
// whichever is larger. Under unstable and neutral conditions, x == 0
// or x beyond 3.5 times the distance to final rise is replaced by the
// distance to final rise. In calm air the rise is zero.
func (p *Plume) MaxRise(x float64) float64 {
	var bDeltaH, mDeltaH float64 // buoyancy and momentum dominated rise
	s := p.Source
	F := p.buoyancyFlux()
	U := p.Atmosphere.WindSpeedAt(s.Height)
	if !(U > 0) || math.IsInf(U, 1) {
		return 0
	}
	grade := p.Atmosphere.Grade()

	if grade <= GradeE {
		// unstable or neutral
		var xStar float64 // distance to final rise
		if F < 55 {
			xStar = 14 * math.Pow(F, 0.625)
		} else {
			xStar = 34 * math.Pow(F, 0.4)
		}
		if x == 0 || x > 3.5*xStar {
			x = xStar
		}
		bDeltaH = 1.6 * math.Cbrt(F) * math.Pow(3.5*x, 2./3.) / U
		mDeltaH = 3 * s.ExitVelocity * (2 * s.Radius) / U
	} else {
		// stable
		sp := stabilityParam(grade)
		bDeltaH = 2.6 * math.Cbrt(F/(U*sp))
		mDeltaH = 1.5 * math.Pow(s.ExitVelocity*s.Radius, 2./3.) /
			math.Cbrt(U) * math.Pow(sp, -1./6.)
	}
	// A NaN buoyancy term (negative flux) falls through to momentum.
	if bDeltaH > mDeltaH {
		return bDeltaH
	}
	return mDeltaH
}

// MeanHeight returns the mean rise [m] of the plume between the
// ground and the maximum rise at downwind distance x.
func (p *Plume) MeanHeight(x float64) float64 {
	return p.MaxRise(x) / 2
}

// ASMEHeight calculates the plume height using the ASME (1973) plume
// rise method for a model with the given staggered layer heights [m],
// and returns the index of the layer the plume ends up in. Plumes that
// rise above the top layer are placed in the top layer.
func (p *Plume) ASMEHeight(layerHeights []float64) (layer int, height float64, err error) {
	if len(layerHeights) < 2 {
		return 0, math.NaN(), fmt.Errorf("dispersion: ASME plume rise needs at least 2 layer heights, got %d", len(layerHeights))
	}
	n := len(layerHeights) - 1
	temperature := make([]float64, n)
	windSpeed := make([]float64, n)
	sClass := make([]float64, n)
	s1 := make([]float64, n)

	grade := p.Atmosphere.Grade()
	for i := 0; i < n; i++ {
		temperature[i] = p.Atmosphere.Temperature()
		windSpeed[i] = p.Atmosphere.WindSpeedAt((layerHeights[i] + layerHeights[i+1]) / 2)
		if grade > GradeDN {
			sClass[i] = 1
			s1[i] = stabilityParam(grade)
		}
	}
	s := p.Source
	layer, height, err = plumerise.ASME(s.Height, 2*s.Radius, s.Temperature,
		s.ExitVelocity, layerHeights, temperature, windSpeed, sClass, s1)
	if err != nil {
		if err == plumerise.ErrAboveModelTop {
			return n - 1, height, nil
		}
		return 0, height, fmt.Errorf("dispersion: calculating ASME plume rise: %v", err)
	}
	return layer, height, nil
}
