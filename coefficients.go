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

import "math"

// StdYCoeffs are the coefficients of the crosswind spread power law
// σy = C·x^D.
type StdYCoeffs struct {
	C, D float64
}

// StdZCoeffs are the coefficients of the vertical spread power law
// σz = A·x^B.
type StdZCoeffs struct {
	A, B float64
}

// Sigma returns σy at downwind distance x [m].
func (c StdYCoeffs) Sigma(x float64) float64 { return c.C * math.Pow(x, c.D) }

// Distance inverts the power law, returning the downwind distance
// at which σy would equal sigma.
func (c StdYCoeffs) Distance(sigma float64) float64 {
	return math.Pow(sigma/c.C, 1/c.D)
}

// Sigma returns σz at downwind distance x [m].
func (c StdZCoeffs) Sigma(x float64) float64 { return c.A * math.Pow(x, c.B) }

// Distance inverts the power law, returning the downwind distance
// at which σz would equal sigma.
func (c StdZCoeffs) Distance(sigma float64) float64 {
	return math.Pow(sigma/c.A, 1/c.B)
}

// σy coefficients by grade, for x < 10 km and x >= 10 km.
var stdYCoeffs = [7][2]StdYCoeffs{
	{{C: .495, D: .873}, {C: .606, D: .851}},
	{{C: .310, D: .897}, {C: .523, D: .840}},
	{{C: .197, D: .908}, {C: .285, D: .867}},
	{{C: .122, D: .916}, {C: .193, D: .865}},
	{{C: .122, D: .916}, {C: .193, D: .865}},
	{{C: .0934, D: .912}, {C: .141, D: .868}},
	{{C: .0625, D: .911}, {C: .0800, D: .884}},
}

// σz coefficients by grade, for x < 500 m, 500 m <= x < 5 km,
// and x >= 5 km.
var stdZCoeffs = [7][3]StdZCoeffs{
	{{A: .0383, B: 1.281}, {A: .0002539, B: 2.089}, {A: .0002539, B: 2.089}},
	{{A: .1393, B: .9467}, {A: .04936, B: 1.114}, {A: .04936, B: 1.114}},
	{{A: .1120, B: .9100}, {A: .1014, B: .926}, {A: .1154, B: .9106}},
	{{A: .0856, B: .8650}, {A: .2591, B: .6869}, {A: .7368, B: .5642}},
	{{A: .0818, B: .8155}, {A: .2527, B: .6341}, {A: 1.297, B: .4421}},
	{{A: .1064, B: .7657}, {A: .2452, B: .6358}, {A: .9024, B: .4805}},
	{{A: .05645, B: .8050}, {A: .1930, B: .6072}, {A: 1.505, B: .3662}},
}

// StdYCoefficients returns the σy coefficients for grade g at
// downwind distance x [m].
func StdYCoefficients(g StabilityGrade, x float64) StdYCoeffs {
	if x < 10000 {
		return stdYCoeffs[g][0]
	}
	return stdYCoeffs[g][1]
}

// StdZCoefficients returns the σz coefficients for grade g at
// downwind distance x [m].
func StdZCoefficients(g StabilityGrade, x float64) StdZCoeffs {
	switch {
	case x < 500:
		return stdZCoeffs[g][0]
	case x < 5000:
		return stdZCoeffs[g][1]
	default:
		return stdZCoeffs[g][2]
	}
}
