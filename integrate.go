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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

// DefaultIntegrationStep is the sample spacing used by Integrate when
// step <= 0.
const DefaultIntegrationStep = 0.01

// Integrate returns the integral of f between start and end using
// the trapezoidal rule with samples no more than step apart.
func Integrate(start, end float64, f func(float64) float64, step float64) float64 {
	if start == end {
		return 0
	}
	if end < start {
		return -Integrate(end, start, f, step)
	}
	if step <= 0 {
		step = DefaultIntegrationStep
	}
	n := int(math.Ceil((end-start)/step)) + 1
	if n < 2 {
		n = 2
	}
	x := floats.Span(make([]float64, n), start, end)
	y := make([]float64, n)
	for i, xi := range x {
		y[i] = f(xi)
	}
	return integrate.Trapezoidal(x, y)
}
