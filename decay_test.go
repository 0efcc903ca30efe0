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
	"testing"
)

func TestDecayTerm(t *testing.T) {
	none := NewDecay(math.Inf(1))
	if none.Coefficient() != 0 {
		t.Errorf("coefficient = %g", none.Coefficient())
	}
	if !math.IsInf(none.HalfLife(), 1) {
		t.Errorf("half-life = %g", none.HalfLife())
	}
	for _, x := range []float64{0, 1, 1e6} {
		if term := none.Term(x, 3); term != 1 {
			t.Errorf("Term(%g) = %g", x, term)
		}
	}

	const halfLife = 3600.
	d := NewDecay(halfLife)
	if different(d.HalfLife(), halfLife, 1.e-12) {
		t.Errorf("half-life = %g", d.HalfLife())
	}
	for _, x := range []float64{1, 100, 1e4, 1e6} {
		term := d.Term(x, 5)
		if !(term > 0 && term <= 1) {
			t.Errorf("Term(%g) = %g", x, term)
		}
	}
	// One half-life of travel halves the concentration.
	if term := d.Term(5*halfLife, 5); different(term, 0.5, 1.e-12) {
		t.Errorf("Term after one half-life = %g", term)
	}
}

func TestDecayPlume(t *testing.T) {
	p := testPlume()
	dp := NewDecayPlume(p.Atmosphere, p.Source, 600)
	wrapped := WithDecay(p, p.Atmosphere, 600)
	for _, x := range []float64{0, 100, 1000, 10000} {
		c := p.Concentration(x, 10, 0)
		dc := dp.Concentration(x, 10, 0)
		if dc > c {
			t.Errorf("x=%g: decayed %g > undecayed %g", x, dc, c)
		}
		if want := c * dp.Term(x, p.Atmosphere.WindSpeed()); different(dc, want, 1.e-12) {
			t.Errorf("x=%g: %g != %g", x, dc, want)
		}
		if wc := wrapped.Concentration(x, 10, 0); different(wc, dc, 1.e-12) {
			t.Errorf("x=%g: WithDecay %g != DecayPlume %g", x, wc, dc)
		}
		if gc := dp.GroundConcentration(x, 10); gc != dc {
			t.Errorf("x=%g: ground %g != %g", x, gc, dc)
		}
	}
	stable := NewDecayPlume(p.Atmosphere, p.Source, math.Inf(1))
	if c1, c2 := stable.Concentration(500, 0, 0), p.Concentration(500, 0, 0); c1 != c2 {
		t.Errorf("stable material: %g != %g", c1, c2)
	}
}
