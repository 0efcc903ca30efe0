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

func different(a, b, tolerance float64) bool {
	if a == b {
		return false
	}
	if 2*math.Abs(a-b)/math.Abs(a+b) > tolerance || math.IsNaN(a) || math.IsNaN(b) {
		return true
	}
	return false
}

func absDifferent(a, b, tolerance float64) bool {
	if math.Abs(a-b) > tolerance {
		return true
	}
	return false
}

// testPlume returns the plume used in the end-to-end scenario.
func testPlume() *Plume {
	atm := NewAtmosphere(Vector{X: 10}, 1, 65, 300)
	src := &Source{
		Type:         Point,
		EmissionRate: 2,
		Height:       150,
		Radius:       5,
		Temperature:  400,
		ExitVelocity: 4,
	}
	return NewPlume(atm, src)
}

func TestSpreadAtSource(t *testing.T) {
	for g := GradeA; g <= GradeF; g++ {
		t.Run(g.String(), func(t *testing.T) {
			if s := StdYCoefficients(g, 0).Sigma(0); s != 0 {
				t.Errorf("σy(0) = %g", s)
			}
			if s := StdZCoefficients(g, 0).Sigma(0); s != 0 {
				t.Errorf("σz(0) = %g", s)
			}
			for _, x := range []float64{1, 499, 500, 4999, 5000, 9999, 10000, 1e5} {
				if s := StdYCoefficients(g, x).Sigma(x); !(s > 0) {
					t.Errorf("σy(%g) = %g", x, s)
				}
				if s := StdZCoefficients(g, x).Sigma(x); !(s > 0) {
					t.Errorf("σz(%g) = %g", x, s)
				}
			}
		})
	}
}

func TestCoefficientInverse(t *testing.T) {
	const tolerance = 1.e-10
	yc := StdYCoefficients(GradeC, 1000)
	zc := StdZCoefficients(GradeC, 1000)
	if x := yc.Distance(yc.Sigma(1234)); different(x, 1234, tolerance) {
		t.Errorf("σy inverse: %g != 1234", x)
	}
	if x := zc.Distance(zc.Sigma(1234)); different(x, 1234, tolerance) {
		t.Errorf("σz inverse: %g != 1234", x)
	}
}

func TestPlume(t *testing.T) {
	p := testPlume()

	t.Run("grade", func(t *testing.T) {
		if g := p.Atmosphere.LetterGrade(); g != "DD" {
			t.Errorf("grade = %s, want DD", g)
		}
	})

	t.Run("spread at source", func(t *testing.T) {
		if s := p.StdY(0); absDifferent(s, 0, 0.1) {
			t.Errorf("StdY(0) = %g", s)
		}
		if s := p.StdZ(0); absDifferent(s, 0, 0.1) {
			t.Errorf("StdZ(0) = %g", s)
		}
	})

	t.Run("ground level", func(t *testing.T) {
		if c1, c2 := p.GroundConcentration(100, 100), p.Concentration(100, 100, 0); c1 != c2 {
			t.Errorf("%g != %g", c1, c2)
		}
		if c1, c2 := p.GroundConcentration(100, 100), p.Concentration(100, 100, 100); c1 == c2 {
			t.Errorf("concentration should vary with height: %g == %g", c1, c2)
		}
	})

	t.Run("source", func(t *testing.T) {
		for _, y := range []float64{-100, 0, 1, 100} {
			for _, z := range []float64{0, 150, 500} {
				if c := p.Concentration(0, y, z); c != 0 {
					t.Errorf("Concentration(0, %g, %g) = %g", y, z, c)
				}
			}
		}
		if c := p.Concentration(-10, 0, 0); c != 0 {
			t.Errorf("upwind concentration = %g", c)
		}
	})

	t.Run("downwind", func(t *testing.T) {
		for _, x := range []float64{10, 1000, 20000} {
			c := p.Concentration(x, 0, p.EffectiveSourceHeight())
			if !(c > 0) || math.IsInf(c, 0) {
				t.Errorf("Concentration(%g, 0, H) = %g", x, c)
			}
		}
		if p.Concentration(1000, 0, 0) <= p.Concentration(1000, 500, 0) {
			t.Error("concentration should decrease away from the centerline")
		}
	})

	t.Run("max", func(t *testing.T) {
		x, err := p.MaxConcentrationX()
		if err != nil {
			t.Fatal(err)
		}
		if !(x > 0) {
			t.Fatalf("MaxConcentrationX = %g", x)
		}
		m, err := p.MaxConcentration()
		if err != nil {
			t.Fatal(err)
		}
		if want := p.Concentration(x, 0, 0); different(m, want, 1.e-10) {
			t.Errorf("MaxConcentration = %g, want %g", m, want)
		}
	})

	t.Run("calm", func(t *testing.T) {
		atm := NewAtmosphere(Vector{}, 1, 65, 300)
		calm := NewPlume(atm, p.Source).SetEffectiveSourceHeight(150)
		if c := calm.Concentration(100, 0, 0); c != 0 {
			t.Errorf("calm concentration = %g", c)
		}
	})
}

func TestCalm(t *testing.T) {
	atm := NewAtmosphere(Vector{}, 1, 65, 300)
	src := testPlume().Source

	p := NewPlume(atm, src)
	if h := p.EffectiveSourceHeight(); h != src.Height {
		t.Errorf("calm effective height = %g, want %g", h, src.Height)
	}
	if r := p.MaxRise(100); r != 0 {
		t.Errorf("calm rise = %g", r)
	}
	if c := p.Concentration(100, 0, 0); c != 0 {
		t.Errorf("plume concentration = %g", c)
	}
	if m, err := p.MaxConcentration(); err != nil || m != 0 {
		t.Errorf("plume max concentration = %g, %v", m, err)
	}
	if c := NewDecayPlume(atm, src, 60).Concentration(100, 0, 0); c != 0 {
		t.Errorf("decay plume concentration = %g", c)
	}

	puff := NewPuff(atm, src, 1000)
	if c := puff.ConcentrationAt(0, 0, 150, 10); c != 0 {
		t.Errorf("puff concentration = %g", c)
	}
	if x := puff.CenterX(10); x != 0 {
		t.Errorf("puff center = %g", x)
	}
	if c := NewDecayPuff(atm, src, 1000, 60).ConcentrationAt(0, 0, 150, 10); c != 0 {
		t.Errorf("decay puff concentration = %g", c)
	}

	dp := NewDynamicPuff(atm, src, 1000)
	if z := dp.Center().Z; z != src.Height {
		t.Errorf("dynamic puff height = %g, want %g", z, src.Height)
	}
	if err := dp.Step(60); err != nil {
		t.Fatal(err)
	}
	if d := dp.DistanceTraveled(); d != 0 {
		t.Errorf("calm puff traveled %g m", d)
	}
}

func TestEffectiveSourceHeight(t *testing.T) {
	p := testPlume()
	h := p.EffectiveSourceHeight()
	if want := p.Source.Height + p.MaxRise(0); h != want {
		t.Errorf("effective height %g != %g", h, want)
	}
	if h <= p.Source.Height {
		t.Errorf("buoyant plume should rise: %g", h)
	}

	p.Atmosphere.SetTemperature(350)
	if h2 := p.EffectiveSourceHeight(); h2 != h {
		t.Errorf("effective height should be kept until invalidated: %g != %g", h2, h)
	}
	p.InvalidateEffectiveSourceHeight()
	if h2 := p.EffectiveSourceHeight(); h2 >= h {
		t.Errorf("cooler source should rise less: %g >= %g", h2, h)
	}

	p.SetEffectiveSourceHeight(42)
	if h2 := p.EffectiveSourceHeight(); h2 != 42 {
		t.Errorf("manual height = %g", h2)
	}
}

func TestMaxRise(t *testing.T) {
	p := testPlume()
	t.Run("unstable", func(t *testing.T) {
		// F = 245, U = 10·15^0.3
		const F = 245.
		U := 10 * math.Pow(15, 0.3)
		xStar := 34 * math.Pow(F, 0.4)
		want := 1.6 * math.Cbrt(F) * math.Pow(3.5*xStar, 2./3.) / U
		if r := p.MaxRise(0); different(r, want, 1.e-10) {
			t.Errorf("MaxRise(0) = %g, want %g", r, want)
		}
		if r1, r2 := p.MaxRise(0), p.MaxRise(1e6); r1 != r2 {
			t.Errorf("rise beyond final rise distance: %g != %g", r2, r1)
		}
		if m := p.MeanHeight(100); m != p.MaxRise(100)/2 {
			t.Errorf("MeanHeight = %g", m)
		}
	})
	t.Run("stable", func(t *testing.T) {
		atm := NewAtmosphere(Vector{X: 2.5}, 0.2, -10, 300, Night(true))
		if g := atm.Grade(); g != GradeF {
			t.Fatalf("grade = %s", g)
		}
		sp := NewPlume(atm, p.Source)
		r := sp.MaxRise(0)
		if !(r > 0) || math.IsInf(r, 0) {
			t.Errorf("stable rise = %g", r)
		}
	})
	t.Run("negative buoyancy", func(t *testing.T) {
		src := *p.Source
		src.Temperature = 250
		cp := NewPlume(p.Atmosphere, &src)
		U := cp.Atmosphere.WindSpeedAt(src.Height)
		want := 3 * src.ExitVelocity * 2 * src.Radius / U
		if r := cp.MaxRise(0); different(r, want, 1.e-10) {
			t.Errorf("rise = %g, want momentum rise %g", r, want)
		}
	})
}

func TestASMEHeight(t *testing.T) {
	p := testPlume()
	layers := []float64{0, 50, 100, 200, 400, 800, 1600}
	layer, h, err := p.ASMEHeight(layers)
	if err != nil {
		t.Fatal(err)
	}
	if h <= p.Source.Height {
		t.Errorf("plume height %g should be above the stack", h)
	}
	if layers[layer] > h || layers[layer+1] < h {
		t.Errorf("height %g is not in layer %d", h, layer)
	}
	layer, _, err = p.ASMEHeight([]float64{0, 10, 20})
	if err != nil {
		t.Fatal(err)
	}
	if layer != 1 {
		t.Errorf("plume above model top should be in the top layer, got %d", layer)
	}
	if _, _, err := p.ASMEHeight([]float64{0}); err == nil {
		t.Error("expected an error for a single layer height")
	}
}

func TestStats(t *testing.T) {
	p := testPlume()
	xs := []float64{0, 100, 1000}
	stats := p.StatsForXs(xs)
	if len(stats) != len(xs) {
		t.Fatalf("len = %d", len(stats))
	}
	for i, s := range stats {
		want := Stat{
			X:             xs[i],
			StdY:          p.StdY(xs[i]),
			StdZ:          p.StdZ(xs[i]),
			Concentration: p.Concentration(xs[i], 0, 0),
		}
		if s != want {
			t.Errorf("%d: %+v != %+v", i, s, want)
		}
	}
	coords := []Vector{{X: 100, Y: 10, Z: 5}, {X: 2000, Y: -50, Z: 200}}
	for i, s := range p.StatsForCoords(coords) {
		c := coords[i]
		if s.X != c.X || s.Y != c.Y || s.Z != c.Z {
			t.Errorf("%d: location %+v", i, s)
		}
		if s.StdY != p.StdY(c.X) || s.Concentration != p.Concentration(c.X, c.Y, c.Z) {
			t.Errorf("%d: %+v", i, s)
		}
	}
}
