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
	"bytes"
	"testing"

	"github.com/kr/pretty"
)

func testSavedPuff() (*Atmosphere, *Source, *DynamicPuff) {
	atm := NewAtmosphere(Vector{X: 3, Y: 1}, 0.5, 40, 290)
	src := &Source{Type: Point, Height: 20, Radius: 1, Temperature: 290, ExitVelocity: 1}
	return atm, src, NewDynamicPuff(atm, src, 1000)
}

func TestSaveLoad(t *testing.T) {
	atm, src, p := testSavedPuff()
	for i := 0; i < 5; i++ {
		if err := p.Step(30); err != nil {
			t.Fatal(err)
		}
	}
	atm.SetWind(Vector{Y: -2})
	if err := p.Step(30); err != nil {
		t.Fatal(err)
	}

	buf := new(bytes.Buffer)
	s := &Simulation{InitFuncs: []PuffManipulator{UsePuff(p), Save(buf)}}
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	s2 := &Simulation{InitFuncs: []PuffManipulator{Load(buf, atm, src)}}
	if err := s2.Init(); err != nil {
		t.Fatal(err)
	}
	p2 := s2.Puff

	if diff := pretty.Diff(p.Path(), p2.Path()); len(diff) != 0 {
		t.Errorf("path: %v", diff)
	}
	type summary struct {
		Time, Mass, Height, Traveled, StdY, StdZ, VirtH, VirtV float64
		Center, Start                                          Vector
	}
	sum := func(p *DynamicPuff) summary {
		return summary{
			Time: p.Time(), Mass: p.Mass(), Height: p.EffectiveSourceHeight(),
			Traveled: p.DistanceTraveled(), StdY: p.StdY(), StdZ: p.StdZ(),
			VirtH: p.VirtualHorizontalOffset(), VirtV: p.VirtualVerticalOffset(),
			Center: p.Center(), Start: p.Start(),
		}
	}
	if diff := pretty.Diff(sum(p), sum(p2)); len(diff) != 0 {
		t.Errorf("state: %v", diff)
	}

	// The loaded puff continues where the saved one left off.
	if err := p.Step(30); err != nil {
		t.Fatal(err)
	}
	if err := p2.Step(30); err != nil {
		t.Fatal(err)
	}
	if diff := pretty.Diff(sum(p), sum(p2)); len(diff) != 0 {
		t.Errorf("after step: %v", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	atm, src, _ := testSavedPuff()
	if _, err := LoadDynamicPuff(bytes.NewBufferString("not a puff"), atm, src); err == nil {
		t.Error("expected an error")
	}
}
