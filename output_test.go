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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

func testGrid() *GridConfig {
	return &GridConfig{Xo: 100, Yo: -200, Dx: 100, Dy: 100, Nx: 8, Ny: 4, Heights: []float64{0, 20}}
}

func TestGeoreference(t *testing.T) {
	ref := &Georeference{X: 1000, Y: 2000, Wind: Vector{X: 0, Y: 3}}
	trans, err := ref.Transformer()
	if err != nil {
		t.Fatal(err)
	}
	// Wind from the south carries the plume north.
	x, y, err := trans(100, 0)
	if err != nil {
		t.Fatal(err)
	}
	if absDifferent(x, 1000, 1.e-9) || absDifferent(y, 2100, 1.e-9) {
		t.Errorf("downwind point at (%g, %g)", x, y)
	}
	x, y, _ = trans(0, 10)
	if absDifferent(x, 990, 1.e-9) || absDifferent(y, 2000, 1.e-9) {
		t.Errorf("crosswind point at (%g, %g)", x, y)
	}

	ref.Wind = Vector{X: 2, Y: -1}
	trans, err = ref.Transformer()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []geom.Point{{X: 0, Y: 0}, {X: 500, Y: -30}, {X: 12, Y: 700}} {
		x, y, _ := trans(p.X, p.Y)
		lx, ly := ref.Local(x, y)
		if absDifferent(lx, p.X, 1.e-9) || absDifferent(ly, p.Y, 1.e-9) {
			t.Errorf("%v: round trip gives (%g, %g)", p, lx, ly)
		}
	}
}

func TestWriteShapefile(t *testing.T) {
	dir, err := ioutil.TempDir("", "dispersion")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	g := testGrid()
	data, err := g.Evaluate(testPlume())
	if err != nil {
		t.Fatal(err)
	}
	ref := &Georeference{X: 10, Y: 20, Proj: "+proj=longlat"}
	fileName := filepath.Join(dir, "conc.shp")
	if err = WriteShapefile(fileName, g, data, ref); err != nil {
		t.Fatal(err)
	}
	if _, err = os.Stat(filepath.Join(dir, "conc.prj")); err != nil {
		t.Error(err)
	}

	d, err := shp.NewDecoder(fileName)
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	type rec struct {
		geom.Geom
		C0, C1 float64
	}
	var n int
	for {
		var r rec
		if !d.DecodeRow(&r) {
			break
		}
		i, j := n%g.Nx, n/g.Nx
		for k, v := range []float64{r.C0, r.C1} {
			if want := data.Get(k, j, i) * 1.e6; absDifferent(v, want, 1.e-12) {
				t.Errorf("row %d layer %d: %g μg/m³ != %g", n, k, v, want)
			}
		}
		x, y := g.Center(i, j)
		b := r.Bounds()
		if x+ref.X < b.Min.X || x+ref.X > b.Max.X || y+ref.Y < b.Min.Y || y+ref.Y > b.Max.Y {
			t.Errorf("row %d: cell %+v does not contain (%g, %g)", n, b, x+ref.X, y+ref.Y)
		}
		n++
	}
	if err = d.Error(); err != nil {
		t.Fatal(err)
	}
	if n != g.Nx*g.Ny {
		t.Errorf("read %d cells, want %d", n, g.Nx*g.Ny)
	}
}

func TestWriteShapefileShape(t *testing.T) {
	g := testGrid()
	other := &GridConfig{Dx: 1, Dy: 1, Nx: 2, Ny: 2}
	data, err := other.Evaluate(testPlume())
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteShapefile("unused.shp", g, data, nil); err == nil {
		t.Error("expected an error for mismatched data")
	}
}

func TestNetCDF(t *testing.T) {
	f, err := ioutil.TempFile("", "dispersion")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(f.Name())
	defer f.Close()

	g := testGrid()
	data, err := g.Evaluate(testPlume())
	if err != nil {
		t.Fatal(err)
	}
	if err = WriteNetCDF(f, g, data); err != nil {
		t.Fatal(err)
	}

	g2, data2, err := ReadNetCDF(f)
	if err != nil {
		t.Fatal(err)
	}
	if g2.Xo != g.Xo || g2.Yo != g.Yo || g2.Dx != g.Dx || g2.Dy != g.Dy ||
		g2.Nx != g.Nx || g2.Ny != g.Ny || len(g2.Heights) != 2 || g2.Heights[1] != 20 {
		t.Errorf("grid = %+v", g2)
	}
	if len(data2.Elements) != len(data.Elements) {
		t.Fatalf("read %d values, want %d", len(data2.Elements), len(data.Elements))
	}
	for i, v := range data.Elements {
		if want := float64(float32(v)); data2.Elements[i] != want {
			t.Errorf("value %d: %g != %g", i, data2.Elements[i], want)
		}
	}
}

func TestReadNetCDFForeign(t *testing.T) {
	write := func(t *testing.T, attrs map[string]interface{}) *os.File {
		f, err := ioutil.TempFile("", "dispersion")
		if err != nil {
			t.Fatal(err)
		}
		h := cdf.NewHeader([]string{"x", "y", "z"}, []int{2, 2, 1})
		for k, v := range attrs {
			h.AddAttribute("", k, v)
		}
		h.AddVariable("Concentration", []string{"z", "y", "x"}, []float32{0})
		h.Define()
		cf, err := cdf.Create(f, h)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = cf.Writer("Concentration", []int{0, 0, 0}, []int{1, 2, 2}).Write(make([]float32, 4)); err != nil {
			t.Fatal(err)
		}
		return f
	}
	complete := func() map[string]interface{} {
		return map[string]interface{}{
			"x0": []float64{0}, "y0": []float64{0}, "dx": []float64{1}, "dy": []float64{1},
			"nx": []int32{2}, "ny": []int32{2}, "heights": []float64{0},
		}
	}

	t.Run("no attributes", func(t *testing.T) {
		f := write(t, nil)
		defer os.Remove(f.Name())
		defer f.Close()
		if _, _, err := ReadNetCDF(f); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("wrong type", func(t *testing.T) {
		attrs := complete()
		attrs["dx"] = []int32{1}
		f := write(t, attrs)
		defer os.Remove(f.Name())
		defer f.Close()
		if _, _, err := ReadNetCDF(f); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("shape mismatch", func(t *testing.T) {
		attrs := complete()
		attrs["nx"] = []int32{3}
		f := write(t, attrs)
		defer os.Remove(f.Name())
		defer f.Close()
		if _, _, err := ReadNetCDF(f); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("complete", func(t *testing.T) {
		f := write(t, complete())
		defer os.Remove(f.Name())
		defer f.Close()
		g, data, err := ReadNetCDF(f)
		if err != nil {
			t.Fatal(err)
		}
		if g.Nx != 2 || g.Ny != 2 || len(data.Elements) != 4 {
			t.Errorf("grid %+v, %d values", g, len(data.Elements))
		}
	})
}
