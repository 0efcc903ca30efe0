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

package dispersionutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/spatialmodel/dispersion"
)

// tempDir creates a temporary directory and returns it along with a
// function that removes it.
func tempDir(t *testing.T) (string, func()) {
	dir, err := ioutil.TempDir("", "dispersionutil")
	if err != nil {
		t.Fatal(err)
	}
	return dir, func() { os.RemoveAll(dir) }
}

// execute runs the root command with the given arguments and returns
// its output.
func execute(t *testing.T, args ...string) string {
	buf := new(bytes.Buffer)
	Root.SetOutput(buf)
	defer Root.SetOutput(nil)
	Root.SetArgs(args)
	if err := Root.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestVersion(t *testing.T) {
	out := execute(t, "version")
	if out != "Dispersion v"+dispersion.Version+"\n" {
		t.Errorf("version output %q", out)
	}
}

func TestPlumeNetCDF(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	outputFile := filepath.Join(dir, "plume.nc")

	out := execute(t, "plume", "--OutputFile="+outputFile, "--Grid.Nx=20", "--Grid.Ny=10",
		"--Grid.Dy=500", "--Grid.Heights=[0, 10]", "--Source.Height=50")
	if !strings.Contains(out, "Effective source height") || !strings.Contains(out, "Burden") {
		t.Errorf("output:\n%s", out)
	}

	f, err := os.Open(outputFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	g, data, err := dispersion.ReadNetCDF(f)
	if err != nil {
		t.Fatal(err)
	}
	if g.Nx != 20 || g.Ny != 10 || g.Dy != 500 || len(g.Heights) != 2 {
		t.Errorf("grid = %+v", g)
	}
	if len(data.Shape) != 3 || data.Shape[0] != 2 || data.Shape[1] != 10 || data.Shape[2] != 20 {
		t.Errorf("shape = %v", data.Shape)
	}
	var max float64
	for _, v := range data.Elements {
		if v > max {
			max = v
		}
	}
	if !(max > 0) {
		t.Error("all concentrations are zero")
	}
}

func TestPuffShapefile(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	outputFile := filepath.Join(dir, "puff.shp")

	out := execute(t, "puff", "--OutputFile="+outputFile, "--Grid.Nx=40", "--Grid.Ny=10",
		"--Grid.Yo=-500", "--Puff.Time=300", "--Source.HalfLife=3600")
	if !strings.Contains(out, "puff center is") {
		t.Errorf("output:\n%s", out)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf"} {
		if _, err := os.Stat(filepath.Join(dir, "puff"+ext)); err != nil {
			t.Error(err)
		}
	}
}

func TestPlot(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	outputFile := filepath.Join(dir, "plot.png")
	execute(t, "plot", "--OutputFile="+outputFile, "--Plot.Distances=[5000, 50]")
	if fi, err := os.Stat(outputFile); err != nil || fi.Size() == 0 {
		t.Errorf("plot file: %v", err)
	}
}

func TestDynamic(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()

	schedule := filepath.Join(dir, "wind.toml")
	if err := ioutil.WriteFile(schedule, []byte(`
[[wind]]
time = 0.0
wind = [4.0, 0.0]

[[wind]]
time = 600.0
wind = [0.0, 4.0]
`), 0644); err != nil {
		t.Fatal(err)
	}
	receptors := filepath.Join(dir, "receptors.geojson")
	if err := ioutil.WriteFile(receptors,
		[]byte(`{"type":"LineString","coordinates":[[100,0],[200,0],[5000,5000]]}`), 0644); err != nil {
		t.Fatal(err)
	}
	pathFile := filepath.Join(dir, "path.geojson")
	checkpoint := filepath.Join(dir, "puff.gob")

	out := execute(t, "dynamic", "--Dynamic.WindSchedule="+schedule, "--Dynamic.Receptors="+receptors,
		"--Dynamic.PathFile="+pathFile, "--Dynamic.Checkpoint="+checkpoint,
		"--Dynamic.Timestep=60", "--Dynamic.Duration=1200", "--Source.X=100", "--Source.Y=0")
	if !strings.Contains(out, "Dose") || !strings.Contains(out, "Traveled") {
		t.Errorf("output:\n%s", out)
	}

	b, err := ioutil.ReadFile(pathFile)
	if err != nil {
		t.Fatal(err)
	}
	g, err := geojson.Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	path := g.(geom.LineString)
	if len(path) != 21 {
		t.Fatalf("path has %d points", len(path))
	}
	// Ten steps east, then ten north, starting at the source.
	last := path[len(path)-1]
	if path[0].X != 100 || last.X < 2499 || last.X > 2501 || last.Y < 2399 || last.Y > 2401 {
		t.Errorf("path = %v", path)
	}

	f, err := os.Open(checkpoint)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	atm := dispersion.NewAtmosphere(dispersion.Vector{}, 0, 0, 293)
	p, err := dispersion.LoadDynamicPuff(f, atm, &dispersion.Source{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Time() != 1200 {
		t.Errorf("checkpoint time = %g", p.Time())
	}
}

func TestBomb(t *testing.T) {
	dir, cleanup := tempDir(t)
	defer cleanup()
	outputFile := filepath.Join(dir, "bomb.png")
	out := execute(t, "bomb", "--OutputFile="+outputFile, "--Bomb.Material=cesium-137",
		"--Grid.Nx=30", "--Grid.Ny=30", "--Grid.Yo=-1500")
	if !strings.Contains(out, "Cloud height") || !strings.Contains(out, "beta,gamma") {
		t.Errorf("output:\n%s", out)
	}
	if fi, err := os.Stat(outputFile); err != nil || fi.Size() == 0 {
		t.Errorf("map file: %v", err)
	}
}

func TestPresets(t *testing.T) {
	out := execute(t, "bomb", "presets")
	if !strings.Contains(out, "cobalt-60") {
		t.Errorf("output:\n%s", out)
	}
}
