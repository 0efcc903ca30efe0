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
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/proj"
	"github.com/ctessum/sparse"
	goshp "github.com/jonas-p/go-shp"
	"gonum.org/v1/gonum/mat"
)

// Georeference places the downwind frame of a source on a map.
type Georeference struct {
	// X and Y are the source location.
	X, Y float64

	// Wind gives the direction of the downwind axis, where X points
	// east and Y points north. Only the direction is used. If it
	// is zero, the downwind axis points east.
	Wind Vector

	// Proj is the spatial reference of X and Y in Proj4 or WKT format.
	Proj string

	// OutputProj is the spatial reference to convert output into.
	// If it or Proj is empty, output stays in the spatial reference
	// of X and Y.
	OutputProj string
}

// Transformer returns a function that converts downwind-frame
// coordinates into map coordinates.
func (g *Georeference) Transformer() (proj.Transformer, error) {
	u := Vector{X: g.Wind.X, Y: g.Wind.Y}
	if u.Length() == 0 {
		u = Vector{X: 1}
	} else {
		u = u.Unit()
	}
	rot := mat.NewDense(2, 2, []float64{
		u.X, -u.Y,
		u.Y, u.X,
	})
	place := func(x, y float64) (float64, float64, error) {
		var v mat.VecDense
		v.MulVec(rot, mat.NewVecDense(2, []float64{x, y}))
		return v.AtVec(0) + g.X, v.AtVec(1) + g.Y, nil
	}
	if g.Proj == "" || g.OutputProj == "" {
		return place, nil
	}
	src, err := proj.Parse(g.Proj)
	if err != nil {
		return nil, fmt.Errorf("dispersion: parsing source projection: %v", err)
	}
	dst, err := proj.Parse(g.OutputProj)
	if err != nil {
		return nil, fmt.Errorf("dispersion: parsing output projection: %v", err)
	}
	reproject, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("dispersion: creating reprojector: %v", err)
	}
	return func(x, y float64) (float64, float64, error) {
		x, y, err := place(x, y)
		if err != nil {
			return math.NaN(), math.NaN(), err
		}
		return reproject(x, y)
	}, nil
}

func (g *Georeference) outputProj() string {
	if g.OutputProj != "" && g.Proj != "" {
		return g.OutputProj
	}
	return g.Proj
}

const microgramsPerGram = 1.e6

// layerNames returns shapefile field names for each layer of data.
func layerNames(n int) []string {
	o := make([]string, n)
	for k := range o {
		o[k] = fmt.Sprintf("C%d", k)
	}
	return o
}

// WriteShapefile writes the gridded concentrations in data, as
// created by g.Evaluate, to a polygon shapefile with one field per
// layer named C0, C1, .... Values are written in μg/m³. If ref is not nil, the cells are placed on
// the map it describes and a .prj file is written when a projection
// is known.
func WriteShapefile(fileName string, g *GridConfig, data *sparse.DenseArray, ref *Georeference) error {
	if err := g.check(); err != nil {
		return err
	}
	nz := len(g.Layers())
	if len(data.Shape) != 3 || data.Shape[0] != nz || data.Shape[1] != g.Ny || data.Shape[2] != g.Nx {
		return fmt.Errorf("dispersion: data shape %v does not match %dx%dx%d grid", data.Shape, nz, g.Ny, g.Nx)
	}
	var trans proj.Transformer
	if ref != nil {
		var err error
		if trans, err = ref.Transformer(); err != nil {
			return err
		}
	}

	names := layerNames(nz)
	fields := make([]goshp.Field, nz)
	for k, n := range names {
		fields[k] = goshp.FloatField(n, 24, 15)
	}

	fileBase := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	e, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("dispersion: creating output shapefile: %v", err)
	}
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			var cell geom.Geom = g.Cell(i, j)
			if trans != nil {
				if cell, err = cell.Transform(trans); err != nil {
					e.Close()
					return fmt.Errorf("dispersion: georeferencing cell (%d, %d): %v", i, j, err)
				}
			}
			vals := make([]interface{}, nz)
			for k := range vals {
				vals[k] = data.Get(k, j, i) * microgramsPerGram
			}
			if err = e.EncodeFields(cell, vals...); err != nil {
				e.Close()
				return fmt.Errorf("dispersion: writing output shapefile: %v", err)
			}
		}
	}
	e.Close()

	if ref == nil || ref.outputProj() == "" {
		return nil
	}
	f, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("dispersion: creating output prj file: %v", err)
	}
	fmt.Fprint(f, ref.outputProj())
	return f.Close()
}

// WriteNetCDF writes the gridded concentrations in data, as created by
// g.Evaluate, to a NetCDF file.
func WriteNetCDF(w *os.File, g *GridConfig, data *sparse.DenseArray) error {
	if err := g.check(); err != nil {
		return err
	}
	heights := g.Layers()
	if len(data.Shape) != 3 || data.Shape[0] != len(heights) || data.Shape[1] != g.Ny || data.Shape[2] != g.Nx {
		return fmt.Errorf("dispersion: data shape %v does not match %dx%dx%d grid", data.Shape, len(heights), g.Ny, g.Nx)
	}
	h := cdf.NewHeader([]string{"x", "y", "z"}, []int{g.Nx, g.Ny, len(heights)})
	h.AddAttribute("", "comment", "Gaussian dispersion model concentrations")
	h.AddAttribute("", "version", Version)
	h.AddAttribute("", "x0", []float64{g.Xo})
	h.AddAttribute("", "y0", []float64{g.Yo})
	h.AddAttribute("", "dx", []float64{g.Dx})
	h.AddAttribute("", "dy", []float64{g.Dy})
	h.AddAttribute("", "nx", []int32{int32(g.Nx)})
	h.AddAttribute("", "ny", []int32{int32(g.Ny)})
	h.AddAttribute("", "heights", heights)

	const name = "Concentration"
	h.AddVariable(name, []string{"z", "y", "x"}, []float32{0})
	h.AddAttribute(name, "description", "Pollutant concentration")
	h.AddAttribute(name, "units", "g m-3")
	h.Define()

	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("dispersion: creating netcdf file: %v", err)
	}
	data32 := make([]float32, len(data.Elements))
	for i, e := range data.Elements {
		data32[i] = float32(e)
	}
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	if _, err = f.Writer(name, start, end).Write(data32); err != nil {
		return fmt.Errorf("dispersion: writing netcdf variable %s: %v", name, err)
	}
	return cdf.UpdateNumRecs(w)
}

// netCDFFloat returns the first value of the global float attribute a.
func netCDFFloat(h *cdf.Header, a string) (float64, error) {
	v, ok := h.GetAttribute("", a).([]float64)
	if !ok || len(v) == 0 {
		return math.NaN(), fmt.Errorf("dispersion: netcdf file is missing float attribute %s", a)
	}
	return v[0], nil
}

// netCDFInt returns the first value of the global integer attribute a.
func netCDFInt(h *cdf.Header, a string) (int, error) {
	v, ok := h.GetAttribute("", a).([]int32)
	if !ok || len(v) == 0 {
		return 0, fmt.Errorf("dispersion: netcdf file is missing integer attribute %s", a)
	}
	return int(v[0]), nil
}

// ReadNetCDF reads gridded concentrations written by WriteNetCDF.
func ReadNetCDF(rw cdf.ReaderWriterAt) (*GridConfig, *sparse.DenseArray, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, nil, fmt.Errorf("dispersion: opening netcdf file: %v", err)
	}
	h := f.Header
	g := new(GridConfig)
	for _, v := range []struct {
		name string
		dst  *float64
	}{{"x0", &g.Xo}, {"y0", &g.Yo}, {"dx", &g.Dx}, {"dy", &g.Dy}} {
		if *v.dst, err = netCDFFloat(h, v.name); err != nil {
			return nil, nil, err
		}
	}
	if g.Nx, err = netCDFInt(h, "nx"); err != nil {
		return nil, nil, err
	}
	if g.Ny, err = netCDFInt(h, "ny"); err != nil {
		return nil, nil, err
	}
	heights, ok := h.GetAttribute("", "heights").([]float64)
	if !ok {
		return nil, nil, fmt.Errorf("dispersion: netcdf file is missing float attribute heights")
	}
	g.Heights = append([]float64(nil), heights...)
	if err = g.check(); err != nil {
		return nil, nil, err
	}

	const name = "Concentration"
	if _, ok := h.ZeroValue(name, 0).([]float32); !ok {
		return nil, nil, fmt.Errorf("dispersion: netcdf file has no float variable %s", name)
	}
	dims := h.Lengths(name)
	if len(dims) != 3 || dims[0] != len(g.Layers()) || dims[1] != g.Ny || dims[2] != g.Nx {
		return nil, nil, fmt.Errorf("dispersion: netcdf variable %s has shape %v but the grid is %dx%dx%d",
			name, dims, len(g.Layers()), g.Ny, g.Nx)
	}
	data := sparse.ZerosDense(dims...)
	tmp := make([]float32, len(data.Elements))
	if _, err = f.Reader(name, nil, nil).Read(tmp); err != nil {
		return nil, nil, fmt.Errorf("dispersion: reading netcdf variable: %v", err)
	}
	for i, v := range tmp {
		data.Elements[i] = float64(v)
	}
	return g, data, nil
}
