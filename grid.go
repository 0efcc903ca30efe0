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
	"runtime"
	"sync"

	"github.com/ctessum/geom"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// GridConfig specifies a regular grid of receptors in the downwind
// frame of a source, where x is the downwind distance and y is the
// crosswind distance from the source [m].
type GridConfig struct {
	Xo, Yo float64 // lower-left corner of the grid [m]
	Dx, Dy float64 // grid cell edge lengths [m]
	Nx, Ny int     // number of cells in each direction

	// Heights are the receptor heights [m], one per grid layer.
	// If empty, only ground level is calculated.
	Heights []float64
}

func (g *GridConfig) check() error {
	if !(g.Dx > 0) || !(g.Dy > 0) {
		return fmt.Errorf("dispersion: grid cell size must be >0; Dx=%g, Dy=%g", g.Dx, g.Dy)
	}
	if g.Nx <= 0 || g.Ny <= 0 {
		return fmt.Errorf("dispersion: grid must have at least one cell; Nx=%d, Ny=%d", g.Nx, g.Ny)
	}
	return nil
}

// Layers returns the receptor height of each grid layer [m].
func (g *GridConfig) Layers() []float64 {
	if len(g.Heights) == 0 {
		return []float64{0}
	}
	return g.Heights
}

// Center returns the location of the center of cell (i, j), where
// i is the column and j is the row.
func (g *GridConfig) Center(i, j int) (x, y float64) {
	return g.Xo + (float64(i)+0.5)*g.Dx, g.Yo + (float64(j)+0.5)*g.Dy
}

// Cell returns the boundary of cell (i, j).
func (g *GridConfig) Cell(i, j int) geom.Polygon {
	x := g.Xo + float64(i)*g.Dx
	y := g.Yo + float64(j)*g.Dy
	return geom.Polygon{{
		geom.Point{X: x, Y: y},
		geom.Point{X: x + g.Dx, Y: y},
		geom.Point{X: x + g.Dx, Y: y + g.Dy},
		geom.Point{X: x, Y: y + g.Dy},
		geom.Point{X: x, Y: y},
	}}
}

// Bounds returns the extent of the grid.
func (g *GridConfig) Bounds() *geom.Bounds {
	return &geom.Bounds{
		Min: geom.Point{X: g.Xo, Y: g.Yo},
		Max: geom.Point{X: g.Xo + float64(g.Nx)*g.Dx, Y: g.Yo + float64(g.Ny)*g.Dy},
	}
}

// Evaluate calculates the concentration from c at the center of every
// grid cell. The result has shape (layers, Ny, Nx). Rows are
// calculated concurrently, so c must not be modified until Evaluate
// returns.
func (g *GridConfig) Evaluate(c Concentrator) (*sparse.DenseArray, error) {
	if err := g.check(); err != nil {
		return nil, err
	}
	heights := g.Layers()
	o := sparse.ZerosDense(len(heights), g.Ny, g.Nx)

	nprocs := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			for row := pp; row < len(heights)*g.Ny; row += nprocs {
				k, j := row/g.Ny, row%g.Ny
				for i := 0; i < g.Nx; i++ {
					x, y := g.Center(i, j)
					o.Set(c.Concentration(x, y, heights[k]), k, j, i)
				}
			}
			wg.Done()
		}(pp)
	}
	wg.Wait()
	return o, nil
}

// GridSummary holds summary statistics of one layer of gridded
// concentrations.
type GridSummary struct {
	Max  float64 // maximum concentration [g/m³]
	X, Y float64 // location of the maximum [m]
	Mean float64 // mean concentration [g/m³]

	// Burden is the sum of concentration times cell area [g/m].
	Burden float64
}

// Summarize returns summary statistics for layer k of data, which
// must have been created by g.Evaluate.
func (g *GridConfig) Summarize(data *sparse.DenseArray, k int) (*GridSummary, error) {
	if len(data.Shape) != 3 || data.Shape[1] != g.Ny || data.Shape[2] != g.Nx {
		return nil, fmt.Errorf("dispersion: data shape %v does not match %dx%d grid", data.Shape, g.Ny, g.Nx)
	}
	if k < 0 || k >= data.Shape[0] {
		return nil, fmt.Errorf("dispersion: layer %d out of range [0, %d)", k, data.Shape[0])
	}
	n := g.Nx * g.Ny
	layer := data.Elements[k*n : (k+1)*n]
	s := new(GridSummary)
	imax := floats.MaxIdx(layer)
	s.Max = layer[imax]
	s.X, s.Y = g.Center(imax%g.Nx, imax/g.Nx)
	sum := floats.Sum(layer)
	s.Mean = sum / float64(n)
	s.Burden = sum * g.Dx * g.Dy
	return s, nil
}
