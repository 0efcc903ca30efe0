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
	"image/color"
	"io"
	"sort"

	"github.com/ctessum/geom/carto"
	"github.com/ctessum/plotextra"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Map image dimensions.
const (
	MapWidth     = 6 * vg.Inch
	legendHeight = 0.6 * vg.Inch
)

// percentile returns percentile p (range [0,1]) of the given data.
func percentile(data []float64, p float64) float64 {
	tmp := make([]float64, len(data))
	copy(tmp, data)
	sort.Float64s(tmp)
	i := int(p * float64(len(tmp)-1))
	return tmp[i]
}

// colorMap returns a color map for vals where the highest 0.1% of
// values are shown in a separate color scale, along with the value
// where the scales change.
func colorMap(vals []float64) (*plotextra.BrokenColorMap, float64, error) {
	lum, err := moreland.NewLuminance([]color.Color{
		color.NRGBA{G: 176, A: 255},
		color.NRGBA{G: 255, A: 255},
	})
	if err != nil {
		return nil, 0, err
	}
	cm := &plotextra.BrokenColorMap{
		Base:     moreland.ExtendedBlackBody(),
		OverFlow: palette.Reverse(lum),
	}
	min, max := floats.Min(vals), floats.Max(vals)
	if !(max > min) {
		max = min + 1
	}
	cm.SetMin(min)
	cm.SetMax(max)
	cut := percentile(vals, 0.999)
	if !(cut > min) {
		cut = max
	}
	cm.SetHighCut(cut)
	return cm, cut, nil
}

// WriteMap draws layer k of the gridded concentrations in data, as
// created by g.Evaluate, as a PNG image with a legend labeled label.
func WriteMap(w io.Writer, g *GridConfig, data *sparse.DenseArray, k int, label string) error {
	if err := g.check(); err != nil {
		return err
	}
	if len(data.Shape) != 3 || data.Shape[1] != g.Ny || data.Shape[2] != g.Nx {
		return fmt.Errorf("dispersion: data shape %v does not match %dx%d grid", data.Shape, g.Ny, g.Nx)
	}
	if k < 0 || k >= data.Shape[0] {
		return fmt.Errorf("dispersion: layer %d out of range [0, %d)", k, data.Shape[0])
	}
	n := g.Nx * g.Ny
	vals := data.Elements[k*n : (k+1)*n]

	cm, cut, err := colorMap(vals)
	if err != nil {
		return fmt.Errorf("dispersion: creating color map: %v", err)
	}

	b := g.Bounds()
	height := MapWidth*vg.Length((b.Max.Y-b.Min.Y)/(b.Max.X-b.Min.X)) + legendHeight
	c := vgimg.New(MapWidth, height)
	dc := draw.New(c)
	mainc := draw.Crop(dc, 0, 0, legendHeight, 0)
	legendc := draw.Crop(dc, 0, 0, 0, legendHeight-height)

	m := carto.NewCanvas(b.Max.Y, b.Min.Y, b.Max.X, b.Min.X, mainc)
	for j := 0; j < g.Ny; j++ {
		for i := 0; i < g.Nx; i++ {
			v, err := cm.At(vals[j*g.Nx+i])
			if err != nil {
				return fmt.Errorf("dispersion: coloring cell (%d, %d): %v", i, j, err)
			}
			col := color.NRGBAModel.Convert(v).(color.NRGBA)
			ls := draw.LineStyle{Color: col, Width: 0.1}
			if err := m.DrawVector(g.Cell(i, j), col, ls, draw.GlyphStyle{}); err != nil {
				return fmt.Errorf("dispersion: drawing cell (%d, %d): %v", i, j, err)
			}
		}
	}

	p, err := plot.New()
	if err != nil {
		return err
	}
	p.Add(&plotter.ColorBar{ColorMap: cm})
	p.HideY()
	p.X.Padding = 0
	p.X.Label.Text = label
	p.X.Scale = plotextra.BrokenScale{
		HighCut:         cut,
		HighCutFraction: 0.9,
	}
	p.X.Tick.Marker = plotextra.BrokenTicks{
		HighCut: cut,
	}
	p.Draw(legendc)

	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
