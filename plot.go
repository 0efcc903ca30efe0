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
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// PlotCenterline draws the ground-level centerline concentration
// (top panel) and the plume spread (bottom panel) at each of the
// downwind distances xs [m], writing the figure to w as a PNG image.
func PlotCenterline(w io.Writer, p *Plume, xs []float64) error {
	if len(xs) == 0 {
		return fmt.Errorf("dispersion: no distances to plot")
	}
	stats := p.StatsForXs(xs)
	conc := make(plotter.XYs, len(stats))
	stdY := make(plotter.XYs, len(stats))
	stdZ := make(plotter.XYs, len(stats))
	for i, s := range stats {
		conc[i].X, conc[i].Y = s.X, s.Concentration
		stdY[i].X, stdY[i].Y = s.X, s.StdY
		stdZ[i].X, stdZ[i].Y = s.X, s.StdZ
	}

	pc, err := plot.New()
	if err != nil {
		return err
	}
	pc.Title.Text = p.String()
	pc.X.Label.Text = "Downwind distance (m)"
	pc.Y.Label.Text = "Concentration (g/m³)"
	if err = plotutil.AddLinePoints(pc, conc); err != nil {
		return err
	}
	pc.Y.Min = 0

	ps, err := plot.New()
	if err != nil {
		return err
	}
	ps.X.Label.Text = "Downwind distance (m)"
	ps.Y.Label.Text = "Spread (m)"
	if err = plotutil.AddLines(ps, "σy", stdY, "σz", stdZ); err != nil {
		return err
	}
	ps.Legend.Top = true
	ps.Legend.Left = true

	const (
		width  = 5 * vg.Inch
		height = 6 * vg.Inch
	)
	c := vgimg.New(width, height)
	dc := draw.New(c)
	pc.Draw(draw.Crop(dc, 0, 0, height/2, 0))
	ps.Draw(draw.Crop(dc, 0, 0, 0, -height/2))
	_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(w)
	return err
}
