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
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/dispersion"
	"github.com/spatialmodel/dispersion/fallout"
	"gonum.org/v1/gonum/floats"
)

// writeGrid writes gridded concentrations to outputFile, choosing the
// format by file extension.
func writeGrid(outputFile string, g *dispersion.GridConfig, data *sparse.DenseArray, ref *dispersion.Georeference) error {
	switch strings.ToLower(filepath.Ext(outputFile)) {
	case ".shp":
		return dispersion.WriteShapefile(outputFile, g, data, ref)
	case ".nc":
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("dispersion: creating output file: %v", err)
		}
		if err = dispersion.WriteNetCDF(f, g, data); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	case ".png":
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("dispersion: creating output file: %v", err)
		}
		if err = dispersion.WriteMap(f, g, data, 0, "Ground-level concentration (g/m³)"); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("dispersion: unsupported output file type '%s'", outputFile)
	}
}

// evaluate calculates c on grid g, prints a summary of each layer to w,
// and writes the result to outputFile.
func evaluate(w io.Writer, c dispersion.Concentrator, g *dispersion.GridConfig, ref *dispersion.Georeference, outputFile string) error {
	data, err := g.Evaluate(c)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "Height (m)\tMax (g/m³)\tMax x (m)\tMax y (m)\tMean (g/m³)\tBurden (g/m)\t")
	for k, h := range g.Layers() {
		s, err := g.Summarize(data, k)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%g\t%.4g\t%g\t%g\t%.4g\t%.4g\t\n", h, s.Max, s.X, s.Y, s.Mean, s.Burden)
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	logrus.WithField("file", outputFile).Info("dispersion: writing output")
	return writeGrid(outputFile, g, data, ref)
}

// Plume calculates steady-state concentrations from a continuous source
// on grid g, prints a summary to w, and writes them to outputFile.
func Plume(w io.Writer, m *Model, g *dispersion.GridConfig, ref *dispersion.Georeference, outputFile string) error {
	p := dispersion.NewPlume(m.Atmosphere, m.Source)
	var c dispersion.Concentrator = p
	if m.HalfLife > 0 {
		c = dispersion.WithDecay(p, m.Atmosphere, m.HalfLife)
	}

	fmt.Fprintln(w, p)
	fmt.Fprintf(w, "Effective source height: %g m\n", p.EffectiveSourceHeight())
	if x, err := p.MaxConcentrationX(); err == nil {
		max, _ := p.MaxConcentration()
		fmt.Fprintf(w, "Maximum ground-level concentration: %.4g g/m³ at %.4g m downwind\n", max, x)
	}
	return evaluate(w, c, g, ref, outputFile)
}

// Puff calculates concentrations t seconds after an instantaneous
// release of mass grams on grid g, prints a summary to w, and writes them
// to outputFile.
func Puff(w io.Writer, m *Model, mass, t float64, g *dispersion.GridConfig, ref *dispersion.Georeference, outputFile string) error {
	if !(mass > 0) {
		return fmt.Errorf("dispersion: Puff.Mass=%g but should be >0", mass)
	}
	if !(t > 0) {
		return fmt.Errorf("dispersion: Puff.Time=%g but should be >0", t)
	}
	var (
		p *dispersion.Puff
		c dispersion.Concentrator
	)
	if m.HalfLife > 0 {
		dp := dispersion.NewDecayPuff(m.Atmosphere, m.Source, mass, m.HalfLife)
		p, c = dp.Puff, dp.At(t)
	} else {
		p = dispersion.NewPuff(m.Atmosphere, m.Source, mass)
		c = p.At(t)
	}
	x := p.CenterX(t)
	fmt.Fprintln(w, p)
	fmt.Fprintf(w, "After %g s the puff center is %.4g m downwind with σy=%.4g m and σz=%.4g m\n",
		t, x, p.StdY(x), p.StdZ(x))
	return evaluate(w, dispersion.Shift(c, x), g, ref, outputFile)
}

// Dynamic follows a puff of mass grams released as described by m
// through the simulation described by d and prints the results to w.
func Dynamic(w io.Writer, m *Model, mass float64, d *DynamicConfig) error {
	if !(mass > 0) {
		return fmt.Errorf("dispersion: Puff.Mass=%g but should be >0", mass)
	}
	if m.HalfLife > 0 {
		p := dispersion.NewDynamicDecayPuff(m.Atmosphere, m.Source, mass, m.HalfLife)
		return runDynamic(w, p.DynamicPuff, p, d)
	}
	p := dispersion.NewDynamicPuff(m.Atmosphere, m.Source, mass)
	return runDynamic(w, p, p, d)
}

// runDynamic follows puff p as described by d, using model to calculate
// receptor concentrations, and prints the results to w.
func runDynamic(w io.Writer, p *dispersion.DynamicPuff, model dispersion.Concentrator, d *DynamicConfig) error {
	s := &dispersion.Simulation{
		InitFuncs: []dispersion.PuffManipulator{
			dispersion.UsePuff(p),
			dispersion.SetTimestep(d.Timestep),
		},
		Log: logrus.StandardLogger(),
	}
	if d.Schedule != nil {
		s.RunFuncs = append(s.RunFuncs, d.Schedule.Apply())
	}
	s.RunFuncs = append(s.RunFuncs,
		dispersion.StepPuff(),
		dispersion.RunPeriodically(d.Duration/10, dispersion.LogStatus()),
	)
	var recLog *dispersion.ReceptorLog
	if d.Receptors != nil {
		recLog = dispersion.NewReceptorLog(d.Receptors, d.Ref)
		recLog.Model = model
		s.RunFuncs = append(s.RunFuncs, recLog.Record())
	}
	s.RunFuncs = append(s.RunFuncs, dispersion.StopAfter(d.Duration))
	if d.SaveFile != "" {
		s.CleanupFuncs = append(s.CleanupFuncs, func(s *dispersion.Simulation) error {
			f, err := os.Create(d.SaveFile)
			if err != nil {
				return fmt.Errorf("dispersion: creating checkpoint file: %v", err)
			}
			if err = dispersion.Save(f)(s); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		})
	}

	if err := s.Init(); err != nil {
		return err
	}
	if err := s.Run(); err != nil {
		return err
	}
	if err := s.Cleanup(); err != nil {
		return err
	}

	c := p.Center()
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "Time (s)\tX (m)\tY (m)\tZ (m)\tTraveled (m)\tσy (m)\tσz (m)\t")
	fmt.Fprintf(tw, "%g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t\n",
		p.Time(), c.X+d.Ref.X, c.Y+d.Ref.Y, c.Z, p.DistanceTraveled(), p.StdY(), p.StdZ())
	if err := tw.Flush(); err != nil {
		return err
	}
	if recLog != nil {
		fmt.Fprintln(w)
		if err := recLog.Write(w); err != nil {
			return err
		}
	}
	if d.PathFile != "" {
		b, err := p.PathGeoJSON(d.Ref)
		if err != nil {
			return err
		}
		if err = ioutil.WriteFile(d.PathFile, b, 0644); err != nil {
			return fmt.Errorf("dispersion: writing path file: %v", err)
		}
	}
	return nil
}

// printBomb prints the properties of b to w.
func printBomb(w io.Writer, b *fallout.DirtyBomb) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "Bomb\t%v\t\n", b)
	fmt.Fprintf(tw, "Yield\t%.4g kt\t\n", b.Yield())
	fmt.Fprintf(tw, "Energy\t%v\t\n", b.Energy())
	fmt.Fprintf(tw, "Blast radius\t%.4g m\t\n", b.BlastRadius())
	fmt.Fprintf(tw, "Cloud height\t%.4g m\t\n", b.CloudHeight())
	fmt.Fprintf(tw, "Cloud radius\t%.4g m\t\n", b.CloudRadius())
	fmt.Fprintf(tw, "Half-life\t%v\t\n", b.Material.HalfLifeUnit())
	if m := b.Material.DecayMode(); m != "" {
		fmt.Fprintf(tw, "Decay mode\t%s\t\n", m)
	}
	return tw.Flush()
}

// Bomb calculates the concentrations of material dispersed by b t seconds
// after the explosion on grid g, prints a summary to w, and writes them
// to outputFile.
func Bomb(w io.Writer, b *fallout.DirtyBomb, t float64, g *dispersion.GridConfig, ref *dispersion.Georeference, outputFile string) error {
	if !(t > 0) {
		return fmt.Errorf("dispersion: Puff.Time=%g but should be >0", t)
	}
	if err := printBomb(w, b); err != nil {
		return err
	}
	p := b.Puff()
	return evaluate(w, dispersion.Shift(p.At(t), p.CenterX(t)), g, ref, outputFile)
}

// DynamicBomb follows the cloud from b as described by d and prints the
// results to w.
func DynamicBomb(w io.Writer, b *fallout.DirtyBomb, d *DynamicConfig) error {
	if err := printBomb(w, b); err != nil {
		return err
	}
	p := b.DynamicPuff()
	return runDynamic(w, p.DynamicPuff, p, d)
}

// Plot writes a plot of the centerline concentration and spread of the
// plume described by m at n distances up to maxX [m] to outputFile.
func Plot(outputFile string, m *Model, maxX float64, n int) error {
	if !(maxX > 0) || n < 2 {
		return fmt.Errorf("dispersion: plot needs a positive distance and at least 2 points; got %g and %d", maxX, n)
	}
	xs := floats.Span(make([]float64, n), maxX/float64(n), maxX)
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("dispersion: creating plot file: %v", err)
	}
	if err = dispersion.PlotCenterline(f, dispersion.NewPlume(m.Atmosphere, m.Source), xs); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Presets prints the available radioactive materials to w.
func Presets(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "Material\tHalf-life\tDecay mode\t")
	for _, name := range fallout.Presets() {
		m, err := fallout.ParsePreset(name, 1)
		if err != nil {
			panic(err) // The list of presets should always be valid.
		}
		fmt.Fprintf(tw, "%s\t%v\t%s\t\n", name, m.HalfLifeUnit(), m.DecayMode())
	}
	tw.Flush()
}
