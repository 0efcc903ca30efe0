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
	"math"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

// Simulation advances a dynamic puff through time.
//
// InitFuncs are run once by Init, RunFuncs are run in order
// repeatedly by Run until one of them sets Done, and CleanupFuncs are
// run once by Cleanup.
type Simulation struct {
	Puff *DynamicPuff

	InitFuncs    []PuffManipulator
	RunFuncs     []PuffManipulator
	CleanupFuncs []PuffManipulator

	// Dt is the time step [s].
	Dt float64

	// Done is set when the simulation should stop.
	Done bool

	// Log receives status messages. If nil, the logrus
	// standard logger is used.
	Log logrus.FieldLogger
}

// PuffManipulator is a function that operates on a simulation.
type PuffManipulator func(s *Simulation) error

func (s *Simulation) log() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}

func runAll(s *Simulation, funcs []PuffManipulator) error {
	for _, f := range funcs {
		if err := f(s); err != nil {
			return err
		}
	}
	return nil
}

// Init initializes the simulation by running s.InitFuncs.
func (s *Simulation) Init() error {
	if err := runAll(s, s.InitFuncs); err != nil {
		return fmt.Errorf("dispersion: initializing simulation: %w", err)
	}
	if s.Puff == nil {
		return fmt.Errorf("dispersion: simulation has no puff")
	}
	return nil
}

// Run carries out the simulation by running s.RunFuncs until s.Done
// is true.
func (s *Simulation) Run() error {
	for !s.Done {
		if err := runAll(s, s.RunFuncs); err != nil {
			return err
		}
	}
	return nil
}

// Cleanup finishes the simulation by running s.CleanupFuncs.
func (s *Simulation) Cleanup() error {
	return runAll(s, s.CleanupFuncs)
}

// UsePuff sets the puff to be simulated.
func UsePuff(p *DynamicPuff) PuffManipulator {
	return func(s *Simulation) error {
		s.Puff = p
		return nil
	}
}

// SetTimestep sets the simulation time step to dt seconds.
func SetTimestep(dt float64) PuffManipulator {
	return func(s *Simulation) error {
		if !(dt > 0) || math.IsInf(dt, 1) {
			return fmt.Errorf("%w: %g", ErrInvalidStep, dt)
		}
		s.Dt = dt
		return nil
	}
}

// StepPuff advances the puff by one time step.
func StepPuff() PuffManipulator {
	return func(s *Simulation) error {
		return s.Puff.Step(s.Dt)
	}
}

// StopAfter ends the simulation once the puff has been
// traveling for at least duration seconds.
func StopAfter(duration float64) PuffManipulator {
	return func(s *Simulation) error {
		if s.Puff.Time() >= duration {
			s.Done = true
		}
		return nil
	}
}

// StopBeyond ends the simulation once the puff center is more than
// distance meters from where it was released.
func StopBeyond(distance float64) PuffManipulator {
	return func(s *Simulation) error {
		if s.Puff.DistanceFromStart() > distance {
			s.Done = true
		}
		return nil
	}
}

// RunPeriodically runs f when at least period seconds of simulation
// time have passed since it was last run.
func RunPeriodically(period float64, f PuffManipulator) PuffManipulator {
	last := math.Inf(-1)
	return func(s *Simulation) error {
		if t := s.Puff.Time(); t-last >= period {
			last = t
			return f(s)
		}
		return nil
	}
}

// LogStatus logs the state of the puff at each step.
func LogStatus() PuffManipulator {
	startTime := time.Now()
	iteration := 0
	return func(s *Simulation) error {
		iteration++
		c := s.Puff.Center()
		s.log().WithFields(logrus.Fields{
			"iteration": iteration,
			"walltime":  time.Since(startTime).Seconds(),
			"time":      s.Puff.Time(),
			"x":         c.X,
			"y":         c.Y,
			"z":         c.Z,
			"sigmaY":    s.Puff.StdY(),
			"sigmaZ":    s.Puff.StdZ(),
			"traveled":  s.Puff.DistanceTraveled(),
		}).Info("dispersion: puff status")
		return nil
	}
}

// Save writes the state of the puff to w.
func Save(w io.Writer) PuffManipulator {
	return func(s *Simulation) error {
		return s.Puff.Save(w)
	}
}

// Load sets the simulation puff to one saved earlier with Save,
// attached to atm and src.
func Load(r io.Reader, atm *Atmosphere, src *Source) PuffManipulator {
	return func(s *Simulation) error {
		p, err := LoadDynamicPuff(r, atm, src)
		if err != nil {
			return err
		}
		s.Puff = p
		return nil
	}
}

// WindRecord is the wind [m/s] from a given time [s] onward.
type WindRecord struct {
	Time float64   `toml:"time"`
	Wind []float64 `toml:"wind"`
}

// WindSchedule is a time series of winds.
type WindSchedule struct {
	Records []WindRecord `toml:"wind"`
}

// windFile is the layout of a wind schedule file. Values may be
// written as integers or floats.
type windFile struct {
	Records []struct {
		Time interface{}   `toml:"time"`
		Wind []interface{} `toml:"wind"`
	} `toml:"wind"`
}

// ReadWindSchedule reads a wind schedule in TOML format, for example:
//
//	[[wind]]
//	time = 0
//	wind = [3, 0]
//
//	[[wind]]
//	time = 600
//	wind = [0.0, 2.5]
func ReadWindSchedule(r io.Reader) (*WindSchedule, error) {
	var f windFile
	if _, err := toml.DecodeReader(r, &f); err != nil {
		return nil, fmt.Errorf("dispersion: reading wind schedule: %v", err)
	}
	ws := &WindSchedule{Records: make([]WindRecord, len(f.Records))}
	for i, rec := range f.Records {
		t, err := cast.ToFloat64E(rec.Time)
		if err != nil {
			return nil, fmt.Errorf("dispersion: wind schedule record %d time: %v", i, err)
		}
		ws.Records[i].Time = t
		ws.Records[i].Wind = make([]float64, len(rec.Wind))
		for j, v := range rec.Wind {
			if ws.Records[i].Wind[j], err = cast.ToFloat64E(v); err != nil {
				return nil, fmt.Errorf("dispersion: wind schedule record %d wind: %v", i, err)
			}
		}
	}
	if err := ws.check(); err != nil {
		return nil, err
	}
	return ws, nil
}

func (ws *WindSchedule) check() error {
	if len(ws.Records) == 0 {
		return fmt.Errorf("dispersion: wind schedule is empty")
	}
	for i, r := range ws.Records {
		if len(r.Wind) == 0 || len(r.Wind) > 3 {
			return fmt.Errorf("dispersion: wind schedule record %d has %d wind components; it should have 1 to 3", i, len(r.Wind))
		}
		if i > 0 && r.Time <= ws.Records[i-1].Time {
			return fmt.Errorf("dispersion: wind schedule times must increase; record %d is at %g s", i, r.Time)
		}
	}
	return nil
}

// At returns the wind at time t [s]. Before the first record, the
// first wind is returned.
func (ws *WindSchedule) At(t float64) Vector {
	i := sort.Search(len(ws.Records), func(i int) bool { return ws.Records[i].Time > t })
	if i > 0 {
		i--
	}
	return VectorFromSlice(ws.Records[i].Wind)
}

// Apply sets the wind of the puff's atmosphere from the schedule at
// the current simulation time. It should run before StepPuff.
func (ws *WindSchedule) Apply() PuffManipulator {
	return func(s *Simulation) error {
		s.Puff.Atmosphere().SetWind(ws.At(s.Puff.Time()))
		return nil
	}
}

// ReceptorLog keeps track of the concentrations a puff causes at a
// set of receptors.
type ReceptorLog struct {
	Receptors *Receptors

	// Ref converts receptor coordinates into the frame of the source.
	// If nil, receptor coordinates are used as they are.
	Ref *Georeference

	// Model calculates the concentrations. If nil, the simulated puff
	// is used.
	Model Concentrator

	// Peak, PeakTime, and Dose hold, for each receptor, the highest
	// concentration [g/m³], the time it occurred [s], and the
	// time-integrated concentration [g·s/m³].
	Peak, PeakTime, Dose []float64
}

// NewReceptorLog creates a new log for the given receptors.
func NewReceptorLog(r *Receptors, ref *Georeference) *ReceptorLog {
	return &ReceptorLog{
		Receptors: r,
		Ref:       ref,
		Peak:      make([]float64, r.Len()),
		PeakTime:  make([]float64, r.Len()),
		Dose:      make([]float64, r.Len()),
	}
}

// Record adds the current concentrations to the log. It should run
// after StepPuff.
func (l *ReceptorLog) Record() PuffManipulator {
	return func(s *Simulation) error {
		var m Concentrator = s.Puff
		if l.Model != nil {
			m = l.Model
		}
		for i, c := range l.Receptors.Concentrations(m, l.Ref) {
			if c > l.Peak[i] {
				l.Peak[i] = c
				l.PeakTime[i] = s.Puff.Time()
			}
			l.Dose[i] += c * s.Dt
		}
		return nil
	}
}

// Write writes the log as a table.
func (l *ReceptorLog) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "Receptor\tX\tY\tHeight\tPeak (g/m³)\tPeak time (s)\tDose (g·s/m³)\t")
	for i, r := range l.Receptors.List() {
		name := r.Name
		if name == "" {
			name = fmt.Sprint(i)
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%.4g\t%g\t%.4g\t\n",
			name, r.X, r.Y, r.Height, l.Peak[i], l.PeakTime[i], l.Dose[i])
	}
	return tw.Flush()
}
