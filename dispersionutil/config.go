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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/dispersion"
	"github.com/spatialmodel/dispersion/fallout"
	"github.com/spf13/cast"
)

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expand any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`you need to specify an output file configuration variable (for example: OutputFile="output.shp")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("dispersion: the OutputFile directory doesn't exist: %v", err)
	}
	return f, nil
}

// checkGridOutputFile makes sure that f has an extension that gridded
// output can be written to.
func checkGridOutputFile(f string) (string, error) {
	f, err := checkOutputFile(f)
	if err != nil {
		return f, err
	}
	switch strings.ToLower(filepath.Ext(f)) {
	case ".shp", ".nc", ".png":
		return f, nil
	default:
		return f, fmt.Errorf("dispersion: OutputFile '%s' should end in .shp, .nc, or .png", f)
	}
}

// toFloatSliceE converts s to a slice of floats. s may be a slice from a
// configuration file or a JSON array from a command line argument.
func toFloatSliceE(s interface{}) ([]float64, error) {
	switch v := s.(type) {
	case []float64:
		return v, nil
	case []interface{}:
		o := make([]float64, len(v))
		for i, val := range v {
			f, err := cast.ToFloat64E(val)
			if err != nil {
				return nil, err
			}
			o[i] = f
		}
		return o, nil
	case string:
		var o []float64
		if err := json.NewDecoder(bytes.NewBufferString(v)).Decode(&o); err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("invalid type %T for list of numbers", s)
	}
}

// atmosphereConfig unmarshals a viper configuration for an atmosphere.
func atmosphereConfig(cfg *viper.Viper) (*dispersion.Atmosphere, error) {
	wind, err := toFloatSliceE(cfg.Get("Atmosphere.Wind"))
	if err != nil {
		return nil, fmt.Errorf("dispersion: reading Atmosphere.Wind: %v", err)
	}
	if len(wind) == 0 || len(wind) > 3 {
		return nil, fmt.Errorf("dispersion: Atmosphere.Wind should have 1 to 3 components but has %d", len(wind))
	}
	setting, err := dispersion.ParseGroundSetting(os.ExpandEnv(cfg.GetString("Atmosphere.Setting")))
	if err != nil {
		return nil, err
	}
	skyCover := cfg.GetFloat64("Atmosphere.SkyCover")
	if skyCover < 0 || skyCover > 1 {
		return nil, fmt.Errorf("dispersion: Atmosphere.SkyCover=%g but should be between 0 and 1", skyCover)
	}
	temperature := cfg.GetFloat64("Atmosphere.Temperature")
	if !(temperature > 0) {
		return nil, fmt.Errorf("dispersion: Atmosphere.Temperature=%g but should be >0", temperature)
	}
	return dispersion.NewAtmosphere(
		dispersion.VectorFromSlice(wind),
		skyCover,
		cfg.GetFloat64("Atmosphere.SolarElevation"),
		temperature,
		dispersion.Pressure(cfg.GetFloat64("Atmosphere.Pressure")),
		dispersion.Setting(setting),
		dispersion.Night(cfg.GetBool("Atmosphere.Night")),
	), nil
}

// sourceConfig unmarshals a viper configuration for a source.
func sourceConfig(cfg *viper.Viper) (*dispersion.Source, error) {
	t, err := dispersion.ParseSourceType(os.ExpandEnv(cfg.GetString("Source.Type")))
	if err != nil {
		return nil, err
	}
	s := &dispersion.Source{
		Type:         t,
		EmissionRate: cfg.GetFloat64("Source.EmissionRate"),
		Height:       cfg.GetFloat64("Source.Height"),
		Radius:       cfg.GetFloat64("Source.Radius"),
		Temperature:  cfg.GetFloat64("Source.Temperature"),
		ExitVelocity: cfg.GetFloat64("Source.ExitVelocity"),
	}
	vars := []float64{s.EmissionRate, s.Height, s.Radius, s.ExitVelocity}
	varNames := []string{"Source.EmissionRate", "Source.Height", "Source.Radius", "Source.ExitVelocity"}
	for i, v := range vars {
		if v < 0 {
			return nil, fmt.Errorf("dispersion: %s=%g but should be >=0", varNames[i], v)
		}
	}
	return s, nil
}

// Model holds the parts of a dispersion model that are shared among
// commands.
type Model struct {
	Atmosphere *dispersion.Atmosphere
	Source     *dispersion.Source

	// HalfLife is the half-life of the released material [s], or 0
	// if it does not decay.
	HalfLife float64
}

// modelConfig unmarshals a viper configuration for a model.
func modelConfig(cfg *viper.Viper) (*Model, error) {
	atm, err := atmosphereConfig(cfg)
	if err != nil {
		return nil, err
	}
	src, err := sourceConfig(cfg)
	if err != nil {
		return nil, err
	}
	h := cfg.GetFloat64("Source.HalfLife")
	if h < 0 {
		return nil, fmt.Errorf("dispersion: Source.HalfLife=%g but should be >=0", h)
	}
	return &Model{Atmosphere: atm, Source: src, HalfLife: h}, nil
}

// GridConfig unmarshals a viper configuration for an output grid.
func GridConfig(cfg *viper.Viper) (*dispersion.GridConfig, error) {
	heights, err := toFloatSliceE(cfg.Get("Grid.Heights"))
	if err != nil {
		return nil, fmt.Errorf("dispersion: reading Grid.Heights: %v", err)
	}
	g := &dispersion.GridConfig{
		Xo:      cfg.GetFloat64("Grid.Xo"),
		Yo:      cfg.GetFloat64("Grid.Yo"),
		Dx:      cfg.GetFloat64("Grid.Dx"),
		Dy:      cfg.GetFloat64("Grid.Dy"),
		Nx:      cfg.GetInt("Grid.Nx"),
		Ny:      cfg.GetInt("Grid.Ny"),
		Heights: heights,
	}
	vars := []float64{g.Dx, g.Dy}
	varNames := []string{"Grid.Dx", "Grid.Dy"}
	for i, v := range vars {
		if !(v > 0) {
			return nil, fmt.Errorf("parsing grid configuration: %s=%g but should be >0", varNames[i], v)
		}
	}
	ints := []int{g.Nx, g.Ny}
	varNames = []string{"Grid.Nx", "Grid.Ny"}
	for i, v := range ints {
		if v <= 0 {
			return nil, fmt.Errorf("parsing grid configuration: %s=%d but should be >0", varNames[i], v)
		}
	}
	return g, nil
}

// georeference unmarshals a viper configuration for placing output on a
// map. wind is the direction of the downwind axis.
func georeference(cfg *viper.Viper, wind dispersion.Vector) *dispersion.Georeference {
	return &dispersion.Georeference{
		X:          cfg.GetFloat64("Source.X"),
		Y:          cfg.GetFloat64("Source.Y"),
		Wind:       wind,
		Proj:       os.ExpandEnv(cfg.GetString("Proj")),
		OutputProj: os.ExpandEnv(cfg.GetString("OutputProj")),
	}
}

// gridOutputConfig unmarshals the configuration for gridded output.
func gridOutputConfig(cfg *viper.Viper) (*dispersion.GridConfig, *dispersion.Georeference, string, error) {
	g, err := GridConfig(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	atm, err := atmosphereConfig(cfg)
	if err != nil {
		return nil, nil, "", err
	}
	outputFile, err := checkGridOutputFile(cfg.GetString("OutputFile"))
	if err != nil {
		return nil, nil, "", err
	}
	return g, georeference(cfg, atm.Wind()), outputFile, nil
}

// DynamicConfig holds the configuration for following a puff.
type DynamicConfig struct {
	Schedule  *dispersion.WindSchedule
	Timestep  float64 // [s]
	Duration  float64 // [s]
	Receptors *dispersion.Receptors
	Ref       *dispersion.Georeference
	PathFile  string
	SaveFile  string
}

// dynamicConfig unmarshals a viper configuration for following a puff.
func dynamicConfig(cfg *viper.Viper) (*DynamicConfig, error) {
	d := &DynamicConfig{
		Timestep: cfg.GetFloat64("Dynamic.Timestep"),
		Duration: cfg.GetFloat64("Dynamic.Duration"),
		PathFile: os.ExpandEnv(cfg.GetString("Dynamic.PathFile")),
		SaveFile: os.ExpandEnv(cfg.GetString("Dynamic.Checkpoint")),
	}
	if !(d.Timestep > 0) {
		return nil, fmt.Errorf("dispersion: Dynamic.Timestep=%g but should be >0", d.Timestep)
	}
	if !(d.Duration > 0) {
		return nil, fmt.Errorf("dispersion: Dynamic.Duration=%g but should be >0", d.Duration)
	}
	if f := os.ExpandEnv(cfg.GetString("Dynamic.WindSchedule")); f != "" {
		r, err := os.Open(f)
		if err != nil {
			return nil, fmt.Errorf("dispersion: opening Dynamic.WindSchedule: %v", err)
		}
		defer r.Close()
		if d.Schedule, err = dispersion.ReadWindSchedule(r); err != nil {
			return nil, err
		}
	}
	// The puff moves in map directions, so only translation is needed
	// to place receptors relative to the source.
	d.Ref = georeference(cfg, dispersion.Vector{})
	if f := os.ExpandEnv(cfg.GetString("Dynamic.Receptors")); f != "" {
		var err error
		if d.Receptors, err = readReceptors(f, d.Ref.Proj); err != nil {
			return nil, err
		}
	}
	for _, f := range []string{d.PathFile, d.SaveFile} {
		if f == "" {
			continue
		}
		if _, err := checkOutputFile(f); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// readReceptors reads receptors from a shapefile or GeoJSON file.
func readReceptors(f, projection string) (*dispersion.Receptors, error) {
	switch strings.ToLower(filepath.Ext(f)) {
	case ".shp":
		return dispersion.ReadReceptorShapefile(f, projection)
	case ".json", ".geojson":
		r, err := os.Open(f)
		if err != nil {
			return nil, fmt.Errorf("dispersion: opening receptor file: %v", err)
		}
		defer r.Close()
		return dispersion.ReadReceptorGeoJSON(r)
	default:
		return nil, fmt.Errorf("dispersion: receptor file '%s' should end in .shp, .json, or .geojson", f)
	}
}

// bombConfig unmarshals a viper configuration for a dirty bomb.
func bombConfig(cfg *viper.Viper, atm *dispersion.Atmosphere) (*fallout.DirtyBomb, error) {
	mat, err := fallout.ParsePreset(os.ExpandEnv(cfg.GetString("Bomb.Material")), cfg.GetFloat64("Bomb.MaterialMass"))
	if err != nil {
		return nil, err
	}
	var opts []fallout.DirtyBombOption
	if cfg.GetBool("Bomb.Dynamic") {
		opts = append(opts, fallout.Dynamic())
	}
	return fallout.NewDirtyBomb(mat, cfg.GetFloat64("Bomb.TNTMass"), atm, opts...)
}
