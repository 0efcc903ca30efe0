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

// Package dispersionutil contains the command-line interface for the
// dispersion models.
package dispersionutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/dispersion"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// gridCmds are the commands that write gridded output.
	gridCmds := []*pflag.FlagSet{plumeCmd.Flags(), puffCmd.Flags(), bombCmd.Flags()}
	// modelCmds are the commands that create a model from an atmosphere and a source.
	modelCmds := []*pflag.FlagSet{plumeCmd.Flags(), puffCmd.Flags(), dynamicCmd.Flags(), plotCmd.Flags()}
	// atmCmds are the commands that need an atmosphere.
	atmCmds := append(modelCmds, bombCmd.Flags())

	// Options are the configuration options available to the dispersion tools.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel specifies the lowest level of log messages to print,
              for example "debug", "info", or "warning".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile specifies the path to the desired output file.
              For gridded results, the file type is chosen by extension:
              ".shp" for a shapefile, ".nc" for NetCDF, and ".png" for a map.`,
			shorthand:  "o",
			defaultVal: "dispersion.shp",
			flagsets:   append(gridCmds, plotCmd.Flags()),
		},
		{
			name: "Atmosphere.Wind",
			usage: `
              Atmosphere.Wind is the wind vector [m/s], where the first
              component points east and the second points north.`,
			defaultVal: "[5, 0]",
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.SkyCover",
			usage: `
              Atmosphere.SkyCover is the fraction of the sky covered by
              clouds, from 0 to 1.`,
			defaultVal: 0.5,
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.SolarElevation",
			usage: `
              Atmosphere.SolarElevation is the angle of the sun above the
              horizon [degrees].`,
			defaultVal: 45.0,
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.Temperature",
			usage: `
              Atmosphere.Temperature is the ambient temperature [K].`,
			defaultVal: 293.0,
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.Pressure",
			usage: `
              Atmosphere.Pressure is the ambient pressure [atm].`,
			defaultVal: 1.0,
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.Setting",
			usage: `
              Atmosphere.Setting is the type of ground cover near the
              source, either "rural" or "urban".`,
			defaultVal: "rural",
			flagsets:   atmCmds,
		},
		{
			name: "Atmosphere.Night",
			usage: `
              Atmosphere.Night specifies whether it is night time.`,
			defaultVal: false,
			flagsets:   atmCmds,
		},
		{
			name: "Source.Type",
			usage: `
              Source.Type is the type of source: "point", "volume", or
              "area". Only point sources are fully supported.`,
			defaultVal: "point",
			flagsets:   modelCmds,
		},
		{
			name: "Source.EmissionRate",
			usage: `
              Source.EmissionRate is the emission rate of a continuous
              source [g/s].`,
			defaultVal: 1.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.Height",
			usage: `
              Source.Height is the height of the release above the
              ground [m].`,
			defaultVal: 10.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.Radius",
			usage: `
              Source.Radius is the radius of the stack exit [m].`,
			defaultVal: 1.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.Temperature",
			usage: `
              Source.Temperature is the temperature of the released
              gas [K].`,
			defaultVal: 293.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.ExitVelocity",
			usage: `
              Source.ExitVelocity is the speed of the released gas
              leaving the stack [m/s].`,
			defaultVal: 1.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.HalfLife",
			usage: `
              Source.HalfLife is the half-life of the released material [s].
              Zero means the material does not decay.`,
			defaultVal: 0.0,
			flagsets:   modelCmds,
		},
		{
			name: "Source.X",
			usage: `
              Source.X is the map X coordinate of the source, in the
              spatial reference given by Proj.`,
			defaultVal: 0.0,
			flagsets:   append(gridCmds, dynamicCmd.Flags()),
		},
		{
			name: "Source.Y",
			usage: `
              Source.Y is the map Y coordinate of the source, in the
              spatial reference given by Proj.`,
			defaultVal: 0.0,
			flagsets:   append(gridCmds, dynamicCmd.Flags()),
		},
		{
			name: "Proj",
			usage: `
              Proj is the spatial reference of Source.X and Source.Y
              in Proj4 or WKT format. If empty, output is in the downwind
              frame of the source.`,
			defaultVal: "",
			flagsets:   append(gridCmds, dynamicCmd.Flags()),
		},
		{
			name: "OutputProj",
			usage: `
              OutputProj is the spatial reference for output in Proj4 or
              WKT format. If empty, output is in the spatial reference
              given by Proj.`,
			defaultVal: "",
			flagsets:   append(gridCmds, dynamicCmd.Flags()),
		},
		{
			name: "Grid.Xo",
			usage: `
              Grid.Xo is the downwind distance of the upwind edge of the
              output grid [m].`,
			defaultVal: 0.0,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Yo",
			usage: `
              Grid.Yo is the crosswind distance of the edge of the output
              grid [m].`,
			defaultVal: -2500.0,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Dx",
			usage: `
              Grid.Dx is the downwind length of output grid cells [m].`,
			defaultVal: 100.0,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Dy",
			usage: `
              Grid.Dy is the crosswind length of output grid cells [m].`,
			defaultVal: 100.0,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Nx",
			usage: `
              Grid.Nx is the number of output grid cells in the downwind
              direction.`,
			defaultVal: 100,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Ny",
			usage: `
              Grid.Ny is the number of output grid cells in the crosswind
              direction.`,
			defaultVal: 50,
			flagsets:   gridCmds,
		},
		{
			name: "Grid.Heights",
			usage: `
              Grid.Heights is a list of receptor heights [m], one per
              output grid layer.`,
			defaultVal: "[0]",
			flagsets:   gridCmds,
		},
		{
			name: "Puff.Mass",
			usage: `
              Puff.Mass is the mass of material released in a puff [g].`,
			defaultVal: 1000.0,
			flagsets:   []*pflag.FlagSet{puffCmd.Flags(), dynamicCmd.Flags()},
		},
		{
			name: "Puff.Time",
			usage: `
              Puff.Time is the time after release [s] at which to calculate
              puff concentrations.`,
			defaultVal: 600.0,
			flagsets:   []*pflag.FlagSet{puffCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.WindSchedule",
			usage: `
              Dynamic.WindSchedule is the path to a TOML file with the
              wind at different times. If empty, Atmosphere.Wind is used
              throughout.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.Timestep",
			usage: `
              Dynamic.Timestep is the simulation time step [s].`,
			defaultVal: 60.0,
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.Duration",
			usage: `
              Dynamic.Duration is the length of the simulation [s].`,
			defaultVal: 3600.0,
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.Receptors",
			usage: `
              Dynamic.Receptors is the path to a shapefile or GeoJSON file
              of receptor locations. Shapefile receptors may have "Name"
              and "Height" attributes.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.PathFile",
			usage: `
              Dynamic.PathFile is the path to write the course of the puff
              to as GeoJSON. If empty, the course is not written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Dynamic.Checkpoint",
			usage: `
              Dynamic.Checkpoint is the path to save the final state of the
              puff to. If empty, the state is not saved.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{dynamicCmd.Flags(), bombCmd.Flags()},
		},
		{
			name: "Plot.Distances",
			usage: `
              Plot.Distances is the farthest downwind distance to plot [m]
              followed by the number of points to plot.`,
			defaultVal: "[10000, 200]",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "Bomb.TNTMass",
			usage: `
              Bomb.TNTMass is the TNT-equivalent mass of the explosive [kg].`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{bombCmd.Flags()},
		},
		{
			name: "Bomb.Material",
			usage: `
              Bomb.Material is the radioactive isotope dispersed by the
              bomb, for example "cobalt-60".`,
			defaultVal: "cobalt-60",
			flagsets:   []*pflag.FlagSet{bombCmd.Flags()},
		},
		{
			name: "Bomb.MaterialMass",
			usage: `
              Bomb.MaterialMass is the mass of radioactive material [g].`,
			defaultVal: 100.0,
			flagsets:   []*pflag.FlagSet{bombCmd.Flags()},
		},
		{
			name: "Bomb.Dynamic",
			usage: `
              Bomb.Dynamic specifies whether to follow the bomb cloud as
              it moves with a changing wind. If true, the Dynamic options
              are used instead of Puff.Time and gridded output.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{bombCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("DISPERSION")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(plumeCmd)
	Root.AddCommand(puffCmd)
	Root.AddCommand(dynamicCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(bombCmd)
	bombCmd.AddCommand(presetsCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("dispersion: problem reading configuration file: %v", err)
		}
	}
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("dispersion: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "dispersion",
	Short: "Gaussian plume and puff dispersion models.",
	Long: `dispersion estimates pollutant concentrations downwind of a release using
Gaussian plume and puff models. Use the subcommands specified below to access
the model functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'DISPERSION_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of the dispersion tools.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Dispersion v%s\n", dispersion.Version)
	},
	DisableAutoGenTag: true,
}

// plumeCmd is a command that calculates steady-state plume concentrations.
var plumeCmd = &cobra.Command{
	Use:   "plume",
	Short: "Calculate concentrations from a continuous source.",
	Long: `plume calculates steady-state concentrations downwind of a continuous
source on the grid specified by the Grid options and writes them to OutputFile.
Output units are g/m³, except shapefile output which is in μg/m³.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelConfig(Cfg)
		if err != nil {
			return err
		}
		g, ref, outputFile, err := gridOutputConfig(Cfg)
		if err != nil {
			return err
		}
		return Plume(cmd.OutOrStdout(), m, g, ref, outputFile)
	},
	DisableAutoGenTag: true,
}

// puffCmd is a command that calculates puff concentrations at a given time.
var puffCmd = &cobra.Command{
	Use:   "puff",
	Short: "Calculate concentrations from an instantaneous release.",
	Long: `puff calculates concentrations Puff.Time seconds after an instantaneous
release of Puff.Mass grams on the grid specified by the Grid options and
writes them to OutputFile. The grid is in the downwind frame of the source,
so it should cover the puff center, which is the wind speed times Puff.Time
downwind of the source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelConfig(Cfg)
		if err != nil {
			return err
		}
		g, ref, outputFile, err := gridOutputConfig(Cfg)
		if err != nil {
			return err
		}
		return Puff(cmd.OutOrStdout(), m, Cfg.GetFloat64("Puff.Mass"), Cfg.GetFloat64("Puff.Time"),
			g, ref, outputFile)
	},
	DisableAutoGenTag: true,
}

// dynamicCmd is a command that follows a puff through a changing wind.
var dynamicCmd = &cobra.Command{
	Use:   "dynamic",
	Short: "Follow a puff as the wind changes.",
	Long: `dynamic follows a puff of Puff.Mass grams for Dynamic.Duration seconds
as it moves with the wind in Dynamic.WindSchedule, and prints the peak
concentration and dose at each receptor in Dynamic.Receptors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelConfig(Cfg)
		if err != nil {
			return err
		}
		d, err := dynamicConfig(Cfg)
		if err != nil {
			return err
		}
		return Dynamic(cmd.OutOrStdout(), m, Cfg.GetFloat64("Puff.Mass"), d)
	},
	DisableAutoGenTag: true,
}

// plotCmd is a command that plots the plume centerline.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot concentration and spread along the plume centerline.",
	Long: `plot draws the ground-level centerline concentration and the plume
spread at distances up to the first value of Plot.Distances and writes
the figure to OutputFile as a PNG image.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := modelConfig(Cfg)
		if err != nil {
			return err
		}
		dist, err := toFloatSliceE(Cfg.Get("Plot.Distances"))
		if err != nil {
			return fmt.Errorf("dispersion: reading Plot.Distances: %v", err)
		}
		if len(dist) != 2 {
			return fmt.Errorf("dispersion: Plot.Distances should have 2 values but has %d", len(dist))
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		return Plot(outputFile, m, dist[0], int(dist[1]))
	},
	DisableAutoGenTag: true,
}

// bombCmd is a command that calculates the dispersion of a dirty bomb.
var bombCmd = &cobra.Command{
	Use:   "bomb",
	Short: "Calculate the dispersion of radioactive material from a bomb.",
	Long: `bomb calculates the cloud from an explosion of Bomb.TNTMass kg of TNT
dispersing Bomb.MaterialMass grams of Bomb.Material. The cloud is released
at its stabilized height. If Bomb.Dynamic is false, concentrations Puff.Time
seconds after the explosion are written to OutputFile; otherwise the cloud
is followed as with the dynamic command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		atm, err := atmosphereConfig(Cfg)
		if err != nil {
			return err
		}
		b, err := bombConfig(Cfg, atm)
		if err != nil {
			return err
		}
		if b.IsDynamic() {
			d, err := dynamicConfig(Cfg)
			if err != nil {
				return err
			}
			return DynamicBomb(cmd.OutOrStdout(), b, d)
		}
		g, ref, outputFile, err := gridOutputConfig(Cfg)
		if err != nil {
			return err
		}
		return Bomb(cmd.OutOrStdout(), b, Cfg.GetFloat64("Puff.Time"), g, ref, outputFile)
	},
	DisableAutoGenTag: true,
}

// presetsCmd is a command that lists the available radioactive materials.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the available radioactive materials.",
	Long:  "presets lists the radioactive isotopes that can be used for Bomb.Material.",
	Run: func(cmd *cobra.Command, args []string) {
		Presets(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}
