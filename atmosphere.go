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
)

// StabilityGrade is a Pasquill-type atmospheric stability class,
// from extremely unstable (A) to moderately stable (F). Neutral
// conditions are split into daytime (DD) and nighttime (DN).
type StabilityGrade int

// Stability grades, in order of increasing stability.
const (
	GradeA StabilityGrade = iota
	GradeB
	GradeC
	GradeDD
	GradeDN
	GradeE
	GradeF
)

var letterGrades = [...]string{"A", "B", "C", "DD", "DN", "E", "F"}

func (g StabilityGrade) String() string {
	if g < GradeA || g > GradeF {
		return fmt.Sprintf("StabilityGrade(%d)", int(g))
	}
	return letterGrades[g]
}

// Daytime grades, indexed by wind level [<2, 2-3, 3-5, 5-6, >6 m/s]
// and then insolation [strong, moderate, slight]. Intermediate
// classes are rounded up.
var dayGrades = [5][3]StabilityGrade{
	{GradeA, GradeA, GradeB},
	{GradeA, GradeB, GradeC},
	{GradeB, GradeB, GradeC},
	{GradeC, GradeC, GradeDD},
	{GradeC, GradeDD, GradeDD},
}

// Nighttime grades (one hour before sunset to one hour after sunrise),
// indexed by wind level and then [skyCover > 0.5, skyCover <= 0.5].
// The lowest wind level is not defined in the source tables and is
// assumed neutral.
var nightGrades = [5][2]StabilityGrade{
	{GradeDN, GradeDN},
	{GradeE, GradeF},
	{GradeDN, GradeE},
	{GradeDN, GradeDN},
	{GradeDN, GradeDN},
}

// Wind profile power-law exponents for each stability grade.
var windProfiles = [7]struct{ rural, urban float64 }{
	{rural: 0.07, urban: 0.15},
	{rural: 0.07, urban: 0.15},
	{rural: 0.10, urban: 0.20},
	{rural: 0.15, urban: 0.30},
	{rural: 0.15, urban: 0.30},
	{rural: 0.35, urban: 0.30},
	{rural: 0.55, urban: 0.30},
}

// windReferenceHeight is the height at which ground-level wind is measured [m].
const windReferenceHeight = 10.

// GroundSetting describes the surface roughness around the source.
type GroundSetting int

// Ground settings.
const (
	Urban GroundSetting = iota
	Rural
)

func (s GroundSetting) String() string {
	switch s {
	case Urban:
		return "urban"
	case Rural:
		return "rural"
	default:
		return fmt.Sprintf("GroundSetting(%d)", int(s))
	}
}

// ParseGroundSetting converts "urban" or "rural" to a GroundSetting.
func ParseGroundSetting(s string) (GroundSetting, error) {
	switch s {
	case "urban":
		return Urban, nil
	case "rural":
		return Rural, nil
	default:
		return Urban, fmt.Errorf("dispersion: invalid ground setting %q; it should be urban or rural", s)
	}
}

// Atmosphere represents the physical surroundings of a release.
//
// Plumes and puffs hold a pointer to an Atmosphere rather than a
// copy, so changing it with the Set methods is visible to every
// model that shares it. Dynamic puffs rely on this to pick up wind
// changes between steps.
type Atmosphere struct {
	wind           Vector  // at ground level (10 m) [m/s]
	skyCover       float64 // fraction, 0-1
	solarElevation float64 // degrees
	temperature    float64 // K
	pressure       float64 // atm
	setting        GroundSetting
	isNight        bool
}

// AtmosphereOption sets optional Atmosphere properties.
type AtmosphereOption func(*Atmosphere)

// Pressure sets the ambient pressure [atm]. The default is 1.
func Pressure(p float64) AtmosphereOption {
	return func(a *Atmosphere) { a.pressure = p }
}

// Setting sets the ground setting. The default is Urban.
func Setting(s GroundSetting) AtmosphereOption {
	return func(a *Atmosphere) { a.setting = s }
}

// Night marks the atmosphere as nighttime. The default is daytime.
func Night(isNight bool) AtmosphereOption {
	return func(a *Atmosphere) { a.isNight = isNight }
}

// NewAtmosphere creates a new Atmosphere with ground-level wind [m/s],
// sky cover [0-1], solar elevation [degrees], and temperature [K].
// Temperature is only needed when the effective source height is not
// set manually.
func NewAtmosphere(wind Vector, skyCover, solarElevation, temperature float64,
	opts ...AtmosphereOption) *Atmosphere {
	a := &Atmosphere{
		wind:           wind,
		skyCover:       skyCover,
		solarElevation: solarElevation,
		temperature:    temperature,
		pressure:       1,
		setting:        Urban,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Atmosphere) String() string {
	return fmt.Sprintf("Grade: %s Wind at %g m/s, Sun at %g degrees",
		a.Grade(), a.WindSpeed(), a.solarElevation)
}

// windLevel returns the row of the grade tables for windSpeed [m/s].
func windLevel(windSpeed float64) int {
	switch {
	case windSpeed < 2:
		return 0
	case windSpeed < 3:
		return 1
	case windSpeed < 5:
		return 2
	case windSpeed < 6:
		return 3
	default:
		return 4
	}
}

// insolationLevel returns 0 (strong), 1 (moderate), or 2 (slight).
func insolationLevel(skyCover, solarElevation float64) int {
	if skyCover <= 0.5 {
		switch {
		case solarElevation > 60:
			return 0
		case solarElevation > 35:
			return 1
		default:
			return 2
		}
	}
	if solarElevation > 60 {
		return 1
	}
	return 2
}

// CalculateGrade returns the stability grade for the given sky cover
// [0-1], solar elevation [degrees], wind speed [m/s], and time of day.
func CalculateGrade(skyCover, solarElevation, windSpeed float64, isNight bool) StabilityGrade {
	wl := windLevel(windSpeed)
	if isNight {
		coverLevel := 1
		if skyCover > 0.5 {
			coverLevel = 0
		}
		return nightGrades[wl][coverLevel]
	}
	return dayGrades[wl][insolationLevel(skyCover, solarElevation)]
}

// Grade returns the current stability grade.
func (a *Atmosphere) Grade() StabilityGrade {
	return CalculateGrade(a.skyCover, a.solarElevation, a.WindSpeed(), a.isNight)
}

// LetterGrade returns the current stability grade as a letter code.
func (a *Atmosphere) LetterGrade() string {
	return a.Grade().String()
}

// Wind returns the ground-level wind vector [m/s].
func (a *Atmosphere) Wind() Vector { return a.wind }

// WindSpeed returns the magnitude of the ground-level wind [m/s].
func (a *Atmosphere) WindSpeed() float64 { return a.wind.Length() }

// WindSpeedAt returns the wind speed at height [m] using the power-law
// wind profile for the current grade and ground setting. Ground-level
// wind is assumed to have been measured at 10 m.
func (a *Atmosphere) WindSpeedAt(height float64) float64 {
	prof := windProfiles[a.Grade()]
	p := prof.urban
	if a.setting == Rural {
		p = prof.rural
	}
	return a.WindSpeed() * math.Pow(height/windReferenceHeight, p)
}

// SetWind sets the ground-level wind vector [m/s].
func (a *Atmosphere) SetWind(v Vector) *Atmosphere {
	a.wind = v
	return a
}

// SetWindSpeed sets ground-level wind of the given speed [m/s]
// blowing along the x axis.
func (a *Atmosphere) SetWindSpeed(speed float64) *Atmosphere {
	a.wind = Vector{X: speed}
	return a
}

// SkyCover returns the fraction of the sky covered by clouds.
func (a *Atmosphere) SkyCover() float64 { return a.skyCover }

// SetSkyCover sets the sky cover fraction.
func (a *Atmosphere) SetSkyCover(cover float64) *Atmosphere {
	a.skyCover = cover
	return a
}

// SolarElevation returns the solar elevation [degrees].
func (a *Atmosphere) SolarElevation() float64 { return a.solarElevation }

// SetSolarElevation sets the solar elevation [degrees].
func (a *Atmosphere) SetSolarElevation(elevation float64) *Atmosphere {
	a.solarElevation = elevation
	return a
}

// Temperature returns the ambient temperature [K].
func (a *Atmosphere) Temperature() float64 { return a.temperature }

// SetTemperature sets the ambient temperature [K].
func (a *Atmosphere) SetTemperature(t float64) *Atmosphere {
	a.temperature = t
	return a
}

// Pressure returns the ambient pressure [atm].
func (a *Atmosphere) Pressure() float64 { return a.pressure }

// SetPressure sets the ambient pressure [atm].
func (a *Atmosphere) SetPressure(p float64) *Atmosphere {
	a.pressure = p
	return a
}

// Setting returns the ground setting.
func (a *Atmosphere) Setting() GroundSetting { return a.setting }

// SetSetting sets the ground setting.
func (a *Atmosphere) SetSetting(s GroundSetting) *Atmosphere {
	a.setting = s
	return a
}

// IsNight reports whether the atmosphere represents nighttime.
func (a *Atmosphere) IsNight() bool { return a.isNight }

// SetIsNight sets whether the atmosphere represents nighttime.
func (a *Atmosphere) SetIsNight(isNight bool) *Atmosphere {
	a.isNight = isNight
	return a
}
