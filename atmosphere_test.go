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
	"math"
	"testing"
)

func TestCalculateGrade(t *testing.T) {
	tests := []struct {
		name                           string
		skyCover, elevation, windSpeed float64
		night                          bool
		grade                          StabilityGrade
	}{
		{name: "calm strong sun", skyCover: 0, elevation: 70, windSpeed: 1, grade: GradeA},
		{name: "light moderate sun", skyCover: 0, elevation: 40, windSpeed: 2.5, grade: GradeB},
		{name: "light slight sun", skyCover: 0.3, elevation: 20, windSpeed: 2.5, grade: GradeC},
		{name: "cloudy high sun", skyCover: 1, elevation: 65, windSpeed: 10, grade: GradeDD},
		{name: "cloudy low sun", skyCover: 0.8, elevation: 50, windSpeed: 1, grade: GradeB},
		{name: "breezy slight sun", skyCover: 0, elevation: 20, windSpeed: 5.5, grade: GradeDD},
		{name: "clear night light wind", skyCover: 0.2, windSpeed: 2.5, night: true, grade: GradeF},
		{name: "cloudy night light wind", skyCover: 0.8, windSpeed: 2.5, night: true, grade: GradeE},
		{name: "clear night moderate wind", skyCover: 0.2, windSpeed: 4, night: true, grade: GradeE},
		{name: "calm night", skyCover: 0.2, windSpeed: 1, night: true, grade: GradeDN},
		{name: "windy night", skyCover: 0.2, windSpeed: 8, night: true, grade: GradeDN},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := CalculateGrade(test.skyCover, test.elevation, test.windSpeed, test.night)
			if g != test.grade {
				t.Errorf("grade = %s, want %s", g, test.grade)
			}
			atm := NewAtmosphere(Vector{X: test.windSpeed}, test.skyCover, test.elevation, 300,
				Night(test.night))
			if ag := atm.Grade(); ag != g {
				t.Errorf("Atmosphere grade = %s, want %s", ag, g)
			}
		})
	}
}

func TestLetterGrade(t *testing.T) {
	want := []string{"A", "B", "C", "DD", "DN", "E", "F"}
	for i, l := range want {
		if s := StabilityGrade(i).String(); s != l {
			t.Errorf("grade %d = %s, want %s", i, s, l)
		}
	}
	if s := StabilityGrade(7).String(); s != "StabilityGrade(7)" {
		t.Errorf("invalid grade = %s", s)
	}
}

func TestWindSpeed(t *testing.T) {
	scalar := NewAtmosphere(VectorFromSlice([]float64{10}), 0.5, 65, 288)
	vec := NewAtmosphere(VectorFromSlice([]float64{10, 0}), 0.5, 65, 288)
	if scalar.WindSpeed() != vec.WindSpeed() {
		t.Errorf("%g != %g", scalar.WindSpeed(), vec.WindSpeed())
	}
	diag := NewAtmosphere(Vector{X: 6, Y: 8}, 0.5, 65, 288)
	if diag.WindSpeed() != 10 {
		t.Errorf("wind speed = %g", diag.WindSpeed())
	}
	if diag.Grade() != scalar.Grade() {
		t.Errorf("grade should depend only on wind speed")
	}
}

func TestWindSpeedAt(t *testing.T) {
	const tolerance = 1.e-12
	atm := NewAtmosphere(Vector{X: 10}, 1, 65, 300)
	if u := atm.WindSpeedAt(10); different(u, 10, tolerance) {
		t.Errorf("wind at reference height = %g", u)
	}
	if u, want := atm.WindSpeedAt(100), 10*math.Pow(10, 0.3); different(u, want, tolerance) {
		t.Errorf("urban wind at 100 m = %g, want %g", u, want)
	}
	atm.SetSetting(Rural)
	if u, want := atm.WindSpeedAt(100), 10*math.Pow(10, 0.15); different(u, want, tolerance) {
		t.Errorf("rural wind at 100 m = %g, want %g", u, want)
	}
}

func TestAtmosphereSetters(t *testing.T) {
	atm := NewAtmosphere(Vector{X: 1}, 0, 70, 300)
	if atm.Pressure() != 1 || atm.Setting() != Urban || atm.IsNight() {
		t.Errorf("bad defaults: %g %s %v", atm.Pressure(), atm.Setting(), atm.IsNight())
	}
	same := atm.SetWindSpeed(10).SetSkyCover(1).SetSolarElevation(65).SetTemperature(290).
		SetPressure(0.9).SetSetting(Rural).SetIsNight(false)
	if same != atm {
		t.Error("setters should modify the receiver")
	}
	if atm.WindSpeed() != 10 || atm.SkyCover() != 1 || atm.SolarElevation() != 65 ||
		atm.Temperature() != 290 || atm.Pressure() != 0.9 || atm.Setting() != Rural {
		t.Errorf("setters not applied: %+v", atm)
	}
	if atm.LetterGrade() != "DD" {
		t.Errorf("grade = %s", atm.LetterGrade())
	}
	atm.SetWind(Vector{X: 1, Y: 1})
	if w := atm.Wind(); w != (Vector{X: 1, Y: 1}) {
		t.Errorf("wind = %v", w)
	}
	if s := atm.String(); s != "Grade: A Wind at 1.4142135623730951 m/s, Sun at 65 degrees" {
		t.Errorf("String = %q", s)
	}
}

func TestParseGroundSetting(t *testing.T) {
	for _, s := range []GroundSetting{Urban, Rural} {
		p, err := ParseGroundSetting(s.String())
		if err != nil {
			t.Fatal(err)
		}
		if p != s {
			t.Errorf("%s != %s", p, s)
		}
	}
	if _, err := ParseGroundSetting("suburban"); err == nil {
		t.Error("expected an error")
	}
}
