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

package fallout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ctessum/unit"
)

// NuclearMaterial is a sample of a radioactive isotope.
type NuclearMaterial struct {
	name       string
	atomicMass int
	halfLife   float64 // [s]
	decayMode  string
	mass       float64 // [g]
}

// NewNuclearMaterial creates a sample of mass [g] of an isotope with
// the given half-life [s] and atomic mass number.
func NewNuclearMaterial(halfLife float64, atomicMass int, mass float64) *NuclearMaterial {
	return &NuclearMaterial{
		atomicMass: atomicMass,
		halfLife:   halfLife,
		mass:       mass,
	}
}

type isotope struct {
	element    string
	atomicMass int
}

type isotopeData struct {
	halfLife  float64 // [s]
	decayMode string
}

const secondsPerYear = 365.25 * 24 * 60 * 60

// presets holds commonly encountered isotopes, keyed by lower-case
// element name and atomic mass number.
var presets = map[isotope]isotopeData{
	{"cobalt", 60}:       {halfLife: 166349000, decayMode: "beta,gamma,gamma"},
	{"cesium", 137}:      {halfLife: 30.08 * secondsPerYear, decayMode: "beta,gamma"},
	{"caesium", 137}:     {halfLife: 30.08 * secondsPerYear, decayMode: "beta,gamma"},
	{"strontium", 90}:    {halfLife: 28.79 * secondsPerYear, decayMode: "beta"},
	{"iodine", 131}:      {halfLife: 8.0252 * 24 * 60 * 60, decayMode: "beta,gamma"},
	{"iridium", 192}:     {halfLife: 73.827 * 24 * 60 * 60, decayMode: "beta,gamma"},
	{"americium", 241}:   {halfLife: 432.2 * secondsPerYear, decayMode: "alpha,gamma"},
	{"plutonium", 238}:   {halfLife: 2767540000, decayMode: "alpha"},
	{"plutonium", 239}:   {halfLife: 24110 * secondsPerYear, decayMode: "alpha"},
	{"radium", 226}:      {halfLife: 1600 * secondsPerYear, decayMode: "alpha,gamma"},
	{"uranium", 235}:     {halfLife: 7.04e8 * secondsPerYear, decayMode: "alpha,gamma"},
	{"polonium", 210}:    {halfLife: 138.376 * 24 * 60 * 60, decayMode: "alpha"},
	{"technetium", 99}:   {halfLife: 2.111e5 * secondsPerYear, decayMode: "beta"},
	{"selenium", 75}:     {halfLife: 119.78 * 24 * 60 * 60, decayMode: "ec,gamma"},
	{"ytterbium", 169}:   {halfLife: 32.018 * 24 * 60 * 60, decayMode: "ec,gamma"},
	{"californium", 252}: {halfLife: 2.645 * secondsPerYear, decayMode: "alpha,sf"},
}

// Preset creates a sample of mass [g] of a known isotope, identified
// by element name (case insensitive) and atomic mass number, for
// example ("Cobalt", 60).
func Preset(element string, atomicMass int, mass float64) (*NuclearMaterial, error) {
	d, ok := presets[isotope{strings.ToLower(element), atomicMass}]
	if !ok {
		return nil, fmt.Errorf("fallout: no preset for %s-%d", element, atomicMass)
	}
	return &NuclearMaterial{
		name:       element,
		atomicMass: atomicMass,
		halfLife:   d.halfLife,
		decayMode:  d.decayMode,
		mass:       mass,
	}, nil
}

// Presets returns the names of the available presets in the form
// element-mass.
func Presets() []string {
	o := make([]string, 0, len(presets))
	for k := range presets {
		o = append(o, fmt.Sprintf("%s-%d", k.element, k.atomicMass))
	}
	sort.Strings(o)
	return o
}

// ParsePreset creates a sample from a name of the form "Cobalt-60".
func ParsePreset(name string, mass float64) (*NuclearMaterial, error) {
	i := strings.LastIndex(name, "-")
	if i <= 0 {
		return nil, fmt.Errorf("fallout: no preset for %q; the name should be of the form element-mass", name)
	}
	var atomicMass int
	if _, err := fmt.Sscanf(name[i+1:], "%d", &atomicMass); err != nil {
		return nil, fmt.Errorf("fallout: no preset for %q: %v", name, err)
	}
	return Preset(name[:i], atomicMass, mass)
}

func (m *NuclearMaterial) String() string {
	if m.name == "" {
		return fmt.Sprintf("%g g of mass-%d isotope with half-life %g s", m.mass, m.atomicMass, m.halfLife)
	}
	return fmt.Sprintf("%g g of %s-%d", m.mass, m.name, m.atomicMass)
}

// Name returns the element name of a preset, or "" otherwise.
func (m *NuclearMaterial) Name() string { return m.name }

// Mass returns the sample mass [g].
func (m *NuclearMaterial) Mass() float64 { return m.mass }

// AtomicMass returns the atomic mass number.
func (m *NuclearMaterial) AtomicMass() int { return m.atomicMass }

// HalfLife returns the half-life [s].
func (m *NuclearMaterial) HalfLife() float64 { return m.halfLife }

// HalfLifeUnit returns the half-life as a time.
func (m *NuclearMaterial) HalfLifeUnit() *unit.Unit {
	return unit.New(m.halfLife, unit.Second)
}

// DecayMode returns a comma-separated list of the decay products,
// or "" if unknown.
func (m *NuclearMaterial) DecayMode() string { return m.decayMode }
