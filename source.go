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

import "fmt"

// SourceType is the geometry of an emissions source.
type SourceType int

// Source types. Only Point sources are fully supported by the
// dispersion models.
const (
	Point SourceType = iota
	Volume
	Area
)

func (t SourceType) String() string {
	switch t {
	case Point:
		return "point"
	case Volume:
		return "volume"
	case Area:
		return "area"
	default:
		return fmt.Sprintf("SourceType(%d)", int(t))
	}
}

// ParseSourceType converts "point", "volume", or "area" to a SourceType.
func ParseSourceType(s string) (SourceType, error) {
	switch s {
	case "point":
		return Point, nil
	case "volume":
		return Volume, nil
	case "area":
		return Area, nil
	default:
		return Point, fmt.Errorf("dispersion: invalid source type %q", s)
	}
}

// Source describes an emitter. It holds no derived state.
type Source struct {
	Type         SourceType
	EmissionRate float64 // [g/s]
	Height       float64 // stack height [m]
	Radius       float64 // stack radius [m]
	Temperature  float64 // exit temperature [K]
	ExitVelocity float64 // [m/s]
}

func (s *Source) String() string {
	return fmt.Sprintf("Emission rate of %g g/s", s.EmissionRate)
}
