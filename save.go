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
	"encoding/gob"
	"fmt"
	"io"
)

// dynamicPuffState holds the part of a DynamicPuff that changes
// as it is stepped.
type dynamicPuffState struct {
	Mass            float64
	EffectiveHeight float64
	Time            float64
	Center, Start   Vector
	Path            []Vector
	Traveled        float64
	VirtHoriz       float64
	VirtVert        float64
	StdY, StdZ      float64
}

// Save writes the state of the puff to w so that it can be resumed
// later with LoadDynamicPuff.
func (p *DynamicPuff) Save(w io.Writer) error {
	s := dynamicPuffState{
		Mass:            p.Mass(),
		EffectiveHeight: p.EffectiveSourceHeight(),
		Time:            p.time,
		Center:          p.center,
		Start:           p.start,
		Path:            p.path,
		Traveled:        p.traveled,
		VirtHoriz:       p.virtHoriz,
		VirtVert:        p.virtVert,
		StdY:            p.stdY,
		StdZ:            p.stdZ,
	}
	if err := gob.NewEncoder(w).Encode(s); err != nil {
		return fmt.Errorf("dispersion: saving puff: %v", err)
	}
	return nil
}

// LoadDynamicPuff reads a puff previously written with Save, attaching
// it to atm and src.
func LoadDynamicPuff(r io.Reader, atm *Atmosphere, src *Source) (*DynamicPuff, error) {
	var s dynamicPuffState
	if err := gob.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("dispersion: loading puff: %v", err)
	}
	p := &DynamicPuff{
		puff:      NewPuff(atm, src, s.Mass),
		time:      s.Time,
		center:    s.Center,
		start:     s.Start,
		path:      s.Path,
		traveled:  s.Traveled,
		virtHoriz: s.VirtHoriz,
		virtVert:  s.VirtVert,
		stdY:      s.StdY,
		stdZ:      s.StdZ,
	}
	p.SetEffectiveSourceHeight(s.EffectiveHeight)
	return p, nil
}
