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

	"github.com/spatialmodel/dispersion"
)

// DirtyBomb is a bomb that disperses radioactive material.
type DirtyBomb struct {
	*Bomb
	Material *NuclearMaterial

	puff    *dispersion.DecayPuff
	dynamic *dispersion.DynamicDecayPuff
}

// DirtyBombOption sets optional DirtyBomb properties.
type DirtyBombOption func(*dirtyBombConfig)

type dirtyBombConfig struct {
	dynamic bool
	center  *dispersion.Vector
}

// Dynamic makes the material disperse as a dynamic puff that is
// advanced with Step.
func Dynamic() DirtyBombOption {
	return func(c *dirtyBombConfig) { c.dynamic = true }
}

// At sets the starting location of a dynamic puff center [m].
func At(center dispersion.Vector) DirtyBombOption {
	return func(c *dirtyBombConfig) { c.center = &center }
}

// NewDirtyBomb creates a bomb of TNT-equivalent mass [kg] exploding
// in atm and dispersing mat. If atm is nil, StandardAtmosphere is used.
func NewDirtyBomb(mat *NuclearMaterial, tntMass float64, atm *dispersion.Atmosphere,
	opts ...DirtyBombOption) (*DirtyBomb, error) {
	if mat == nil {
		return nil, fmt.Errorf("fallout: dirty bomb needs nuclear material")
	}
	b, err := NewBomb(tntMass, atm)
	if err != nil {
		return nil, err
	}
	var cfg dirtyBombConfig
	for _, o := range opts {
		o(&cfg)
	}
	db := &DirtyBomb{Bomb: b, Material: mat}
	if cfg.dynamic {
		center := dispersion.Vector{Z: b.source.Height}
		if cfg.center != nil {
			center = *cfg.center
		}
		db.dynamic = dispersion.NewDynamicDecayPuff(b.atm, b.source, mat.Mass(), mat.HalfLife(),
			dispersion.Center(center))
		db.dynamic.SetEffectiveSourceHeight(b.source.Height)
	} else {
		db.puff = dispersion.NewDecayPuff(b.atm, b.source, mat.Mass(), mat.HalfLife())
		db.puff.SetEffectiveSourceHeight(b.source.Height)
	}
	return db, nil
}

func (b *DirtyBomb) String() string {
	return fmt.Sprintf("%s dispersing %s", b.Bomb, b.Material)
}

// IsDynamic reports whether the material disperses as a dynamic puff.
func (b *DirtyBomb) IsDynamic() bool { return b.dynamic != nil }

// Puff returns the dispersion of the material, or nil if the bomb
// is dynamic.
func (b *DirtyBomb) Puff() *dispersion.DecayPuff { return b.puff }

// DynamicPuff returns the dynamic dispersion of the material, or nil
// if the bomb is not dynamic.
func (b *DirtyBomb) DynamicPuff() *dispersion.DynamicDecayPuff { return b.dynamic }
