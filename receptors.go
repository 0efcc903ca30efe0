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
	"io/ioutil"
	"math"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// Receptor is a location where concentrations are recorded.
type Receptor struct {
	geom.Point
	Name   string
	Height float64 // above ground [m]
}

// Receptors is a spatially indexed set of receptors.
type Receptors struct {
	index *rtree.Rtree
	list  []*Receptor
}

// NewReceptors initializes a new receptor holder.
func NewReceptors() *Receptors {
	return &Receptors{index: rtree.NewTree(25, 50)}
}

// Add adds receptors to r.
func (r *Receptors) Add(recs ...*Receptor) {
	for _, rec := range recs {
		r.index.Insert(rec)
		r.list = append(r.list, rec)
	}
}

// List returns all receptors in the order they were added.
func (r *Receptors) List() []*Receptor { return r.list }

// Len returns the number of receptors.
func (r *Receptors) Len() int { return len(r.list) }

// Within returns the receptors inside b.
func (r *Receptors) Within(b *geom.Bounds) []*Receptor {
	var o []*Receptor
	for _, i := range r.index.SearchIntersect(b) {
		o = append(o, i.(*Receptor))
	}
	return o
}

// Local converts map coordinates into the downwind frame described
// by g. Reprojection is not undone.
func (g *Georeference) Local(x, y float64) (float64, float64) {
	u := Vector{X: g.Wind.X, Y: g.Wind.Y}
	if u.Length() == 0 {
		u = Vector{X: 1}
	} else {
		u = u.Unit()
	}
	dx, dy := x-g.X, y-g.Y
	return u.X*dx + u.Y*dy, -u.Y*dx + u.X*dy
}

// Concentrations returns the concentration from c at each receptor.
// If ref is nil, the receptor coordinates are taken to already be in
// the downwind frame.
func (r *Receptors) Concentrations(c Concentrator, ref *Georeference) []float64 {
	o := make([]float64, len(r.list))
	for i, rec := range r.list {
		x, y := rec.X, rec.Y
		if ref != nil {
			x, y = ref.Local(x, y)
		}
		o[i] = c.Concentration(x, y, rec.Height)
	}
	return o
}

type receptorRecord struct {
	geom.Geom
	Name   string
	Height float64
}

// ReadReceptorShapefile reads point receptors from a shapefile with
// optional "Name" and "Height" fields. If projection, in Proj4 or
// WKT format, is not empty, the receptors are converted to it.
func ReadReceptorShapefile(fileName, projection string) (*Receptors, error) {
	fileName = strings.TrimSuffix(fileName, ".shp")
	f, err := shp.NewDecoder(fileName + ".shp")
	if err != nil {
		return nil, fmt.Errorf("dispersion: opening receptor shapefile '%s': %v", fileName, err)
	}
	defer f.Close()

	var trans proj.Transformer
	if projection != "" {
		dst, err := proj.Parse(projection)
		if err != nil {
			return nil, fmt.Errorf("dispersion: parsing receptor projection: %v", err)
		}
		src, err := f.SR()
		if err != nil {
			return nil, fmt.Errorf("dispersion: reading projection of receptor shapefile '%s': %v", fileName, err)
		}
		if trans, err = src.NewTransform(dst); err != nil {
			return nil, fmt.Errorf("dispersion: creating reprojector for receptor shapefile '%s': %v", fileName, err)
		}
	}

	o := NewReceptors()
	for {
		var rec receptorRecord
		if ok := f.DecodeRow(&rec); !ok {
			break
		}
		if trans != nil {
			if rec.Geom, err = rec.Transform(trans); err != nil {
				return nil, fmt.Errorf("dispersion: reprojecting receptor: %v", err)
			}
		}
		p, ok := rec.Geom.(geom.Point)
		if !ok {
			return nil, fmt.Errorf("dispersion: receptor %d in '%s' is a %T; it must be a point", o.Len(), fileName, rec.Geom)
		}
		if math.IsNaN(rec.Height) {
			rec.Height = 0
		}
		name := strings.Trim(rec.Name, "\x00 ")
		o.Add(&Receptor{Point: p, Name: name, Height: rec.Height})
	}
	if err := f.Error(); err != nil {
		return nil, fmt.Errorf("dispersion: reading receptor shapefile '%s': %v", fileName, err)
	}
	return o, nil
}

// ReadReceptorGeoJSON reads ground-level receptors from a GeoJSON
// Point or MultiPoint geometry. The vertices of a LineString are
// read as a transect of receptors.
func ReadReceptorGeoJSON(r io.Reader) (*Receptors, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("dispersion: reading receptor GeoJSON: %v", err)
	}
	g, err := geojson.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("dispersion: decoding receptor GeoJSON: %v", err)
	}
	o := NewReceptors()
	switch t := g.(type) {
	case geom.Point:
		o.Add(&Receptor{Point: t})
	case geom.MultiPoint:
		for _, p := range t {
			o.Add(&Receptor{Point: p})
		}
	case geom.LineString:
		for _, p := range t {
			o.Add(&Receptor{Point: p})
		}
	default:
		return nil, fmt.Errorf("dispersion: invalid receptor geometry type %T", g)
	}
	return o, nil
}

// PathGeoJSON returns the course of the puff center, starting at the
// release location, as a GeoJSON LineString. If ref is not nil, the
// course is placed on the map it describes.
func (p *DynamicPuff) PathGeoJSON(ref *Georeference) ([]byte, error) {
	var l geom.LineString
	l = append(l, geom.Point{X: p.start.X, Y: p.start.Y})
	for _, v := range p.path {
		l = append(l, geom.Point{X: v.X, Y: v.Y})
	}
	var g geom.Geom = l
	if ref != nil {
		trans, err := ref.Transformer()
		if err != nil {
			return nil, err
		}
		if g, err = l.Transform(trans); err != nil {
			return nil, fmt.Errorf("dispersion: georeferencing path: %v", err)
		}
	}
	return geojson.Encode(g)
}
