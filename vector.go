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

// Vector is a point or displacement in three dimensions [m or m/s].
// Vectors are values: every operation returns a new Vector and
// leaves its operands unchanged.
type Vector struct {
	X, Y, Z float64
}

// VectorFromSlice creates a vector from up to three components.
// Missing components are zero, so a single value is treated as
// wind along the x axis.
func VectorFromSlice(v []float64) Vector {
	var o Vector
	switch {
	case len(v) >= 3:
		o.Z = v[2]
		fallthrough
	case len(v) == 2:
		o.Y = v[1]
		fallthrough
	case len(v) == 1:
		o.X = v[0]
	}
	return o
}

// Slice returns the first n components of v. n <= 0 or n > 3
// returns all three.
func (v Vector) Slice(n int) []float64 {
	s := []float64{v.X, v.Y, v.Z}
	if n <= 0 || n > 3 {
		return s
	}
	return s[:n]
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// Negative returns -v.
func (v Vector) Negative() Vector {
	return Vector{-v.X, -v.Y, -v.Z}
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{v.X + w.X, v.Y + w.Y, v.Z + w.Z}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{v.X - w.X, v.Y - w.Y, v.Z - w.Z}
}

// Scale returns v multiplied by the scalar f.
func (v Vector) Scale(f float64) Vector {
	return Vector{v.X * f, v.Y * f, v.Z * f}
}

// Mul returns the component-wise product of v and w.
func (v Vector) Mul(w Vector) Vector {
	return Vector{v.X * w.X, v.Y * w.Y, v.Z * w.Z}
}

// Div returns the component-wise quotient of v and w.
func (v Vector) Div(w Vector) Vector {
	return Vector{v.X / w.X, v.Y / w.Y, v.Z / w.Z}
}

// Dot returns the dot product of v and w.
func (v Vector) Dot(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of v and w.
func (v Vector) Cross(w Vector) Vector {
	return Vector{
		v.Y*w.Z - v.Z*w.Y,
		v.Z*w.X - v.X*w.Z,
		v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the Euclidean norm of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length. The zero vector has no
// direction and is returned unchanged.
func (v Vector) Unit() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Min returns the smallest component of v.
func (v Vector) Min() float64 {
	return math.Min(math.Min(v.X, v.Y), v.Z)
}

// Max returns the largest component of v.
func (v Vector) Max() float64 {
	return math.Max(math.Max(v.X, v.Y), v.Z)
}

// AngleTo returns the angle between v and w [radians].
func (v Vector) AngleTo(w Vector) float64 {
	return math.Acos(v.Dot(w) / (v.Length() * w.Length()))
}

// Equals reports whether all components of v and w are equal.
func (v Vector) Equals(w Vector) bool {
	return v.X == w.X && v.Y == w.Y && v.Z == w.Z
}

// MinVec returns the component-wise minimum of a and b.
func MinVec(a, b Vector) Vector {
	return Vector{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// MaxVec returns the component-wise maximum of a and b.
func MaxVec(a, b Vector) Vector {
	return Vector{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Lerp linearly interpolates between a (fraction 0) and b (fraction 1).
func Lerp(a, b Vector, fraction float64) Vector {
	return b.Sub(a).Scale(fraction).Add(a)
}
