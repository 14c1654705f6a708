// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"github.com/chewxy/math32"
)

type Vec3 struct {
	X, Y, Z float32
}

// Length returns the length of the vector
func (v Vec3) Length() float32 {
	return math32.Sqrt(Dot(v, v))
}

// Add returns a + b
func Add(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X + b.X,
		Y: a.Y + b.Y,
		Z: a.Z + b.Z,
	}
}

// Sub returns a - b
func Sub(a, b Vec3) Vec3 {
	return Vec3{
		X: a.X - b.X,
		Y: a.Y - b.Y,
		Z: a.Z - b.Z,
	}
}

// Scale returns the vector multiplied by the skalar s
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{
		X: v.X * s,
		Y: v.Y * s,
		Z: v.Z * s,
	}
}

// Normalize returns the normalized vector
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Dot returns a dot b
func Dot(a Vec3, b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// DoublePrecDot return a dot b calculated in double precision
func DoublePrecDot(a Vec3, b Vec3) float64 {
	p := func(x, y float32) float64 {
		return float64(x) * float64(y)
	}
	return p(a.X, b.X) + p(a.Y, b.Y) + p(a.Z, b.Z)
}

// Cross returns a cross b
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Mat3 is a row major rotation matrix.
type Mat3 [3]Vec3

// Identity returns the identity rotation.
func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// MulVec returns v rotated by the row vector convention v*m
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		v.X*m[0].X + v.Y*m[1].X + v.Z*m[2].X,
		v.X*m[0].Y + v.Y*m[1].Y + v.Z*m[2].Y,
		v.X*m[0].Z + v.Y*m[1].Z + v.Z*m[2].Z,
	}
}

func AngleVectors(angles Vec3) (forward, right, up Vec3) {
	deg := math32.Pi * 2 / 360
	sp, cp := math32.Sincos(angles.X * deg) // PITCH
	sy, cy := math32.Sincos(angles.Y * deg) // YAW
	sr, cr := math32.Sincos(angles.Z * deg) // ROLL

	forward = Vec3{cp * cy, cp * sy, -sp}
	right = Vec3{
		(-1*sr*sp*cy + -1*cr*-sy),
		(-1*sr*sp*sy + -1*cr*cy),
		-1 * sr * cp,
	}
	up = Vec3{
		(cr*sp*cy + -sr*-sy),
		(cr*sp*sy + -sr*cy),
		cr * cp,
	}
	return
}
