// SPDX-License-Identifier: GPL-2.0-or-later

// Package fwdiff walks the squared distance between a point light and the
// texels of a planar grid with forward differences.
//
// The squared distance is a quadratic in the texel column u and row v:
//
//	f(u, v) = |d + u*su + v*sv|²
//
// so after setup every texel costs one addition for the value and one for
// the first difference. Coefficients are kept in float64 and each row
// restarts from a direct evaluation. Values are fixed-point, scaled so that
// One is the squared falloff radius.
package fwdiff

import (
	"math"

	qmath "lightmix/math"
	"lightmix/math/vec"
)

// One is the fixed-point value of the squared falloff radius. Values at or
// above One are out of range.
const (
	OneLog2 = 28
	One     = int64(1) << OneLog2
)

// FracBits is the extra precision an Evaluator carries below One while it
// accumulates differences along a row.
const FracBits = 12

// Rows that may hold values at or above maxDirect, in units of One, do not
// fit the extended accumulator and are evaluated texel by texel.
const maxDirect = float64(int64(1) << (61 - FracBits))

// Quadratic holds the coefficients of the squared distance over a region,
// scaled so that One is the squared falloff:
//
//	f = c + bu*u + bv*v + auu*u² + avv*v² + auv*u*v
type Quadratic struct {
	c, bu, bv, auu, avv, auv float64
}

func toFixed(f float64) int64 {
	return qmath.RoundToInt(f)
}

// New sets up the walk of a region whose first texel center is at origin,
// stepping stepU per column and stepV per row. falloff must be positive.
func New(origin, stepU, stepV, light vec.Vec3, falloff float32) Quadratic {
	d := vec.Sub(origin, light)
	factor := float64(One) / (float64(falloff) * float64(falloff))

	uu := vec.DoublePrecDot(stepU, stepU)
	vv := vec.DoublePrecDot(stepV, stepV)
	uv := vec.DoublePrecDot(stepU, stepV)
	ud := vec.DoublePrecDot(stepU, d)
	vd := vec.DoublePrecDot(stepV, d)
	dd := vec.DoublePrecDot(d, d)

	return Quadratic{
		c:   dd * factor,
		bu:  2 * ud * factor,
		bv:  2 * vd * factor,
		auu: uu * factor,
		avv: vv * factor,
		auv: 2 * uv * factor,
	}
}

// At evaluates the quadratic directly, without accumulation error.
func (q Quadratic) At(u, v float64) float64 {
	return q.c + q.bu*u + q.bv*v + q.auu*u*u + q.avv*v*v + q.auv*u*v
}

// minOnSegment returns the minimum of g(t) = a*t² + b*t + c for t in [0, n].
func minOnSegment(a, b, c, n float64) float64 {
	g := func(t float64) float64 { return a*t*t + b*t + c }
	m := min(g(0), g(n))
	if a > 0 {
		if t := -b / (2 * a); t > 0 && t < n {
			m = min(m, g(t))
		}
	}
	return m
}

// Min returns the smallest scaled squared distance over a w×h texel region.
func (q Quadratic) Min(w, h int) float64 {
	if w <= 0 || h <= 0 {
		return math.Inf(1)
	}
	mu := float64(w - 1)
	mv := float64(h - 1)
	// edges v = 0, v = mv, u = 0, u = mu
	m := minOnSegment(q.auu, q.bu, q.c, mu)
	m = min(m, minOnSegment(q.auu, q.bu+q.auv*mv, q.c+q.bv*mv+q.avv*mv*mv, mu))
	m = min(m, minOnSegment(q.avv, q.bv, q.c, mv))
	m = min(m, minOnSegment(q.avv, q.bv+q.auv*mu, q.c+q.bu*mu+q.auu*mu*mu, mv))
	// interior stationary point
	det := 4*q.auu*q.avv - q.auv*q.auv
	if det > 0 {
		u := (q.auv*q.bv - 2*q.avv*q.bu) / det
		v := (q.auv*q.bu - 2*q.auu*q.bv) / det
		if u > 0 && u < mu && v > 0 && v < mv {
			m = min(m, q.At(u, v))
		}
	}
	return m
}

// Reaches reports whether any texel of a w×h region is inside the falloff.
func (q Quadratic) Reaches(w, h int) bool {
	return q.Min(w, h) < float64(One)
}

// Evaluator produces the values of a Quadratic in row major order.
// Every row starts from the exact value of its first texel, so rounding
// does not carry from one row to the next.
type Evaluator struct {
	q    *Quadratic
	w    int
	u, v int

	direct      bool // row too far out for the accumulator
	l2, du, ddu int64
}

// Start returns an evaluator positioned at texel (0, 0) of a region w
// texels wide.
func (q *Quadratic) Start(w int) Evaluator {
	e := Evaluator{q: q, w: w}
	e.startRow()
	return e
}

func (e *Evaluator) startRow() {
	q := e.q
	v := float64(e.v)
	e.u = 0
	first := q.At(0, v)
	last := q.At(float64(e.w), v)
	e.direct = max(first, last, 2*q.auu) >= maxDirect
	if e.direct {
		e.l2 = e.directValue()
		return
	}
	const scale = 1 << FracBits
	e.l2 = toFixed(first * scale)
	e.du = toFixed((q.auu + q.bu + q.auv*v) * scale)
	e.ddu = toFixed(2 * q.auu * scale)
}

func (e *Evaluator) directValue() int64 {
	f := min(e.q.At(float64(e.u), float64(e.v)), float64(4*One))
	return toFixed(f) << FracBits
}

// Value is the fixed-point squared distance of the current texel.
func (e *Evaluator) Value() int64 {
	return e.l2 >> FracBits
}

// InRange reports whether the current texel is closer than the falloff.
func (e *Evaluator) InRange() bool {
	return e.l2 < One<<FracBits
}

// Next moves to the next texel of the row.
func (e *Evaluator) Next() {
	e.u++
	if e.direct {
		e.l2 = e.directValue()
		return
	}
	e.l2 += e.du
	e.du += e.ddu
}

// NextRow moves to the first texel of the following row.
func (e *Evaluator) NextRow() {
	e.v++
	e.startRow()
}
