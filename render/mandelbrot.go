package render

import (
	"math"
	"math/big"

	"github.com/lucmans/fraccert"
)

// Mandelbrot iterates z = z^2 + c from z = 0, with c the rendered point.
type Mandelbrot struct {
	params
}

var _ Fractal = (*Mandelbrot)(nil)

func NewMandelbrot() *Mandelbrot {
	return &Mandelbrot{params{
		nMax:       DefaultNMax,
		lineDetail: DefaultLineDetail,
		rMin:       -2,
		rMax:       1,
		iBase:      0,
	}}
}

func (m *Mandelbrot) Name() string { return "mandelbrot" }

func (m *Mandelbrot) CalcPixel(c complex128, shapes Shapes) uint32 {
	return m.escape(real(c), imag(c), shapes)
}

func (m *Mandelbrot) CalcDistance(c complex128, shapes Shapes, lineWidth float64) uint32 {
	return m.distance(real(c), imag(c), shapes, lineWidth)
}

func (m *Mandelbrot) CalcScreen(mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, pixels []uint32) {
	calcScreen(m, &m.params, mode, d, res, r, shapes, pixels)
}

func (m *Mandelbrot) CalcScreenBig(mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, s *Scratch, pixels []uint32) {
	calcScreenBig(m, &m.params, mode, d, res, r, shapes, s, pixels)
}

// escape is the escape-time kernel. Every product goes through an explicit
// float64 conversion so it is rounded on its own and never fused into an FMA;
// this keeps the result identical to the 53 bit math/big kernel.
func (m *Mandelbrot) escape(cr, ci float64, shapes Shapes) uint32 {
	if shapes.Contains(cr, ci) {
		return Interior
	}

	var zr, zi, zr2, zi2 float64 // zr2, zi2 cache the squares

	n := uint32(0)
	for ; n < m.nMax && zr2+zi2 <= 4.0; n++ {
		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)
	}

	return CalcColor(n, m.nMax)
}

// distance is the exterior distance estimator, propagating dz = 2*z*dz + 1.
func (m *Mandelbrot) distance(cr, ci float64, shapes Shapes, lineWidth float64) uint32 {
	if shapes.Contains(cr, ci) {
		return Interior
	}

	var zr, zi, zr2, zi2, dzr, dzi float64

	n := uint32(0)
	for ; n < m.nMax && zr2+zi2 <= 4.0; n++ {
		dzNew := 2.0*(float64(zr*dzr)-float64(zi*dzi)) + 1.0
		dzi = 2.0 * (float64(zr*dzi) + float64(zi*dzr))
		dzr = dzNew

		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)
	}

	if n == m.nMax {
		return Interior
	}

	zm := math.Sqrt(zr2 + zi2)
	dzm := math.Sqrt(float64(dzr*dzr) + float64(dzi*dzi))
	return colorDistance(float64(math.Log(zm*zm)*zm)/dzm, lineWidth)
}

func (m *Mandelbrot) escapeBig(s *Scratch, shapes Shapes) uint32 {
	if shapes.containsBig(s.px, s.py, s.shapes) {
		return Interior
	}
	s.zr.SetInt64(0)
	s.zi.SetInt64(0)
	s.zr2.SetInt64(0)
	s.zi2.SetInt64(0)

	n := s.iterate(s.px, s.py, m.nMax, false, false)
	return CalcColor(n, m.nMax)
}

func (m *Mandelbrot) distanceBig(s *Scratch, shapes Shapes, lineWidth *big.Float) uint32 {
	if shapes.containsBig(s.px, s.py, s.shapes) {
		return Interior
	}
	s.zr.SetInt64(0)
	s.zi.SetInt64(0)
	s.zr2.SetInt64(0)
	s.zi2.SetInt64(0)
	s.dzr.SetInt64(0)
	s.dzi.SetInt64(0)

	if n := s.iterate(s.px, s.py, m.nMax, true, true); n == m.nMax {
		return Interior
	}
	return s.escapedDistance(lineWidth)
}

// CalcOrbit returns 0 followed by the iterates for c.
func (m *Mandelbrot) CalcOrbit(c complex128) []complex128 {
	cr, ci := real(c), imag(c)
	orbit := []complex128{0}

	var zr, zi, zr2, zi2 float64
	for n := uint32(0); n < m.nMax && zr2+zi2 <= 4.0; n++ {
		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)

		orbit = append(orbit, complex(zr, zi))
	}
	return orbit
}
