package render

import (
	"math"
	"math/big"

	"github.com/lucmans/fraccert"
)

var DefaultJuliaC = complex(-0.4, 0.6)

// Julia iterates z = z^2 + c from the rendered point, with c fixed.
// The interior shapes describe the Mandelbrot set and are ignored.
type Julia struct {
	params
	c complex128
}

var _ Fractal = (*Julia)(nil)

func NewJulia(c complex128) *Julia {
	return &Julia{
		params: params{
			nMax:       DefaultNMax,
			lineDetail: DefaultLineDetail,
			rMin:       -2,
			rMax:       2,
			iBase:      0,
		},
		c: c,
	}
}

func (j *Julia) Name() string { return "julia" }

func (j *Julia) C() complex128     { return j.c }
func (j *Julia) SetC(c complex128) { j.c = c }

// MoveC shifts the constant by dx+dy·i.
func (j *Julia) MoveC(dx, dy float64) {
	j.c += complex(dx, dy)
}

func (j *Julia) CalcPixel(z0 complex128, _ Shapes) uint32 {
	return j.escape(real(z0), imag(z0), nil)
}

func (j *Julia) CalcDistance(z0 complex128, _ Shapes, lineWidth float64) uint32 {
	return j.distance(real(z0), imag(z0), nil, lineWidth)
}

func (j *Julia) CalcScreen(mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, pixels []uint32) {
	calcScreen(j, &j.params, mode, d, res, r, shapes, pixels)
}

func (j *Julia) CalcScreenBig(mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, s *Scratch, pixels []uint32) {
	calcScreenBig(j, &j.params, mode, d, res, r, shapes, s, pixels)
}

func (j *Julia) escape(x, y float64, _ Shapes) uint32 {
	cr, ci := real(j.c), imag(j.c)
	zr, zi := x, y
	zr2, zi2 := float64(x*x), float64(y*y)

	// Points outside radius 2 are not part of the set, so shouldn't be black
	if zr2+zi2 > 4.0 {
		return CalcColor(1, j.nMax)
	}

	n := uint32(0)
	for ; n < j.nMax && zr2+zi2 <= 4.0; n++ {
		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)
	}

	return CalcColor(n, j.nMax)
}

// distance propagates dz = 2*z*dz from dz = 1.
func (j *Julia) distance(x, y float64, _ Shapes, lineWidth float64) uint32 {
	cr, ci := real(j.c), imag(j.c)
	zr, zi := x, y
	zr2, zi2 := float64(x*x), float64(y*y)
	dzr, dzi := 1.0, 0.0

	n := uint32(0)
	for ; n < j.nMax && zr2+zi2 <= 4.0; n++ {
		dzNew := 2.0 * (float64(zr*dzr) - float64(zi*dzi))
		dzi = 2.0 * (float64(zr*dzi) + float64(zi*dzr))
		dzr = dzNew

		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)
	}

	if n == j.nMax {
		return Interior
	}

	zm := math.Sqrt(zr2 + zi2)
	dzm := math.Sqrt(float64(dzr*dzr) + float64(dzi*dzi))
	return colorDistance(float64(math.Log(zm*zm)*zm)/dzm, lineWidth)
}

func (j *Julia) loadBig(s *Scratch) {
	s.cr.SetFloat64(real(j.c))
	s.ci.SetFloat64(imag(j.c))
	s.zr.Set(s.px)
	s.zi.Set(s.py)
	s.zr2.Mul(s.zr, s.zr)
	s.zi2.Mul(s.zi, s.zi)
}

func (j *Julia) escapeBig(s *Scratch, _ Shapes) uint32 {
	j.loadBig(s)

	s.dist.Add(s.zr2, s.zi2)
	if s.dist.Cmp(s.four) > 0 {
		return CalcColor(1, j.nMax)
	}

	n := s.iterate(s.cr, s.ci, j.nMax, false, false)
	return CalcColor(n, j.nMax)
}

func (j *Julia) distanceBig(s *Scratch, _ Shapes, lineWidth *big.Float) uint32 {
	j.loadBig(s)
	s.dzr.SetInt64(1)
	s.dzi.SetInt64(0)

	if n := s.iterate(s.cr, s.ci, j.nMax, true, false); n == j.nMax {
		return Interior
	}
	return s.escapedDistance(lineWidth)
}

// CalcOrbit returns z0 followed by its iterates.
func (j *Julia) CalcOrbit(z0 complex128) []complex128 {
	cr, ci := real(j.c), imag(j.c)
	orbit := []complex128{z0}

	zr, zi := real(z0), imag(z0)
	zr2, zi2 := float64(zr*zr), float64(zi*zi)
	for n := uint32(0); n < j.nMax && zr2+zi2 <= 4.0; n++ {
		zi = float64(zr*zi*2.0) + ci
		zr = zr2 - zi2 + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)

		orbit = append(orbit, complex(zr, zi))
	}
	return orbit
}
