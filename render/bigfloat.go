package render

import (
	"math"
	"math/big"

	"github.com/lucmans/fraccert"
)

// Scratch holds the temporaries of the arbitrary-precision kernels so they are
// not reallocated per pixel. A Scratch must only be used by one goroutine at a
// time; parallel renders give every worker its own.
type Scratch struct {
	prec uint

	px, py *big.Float // point being evaluated
	cr, ci *big.Float // Julia constant

	zr, zi, zr2, zi2, dist *big.Float
	dzr, dzi, t, u, v      *big.Float

	one, four *big.Float

	shapes *shapeScratch
}

// NewScratch allocates temporaries with prec bits of mantissa.
func NewScratch(prec uint) *Scratch {
	s := &Scratch{prec: prec, shapes: newShapeScratch(prec)}
	for _, p := range []**big.Float{
		&s.px, &s.py, &s.cr, &s.ci,
		&s.zr, &s.zi, &s.zr2, &s.zi2, &s.dist,
		&s.dzr, &s.dzi, &s.t, &s.u, &s.v,
		&s.one, &s.four,
	} {
		*p = new(big.Float).SetPrec(prec)
	}
	s.one.SetInt64(1)
	s.four.SetInt64(4)
	return s
}

func (s *Scratch) Prec() uint { return s.prec }

// SetPoint stores the point the next kernel call evaluates.
func (s *Scratch) SetPoint(x, y *big.Float) {
	s.px.Set(x)
	s.py.Set(y)
}

// iterate runs z = z^2 + c from the current z until |z|^2 > 4 or nMax
// iterations, returning the iteration count. With dz set it also propagates
// the derivative dz = 2*z*dz (+1 when plusOne). On escape s.dist holds |z|^2.
func (s *Scratch) iterate(cr, ci *big.Float, nMax uint32, dz, plusOne bool) uint32 {
	var n uint32
	for ; n < nMax; n++ {
		s.dist.Add(s.zr2, s.zi2)
		if s.dist.Cmp(s.four) > 0 {
			break
		}

		if dz {
			// dzr' = 2*(zr*dzr - zi*dzi) (+ 1)
			s.t.Mul(s.zr, s.dzr)
			s.u.Mul(s.zi, s.dzi)
			s.t.Sub(s.t, s.u)
			s.t.Add(s.t, s.t)
			if plusOne {
				s.t.Add(s.t, s.one)
			}
			// dzi' = 2*(zr*dzi + zi*dzr)
			s.u.Mul(s.zr, s.dzi)
			s.v.Mul(s.zi, s.dzr)
			s.dzi.Add(s.u, s.v)
			s.dzi.Add(s.dzi, s.dzi)
			s.dzr.Set(s.t)
		}

		s.zi.Mul(s.zr, s.zi)
		s.zi.Add(s.zi, s.zi)
		s.zr.Sub(s.zr2, s.zi2)

		s.zr.Add(s.zr, cr)
		s.zi.Add(s.zi, ci)

		s.zr2.Mul(s.zr, s.zr)
		s.zi2.Mul(s.zi, s.zi)
	}
	return n
}

// escapedDistance estimates |z| ln|z|^2 / |dz| after an escape and compares it
// to lineWidth. |z| is small right after escaping so a double suffices for the
// logarithm; |dz| can be huge and stays big.
func (s *Scratch) escapedDistance(lineWidth *big.Float) uint32 {
	zz, _ := s.dist.Float64()
	zm := math.Sqrt(zz)
	s.t.SetFloat64(float64(math.Log(zm*zm) * zm))

	s.u.Mul(s.dzr, s.dzr)
	s.v.Mul(s.dzi, s.dzi)
	s.u.Add(s.u, s.v)
	s.u.Sqrt(s.u)

	s.t.Quo(s.t, s.u)
	if s.t.Cmp(lineWidth) < 0 {
		return Interior
	}
	return Exterior
}

// bigSource maps pixel coordinates to points at the scratch's precision.
type bigSource struct {
	rMin, iMax, ps *big.Float
	s              *Scratch
	calc           func(s *Scratch) uint32
}

func newBigSource(d fraccert.BigDomain, res fraccert.Resolution, s *Scratch) bigSource {
	ps := new(big.Float).SetPrec(s.prec).Sub(d.RMax, d.RMin)
	ps.Quo(ps, new(big.Float).SetPrec(s.prec).SetInt64(int64(res.W)))
	return bigSource{rMin: d.RMin, iMax: d.IMax, ps: ps, s: s}
}

func (b bigSource) color(x, y int) uint32 {
	// cr = rMin + x*ps, ci = iMax - y*ps
	b.s.px.SetInt64(int64(x))
	b.s.px.Mul(b.s.px, b.ps)
	b.s.px.Add(b.rMin, b.s.px)

	b.s.py.SetInt64(int64(y))
	b.s.py.Mul(b.s.py, b.ps)
	b.s.py.Sub(b.iMax, b.s.py)

	return b.calc(b.s)
}
