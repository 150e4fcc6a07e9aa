package fraccert

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidRange      = errors.New("invalid range")
	ErrInvalidPrecision  = errors.New("invalid precision")
)

// Domain is the visible region of the complex plane
type Domain struct {
	RMin float64 `json:"rMin"`
	RMax float64 `json:"rMax"`
	IMin float64 `json:"iMin"`
	IMax float64 `json:"iMax"`
}

// Validate reports ErrInvalidDomain unless RMin < RMax and IMin < IMax.
func (d Domain) Validate() error {
	// negated so that NaN bounds are rejected too
	if !(d.RMin < d.RMax) || !(d.IMin < d.IMax) {
		return fmt.Errorf("%w: [%g,%g]x[%g,%g]", ErrInvalidDomain, d.RMin, d.RMax, d.IMin, d.IMax)
	}
	return nil
}

// PixelSize is the side of one (square) pixel when the domain spans res.W pixels.
func (d Domain) PixelSize(res Resolution) float64 {
	return (d.RMax - d.RMin) / float64(res.W)
}

// Big lifts d to arbitrary precision with prec mantissa bits.
func (d Domain) Big(prec uint) BigDomain {
	f := func(x float64) *big.Float { return new(big.Float).SetPrec(prec).SetFloat64(x) }
	return BigDomain{RMin: f(d.RMin), RMax: f(d.RMax), IMin: f(d.IMin), IMax: f(d.IMax)}
}

// BigDomain is a Domain with arbitrary-precision bounds.
// Render calls only read the bounds.
type BigDomain struct {
	RMin, RMax *big.Float
	IMin, IMax *big.Float
}

// ParseBigDomain parses the four bounds as decimal strings with prec bits of mantissa.
func ParseBigDomain(rMin, rMax, iMin, iMax string, prec uint) (BigDomain, error) {
	if prec == 0 {
		return BigDomain{}, fmt.Errorf("%w: 0 bits", ErrInvalidPrecision)
	}
	var d BigDomain
	for _, b := range []struct {
		dst **big.Float
		s   string
	}{{&d.RMin, rMin}, {&d.RMax, rMax}, {&d.IMin, iMin}, {&d.IMax, iMax}} {
		f, _, err := big.ParseFloat(b.s, 10, prec, big.ToNearestEven)
		if err != nil {
			return BigDomain{}, fmt.Errorf("parse bound %q: %w", b.s, err)
		}
		*b.dst = f
	}
	return d, d.Validate()
}

func (d BigDomain) Validate() error {
	if d.RMin == nil || d.RMax == nil || d.IMin == nil || d.IMax == nil {
		return fmt.Errorf("%w: missing bound", ErrInvalidDomain)
	}
	if d.RMin.Cmp(d.RMax) >= 0 || d.IMin.Cmp(d.IMax) >= 0 {
		return fmt.Errorf("%w: [%s,%s]x[%s,%s]", ErrInvalidDomain,
			d.RMin.Text('g', 10), d.RMax.Text('g', 10), d.IMin.Text('g', 10), d.IMax.Text('g', 10))
	}
	return nil
}

// Prec returns the largest precision among the bounds.
func (d BigDomain) Prec() uint {
	var p uint
	for _, f := range []*big.Float{d.RMin, d.RMax, d.IMin, d.IMax} {
		if f != nil && f.Prec() > p {
			p = f.Prec()
		}
	}
	return p
}

// Float64 rounds the bounds to the nearest doubles.
func (d BigDomain) Float64() Domain {
	f := func(x *big.Float) float64 { v, _ := x.Float64(); return v }
	return Domain{RMin: f(d.RMin), RMax: f(d.RMax), IMin: f(d.IMin), IMax: f(d.IMax)}
}

// PrecisionForDigits converts a budget of significant decimal digits to mantissa bits.
// Anything below 64 bits would be worse than a double, so 64 is the floor.
func PrecisionForDigits(digits int) (uint, error) {
	if digits <= 0 {
		return 0, fmt.Errorf("%w: %d digits", ErrInvalidPrecision, digits)
	}
	bits := uint(math.Ceil(float64(digits) * math.Log2(10)))
	return max(bits, 64), nil
}

// Resolution of the full pixel grid
type Resolution struct {
	W, H int
}

func (r Resolution) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidResolution, r.W, r.H)
	}
	return nil
}

// Full is the range covering the whole grid.
func (r Resolution) Full() Range {
	return Range{XMin: 0, XMax: r.W, YMin: 0, YMax: r.H}
}

// Range is a half-open pixel rectangle [XMin,XMax)x[YMin,YMax) of the full grid.
type Range struct {
	XMin int `json:"xMin"`
	XMax int `json:"xMax"`
	YMin int `json:"yMin"`
	YMax int `json:"yMax"`
}

func (r Range) Dx() int { return r.XMax - r.XMin }
func (r Range) Dy() int { return r.YMax - r.YMin }

// Empty reports whether r contains no pixels.
func (r Range) Empty() bool { return r.XMin >= r.XMax || r.YMin >= r.YMax }

// Pixels is the number of pixels in r.
func (r Range) Pixels() int {
	if r.Empty() {
		return 0
	}
	return r.Dx() * r.Dy()
}

// Validate checks that r is non-empty and lies within res.
func (r Range) Validate(res Resolution) error {
	if r.Empty() || r.XMin < 0 || r.YMin < 0 || r.XMax > res.W || r.YMax > res.H {
		return fmt.Errorf("%w: [%d,%d)x[%d,%d) in %dx%d", ErrInvalidRange, r.XMin, r.XMax, r.YMin, r.YMax, res.W, res.H)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.XMin, r.XMax, r.YMin, r.YMax)
}
