package render

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/lucmans/fraccert"
)

var (
	// ErrNMaxUnderflow is a warning: the iteration cap was clamped to 2.
	ErrNMaxUnderflow = errors.New("nMax underflow, clamped to 2")

	ErrInvalidNMax       = errors.New("invalid nMax")
	ErrInvalidLineDetail = errors.New("invalid line detail")
	ErrInvalidMode       = errors.New("invalid mode")
)

const (
	DefaultNMax       = 256
	DefaultLineDetail = 5000
	minNMax           = 2
)

// Mode selects how a screen is colored.
type Mode int

const (
	// BorderTrace colors by escape time, iterating only near color changes.
	BorderTrace Mode = iota
	// BorderTraceFast is BorderTrace that only visits a diagonal neighbor when
	// an orthogonal neighbor next to it differs. Arbitrary-precision renders
	// treat it as BorderTrace.
	BorderTraceFast
	// BruteForce iterates every pixel.
	BruteForce
	// Distance draws the boundary with exterior distance estimation.
	Distance
)

var modeNames = []string{"bordertrace", "bordertrace-fast", "bruteforce", "distance"}

func (m Mode) String() string {
	if m >= 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts the names printed by Mode.String; "" is BorderTrace.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return BorderTrace, nil
	}
	for i, n := range modeNames {
		if strings.EqualFold(n, s) {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Fractal is an escape-time fractal that can be rendered.
//
// nMax and the line detail are read at render time; callers must not change
// them while a render using the fractal is running.
type Fractal interface {
	Name() string

	NMax() uint32
	SetNMax(n uint32)
	// ChangeNMax adds delta to the iteration cap. If the result would drop
	// below 2 it is clamped to 2 and ErrNMaxUnderflow is returned.
	ChangeNMax(delta int) error
	LineDetail() float64
	SetLineDetail(d float64)

	// DefaultDomain is the view showing the whole fractal at res.
	DefaultDomain(res fraccert.Resolution) fraccert.Domain

	// CalcPixel returns the escape-time color of c.
	CalcPixel(c complex128, shapes Shapes) uint32
	// CalcDistance returns Interior for points closer than lineWidth to the
	// boundary (or inside), Exterior otherwise.
	CalcDistance(c complex128, shapes Shapes, lineWidth float64) uint32

	// CalcScreen colors range r of the res sized buffer pixels. For the border
	// trace modes the pixels in r must be zero.
	CalcScreen(mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, pixels []uint32)
	// CalcScreenBig is CalcScreen with arbitrary-precision arithmetic at s's precision.
	CalcScreenBig(mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, s *Scratch, pixels []uint32)

	// CalcOrbit returns the iterates from the starting point until escape or nMax.
	CalcOrbit(p complex128) []complex128
}

// New returns the fractal called name ("mandelbrot" or "julia") with default state.
func New(name string) (Fractal, error) {
	switch strings.ToLower(name) {
	case "", "mandelbrot":
		return NewMandelbrot(), nil
	case "julia":
		return NewJulia(DefaultJuliaC), nil
	}
	return nil, fmt.Errorf("unknown fractal %q", name)
}

// ComputeOrbit traces the orbit of p under f.
func ComputeOrbit(f Fractal, p complex128) []complex128 {
	return f.CalcOrbit(p)
}

// params is the caller controlled state both fractals share.
type params struct {
	nMax       uint32
	lineDetail float64

	// default view: real bounds and the imaginary center
	rMin, rMax, iBase float64
}

func (p *params) NMax() uint32            { return p.nMax }
func (p *params) SetNMax(n uint32)        { p.nMax = n }
func (p *params) LineDetail() float64     { return p.lineDetail }
func (p *params) SetLineDetail(d float64) { p.lineDetail = d }

func (p *params) ChangeNMax(delta int) error {
	n := int64(p.nMax) + int64(delta)
	if n <= 1 {
		Logger().Warn("nMax underflow", "nMax", p.nMax, "delta", delta, "clamped", minNMax)
		p.nMax = minNMax
		return ErrNMaxUnderflow
	}
	p.nMax = uint32(min(n, math.MaxUint32))
	return nil
}

func (p *params) DefaultDomain(res fraccert.Resolution) fraccert.Domain {
	h := (p.rMax - p.rMin) * float64(res.H) / float64(res.W) / 2
	return fraccert.Domain{RMin: p.rMin, RMax: p.rMax, IMin: p.iBase - h, IMax: p.iBase + h}
}

// kernel is the per-point work a fractal plugs into the screen functions.
// The big variants read the point from s.px, s.py.
type kernel interface {
	escape(x, y float64, shapes Shapes) uint32
	distance(x, y float64, shapes Shapes, lineWidth float64) uint32
	escapeBig(s *Scratch, shapes Shapes) uint32
	distanceBig(s *Scratch, shapes Shapes, lineWidth *big.Float) uint32
}

func calcScreen(k kernel, p *params, mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, pixels []uint32) {
	src := nativeSource{rMin: d.RMin, iMax: d.IMax, ps: d.PixelSize(res)}

	switch mode {
	case BorderTrace, BorderTraceFast:
		src.calc = func(x, y float64) uint32 { return k.escape(x, y, shapes) }
		traceBlock(pixels, res.W, r, src, mode == BorderTraceFast)
	case BruteForce:
		src.calc = func(x, y float64) uint32 { return k.escape(x, y, shapes) }
		sweepBlock(pixels, res.W, r, src)
	case Distance:
		lineWidth := (d.RMax - d.RMin) / p.lineDetail
		src.calc = func(x, y float64) uint32 { return k.distance(x, y, shapes, lineWidth) }
		sweepBlock(pixels, res.W, r, src)
	}
}

func calcScreenBig(k kernel, p *params, mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, s *Scratch, pixels []uint32) {
	src := newBigSource(d, res, s)

	switch mode {
	case BorderTrace, BorderTraceFast:
		src.calc = func(s *Scratch) uint32 { return k.escapeBig(s, shapes) }
		traceBlock(pixels, res.W, r, src, false)
	case BruteForce:
		src.calc = func(s *Scratch) uint32 { return k.escapeBig(s, shapes) }
		sweepBlock(pixels, res.W, r, src)
	case Distance:
		lineWidth := new(big.Float).SetPrec(s.prec).Sub(d.RMax, d.RMin)
		lineWidth.Quo(lineWidth, new(big.Float).SetPrec(s.prec).SetFloat64(p.lineDetail))
		src.calc = func(s *Scratch) uint32 { return k.distanceBig(s, shapes, lineWidth) }
		sweepBlock(pixels, res.W, r, src)
	}
}

// sweepBlock colors every pixel of r.
func sweepBlock(pixels []uint32, w int, r fraccert.Range, src pixelSource) {
	for y := r.YMin; y < r.YMax; y++ {
		for x := r.XMin; x < r.XMax; x++ {
			pixels[y*w+x] = src.color(x, y)
		}
	}
}
