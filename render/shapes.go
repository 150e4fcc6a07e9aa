package render

import (
	"fmt"
	"math/big"
	"strings"
)

// Shape is a region known to lie inside the Mandelbrot set. Shapes are always
// tested against the parameter c, never against later iterates.
type Shape int

const (
	// Cardioid is the main cardioid.
	Cardioid Shape = iota
	// Bulb is the period-2 disk centered at -1 with radius 1/4.
	Bulb
)

var shapeNames = map[Shape]string{
	Cardioid: "cardioid",
	Bulb:     "bulb",
}

func (s Shape) String() string {
	if n, ok := shapeNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// In reports whether x+yi lies strictly inside s.
func (s Shape) In(x, y float64) bool {
	// products are converted explicitly so they are never fused into an FMA
	switch s {
	case Cardioid:
		a := x - 0.25
		q := float64(a*a) + float64(y*y)
		return float64(q*(q+a)) < float64(y*y*0.25)
	case Bulb:
		return float64(x*x)+float64(2*x)+1+float64(y*y) < 0.0625
	}
	return false
}

// inBig is In evaluated in the precision of t.
func (s Shape) inBig(x, y *big.Float, t *shapeScratch) bool {
	switch s {
	case Cardioid:
		// q = (x-1/4)^2 + y^2
		t.a.Sub(x, t.quarter)
		t.q.Mul(t.a, t.a)
		t.b.Mul(y, y)
		t.q.Add(t.q, t.b)
		// q*(q+(x-1/4)) < y^2/4
		t.a.Add(t.q, t.a)
		t.a.Mul(t.q, t.a)
		t.b.Mul(t.b, t.quarter)
		return t.a.Cmp(t.b) < 0
	case Bulb:
		// x^2 + 2x + 1 + y^2 < 1/16
		t.a.Mul(x, x)
		t.b.Add(x, x)
		t.a.Add(t.a, t.b)
		t.a.Add(t.a, t.one)
		t.b.Mul(y, y)
		t.a.Add(t.a, t.b)
		return t.a.Cmp(t.sixteenth) < 0
	}
	return false
}

// ParseShape accepts the names printed by Shape.String.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Shapes is an ordered set of interior shortcuts. The empty set disables them.
type Shapes []Shape

// AllShapes are the shortcuts worth using for the Mandelbrot set.
var AllShapes = Shapes{Cardioid, Bulb}

func ParseShapes(names []string) (Shapes, error) {
	shapes := make(Shapes, 0, len(names))
	for _, n := range names {
		s, err := ParseShape(n)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

// Contains reports whether x+yi is inside any of the shapes.
func (ss Shapes) Contains(x, y float64) bool {
	for _, s := range ss {
		if s.In(x, y) {
			return true
		}
	}
	return false
}

func (ss Shapes) containsBig(x, y *big.Float, t *shapeScratch) bool {
	for _, s := range ss {
		if s.inBig(x, y, t) {
			return true
		}
	}
	return false
}

type shapeScratch struct {
	a, b, q                 *big.Float
	one, quarter, sixteenth *big.Float
}

func newShapeScratch(prec uint) *shapeScratch {
	f := func(v float64) *big.Float { return new(big.Float).SetPrec(prec).SetFloat64(v) }
	return &shapeScratch{
		a: f(0), b: f(0), q: f(0),
		one: f(1), quarter: f(0.25), sixteenth: f(0.0625),
	}
}
