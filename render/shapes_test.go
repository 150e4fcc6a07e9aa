package render

import (
	"math"
	"math/big"
	"testing"
)

func TestShapeIn(t *testing.T) {
	tests := []struct {
		x, y           float64
		cardioid, bulb bool
	}{
		{0, 0, true, false},
		{-0.5, 0, true, false},
		{0.2, 0.3, true, false},
		{0.25, 0, false, false}, // cusp, not strictly inside
		{0.3, 0, false, false},
		{-1, 0, false, true},
		{-1.2, 0, false, true},
		{-1.3, 0, false, false},
		{-1, 0.3, false, false},
		{-0.75, 0.1, false, false},
		{0.5, 0.5, false, false},
	}
	for _, tt := range tests {
		if got := Cardioid.In(tt.x, tt.y); got != tt.cardioid {
			t.Errorf("Cardioid.In(%g, %g) = %t", tt.x, tt.y, got)
		}
		if got := Bulb.In(tt.x, tt.y); got != tt.bulb {
			t.Errorf("Bulb.In(%g, %g) = %t", tt.x, tt.y, got)
		}
		if got := AllShapes.Contains(tt.x, tt.y); got != (tt.cardioid || tt.bulb) {
			t.Errorf("AllShapes.Contains(%g, %g) = %t", tt.x, tt.y, got)
		}
		if (Shapes{}).Contains(tt.x, tt.y) {
			t.Errorf("empty Shapes contains (%g, %g)", tt.x, tt.y)
		}
	}
}

func TestShapeInBig(t *testing.T) {
	s := newShapeScratch(53)
	x, y := new(big.Float).SetPrec(53), new(big.Float).SetPrec(53)
	for i := -100; i <= 40; i++ {
		for j := -50; j <= 50; j++ {
			cr, ci := float64(i)/40, float64(j)/40
			x.SetFloat64(cr)
			y.SetFloat64(ci)
			for _, sh := range AllShapes {
				if got, want := sh.inBig(x, y, s), sh.In(cr, ci); got != want {
					t.Errorf("%s.inBig(%g, %g) = %t, In = %t", sh, cr, ci, got, want)
				}
			}
		}
	}
}

func TestShapeShortcut(t *testing.T) {
	m := NewMandelbrot()
	// Without the shortcut this would iterate 2^32 times.
	m.SetNMax(math.MaxUint32)
	for _, c := range []complex128{0, -0.1 + 0.1i, -1, -1.1 - 0.05i} {
		if got := m.CalcPixel(c, AllShapes); got != Interior {
			t.Errorf("CalcPixel(%v) = %#08x, want Interior", c, got)
		}
	}
}

func TestParseShapes(t *testing.T) {
	got, err := ParseShapes([]string{"bulb", "Cardioid"})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Shapes{Bulb, Cardioid}, got)

	if _, err := ParseShapes([]string{"cardioid", "square"}); err == nil {
		t.Error("parsed an unknown shape")
	}
	if s := Shape(7).String(); s != "Shape(7)" {
		t.Errorf("String() = %q", s)
	}
}
