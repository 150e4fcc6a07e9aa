// Package overlay draws orbits on top of rendered fractal images.
package overlay

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/lucmans/fraccert"
)

// Style of the orbit polyline and its start marker.
type Style struct {
	R, G, B   float64
	LineWidth float64
	Marker    float64 // radius of the start marker in pixels, 0 for none
}

var DefaultStyle = Style{R: 1, G: 1, B: 1, LineWidth: 1.5, Marker: 3}

// ToPixel maps point p of domain d to (sub)pixel coordinates of a res sized image.
func ToPixel(d fraccert.Domain, res fraccert.Resolution, p complex128) (x, y float64) {
	ps := d.PixelSize(res)
	return (real(p) - d.RMin) / ps, (d.IMax - imag(p)) / ps
}

// DrawOrbit strokes orbit over img, which shows domain d at resolution res,
// and returns the result. img is not modified. Deep zooms whose domain
// rounds to a point in double precision have no pixel mapping and give
// ErrInvalidDomain.
func DrawOrbit(img image.Image, d fraccert.Domain, res fraccert.Resolution, orbit []complex128, st Style) (image.Image, error) {
	if len(orbit) > 0 {
		if err := d.Validate(); err != nil {
			return nil, err
		}
	}

	dc := gg.NewContextForImage(img)
	defer dc.Close()

	if len(orbit) == 0 {
		return dc.Image(), nil
	}

	dc.SetRGB(st.R, st.G, st.B)
	dc.SetLineWidth(st.LineWidth)

	x, y := ToPixel(d, res, orbit[0])
	if len(orbit) > 1 {
		dc.MoveTo(x, y)
		for _, p := range orbit[1:] {
			dc.LineTo(ToPixel(d, res, p))
		}
		if err := dc.Stroke(); err != nil {
			return nil, err
		}
	}

	if st.Marker > 0 {
		dc.DrawCircle(x, y, st.Marker)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}
	if err := dc.FlushGPU(); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}
