package fraccert

import (
	"flag"
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// RenderRequest describes one render. It is the message a client sends to the
// server and also what the command line flags fill in.
type RenderRequest struct {
	Fractal  string `json:"fractal"`
	Location string `json:"location,omitempty"`

	// Explicit view; overrides Location. BigDomain holds the same bounds as
	// decimal strings (rMin, rMax, iMin, iMax) and is used when Digits > 0.
	Domain    *Domain  `json:"domain,omitempty"`
	BigDomain []string `json:"bigDomain,omitempty"`
	Digits    int      `json:"digits,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	NMax       uint32      `json:"nMax,omitempty"`
	LineDetail float64     `json:"lineDetail,omitempty"`
	JuliaC     *[2]float64 `json:"juliaC,omitempty"`

	Mode    string   `json:"mode,omitempty"`
	Shapes  []string `json:"shapes"`
	Workers int      `json:"workers,omitempty"`
	Splits  int      `json:"splits"`

	OrbitStart *[2]float64 `json:"orbitStart,omitempty"`
}

const DefaultSplits = 7

// NewRenderRequest returns a request for the home view of the Mandelbrot set
// using every CPU.
func NewRenderRequest() RenderRequest {
	return RenderRequest{
		Fractal: "mandelbrot",
		Mode:    "bordertrace",
		Shapes:  []string{"cardioid", "bulb"},
		Workers: runtime.NumCPU(),
		Splits:  DefaultSplits,
	}
}

// RegisterFlags binds the request fields to fs, with r's current values as defaults.
func (r *RenderRequest) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&r.Fractal, "fractal", r.Fractal, "fractal to render: mandelbrot or julia")
	fs.StringVar(&r.Location, "location", r.Location, fmt.Sprintf("predefined view, one of %v", LocationNames()))
	fs.Func("domain", "view as rMin,rMax,iMin,iMax (overrides -location)", func(s string) error {
		parts, vals, err := splitFloats(s, 4)
		if err != nil {
			return err
		}
		r.BigDomain = parts
		r.Domain = &Domain{RMin: vals[0], RMax: vals[1], IMin: vals[2], IMax: vals[3]}
		return nil
	})
	fs.IntVar(&r.Digits, "digits", r.Digits, "significant decimal digits; > 0 renders with arbitrary precision")
	fs.IntVar(&r.Width, "w", r.Width, "image width in pixels (0: location default)")
	fs.IntVar(&r.Height, "h", r.Height, "image height in pixels (0: location default)")
	fs.Func("nmax", "iteration cap (default: location's, else 256)", func(s string) error {
		n, err := strconv.ParseUint(s, 10, 32)
		r.NMax = uint32(n)
		return err
	})
	fs.Float64Var(&r.LineDetail, "linedetail", r.LineDetail, "distance estimation line detail (0: default 5000)")
	fs.Func("c", "Julia constant as re,im", func(s string) error {
		_, vals, err := splitFloats(s, 2)
		if err != nil {
			return err
		}
		r.JuliaC = &[2]float64{vals[0], vals[1]}
		return nil
	})
	fs.StringVar(&r.Mode, "mode", r.Mode, "coloring mode: bordertrace, bordertrace-fast, bruteforce or distance")
	fs.Func("shapes", "comma separated interior shortcuts (cardioid,bulb; empty for none)", func(s string) error {
		r.Shapes = []string{}
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				r.Shapes = append(r.Shapes, p)
			}
		}
		return nil
	})
	fs.IntVar(&r.Workers, "workers", r.Workers, "number of render workers")
	fs.IntVar(&r.Splits, "splits", r.Splits, "number of bisections; the view is cut into 2^splits blocks")
	fs.Func("orbit", "also compute the orbit starting at re,im", func(s string) error {
		_, vals, err := splitFloats(s, 2)
		if err != nil {
			return err
		}
		r.OrbitStart = &[2]float64{vals[0], vals[1]}
		return nil
	})
}

func splitFloats(s string, n int) ([]string, []float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, nil, fmt.Errorf("want %d comma separated numbers, got %q", n, s)
	}
	vals := make([]float64, n)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("parse %q: %w", parts[i], err)
		}
		vals[i] = v
	}
	return parts, vals, nil
}

type MessageType string

const (
	MsgStart MessageType = "start"
	MsgTile  MessageType = "tile"
	MsgOrbit MessageType = "orbit"
	MsgDone  MessageType = "done"
	MsgError MessageType = "error"
)

// Message is what the server streams back for a RenderRequest:
// one start with the resolved size and view, a tile per finished block,
// optionally an orbit, then done.
type Message struct {
	Type MessageType `json:"type"`

	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
	Domain *Domain `json:"domain,omitempty"`

	Tile *Range   `json:"tile,omitempty"`
	Pix  []uint32 `json:"pix,omitempty"`

	Orbit [][2]float64 `json:"orbit,omitempty"`

	ElapsedMs int64  `json:"elapsedMs,omitempty"`
	Error     string `json:"error,omitempty"`
}
