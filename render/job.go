package render

import (
	"fmt"
	"runtime"

	"github.com/lucmans/fraccert"
)

// Job is a RenderRequest resolved against the predefined locations and defaults.
type Job struct {
	Fractal   Fractal
	Mode      Mode
	// Domain is BigDomain rounded to doubles when the request gave exact bounds.
	Domain    fraccert.Domain
	BigDomain *fraccert.BigDomain // set for arbitrary-precision renders
	Res       fraccert.Resolution
	Shapes    Shapes
	Workers   int
	Splits    int

	OrbitStart *complex128
}

// NewJob validates req and fills in what it leaves out: the location's view,
// else the fractal's default view at 1920x1080 and nMax 256. A job returned
// without error renders without error.
func NewJob(req fraccert.RenderRequest) (*Job, error) {
	f, err := New(req.Fractal)
	if err != nil {
		return nil, err
	}
	if j, ok := f.(*Julia); ok && req.JuliaC != nil {
		j.SetC(complex(req.JuliaC[0], req.JuliaC[1]))
	}

	job := &Job{Fractal: f, Workers: req.Workers, Splits: req.Splits}
	if job.Workers == 0 {
		job.Workers = runtime.NumCPU()
	}

	var loc *fraccert.Location
	if req.Location != "" {
		l, err := fraccert.LocationByName(req.Location)
		if err != nil {
			return nil, err
		}
		loc = &l
	}

	job.Res = fraccert.AverageRes
	if loc != nil {
		job.Res = loc.Res
	}
	if req.Width != 0 {
		job.Res.W = req.Width
	}
	if req.Height != 0 {
		job.Res.H = req.Height
	}
	if err := job.Res.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.Domain != nil:
		job.Domain = *req.Domain
	case loc != nil:
		job.Domain = loc.Domain
	default:
		job.Domain = f.DefaultDomain(job.Res)
	}

	if req.Digits > 0 {
		prec, err := fraccert.PrecisionForDigits(req.Digits)
		if err != nil {
			return nil, err
		}
		switch len(req.BigDomain) {
		case 0:
			if err := job.Domain.Validate(); err != nil {
				return nil, err
			}
			bd := job.Domain.Big(prec)
			job.BigDomain = &bd
		case 4:
			// The exact bounds win over req.Domain, which may have rounded
			// them to a single double.
			bd, err := fraccert.ParseBigDomain(req.BigDomain[0], req.BigDomain[1], req.BigDomain[2], req.BigDomain[3], prec)
			if err != nil {
				return nil, err
			}
			job.BigDomain = &bd
			job.Domain = bd.Float64()
		default:
			return nil, fmt.Errorf("%w: want 4 bounds, got %d", fraccert.ErrInvalidDomain, len(req.BigDomain))
		}
	} else if err := job.Domain.Validate(); err != nil {
		return nil, err
	}

	switch {
	case req.NMax > 0:
		f.SetNMax(req.NMax)
	case loc != nil:
		f.SetNMax(loc.NMax)
	}
	if req.LineDetail != 0 {
		f.SetLineDetail(req.LineDetail)
	}

	if job.Mode, err = ParseMode(req.Mode); err != nil {
		return nil, err
	}
	if job.Shapes, err = ParseShapes(req.Shapes); err != nil {
		return nil, err
	}

	if req.OrbitStart != nil {
		p := complex(req.OrbitStart[0], req.OrbitStart[1])
		job.OrbitStart = &p
	}

	if err := job.Renderer(nil).validate(f, job.Mode, job.Res, job.Res.Full()); err != nil {
		return nil, err
	}
	return job, nil
}

// Renderer returns the renderer the job runs with.
func (j *Job) Renderer(onTile func(tile fraccert.Range, pixels []uint32)) Renderer {
	return Renderer{Workers: j.Workers, Splits: j.Splits, OnTileRender: onTile}
}

// Run renders the full resolution, in arbitrary precision if the job has a BigDomain.
func (j *Job) Run(onTile func(tile fraccert.Range, pixels []uint32)) ([]uint32, error) {
	rd := j.Renderer(onTile)
	if j.BigDomain != nil {
		return rd.RenderBig(j.Fractal, j.Mode, *j.BigDomain, j.Res, j.Res.Full(), j.Shapes)
	}
	return rd.Render(j.Fractal, j.Mode, j.Domain, j.Res, j.Res.Full(), j.Shapes)
}

// Orbit is the orbit of OrbitStart, or nil.
func (j *Job) Orbit() []complex128 {
	if j.OrbitStart == nil {
		return nil
	}
	return ComputeOrbit(j.Fractal, *j.OrbitStart)
}
