package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/lucmans/fraccert"
)

var (
	ErrInvalidWorkers = errors.New("invalid worker count")
	ErrInvalidSplits  = errors.New("invalid split count")
)

// MaxSplits bounds the bisection depth (2^MaxSplits blocks).
const MaxSplits = 20

// Split bisects r splits times. Each step halves every block along its longer
// axis (the vertical one on ties), so the result is 2^splits disjoint blocks
// covering r. Blocks narrower than 2^splits pixels come out empty.
func Split(r fraccert.Range, splits int) []fraccert.Range {
	blocks := []fraccert.Range{r}
	for range splits {
		next := make([]fraccert.Range, 0, 2*len(blocks))
		for _, b := range blocks {
			if b.Dx() > b.Dy() {
				mid := b.XMin + b.Dx()/2
				next = append(next,
					fraccert.Range{XMin: b.XMin, XMax: mid, YMin: b.YMin, YMax: b.YMax},
					fraccert.Range{XMin: mid, XMax: b.XMax, YMin: b.YMin, YMax: b.YMax})
			} else {
				mid := b.YMin + b.Dy()/2
				next = append(next,
					fraccert.Range{XMin: b.XMin, XMax: b.XMax, YMin: b.YMin, YMax: mid},
					fraccert.Range{XMin: b.XMin, XMax: b.XMax, YMin: mid, YMax: b.YMax})
			}
		}
		blocks = next
	}
	return blocks
}

// blockQueue hands out blocks in order, each exactly once.
type blockQueue struct {
	blocks []fraccert.Range
	next   int
	m      sync.Mutex
}

func (q *blockQueue) pop() (block fraccert.Range, found bool) {
	q.m.Lock()
	defer q.m.Unlock()

	if q.next >= len(q.blocks) {
		return fraccert.Range{}, false
	}
	block = q.blocks[q.next]
	q.next++
	return block, true
}

// Renderer renders a range with a pool of workers started for each call.
// The range is bisected Splits times and the workers pull blocks until none
// are left. Blocks are traced independently, so the result depends on Splits
// but not on Workers.
type Renderer struct {
	Workers int
	Splits  int

	// OnTileRender, if set, is called by the worker that finished a block,
	// with the shared buffer. It may read the block's pixels, nothing else,
	// and runs concurrently with the other workers.
	OnTileRender func(tile fraccert.Range, pixels []uint32)
}

// Render is a single-threaded render of range r without splitting.
func Render(f Fractal, mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes) ([]uint32, error) {
	return Renderer{Workers: 1}.Render(f, mode, d, res, r, shapes)
}

// ParallelRender renders r with workers goroutines over 2^splits blocks.
func ParallelRender(f Fractal, mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, workers, splits int) ([]uint32, error) {
	return Renderer{Workers: workers, Splits: splits}.Render(f, mode, d, res, r, shapes)
}

// ParallelRenderBig is ParallelRender in arbitrary precision, at the largest
// precision among d's bounds.
func ParallelRenderBig(f Fractal, mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes, workers, splits int) ([]uint32, error) {
	return Renderer{Workers: workers, Splits: splits}.RenderBig(f, mode, d, res, r, shapes)
}

// Render returns a res sized buffer with range r colored; pixels outside r are zero.
func (rd Renderer) Render(f Fractal, mode Mode, d fraccert.Domain, res fraccert.Resolution, r fraccert.Range, shapes Shapes) ([]uint32, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := rd.validate(f, mode, res, r); err != nil {
		return nil, err
	}

	return rd.run(f, mode, res, r, 0, func(b fraccert.Range, pixels []uint32, _ *Scratch) {
		f.CalcScreen(mode, d, res, b, shapes, pixels)
	}), nil
}

// RenderBig is Render with arbitrary-precision arithmetic. Every worker owns
// its Scratch.
func (rd Renderer) RenderBig(f Fractal, mode Mode, d fraccert.BigDomain, res fraccert.Resolution, r fraccert.Range, shapes Shapes) ([]uint32, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := rd.validate(f, mode, res, r); err != nil {
		return nil, err
	}

	return rd.run(f, mode, res, r, d.Prec(), func(b fraccert.Range, pixels []uint32, s *Scratch) {
		f.CalcScreenBig(mode, d, res, b, shapes, s, pixels)
	}), nil
}

func (rd Renderer) validate(f Fractal, mode Mode, res fraccert.Resolution, r fraccert.Range) error {
	if err := res.Validate(); err != nil {
		return err
	}
	if err := r.Validate(res); err != nil {
		return err
	}
	if rd.Workers < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, rd.Workers)
	}
	if rd.Splits < 0 || rd.Splits > MaxSplits {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidSplits, rd.Splits, MaxSplits)
	}
	if mode < BorderTrace || mode > Distance {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(mode))
	}
	if f.NMax() < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidNMax, f.NMax())
	}
	if mode == Distance && !(f.LineDetail() > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidLineDetail, f.LineDetail())
	}
	return nil
}

// poolSize is the number of workers started for blocks blocks.
func (rd Renderer) poolSize(blocks int) int {
	return min(rd.Workers, blocks)
}

// run allocates the zeroed buffer and lets up to rd.Workers goroutines render
// its blocks. prec > 0 gives every worker a Scratch of that precision.
func (rd Renderer) run(f Fractal, mode Mode, res fraccert.Resolution, r fraccert.Range, prec uint, calc func(b fraccert.Range, pixels []uint32, s *Scratch)) []uint32 {
	pixels := make([]uint32, res.W*res.H)
	q := &blockQueue{blocks: Split(r, rd.Splits)}
	workers := rd.poolSize(len(q.blocks))

	Logger().Debug("render",
		"fractal", f.Name(), "mode", mode, "nMax", f.NMax(),
		"range", r, "blocks", len(q.blocks), "workers", workers, "prec", prec)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var s *Scratch
			if prec > 0 {
				s = NewScratch(prec)
			}
			for {
				block, found := q.pop()
				if !found {
					return
				}
				if block.Empty() {
					continue
				}
				calc(block, pixels, s)
				if rd.OnTileRender != nil {
					rd.OnTileRender(block, pixels)
				}
			}
		}()
	}
	wg.Wait()

	return pixels
}
