package render

import (
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/lucmans/fraccert"
)

func TestSplit(t *testing.T) {
	r := fraccert.Range{XMin: 2, XMax: 10, YMin: 0, YMax: 4}
	diff(t, []fraccert.Range{r}, Split(r, 0))

	// wider than high: cut along x
	diff(t, []fraccert.Range{
		{XMin: 2, XMax: 6, YMin: 0, YMax: 4},
		{XMin: 6, XMax: 10, YMin: 0, YMax: 4},
	}, Split(r, 1))

	// square: cut along y
	sq := fraccert.Range{XMax: 5, YMax: 5}
	diff(t, []fraccert.Range{
		{XMax: 5, YMin: 0, YMax: 2},
		{XMax: 5, YMin: 2, YMax: 5},
	}, Split(sq, 1))
}

func TestSplitCovers(t *testing.T) {
	res := fraccert.Resolution{W: 37, H: 23}
	for _, r := range []fraccert.Range{res.Full(), {XMin: 3, XMax: 4, YMin: 5, YMax: 21}} {
		for splits := range 12 {
			blocks := Split(r, splits)
			if len(blocks) != 1<<splits {
				t.Fatalf("Split(%s, %d) returned %d blocks", r, splits, len(blocks))
			}

			count := make([]int, res.W*res.H)
			for _, b := range blocks {
				for y := b.YMin; y < b.YMax; y++ {
					for x := b.XMin; x < b.XMax; x++ {
						count[y*res.W+x]++
					}
				}
			}
			for y := range res.H {
				for x := range res.W {
					in := x >= r.XMin && x < r.XMax && y >= r.YMin && y < r.YMax
					if n := count[y*res.W+x]; (in && n != 1) || (!in && n != 0) {
						t.Fatalf("Split(%s, %d) covers (%d,%d) %d times", r, splits, x, y, n)
					}
				}
			}
		}
	}
}

func TestBlockQueue(t *testing.T) {
	q := &blockQueue{blocks: Split(fraccert.Range{XMax: 64, YMax: 64}, 6)}

	var (
		m       sync.Mutex
		claimed []fraccert.Range
		wg      sync.WaitGroup
	)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				b, found := q.pop()
				if !found {
					return
				}
				m.Lock()
				claimed = append(claimed, b)
				m.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(claimed) != len(q.blocks) {
		t.Fatalf("claimed %d blocks, want %d", len(claimed), len(q.blocks))
	}
	seen := make(map[fraccert.Range]bool)
	for _, b := range claimed {
		if seen[b] {
			t.Fatalf("block %s claimed twice", b)
		}
		seen[b] = true
	}
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		workers, blocks, want int
	}{
		{4, 128, 4},
		{4, 4, 4},
		{1 << 20, 1, 1},
		{64, 8, 8},
	}
	for _, tt := range tests {
		if got := (Renderer{Workers: tt.workers}).poolSize(tt.blocks); got != tt.want {
			t.Errorf("poolSize(%d) with %d workers = %d, want %d", tt.blocks, tt.workers, got, tt.want)
		}
	}
}

func TestRenderBigMoreWorkersThanBlocks(t *testing.T) {
	m := NewMandelbrot()
	m.SetNMax(64)
	d := m.DefaultDomain(testRes)
	want, err := ParallelRenderBig(m, BorderTrace, d.Big(64), testRes, testRes.Full(), AllShapes, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ParallelRenderBig(m, BorderTrace, d.Big(64), testRes, testRes.Full(), AllShapes, 1<<20, 1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want, got)
}

func TestRenderDeterminism(t *testing.T) {
	res := fraccert.Resolution{W: 160, H: 120}
	d := fraccert.Home.Domain
	m := NewMandelbrot()

	for _, mode := range []Mode{BorderTrace, BorderTraceFast, BruteForce, Distance} {
		for _, splits := range []int{0, 3, 9} {
			want, err := ParallelRender(m, mode, d, res, res.Full(), AllShapes, 1, splits)
			if err != nil {
				t.Fatal(err)
			}
			for _, workers := range []int{2, 8, 64} {
				got, err := ParallelRender(m, mode, d, res, res.Full(), AllShapes, workers, splits)
				if err != nil {
					t.Fatal(err)
				}
				if n := Mismatches(want, got); n != 0 {
					t.Errorf("%s, %d splits: %d workers differ from 1 in %d pixels", mode, splits, workers, n)
				}
			}
		}
	}
}

func TestRenderSplitsIndependent(t *testing.T) {
	res := fraccert.Resolution{W: 160, H: 120}
	d := fraccert.Home.Domain
	m := NewMandelbrot()

	// Every pixel is computed on its own, so splitting can't change anything.
	for _, mode := range []Mode{BruteForce, Distance} {
		want, err := Render(m, mode, d, res, res.Full(), AllShapes)
		if err != nil {
			t.Fatal(err)
		}
		for _, splits := range []int{1, 5, 12} {
			got, err := ParallelRender(m, mode, d, res, res.Full(), AllShapes, 4, splits)
			if err != nil {
				t.Fatal(err)
			}
			diff(t, want, got)
		}
	}
}

func TestRenderRange(t *testing.T) {
	res := fraccert.Resolution{W: 64, H: 48}
	r := fraccert.Range{XMin: 10, XMax: 40, YMin: 5, YMax: 30}
	m := NewMandelbrot()

	full, err := Render(m, BruteForce, fraccert.Home.Domain, res, res.Full(), nil)
	if err != nil {
		t.Fatal(err)
	}
	part, err := ParallelRender(m, BruteForce, fraccert.Home.Domain, res, r, nil, 3, 4)
	if err != nil {
		t.Fatal(err)
	}
	for y := range res.H {
		for x := range res.W {
			i := y*res.W + x
			in := x >= r.XMin && x < r.XMax && y >= r.YMin && y < r.YMax
			if in && part[i] != full[i] {
				t.Fatalf("pixel (%d,%d) = %#08x, want %#08x", x, y, part[i], full[i])
			}
			if !in && part[i] != 0 {
				t.Fatalf("pixel (%d,%d) outside the range = %#08x", x, y, part[i])
			}
		}
	}
}

func TestOnTileRender(t *testing.T) {
	res := fraccert.Resolution{W: 100, H: 70}
	m := NewMandelbrot()

	var (
		mu    sync.Mutex
		tiles []fraccert.Range
	)
	seen := make(map[fraccert.Range][]uint32)
	rd := Renderer{Workers: 4, Splits: 5, OnTileRender: func(tile fraccert.Range, pixels []uint32) {
		pix := fraccert.TilePixels(pixels, res.W, tile)
		mu.Lock()
		defer mu.Unlock()
		tiles = append(tiles, tile)
		seen[tile] = pix
	}}
	got, err := rd.Render(m, BorderTrace, fraccert.Home.Domain, res, res.Full(), AllShapes)
	if err != nil {
		t.Fatal(err)
	}

	want := Split(res.Full(), 5)
	less := func(a, b fraccert.Range) int {
		if a.YMin != b.YMin {
			return a.YMin - b.YMin
		}
		return a.XMin - b.XMin
	}
	slices.SortFunc(want, less)
	slices.SortFunc(tiles, less)
	diff(t, want, tiles)

	// a tile is final when it is reported
	for tile, pix := range seen {
		diff(t, fraccert.TilePixels(got, res.W, tile), pix)
	}
}

func TestOnTileRenderSkipsEmptyBlocks(t *testing.T) {
	res := fraccert.Resolution{W: 4, H: 4}
	n := 0
	rd := Renderer{Workers: 1, Splits: 6, OnTileRender: func(fraccert.Range, []uint32) { n++ }}
	if _, err := rd.Render(NewMandelbrot(), BruteForce, fraccert.Home.Domain, res, res.Full(), nil); err != nil {
		t.Fatal(err)
	}
	if n != res.W*res.H {
		t.Errorf("OnTileRender called %d times, want one per pixel (%d)", n, res.W*res.H)
	}
}

func TestRenderErrors(t *testing.T) {
	res := fraccert.Resolution{W: 16, H: 12}
	d := fraccert.Home.Domain

	zeroNMax := NewMandelbrot()
	zeroNMax.SetNMax(0)
	noLines := NewMandelbrot()
	noLines.SetLineDetail(0)

	tests := []struct {
		name string
		f    Fractal
		mode Mode
		d    fraccert.Domain
		res  fraccert.Resolution
		r    fraccert.Range
		rd   Renderer
		want error
	}{
		{"domain", NewMandelbrot(), BorderTrace, fraccert.Domain{RMin: 1, RMax: -2, IMin: -1, IMax: 1}, res, res.Full(), Renderer{Workers: 1}, fraccert.ErrInvalidDomain},
		{"resolution", NewMandelbrot(), BorderTrace, d, fraccert.Resolution{W: 0, H: 12}, fraccert.Range{XMax: 1, YMax: 1}, Renderer{Workers: 1}, fraccert.ErrInvalidResolution},
		{"range outside", NewMandelbrot(), BorderTrace, d, res, fraccert.Range{XMax: 17, YMax: 12}, Renderer{Workers: 1}, fraccert.ErrInvalidRange},
		{"empty range", NewMandelbrot(), BorderTrace, d, res, fraccert.Range{XMin: 3, XMax: 3, YMax: 12}, Renderer{Workers: 1}, fraccert.ErrInvalidRange},
		{"workers", NewMandelbrot(), BorderTrace, d, res, res.Full(), Renderer{Workers: 0}, ErrInvalidWorkers},
		{"negative splits", NewMandelbrot(), BorderTrace, d, res, res.Full(), Renderer{Workers: 1, Splits: -1}, ErrInvalidSplits},
		{"too many splits", NewMandelbrot(), BorderTrace, d, res, res.Full(), Renderer{Workers: 1, Splits: MaxSplits + 1}, ErrInvalidSplits},
		{"mode", NewMandelbrot(), Mode(7), d, res, res.Full(), Renderer{Workers: 1}, ErrInvalidMode},
		{"nMax", zeroNMax, BruteForce, d, res, res.Full(), Renderer{Workers: 1}, ErrInvalidNMax},
		{"line detail", noLines, Distance, d, res, res.Full(), Renderer{Workers: 1}, ErrInvalidLineDetail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pixels, err := tt.rd.Render(tt.f, tt.mode, tt.d, tt.res, tt.r, AllShapes)
			if !errors.Is(err, tt.want) {
				t.Errorf("Render() = %v, want %v", err, tt.want)
			}
			if pixels != nil {
				t.Error("Render() returned a buffer with the error")
			}

			pixels, err = tt.rd.RenderBig(tt.f, tt.mode, tt.d.Big(64), tt.res, tt.r, AllShapes)
			if !errors.Is(err, tt.want) {
				t.Errorf("RenderBig() = %v, want %v", err, tt.want)
			}
			if pixels != nil {
				t.Error("RenderBig() returned a buffer with the error")
			}
		})
	}
}
