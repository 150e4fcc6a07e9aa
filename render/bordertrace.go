package render

import "github.com/lucmans/fraccert"

// pixelSource computes the color of a pixel of the full grid.
type pixelSource interface {
	color(x, y int) uint32
}

// nativeSource maps pixels to points with doubles.
type nativeSource struct {
	rMin, iMax, ps float64
	calc           func(x, y float64) uint32
}

func (s nativeSource) color(x, y int) uint32 {
	return s.calc(s.rMin+float64(float64(x)*s.ps), s.iMax-float64(float64(y)*s.ps))
}

// tracer border traces one block of a shared buffer. It only touches pixels
// inside its block, so blocks can be traced concurrently.
//
// Every pixel on the block's edge is queued. A dequeued pixel is compared to
// its neighbors and the ones with another color are queued in turn, so the
// trace follows every color boundary reachable from the edge. Pixels never
// colored are then filled from their left neighbor, which assumes each color
// region is convex along a scanline.
type tracer struct {
	pixels []uint32
	w      int
	r      fraccert.Range
	src    pixelSource

	// Only look at a diagonal neighbor when an orthogonal neighbor next to it
	// differs. Cheaper, and misses a few more thin features.
	fast bool

	queue []int
	head  int
}

// traceBlock colors block r of pixels, which has row stride w. The pixels of r
// must be zero.
func traceBlock(pixels []uint32, w int, r fraccert.Range, src pixelSource, fast bool) {
	if r.Empty() {
		return
	}
	t := tracer{
		pixels: pixels,
		w:      w,
		r:      r,
		src:    src,
		fast:   fast,
		queue:  make([]int, 0, 2*(r.Dx()+r.Dy())),
	}

	t.edgeInQueue()
	for t.head < len(t.queue) {
		t.checkNeighbors(t.pop())
	}
	t.fillEmptyPixels()
}

// colorOf returns the color of pixel p, computing it the first time.
func (t *tracer) colorOf(p int) uint32 {
	if t.pixels[p]&colored != 0 {
		return t.pixels[p] & colorMask
	}
	c := t.src.color(p%t.w, p/t.w) & colorMask
	t.pixels[p] = c | colored | t.pixels[p]&queued
	return c
}

func (t *tracer) push(p int) {
	if t.pixels[p]&queued != 0 {
		return
	}
	t.pixels[p] |= queued
	t.queue = append(t.queue, p)
}

func (t *tracer) pop() int {
	p := t.queue[t.head]
	t.head++
	if t.head == len(t.queue) {
		t.queue, t.head = t.queue[:0], 0
	}
	return p
}

func (t *tracer) edgeInQueue() {
	r, w := t.r, t.w
	for y := r.YMin; y < r.YMax; y++ {
		t.push(y*w + r.XMin)
		t.push(y*w + r.XMax - 1)
	}
	for x := r.XMin + 1; x < r.XMax-1; x++ {
		t.push(r.YMin*w + x)
		t.push((r.YMax-1)*w + x)
	}
}

func (t *tracer) checkNeighbors(p int) {
	r, w := t.r, t.w
	x, y := p%w, p/w

	c := t.colorOf(p)

	rightExists := x < r.XMax-1
	leftExists := x > r.XMin
	downExists := y < r.YMax-1
	upExists := y > r.YMin

	var rightDiff, leftDiff, downDiff, upDiff bool
	if rightExists {
		rightDiff = t.colorOf(p+1) != c
	}
	if leftExists {
		leftDiff = t.colorOf(p-1) != c
	}
	if downExists {
		downDiff = t.colorOf(p+w) != c
	}
	if upExists {
		upDiff = t.colorOf(p-w) != c
	}

	if rightDiff {
		t.push(p + 1)
	}
	if leftDiff {
		t.push(p - 1)
	}
	if downDiff {
		t.push(p + w)
	}
	if upDiff {
		t.push(p - w)
	}

	if t.fast {
		if rightExists && downExists && (rightDiff || downDiff) {
			t.push(p + w + 1)
		}
		if rightExists && upExists && (rightDiff || upDiff) {
			t.push(p - w + 1)
		}
		if leftExists && downExists && (leftDiff || downDiff) {
			t.push(p + w - 1)
		}
		if leftExists && upExists && (leftDiff || upDiff) {
			t.push(p - w - 1)
		}
		return
	}

	// diagonals are evaluated in the same order as the orthogonal neighbors
	var rdDiff, ruDiff, ldDiff, luDiff bool
	if rightExists && downExists {
		rdDiff = t.colorOf(p+w+1) != c
	}
	if rightExists && upExists {
		ruDiff = t.colorOf(p-w+1) != c
	}
	if leftExists && downExists {
		ldDiff = t.colorOf(p+w-1) != c
	}
	if leftExists && upExists {
		luDiff = t.colorOf(p-w-1) != c
	}

	if rdDiff {
		t.push(p + w + 1)
	}
	if ruDiff {
		t.push(p - w + 1)
	}
	if ldDiff {
		t.push(p + w - 1)
	}
	if luDiff {
		t.push(p - w - 1)
	}
}

// fillEmptyPixels gives every uncolored pixel the color of its left neighbor
// and clears the control bits. The leftmost column is on the edge, so it is
// always colored.
func (t *tracer) fillEmptyPixels() {
	r, w := t.r, t.w
	for y := r.YMin; y < r.YMax; y++ {
		row := y * w
		t.pixels[row+r.XMin] &= colorMask
		for x := r.XMin + 1; x < r.XMax; x++ {
			p := row + x
			if t.pixels[p]&colored == 0 {
				t.pixels[p] = t.pixels[p-1]
			} else {
				t.pixels[p] &= colorMask
			}
		}
	}
}
