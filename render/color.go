package render

// A pixel word holds red, green and blue in its three high bytes. While a
// block is border traced the low byte carries control bits; they are cleared
// before the block is handed back.
const (
	colored uint32 = 0b01 // final color computed
	queued  uint32 = 0b10 // already in the frontier queue

	colorMask uint32 = 0xFFFFFF00
)

const (
	// Interior is the color of points that never escape; CalcColor maps both
	// 0 and nMax to it.
	Interior uint32 = 0x00000000

	// Exterior is the distance estimation color of points far from the boundary.
	Exterior uint32 = 0xFFFFFF00
)

// CalcColor maps an escape count n ≤ nMax to a pixel word. With t = n/nMax
// the channels are 9(1-t)t³, 15(1-t)²t² and 8.5(1-t)³t of 255, truncated.
func CalcColor(n, nMax uint32) uint32 {
	t := float64(n) / float64(nMax)

	r := uint8(9 * (1 - t) * t * t * t * 255)
	g := uint8(15 * (1 - t) * (1 - t) * t * t * 255)
	b := uint8(8.5 * (1 - t) * (1 - t) * (1 - t) * t * 255)

	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8
}

// colorDistance thresholds a distance estimate against the line width.
func colorDistance(d, lineWidth float64) uint32 {
	if d < lineWidth {
		return Interior
	}
	return Exterior
}

// Mismatches counts the pixels whose colors differ, ignoring control bits.
// Buffers of different length never match beyond the shorter one.
func Mismatches(a, b []uint32) int {
	n := max(len(a), len(b)) - min(len(a), len(b))
	for i := range min(len(a), len(b)) {
		if a[i]&colorMask != b[i]&colorMask {
			n++
		}
	}
	return n
}
