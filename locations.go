package fraccert

import (
	"fmt"
	"sort"
)

// Location is a named view: where to look, at what size and how deep.
type Location struct {
	Domain Domain
	Res    Resolution
	NMax   uint32
}

var AverageRes = Resolution{W: 1920, H: 1080}

// Benchmark views
var (
	// The whole Mandelbrot set
	Home = Location{Domain{-2.0, 1.0, -1.125, 1.125}, Resolution{8000, 6000}, 1000}
	// Close to the limit of double precision
	Limit = Location{Domain{-0.7500362982234245, -0.7500362982234176, -0.004929824108246969, -0.004929824108242316}, AverageRes, 1000}
	// Symmetric around the real axis
	Sym = Location{Domain{-2.0, 2.0, -1.5, 1.5}, Resolution{1600, 1200}, 256}

	A = Location{Domain{-0.6701, -0.6641, 0.4539, 0.4573}, AverageRes, 600}
	B = Location{Domain{-1.74858614, -1.74858479, 0.01262719, 0.01262795}, AverageRes, 2500}
	C = Location{Domain{-0.74766, -0.74728, 0.08290, 0.08312}, AverageRes, 2250}
	D = Location{Domain{-0.16663, -0.16650, 1.04049, 1.04057}, AverageRes, 1500}
	E = Location{Domain{-1.26, -1.195, 0.1417, 0.1782}, AverageRes, 700}
	F = Location{Domain{-0.753, -0.727, 0.1441, 0.1588}, AverageRes, 350}
	G = Location{Domain{-0.7475087485, -0.7475087322, 0.0830715266, 0.0830715359}, AverageRes, 1000}
	H = Location{Domain{-0.439165, -0.439089, 0.574562, 0.574604}, AverageRes, 450}
	I = Location{Domain{-0.439165, -0.43909, 0.574507, 0.574549}, AverageRes, 475}
)

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley - dense filaments and repeating “seahorse” curls
	SeahorseValley = Location{Domain{-0.8, -0.7, 0.05, 0.15}, AverageRes, 1000}

	// Elephant Valley - large bulb with trunk-like tendrils
	ElephantValley = Location{Domain{-1.85, -1.75, -0.10, -0.02}, AverageRes, 1000}

	// Spiral Minibrot - small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Location{Domain{-0.7435, -0.7420, 0.1310, 0.1325}, AverageRes, 1000}

	// Triple Spiral - threefold symmetric spiral structure
	TripleSpiral = Location{Domain{-0.7480, -0.7450, 0.0950, 0.0980}, AverageRes, 1000}

	// Valley of the Dragon - deep, highly detailed spiral filaments
	ValleyOfTheDragon = Location{Domain{-0.7400, -0.7350, 0.1800, 0.1850}, AverageRes, 1000}

	// Minibrot in a Mini-Spiral - self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Location{Domain{-1.7390, -1.7375, -0.0235, -0.0220}, AverageRes, 1000}
)

// AverageLocations are the views the average-case benchmarks cycle through.
var AverageLocations = []Location{A, B, C, D, E, F, G, H, I}

var locations = map[string]Location{
	"home":     Home,
	"limit":    Limit,
	"sym":      Sym,
	"a":        A,
	"b":        B,
	"c":        C,
	"d":        D,
	"e":        E,
	"f":        F,
	"g":        G,
	"h":        H,
	"i":        I,
	"seahorse": SeahorseValley,
	"elephant": ElephantValley,
	"spiral":   SpiralMinibrot,
	"triple":   TripleSpiral,
	"dragon":   ValleyOfTheDragon,
	"minibrot": MinibrotInMiniSpiral,
}

// LocationByName looks up one of the predefined views.
func LocationByName(name string) (Location, error) {
	l, ok := locations[name]
	if !ok {
		return Location{}, fmt.Errorf("unknown location %q (known: %v)", name, LocationNames())
	}
	return l, nil
}

func LocationNames() []string {
	names := make([]string, 0, len(locations))
	for n := range locations {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
