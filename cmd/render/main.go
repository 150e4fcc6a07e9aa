// render renders a fractal view on this machine and saves it as an image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lucmans/fraccert"
	"github.com/lucmans/fraccert/overlay"
	"github.com/lucmans/fraccert/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	req := fraccert.NewRenderRequest()
	req.RegisterFlags(flag.CommandLine)
	out := flag.String("o", "fractal.png", "output image (.png, .bmp, .tif)")
	compare := flag.Bool("compare", false, "also render with brute force and report the mismatching pixels")
	supersample := flag.Int("supersample", 1, "render at this many times the size and scale down")
	verbose := flag.Bool("v", false, "log render details")
	flag.Parse()

	if *verbose {
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	job, err := render.NewJob(req)
	if err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	if *supersample > 1 {
		job.Res.W *= *supersample
		job.Res.H *= *supersample
	}

	start := time.Now()
	pixels, err := job.Run(nil)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("rendered %s %dx%d (%s, nMax %d) in %s",
		job.Fractal.Name(), job.Res.W, job.Res.H, job.Mode, job.Fractal.NMax(), time.Since(start))

	if *compare {
		bf := *job
		bf.Mode = render.BruteForce

		start := time.Now()
		ref, err := bf.Run(nil)
		if err != nil {
			return fmt.Errorf("brute force render: %w", err)
		}
		n := render.Mismatches(pixels, ref)
		log.Printf("brute force took %s; mismatches: %d of %d pixels (%.4f%%)",
			time.Since(start), n, len(ref), 100*float64(n)/float64(len(ref)))
	}

	var img image.Image = fraccert.ToRGBA(pixels, job.Res)
	if orbit := job.Orbit(); orbit != nil {
		st := overlay.DefaultStyle
		st.LineWidth *= float64(*supersample)
		st.Marker *= float64(*supersample)
		withOrbit, err := overlay.DrawOrbit(img, job.Domain, job.Res, orbit, st)
		switch {
		case errors.Is(err, fraccert.ErrInvalidDomain):
			log.Printf("orbit not drawn: %v", err)
		case err != nil:
			return fmt.Errorf("draw orbit: %w", err)
		default:
			img = withOrbit
		}
	}
	img = fraccert.Downsample(img, *supersample)

	if err := fraccert.SaveImage(*out, img); err != nil {
		return err
	}
	log.Printf("saved %q", *out)
	return nil
}
