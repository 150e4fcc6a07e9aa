// cliclient is a CLI client for the fraccert render server.
// It sends a render request, assembles the tiles the server streams back and
// saves the image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"

	"github.com/lucmans/fraccert"
	"github.com/lucmans/fraccert/overlay"
	"github.com/lucmans/fraccert/render"
)

func main() {
	log.Printf("Starting CLI client...")
	if err := run(); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

func run() error {
	req := fraccert.NewRenderRequest()
	req.RegisterFlags(flag.CommandLine)
	addr := flag.String("addr", "ws://localhost:8080/ws", "websocket endpoint of the render server")
	out := flag.String("o", "fractal.png", "output image (.png, .bmp, .tif)")
	supersample := flag.Int("supersample", 1, "render at this many times the size and scale down")
	flag.Parse()

	if *supersample > 1 {
		// resolve the size here; the server only sees the enlarged one
		job, err := render.NewJob(req)
		if err != nil {
			return fmt.Errorf("invalid request: %w", err)
		}
		req.Width = job.Res.W * *supersample
		req.Height = job.Res.H * *supersample
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.Printf("Requesting render from %s...", *addr)
	res, err := fetch(ctx, *addr, req)
	if err != nil {
		return err
	}

	var img image.Image = res.img
	if len(res.orbit) > 0 {
		st := overlay.DefaultStyle
		st.LineWidth *= float64(*supersample)
		st.Marker *= float64(*supersample)
		bounds := res.img.Bounds()
		withOrbit, err := overlay.DrawOrbit(img, res.domain, fraccert.Resolution{W: bounds.Dx(), H: bounds.Dy()}, res.orbit, st)
		switch {
		case errors.Is(err, fraccert.ErrInvalidDomain):
			log.Printf("Orbit not drawn: %v", err)
		case err != nil:
			return fmt.Errorf("draw orbit: %w", err)
		default:
			img = withOrbit
		}
	}
	img = fraccert.Downsample(img, *supersample)

	log.Printf("Saving rendered image to %q...", *out)
	if err := fraccert.SaveImage(*out, img); err != nil {
		return err
	}
	log.Printf("Fully rendered image saved to %q", *out)
	return nil
}
