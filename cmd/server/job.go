package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"golang.org/x/sync/errgroup"

	"github.com/lucmans/fraccert"
	"github.com/lucmans/fraccert/render"
)

var errInvalidRequest = errors.New("invalid request")

// maxRequestSize bounds the RenderRequest a client may send.
const maxRequestSize = 1 << 16

// serveRender reads one RenderRequest from c, renders it and streams the
// result back. Requests that can't be rendered get an error message and
// close the connection with StatusPolicyViolation.
func serveRender(ctx context.Context, c *websocket.Conn) error {
	c.SetReadLimit(maxRequestSize)

	req := fraccert.NewRenderRequest()
	if err := wsjson.Read(ctx, c, &req); err != nil {
		return fmt.Errorf("read request: %w", err)
	}

	job, err := render.NewJob(req)
	if err != nil {
		return reject(ctx, c, err)
	}

	rj := newRenderJob(job)
	log.Printf("rendering %s %dx%d, mode %s, nMax %d", job.Fractal.Name(), job.Res.W, job.Res.H, job.Mode, job.Fractal.NMax())
	if err := rj.stream(ctx, c); err != nil {
		if errors.Is(err, errInvalidRequest) {
			return reject(ctx, c, err)
		}
		return err
	}
	return c.Close(websocket.StatusNormalClosure, "")
}

func reject(ctx context.Context, c *websocket.Conn, err error) error {
	if !errors.Is(err, errInvalidRequest) {
		err = fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	if werr := wsjson.Write(ctx, c, fraccert.Message{Type: fraccert.MsgError, Error: err.Error()}); werr != nil {
		return errors.Join(err, werr)
	}
	_ = c.Close(websocket.StatusPolicyViolation, "invalid request")
	return err
}

// renderJob tracks the progress of one render and turns finished blocks into
// tile messages.
type renderJob struct {
	job *render.Job

	totalPixels    int
	finishedPixels int
	m              sync.Mutex
}

func newRenderJob(job *render.Job) *renderJob {
	return &renderJob{
		job:         job,
		totalPixels: job.Res.W * job.Res.H,
	}
}

func (rj *renderJob) finished() float32 {
	rj.m.Lock()
	defer rj.m.Unlock()
	return float32(rj.finishedPixels) / float32(rj.totalPixels)
}

func (rj *renderJob) tileFinished(tile fraccert.Range) {
	defer log.Printf("finished: %f", rj.finished())

	rj.m.Lock()
	defer rj.m.Unlock()
	rj.finishedPixels += tile.Pixels()
}

// stream runs the render and writes its messages to c. The render runs in one
// goroutine and the writes in another, so a slow client never holds up the
// render workers for longer than the message buffer allows. A render can't be
// interrupted; when writing fails the remaining tiles are dropped.
func (rj *renderJob) stream(ctx context.Context, c *websocket.Conn) error {
	g, ctx := errgroup.WithContext(ctx)
	msgs := make(chan fraccert.Message, 64)

	send := func(m fraccert.Message) bool {
		select {
		case msgs <- m:
			return true
		case <-ctx.Done():
			return false
		}
	}

	g.Go(func() error {
		defer close(msgs)

		res := rj.job.Res
		start := time.Now()
		if !send(fraccert.Message{Type: fraccert.MsgStart, Width: res.W, Height: res.H, Domain: &rj.job.Domain}) {
			return nil
		}

		_, err := rj.job.Run(func(tile fraccert.Range, pixels []uint32) {
			m := fraccert.Message{Type: fraccert.MsgTile, Tile: &tile, Pix: fraccert.TilePixels(pixels, res.W, tile)}
			rj.tileFinished(tile)
			send(m)
		})
		if err != nil {
			return fmt.Errorf("%w: %w", errInvalidRequest, err)
		}

		if orbit := rj.job.Orbit(); orbit != nil {
			points := make([][2]float64, len(orbit))
			for i, p := range orbit {
				points[i] = [2]float64{real(p), imag(p)}
			}
			if !send(fraccert.Message{Type: fraccert.MsgOrbit, Orbit: points}) {
				return nil
			}
		}

		elapsed := time.Since(start)
		log.Printf("render took %s", elapsed)
		send(fraccert.Message{Type: fraccert.MsgDone, ElapsedMs: elapsed.Milliseconds()})
		return nil
	})

	g.Go(func() error {
		for m := range msgs {
			if err := wsjson.Write(ctx, c, m); err != nil {
				return fmt.Errorf("write %s: %w", m.Type, err)
			}
		}
		return nil
	})

	return g.Wait()
}
