package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/lucmans/fraccert"
)

// maxMessageSize bounds a single message from the server. A tile of a render
// without splits holds the whole image.
const maxMessageSize = 1 << 30

var errProtocol = errors.New("protocol error")

type result struct {
	img    *image.RGBA
	domain fraccert.Domain
	orbit  []complex128
}

// fetch sends req to the server at addr and draws the tiles it streams back
// into one image.
func fetch(ctx context.Context, addr string, req fraccert.RenderRequest) (*result, error) {
	c, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to server: %w", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(maxMessageSize)

	if err := wsjson.Write(ctx, c, req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var res result
	for {
		var m fraccert.Message
		if err := wsjson.Read(ctx, c, &m); err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		switch m.Type {
		case fraccert.MsgStart:
			if m.Width <= 0 || m.Height <= 0 || m.Domain == nil {
				return nil, fmt.Errorf("%w: bad start message", errProtocol)
			}
			res.img = image.NewRGBA(image.Rect(0, 0, m.Width, m.Height))
			res.domain = *m.Domain
			log.Printf("Rendering %dx%d", m.Width, m.Height)

		case fraccert.MsgTile:
			if err := res.drawTile(m); err != nil {
				return nil, err
			}

		case fraccert.MsgOrbit:
			res.orbit = make([]complex128, len(m.Orbit))
			for i, p := range m.Orbit {
				res.orbit[i] = complex(p[0], p[1])
			}

		case fraccert.MsgDone:
			if res.img == nil {
				return nil, fmt.Errorf("%w: done before start", errProtocol)
			}
			log.Printf("Server rendered in %d ms", m.ElapsedMs)
			if err := c.Close(websocket.StatusNormalClosure, ""); err != nil {
				log.Printf("Closing connection: %v", err)
			}
			return &res, nil

		case fraccert.MsgError:
			return nil, fmt.Errorf("server: %s", m.Error)

		default:
			return nil, fmt.Errorf("%w: unknown message type %q", errProtocol, m.Type)
		}
	}
}

func (res *result) drawTile(m fraccert.Message) error {
	if res.img == nil {
		return fmt.Errorf("%w: tile before start", errProtocol)
	}
	if m.Tile == nil || m.Tile.Validate(fraccert.Resolution{W: res.img.Rect.Dx(), H: res.img.Rect.Dy()}) != nil {
		return fmt.Errorf("%w: bad tile %v", errProtocol, m.Tile)
	}
	t := *m.Tile
	if len(m.Pix) != t.Pixels() {
		return fmt.Errorf("%w: tile %s has %d pixels, want %d", errProtocol, t, len(m.Pix), t.Pixels())
	}

	log.Printf("Received tile: %s", t)
	tileImg := fraccert.TileRGBA(m.Pix, t.Dx(), fraccert.Range{XMax: t.Dx(), YMax: t.Dy()})
	draw.Draw(
		res.img,
		image.Rect(t.XMin, t.YMin, t.XMax, t.YMax), // destination rectangle (global coords)
		tileImg,
		image.Point{},
		draw.Src,
	)
	return nil
}
