package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/lucmans/fraccert"
)

// webServer creates the http server with the websocket render endpoint at /ws
// and the list of predefined locations at /locations.
func webServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(&sessionCounter{}))
	mux.HandleFunc("/locations", locationsHandler)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("listening on http://localhost%s", addr)
	return srv
}

// sessionCounter counts the connections currently being served.
type sessionCounter struct {
	n int
	m sync.Mutex
}

func (sc *sessionCounter) add(delta int) {
	sc.m.Lock()
	sc.n += delta
	n := sc.n
	sc.m.Unlock()

	log.Printf("sessions: %d", n)
}

// websocketHandler handles the http ws endpoint. Every connection is one
// render session.
func websocketHandler(sc *sessionCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			log.Println(err)
			return
		}
		defer c.CloseNow()

		sc.add(1)
		defer sc.add(-1)

		log.Printf("got connection from: %s", r.RemoteAddr)
		if err := serveRender(r.Context(), c); err != nil {
			if errors.Is(err, errInvalidRequest) {
				log.Printf("rejected request from %q: %v", r.RemoteAddr, err)
				return
			}
			log.Printf("err: render for %q: %v", r.RemoteAddr, err)
		}
	}
}

func locationsHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(fraccert.LocationNames()); err != nil {
		log.Printf("locations: %v", err)
	}
}
