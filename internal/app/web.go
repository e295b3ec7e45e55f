// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/relabs-tech/motion_udp/internal/config"
	"github.com/relabs-tech/motion_udp/internal/motion"
	"github.com/relabs-tech/motion_udp/internal/transport"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local tool, any origin
	},
}

const wsWriteTimeout = 2 * time.Second

// sampleHub keeps the latest sample and fans it out to websocket clients.
type sampleHub struct {
	mu      sync.RWMutex
	last    motion.Sample
	have    bool
	clients map[*websocket.Conn]struct{}
	log     *zap.SugaredLogger
}

func newSampleHub(log *zap.SugaredLogger) *sampleHub {
	return &sampleHub{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

func (h *sampleHub) latest() (motion.Sample, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.last, h.have
}

func (h *sampleHub) update(s motion.Sample) {
	h.mu.Lock()
	h.last = s
	h.have = true
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := c.WriteJSON(s); err != nil {
			h.log.Debugf("web: dropping websocket client: %v", err)
			h.remove(c)
		}
	}
}

func (h *sampleHub) add(c *websocket.Conn) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *sampleHub) remove(c *websocket.Conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.Close()
	}
}

func (h *sampleHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Close()
		delete(h.clients, c)
	}
}

// handler serves the JSON API, the websocket stream and the static viewer.
func (h *sampleHub) handler(staticDir string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/sample", func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.latest()
		if !ok {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(s); err != nil {
			h.log.Warnf("web: json encode error: %v", err)
		}
	})

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warnf("web: websocket upgrade error: %v", err)
			return
		}
		h.add(conn)

		// Drain reads so close frames are noticed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
						h.log.Debugf("web: websocket read error: %v", err)
					}
					h.remove(conn)
					return
				}
			}
		}()
	})

	if staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}
	return mux
}

// RunWeb listens for samples over UDP and serves them over HTTP and websocket.
func RunWeb(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	l, err := transport.ListenUDP(cfg.ListenAddr)
	if err != nil {
		return err
	}
	log.Infof("web: listening for samples on %s", l.LocalAddr())

	hub := newSampleHub(log)
	defer hub.closeAll()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler:           hub.handler("web"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return l.Serve(gctx, func(payload []byte, from net.Addr) {
			s, err := motion.ParseSample(string(payload))
			if err != nil {
				log.Warnf("web: bad payload from %s: %v", from, err)
				return
			}
			hub.update(s)
		})
	})

	g.Go(func() error {
		log.Infof("web server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
