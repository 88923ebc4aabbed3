// Package net shares finished pictures with other devices on the LAN: an
// HTTP hub serves the images, websocket viewers are told about each new one
// and the hub is announced over mDNS.
package net

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/mdns"
	"github.com/rs/cors"

	"smART/internal/export"
	"smART/internal/fault"
)

// keep is how many shared pictures stay downloadable.
const keep = 20

// HubConfig configures a share hub.
type HubConfig struct {
	// Addr is the listen address, e.g. ":8888".
	Addr string
	// Host is used in share links. Empty means the outgoing LAN address.
	Host      string
	Advertise bool
}

// Notice is pushed to websocket viewers when a picture is shared.
type Notice struct {
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// peer is a connected websocket viewer.
type peer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (p *peer) send(v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return p.conn.WriteJSON(v)
}

// Hub is the share sink.
type Hub struct {
	cfg      HubConfig
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	shared  map[string]export.Artifact
	order   []string
	peers   map[*peer]bool
	baseURL string
	closed  bool

	srv    *http.Server
	zone   *mdns.Server
	served chan struct{}
}

var _ export.Sink = (*Hub)(nil)

// NewHub creates a stopped hub.
func NewHub(cfg HubConfig) *Hub {
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		shared: make(map[string]export.Artifact),
		peers:  make(map[*peer]bool),
	}
}

// Handler returns the hub's HTTP routes with CORS applied.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.handleIndex)
	mux.HandleFunc("GET /latest.png", h.handleLatest)
	mux.HandleFunc("GET /shared/{id}", h.handleShared)
	mux.HandleFunc("GET /ws", h.handleWS)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
	return c.Handler(mux)
}

// Start listens on the configured address and, if enabled, announces the
// hub over mDNS.
func (h *Hub) Start() error {
	ln, err := net.Listen("tcp", h.cfg.Addr)
	if err != nil {
		return fmt.Errorf("share hub: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	host := linkHost(h.cfg.Host)

	h.srv = &http.Server{
		Handler:           h.Handler(),
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	h.served = make(chan struct{})
	go func() {
		defer close(h.served)
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[SHARE] Server stopped: %v", err)
		}
	}()

	if h.cfg.Advertise {
		zone, err := advertise(port)
		if err != nil {
			log.Printf("[SHARE] mDNS advertising disabled: %v", err)
		} else {
			h.zone = zone
		}
	}

	h.mu.Lock()
	h.baseURL = "http://" + net.JoinHostPort(host, strconv.Itoa(port))
	h.closed = false
	h.mu.Unlock()
	log.Printf("[SHARE] Hub listening on %s", h.BaseURL())
	return nil
}

// BaseURL is the hub's address for share links, empty while stopped.
func (h *Hub) BaseURL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.baseURL
}

// Close stops the server, drops every viewer and withdraws the mDNS record.
func (h *Hub) Close() error {
	h.mu.Lock()
	h.baseURL = ""
	h.closed = true
	peers := h.peers
	h.peers = make(map[*peer]bool)
	h.mu.Unlock()

	for p := range peers {
		p.conn.Close()
	}
	if h.zone != nil {
		h.zone.Shutdown()
		h.zone = nil
	}
	if h.srv == nil {
		return nil
	}
	err := h.srv.Close()
	<-h.served
	h.srv = nil
	return err
}

// Publish makes a available to LAN viewers and returns its link.
func (h *Hub) Publish(a export.Artifact) (string, error) {
	if len(a.Data) == 0 {
		return "", fault.New(fault.KindExportFailed, "share", errors.New("empty artifact"))
	}

	h.mu.Lock()
	if h.baseURL == "" {
		h.mu.Unlock()
		return "", fault.New(fault.KindExportFailed, "share", errors.New("share hub is not running"))
	}
	h.shared[a.ID] = a
	h.order = append(h.order, a.ID)
	for len(h.order) > keep {
		delete(h.shared, h.order[0])
		h.order = h.order[1:]
	}
	link := h.baseURL + "/shared/" + a.ID
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	n := Notice{Type: "shared", ID: a.ID, Name: a.Name, URL: link, CreatedAt: a.CreatedAt}
	for _, p := range peers {
		if err := p.send(n); err != nil {
			log.Printf("[SHARE] Error notifying %s: %v", p.conn.RemoteAddr(), err)
			h.remove(p)
		}
	}
	log.Printf("[SHARE] Shared %s with %d viewers", a.Name, len(peers))
	return link, nil
}

// add registers a viewer. It reports false once the hub has been closed.
func (h *Hub) add(p *peer) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.peers[p] = true
	log.Printf("[SHARE] Viewer connected: %s", p.conn.RemoteAddr())
	return true
}

func (h *Hub) remove(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.peers[p] {
		delete(h.peers, p)
		p.conn.Close()
		log.Printf("[SHARE] Viewer disconnected: %s", p.conn.RemoteAddr())
	}
}

// Viewers returns the number of connected websocket viewers.
func (h *Hub) Viewers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.peers)
}

func (h *Hub) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	list := make([]Notice, 0, len(h.order))
	for i := len(h.order) - 1; i >= 0; i-- {
		a := h.shared[h.order[i]]
		list = append(list, Notice{Type: "shared", ID: a.ID, Name: a.Name, URL: h.baseURL + "/shared/" + a.ID, CreatedAt: a.CreatedAt})
	}
	h.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		log.Printf("[SHARE] Error writing index: %v", err)
	}
}

func (h *Hub) handleLatest(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	var a export.Artifact
	ok := len(h.order) > 0
	if ok {
		a = h.shared[h.order[len(h.order)-1]]
	}
	h.mu.RUnlock()
	if !ok {
		http.Error(w, "nothing shared yet", http.StatusNotFound)
		return
	}
	writeArtifact(w, a)
}

func (h *Hub) handleShared(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	a, ok := h.shared[r.PathValue("id")]
	h.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeArtifact(w, a)
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SHARE] Websocket upgrade failed: %v", err)
		return
	}
	p := &peer{conn: conn}
	if !h.add(p) {
		conn.Close()
		return
	}
	defer h.remove(p)

	// Viewers only listen; reading detects when they go away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	w.Header().Set("Content-Type", a.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", a.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Data)))
	if _, err := w.Write(a.Data); err != nil {
		log.Printf("[SHARE] Error sending %s: %v", a.Name, err)
	}
}
