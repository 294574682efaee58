// Package preview streams rendered frames and loop diagnostics over
// websockets so a browser can mirror the matrix.
package preview

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/ws2811"
	"github.com/coreman2200/ledmatrix/model"
)

const writeTimeout = 200 * time.Millisecond

// Options configures NewServer.
type Options struct {
	FPS    int
	Driver string
	Logger *zerolog.Logger
}

// Server fans frames out to /ws clients and diagnostics to /diag clients. It
// implements loop.Sink.
type Server struct {
	mu     sync.Mutex
	layout layout.Layout
	opts   Options
	log    zerolog.Logger

	rgb         []byte
	frameID     uint64
	faults      int
	startTime   time.Time
	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
}

func NewServer(l layout.Layout, opts Options) *Server {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Server{
		layout:      l,
		opts:        opts,
		log:         logger.With().Str("component", "preview").Logger(),
		rgb:         make([]byte, l.Count()*3),
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Handler routes /ws, /diag and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

func (s *Server) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade /ws")
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.writeLocked(conn, s.topology())
	s.mu.Unlock()
	go s.drain(conn, s.clients)
}

func (s *Server) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("upgrade /diag")
		return
	}
	s.mu.Lock()
	s.diagClients[conn] = true
	s.writeLocked(conn, Diagnostic{Severity: Info, Code: "DIAG.HELLO", Summary: "Diagnostics connected"})
	s.mu.Unlock()
	go s.drain(conn, s.diagClients)
}

// drain reads until the peer goes away, then forgets the connection.
func (s *Server) drain(conn *websocket.Conn, set map[*websocket.Conn]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, conn)
		s.mu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"count":    s.layout.Count(),
		"fps":      s.opts.FPS,
		"driver":   s.opts.Driver,
		"faults":   s.faults,
	}
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Frame stores the frame as RGB bytes and broadcasts it to /ws clients.
func (s *Server) Frame(id uint64, leds []model.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.rgb) != len(leds)*3 {
		s.rgb = make([]byte, len(leds)*3)
	}
	for i, c := range leds {
		s.rgb[i*3+0] = c.R()
		s.rgb[i*3+1] = c.G()
		s.rgb[i*3+2] = c.B()
	}
	s.frameID = id

	type frame struct {
		T       int64  `json:"t"`
		FrameID uint64 `json:"frame_id"`
		RGB     []byte `json:"rgb"`
	}
	msg := frame{T: time.Now().UnixNano(), FrameID: id, RGB: s.rgb}
	for c := range s.clients {
		s.writeLocked(c, msg)
	}
}

// Fault pushes a loop failure to /diag clients.
func (s *Server) Fault(err error) {
	s.Notify(faultDiagnostic(err))
}

// Notify pushes d to every /diag client.
func (s *Server) Notify(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.Severity == Err {
		s.faults++
	}
	for c := range s.diagClients {
		s.writeLocked(c, d)
	}
}

// writeLocked sends v as JSON and drops the client on failure.
func (s *Server) writeLocked(c *websocket.Conn, v any) {
	c.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := c.WriteJSON(v); err != nil {
		s.log.Debug().Err(err).Msg("write")
		delete(s.clients, c)
		delete(s.diagClients, c)
		c.Close()
	}
}

func (s *Server) topology() map[string]any {
	return map[string]any{
		"width":      s.layout.Width,
		"height":     s.layout.Height,
		"serpentine": s.layout.Serpentine,
		"fps":        s.opts.FPS,
		"driver":     s.opts.Driver,
	}
}

// Close disconnects every client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
	}
	for c := range s.diagClients {
		c.Close()
	}
}

func faultDiagnostic(err error) Diagnostic {
	d := Diagnostic{
		Severity: Err,
		Code:     "LOOP.FAULT",
		Summary:  "Render loop stopped",
		Detail:   err.Error(),
	}
	var te *ws2811.TransferError
	if errors.As(err, &te) {
		d.Evidence = map[string]any{"op": te.Op, "status": te.Status.String()}
	}
	switch {
	case errors.Is(err, ws2811.ErrRender):
		d.Code = "LOOP.RENDER"
		d.LikelyCauses = []string{"DMA transfer failed", "SPI write failed"}
		d.SuggestedFixes = []string{"check that no other process uses the DMA channel", "run as root"}
	case errors.Is(err, ws2811.ErrWait):
		d.Code = "LOOP.WAIT"
		d.LikelyCauses = []string{"previous transfer did not complete"}
	case errors.Is(err, layout.ErrSizeMismatch):
		d.Code = "LOOP.LAYOUT"
		d.LikelyCauses = []string{"channel LED counts do not add up to width*height"}
		d.SuggestedFixes = []string{"fix channels[].count in the config"}
	}
	return d
}
