// Package livefeed streams the selected user's notes to websocket clients.
//
// Every connection receives a full snapshot on connect and again after each
// local change, so clients never have to apply diffs.
package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
)

const writeTimeout = 5 * time.Second

// Source is the part of the note repository the feed reads.
type Source interface {
	Notes(ctx context.Context) (<-chan []*models.Note, error)
	IsConnected() bool
}

// Note is the wire form of a note.
type Note struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Synced    bool   `json:"synced"`
}

// Message is one snapshot pushed to a client.
type Message struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Notes     []Note    `json:"notes"`
}

const MessageTypeNotes = "notes"

type Server struct {
	addr   string
	source Source
	log    logging.Logger

	listener net.Listener
	server   *http.Server
	wg       sync.WaitGroup

	mu      sync.Mutex
	clients int
}

func NewServer(addr string, source Source, log logging.Logger) *Server {
	if log == nil {
		log = logging.Discard()
	}
	return &Server{addr: addr, source: source, log: log.With("component", "livefeed")}
}

// Handler serves /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.log.Info(ctx, "live feed listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error(ctx, "live feed server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down and waits for the serve loop.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.wg.Wait()
	if err != nil {
		return fmt.Errorf("live feed shutdown: %w", err)
	}
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.log.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.CloseNow()

	// clients never send; CloseRead cancels ctx once the peer goes away
	ctx := conn.CloseRead(r.Context())

	snapshots, err := s.source.Notes(ctx)
	if err != nil {
		_ = conn.Close(websocket.StatusPolicyViolation, err.Error())
		return
	}

	s.track(1)
	defer s.track(-1)

	for {
		select {
		case <-ctx.Done():
			return
		case notes, ok := <-snapshots:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			if err := s.write(ctx, conn, notes); err != nil {
				s.log.Debug(ctx, "live feed client dropped", "error", err)
				return
			}
		}
	}
}

func (s *Server) write(ctx context.Context, conn *websocket.Conn, notes []*models.Note) error {
	msg := Message{Type: MessageTypeNotes, Timestamp: time.Now().UTC(), Notes: make([]Note, 0, len(notes))}
	for _, n := range notes {
		msg.Notes = append(msg.Notes, Note{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
			UpdatedAt: n.UpdatedAt,
			Synced:    n.IsSynced,
		})
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

func (s *Server) track(delta int) {
	s.mu.Lock()
	s.clients += delta
	s.mu.Unlock()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"online":  s.source.IsConnected(),
		"clients": s.ClientCount(),
	})
}
