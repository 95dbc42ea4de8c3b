// Package server exposes a game over HTTP. Clients read the board and the
// legal moves as JSON, submit moves by square pair and receive the new
// state over a WebSocket after every change.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hailam/bitchess/internal/board"
	"github.com/hailam/bitchess/internal/engine"
	"github.com/hailam/bitchess/internal/game"
)

var log = slog.Default().With("package", "server")

type client struct {
	conn *websocket.Conn
}

// Server serves one shared game.
type Server struct {
	router   *mux.Router
	upgrader websocket.Upgrader

	mu     sync.Mutex
	game   *game.Game
	engine *engine.Engine

	clients     map[*client]struct{}
	clientsLock sync.Mutex
}

// New creates a server around a fresh game. Requests are logged to
// accessLog in Apache combined format unless it is nil.
func New(eng *engine.Engine, accessLog io.Writer) *Server {
	s := &Server{
		router:  mux.NewRouter(),
		game:    game.New(),
		engine:  eng,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	if accessLog != nil {
		s.router.Use(func(next http.Handler) http.Handler {
			return handlers.CombinedLoggingHandler(accessLog, next)
		})
	}
	s.router.Use(handlers.RecoveryHandler())
	s.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)

	s.router.HandleFunc("/api/state", s.stateHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/api/move", s.moveHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/undo", s.undoHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/new", s.newHandler).Methods(http.MethodPost)
	s.router.HandleFunc("/api/engine", s.engineHandler).Methods(http.MethodPost)

	s.router.HandleFunc("/board.svg", s.boardHandler).Methods(http.MethodGet)
	s.router.HandleFunc("/ws", s.wsHandler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "File Not Found", http.StatusNotFound)
}

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrIllegalMove):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, game.ErrGameOver):
		code = http.StatusConflict
	case errors.Is(err, board.ErrInvalidSquare):
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errorBody{Error: err.Error()})
}

// changed sends the state to the caller and every WebSocket client. The
// caller holds s.mu.
func (s *Server) changed(w http.ResponseWriter) {
	st := stateOf(s.game)
	writeJSON(w, http.StatusOK, st)
	s.broadcast(st)
}

func (s *Server) stateHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, stateOf(s.game))
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) moveHandler(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	from, err := board.ParseSquare(req.From)
	if err != nil {
		writeError(w, err)
		return
	}
	to, err := board.ParseSquare(req.To)
	if err != nil {
		writeError(w, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.game.MakeMove(from, to)
	if err != nil {
		log.Debug("move rejected", "from", from, "to", to, "err", err)
		writeError(w, err)
		return
	}
	log.Info("move", "move", m, "ply", s.game.Position().Ply())
	s.changed(w)
}

func (s *Server) undoHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Undo()
	s.changed(w)
}

func (s *Server) newHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Reset()
	s.changed(w)
}

func (s *Server) engineHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.game.EngineMove(s.engine)
	if err != nil {
		writeError(w, err)
		return
	}
	log.Info("engine move", "move", m, "ply", s.game.Position().Ply())
	s.changed(w)
}

func (s *Server) boardHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	pos := s.game.Position().Copy()
	s.mu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	writeBoardSVG(w, pos)
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", "err", err)
		return
	}
	log.Info("websocket connected", "remote", conn.RemoteAddr())

	c := &client{conn: conn}
	s.mu.Lock()
	st := stateOf(s.game)
	s.mu.Unlock()

	s.clientsLock.Lock()
	s.clients[c] = struct{}{}
	err = c.conn.WriteJSON(st)
	s.clientsLock.Unlock()
	if err != nil {
		s.drop(c)
		return
	}

	// Clients only listen; reading detects the close.
	go func() {
		for {
			if _, _, err := c.conn.ReadMessage(); err != nil {
				log.Debug("websocket closed", "remote", c.conn.RemoteAddr(), "err", err)
				s.drop(c)
				return
			}
		}
	}()
}

func (s *Server) drop(c *client) {
	s.clientsLock.Lock()
	delete(s.clients, c)
	s.clientsLock.Unlock()
	c.conn.Close()
}

func (s *Server) broadcast(st State) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()
	for c := range s.clients {
		if err := c.conn.WriteJSON(st); err != nil {
			log.Warn("websocket write", "remote", c.conn.RemoteAddr(), "err", err)
		}
	}
}
