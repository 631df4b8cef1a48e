package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-ai/internal/entity"
	"github.com/rocketscienceinc/tictactoe-ai/internal/usecase"
)

const (
	pingInterval    = 30 * time.Second
	pongWait        = 2 * pingInterval
	writeWait       = 10 * time.Second
	shutdownTimeout = 5 * time.Second

	defaultReconnectTimeout = 30 * time.Second
)

type uGame interface {
	GetOrCreatePlayer(ctx context.Context, id, name string) (*entity.Player, error)

	NewGame(ctx context.Context, playerID string, params usecase.NewGameParams) (*entity.Game, error)
	JoinGame(ctx context.Context, gameID, playerID string) (*entity.Game, error)
	GetGame(ctx context.Context, playerID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, playerID string, row, col int) (*entity.Game, error)
	RestartGame(ctx context.Context, playerID string) (*entity.Game, error)
	LeaveGame(ctx context.Context, playerID string) (*entity.Game, error)
}

// client - one browser connection. gorilla connections allow a single
// concurrent writer, broadcasts from other connections go through writeMutex.
type client struct {
	conn       *websocket.Conn
	writeMutex sync.Mutex
}

func (that *client) send(message *Message) error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	if err := that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}

	return that.conn.WriteJSON(message)
}

func (that *client) ping() error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	return that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

type handler func(ctx context.Context, conn *client, payload *Payload) error

type Server struct {
	logger   *slog.Logger
	uGame    uGame
	upgrader websocket.Upgrader

	handlers map[string]handler

	connectionsMutex sync.RWMutex
	connections      map[string]*client

	reconnectTimeout    time.Duration
	disconnectedMutex   sync.Mutex
	disconnectedPlayers map[string]time.Time
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},

		handlers:    make(map[string]handler),
		connections: make(map[string]*client),

		reconnectTimeout:    defaultReconnectTimeout,
		disconnectedPlayers: make(map[string]time.Time),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionNewGame] = server.handleNewGame
	server.handlers[actionJoinGame] = server.handleJoinGame
	server.handlers[actionTurn] = server.handleGameTurn
	server.handlers[actionRestart] = server.handleRestart
	server.handlers[actionLeave] = server.handleGameLeave

	return server
}

// Handler - the /ws endpoint.
func (that *Server) Handler(ctx context.Context) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	return router
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shutdown server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "remote", r.RemoteAddr)

	current := &client{conn: conn}
	defer that.handleDisconnect(ctx, current)

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go that.keepAlive(connCtx, current)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err = that.handleMessages(connCtx, current); err != nil {
		log.Info("connection closed", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, conn *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := conn.conn.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(conn, "", "malformed message")
			continue
		}

		handle, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(conn, message.Action, "unknown action")
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				log.Error("failed to unmarshal payload", "action", message.Action, "error", err)
				that.sendError(conn, message.Action, "malformed payload")
				continue
			}
		}

		if payload.Player == nil || (payload.Player.ID == "" && message.Action != actionConnect) {
			that.sendError(conn, message.Action, "player is required")
			continue
		}

		if err = handle(ctx, conn, &payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
			that.sendError(conn, message.Action, err.Error())
		}
	}
}

func (that *Server) keepAlive(ctx context.Context, conn *client) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				return
			}
		}
	}
}

func (that *Server) register(playerID string, conn *client) {
	that.connectionsMutex.Lock()
	that.connections[playerID] = conn
	that.connectionsMutex.Unlock()
}

func (that *Server) connection(playerID string) (*client, bool) {
	that.connectionsMutex.RLock()
	defer that.connectionsMutex.RUnlock()

	conn, ok := that.connections[playerID]

	return conn, ok
}

func (that *Server) handleDisconnect(ctx context.Context, conn *client) {
	var disconnected []string

	that.connectionsMutex.Lock()
	for playerID, connection := range that.connections {
		if connection == conn {
			delete(that.connections, playerID)
			disconnected = append(disconnected, playerID)
		}
	}
	that.connectionsMutex.Unlock()

	for _, playerID := range disconnected {
		that.logger.Info("player disconnected", "playerID", playerID)
		that.playerDisconnected(ctx, playerID)
	}
}

func (that *Server) sendError(conn *client, action, errorMsg string) {
	if err := that.send(conn, action, Payload{Error: errorMsg}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}
