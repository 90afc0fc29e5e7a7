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

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	sendBufferSize = 16
)

type gameUseCase interface {
	Connect(ctx context.Context, sessionID string) (*entity.Session, error)
	ClickCell(ctx context.Context, sessionID string, cell int) (*entity.Session, bool, error)
	ComputerMove(ctx context.Context, sessionID string, round int) (*entity.Session, bool, error)
	SelectMode(ctx context.Context, sessionID string, mode entity.Mode) (*entity.Session, error)
	Reset(ctx context.Context, sessionID string) (*entity.Session, error)
	Close(ctx context.Context, sessionID string) error
}

type handlerFunc func(ctx context.Context, conn *connection, payload *Payload) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase

	computerDelay time.Duration
	upgrader      websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase, computerDelay time.Duration) *Server {
	server := &Server{
		logger:        logger.With("component", "websocket"),
		gameUseCase:   gameUseCase,
		computerDelay: computerDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}

	server.handlers = map[string]handlerFunc{
		actionConnect:      server.handleConnect,
		actionCellClick:    server.handleCellClick,
		actionModeSelect:   server.handleModeSelect,
		actionGameReset:    server.handleGameReset,
		actionSessionClose: server.handleSessionClose,
	}

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that.Handler(ctx))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
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

// Handler upgrades requests to WebSocket connections that live until the peer leaves or ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		that.serveConnection(ctx, writer, req)
	})
}

func (that *Server) serveConnection(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serveConnection")

	ws, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn := &connection{
		ws:   ws,
		send: make(chan []byte, sendBufferSize),
		done: ctx.Done(),
	}

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	go conn.writePump(log)

	if err = that.readPump(ctx, conn); err != nil {
		log.Debug("connection closed", "error", err)
	}
}

// readPump - processes messages from the client one at a time.
func (that *Server) readPump(ctx context.Context, conn *connection) error {
	log := that.logger.With("method", "readPump")

	conn.ws.SetReadLimit(maxMessageSize)
	_ = conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read message: %w", err)
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError(conn, "malformed message")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			that.sendError(conn, "unknown action")
			continue
		}

		var payload Payload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &payload); err != nil {
				log.Error("failed to unmarshal payload", "action", message.Action, "error", err)
				that.sendError(conn, "malformed payload")
				continue
			}
		}

		if err = handler(ctx, conn, &payload); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendState(conn *connection, session *entity.Session) {
	data, err := newStateMessage(session)
	if err != nil {
		that.logger.Error("failed to marshal state", "error", err)
		return
	}

	conn.enqueue(data)
}

func (that *Server) sendError(conn *connection, text string) {
	data, err := newMessage(actionError, ResponsePayload{Error: text})
	if err != nil {
		that.logger.Error("failed to marshal error", "error", err)
		return
	}

	conn.enqueue(data)
}

// connection is one client. Only writePump writes to ws.
type connection struct {
	ws   *websocket.Conn
	send chan []byte
	done <-chan struct{}

	mu        sync.Mutex
	sessionID string
}

func (that *connection) SessionID() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.sessionID
}

func (that *connection) setSessionID(sessionID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.sessionID = sessionID
}

func (that *connection) enqueue(data []byte) {
	select {
	case that.send <- data:
	case <-that.done:
	}
}

func (that *connection) writePump(log *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = that.ws.Close()
	}()

	for {
		select {
		case data := <-that.send:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug("failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = that.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-that.done:
			_ = that.ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}
