package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"Storefront/internal/cart"
	"Storefront/internal/notify"
	"Storefront/internal/session"
	"Storefront/internal/widget"
)

// Server exposes the chat widget and buy buttons over a websocket
type Server struct {
	cart     *cart.Manager
	logger   *slog.Logger
	tracer   trace.Tracer
	delay    func() time.Duration
	upgrader websocket.Upgrader
}

// New creates a server sharing one cart manager across connections
func New(cartMgr *cart.Manager, logger *slog.Logger) *Server {
	return &Server{
		cart:   cartMgr,
		logger: logger,
		tracer: tracenoop.NewTracerProvider().Tracer(""),
		delay:  widget.ThinkingDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// SetTracer replaces the tracer
func (s *Server) SetTracer(tracer trace.Tracer) {
	s.tracer = tracer
}

// SetReplyDelay replaces the thinking delay used by new connections
func (s *Server) SetReplyDelay(delay func() time.Duration) {
	s.delay = delay
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	c := &conn{id: uuid.NewString(), ws: ws, logger: s.logger}
	defer c.close()

	wdg := widget.New(s.logger, func(msg session.Message) {
		if err := c.send(ServerFrame{Type: FrameReply, Text: msg.Content, Time: msg.Clock()}); err != nil {
			s.logger.Warn("failed to deliver reply", "conn_id", c.id, "error", err)
		}
	})
	wdg.SetDelay(s.delay)
	wdg.Open()
	defer wdg.Shutdown()

	s.logger.Info("widget connected", "conn_id", c.id, "session_id", wdg.SessionID())

	ctx := r.Context()
	if err := c.send(cartFrame(s.cart.Load(ctx))); err != nil {
		return
	}

	for {
		var frame ClientFrame
		if err := ws.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("widget connection dropped", "conn_id", c.id, "error", err)
			}
			return
		}
		if err := s.dispatch(ctx, c, wdg, frame); err != nil {
			s.logger.Warn("failed to handle frame", "conn_id", c.id, "type", frame.Type, "error", err)
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, c *conn, wdg *widget.Widget, frame ClientFrame) error {
	ctx, span := s.tracer.Start(ctx, "server.frame")
	defer span.End()
	span.SetAttributes(attribute.String("frame.type", frame.Type), attribute.String("conn.id", c.id))

	switch frame.Type {
	case FrameChat:
		if !wdg.IsOpen() {
			wdg.Open()
		}
		wdg.Submit(ctx, frame.Text)
		return nil

	case FrameBuy:
		name := strings.TrimSpace(frame.Name)
		updated, err := s.cart.BuyNow(ctx, name, frame.Price)
		if err != nil {
			span.RecordError(err)
			return c.send(ServerFrame{Type: FrameError, Text: err.Error(), Severity: string(notify.Error)})
		}
		if err := c.send(ServerFrame{Type: FrameNotice, Text: cart.AddedMessage(name), Severity: string(notify.Success)}); err != nil {
			return err
		}
		return c.send(cartFrame(updated))

	case FrameCart:
		return c.send(cartFrame(s.cart.Load(ctx)))

	case FrameOpen:
		wdg.Open()
		return nil

	case FrameClose:
		wdg.Close()
		return nil

	default:
		return c.send(ServerFrame{Type: FrameError, Text: "unknown frame type: " + frame.Type, Severity: string(notify.Error)})
	}
}
