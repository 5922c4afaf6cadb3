// Package server provides the HTTP webhook receiver and its lifecycle.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/solatis/pusher-rest/internal/core/config"
	"github.com/solatis/pusher-rest/internal/types"
)

// Webhook request headers set by Pusher.
const (
	HeaderKey       = "X-Pusher-Key"
	HeaderSignature = "X-Pusher-Signature"
)

// HealthPath answers liveness probes.
const HealthPath = "/healthz"

// WebhookValidator authenticates an inbound webhook body.
type WebhookValidator interface {
	ValidateWebhook(key, signature string, body []byte) (*types.Webhook, bool)
}

// WebhookRecorder persists validated webhooks.
type WebhookRecorder interface {
	Record(ctx context.Context, hook *types.Webhook) (int, error)
}

// WebhookServer receives Pusher webhooks over HTTP.
type WebhookServer struct {
	server    *http.Server
	config    config.WebhookServerConfig
	validator WebhookValidator
	recorder  WebhookRecorder
	logger    *zap.Logger

	mu       sync.Mutex
	listener net.Listener
}

// NewWebhookServer wires the handler. recorder may be nil, in which case
// validated webhooks are only logged.
func NewWebhookServer(cfg config.WebhookServerConfig, validator WebhookValidator, recorder WebhookRecorder, logger *zap.Logger) (*WebhookServer, error) {
	if validator == nil {
		return nil, fmt.Errorf("validator cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &WebhookServer{
		config:    cfg,
		validator: validator,
		recorder:  recorder,
		logger:    logger,
	}
	s.server = &http.Server{Handler: s.Handler()}
	return s, nil
}

// Handler returns the receiver's routes.
func (s *WebhookServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Path, s.handleWebhook)
	mux.HandleFunc(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

func (s *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "body too large"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read body"})
		return
	}

	hook, ok := s.validator.ValidateWebhook(r.Header.Get(HeaderKey), r.Header.Get(HeaderSignature), body)
	if !ok {
		s.logger.Info("rejected webhook", zap.String("remote_addr", r.RemoteAddr))
		s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid webhook"})
		return
	}

	recorded := 0
	if s.recorder != nil {
		recorded, err = s.recorder.Record(r.Context(), hook)
		if err != nil {
			s.logger.Error("failed to record webhook", zap.Error(err))
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "failed to record webhook"})
			return
		}
	}

	for _, ev := range hook.Events {
		s.logger.Debug("webhook event",
			zap.String("name", ev.Name),
			zap.String("channel", ev.Channel),
			zap.Int64("time_ms", hook.TimeMs))
	}

	s.writeJSON(w, http.StatusOK, map[string]int{"recorded": recorded})
}

func (s *WebhookServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to write response", zap.Int("status", status), zap.Error(err))
	}
}

// Start binds the listener and serves until Shutdown is called.
// Context is provided for API consistency but Serve blocks until Shutdown.
func (s *WebhookServer) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("webhook receiver listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("path", s.config.Path))

	if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *WebhookServer) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown drains in-flight requests, bounded by ShutdownTimeout, then closes.
func (s *WebhookServer) Shutdown(ctx context.Context) error {
	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = config.DefaultWebhookServerConfig().ShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		if closeErr := s.server.Close(); closeErr != nil {
			s.logger.Debug("forced close failed", zap.Error(closeErr))
		}
		return fmt.Errorf("graceful shutdown timeout, forced stop: %w", err)
	}
	return nil
}
