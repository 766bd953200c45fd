// Package health exposes the minimal liveness HTTP endpoint used by
// container platforms (Cloud Run, Docker HEALTHCHECK) to probe the bot.
// Any GET is answered with 200 and a plaintext body; there are no other
// routes.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// Body is the plaintext response returned to liveness probes.
const Body = "Floppa bot is running"

// Server is the liveness HTTP server. It is optional; the bot runs without
// it when the configured port is zero.
type Server struct {
	addr   string
	logger *slog.Logger
	server *http.Server
}

// NewServer creates the server listening on the given port (does not start it).
func NewServer(port int, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:   fmt.Sprintf(":%d", port),
		logger: logger.With("component", "health"),
	}
}

// ServeHTTP implements http.Handler so the server can be tested without a
// live network listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, Body)
}

// Start begins listening in the background. Blocks until the listener is
// established so the caller knows the port is open before returning.
// The server shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("health server: listen %s: %w", s.addr, err)
	}

	s.server = &http.Server{
		Handler:      s,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("health server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health server stopped", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	return nil
}
