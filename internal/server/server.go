// Package server exposes the code patterns over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"plates/internal/code"
	"plates/internal/ctxlog"
)

type Server struct {
	addr            string
	handler         http.Handler
	anti            *antidos
	shutdownTimeout time.Duration
}

func New(config Config) *Server {
	if config.Port == 0 {
		panic("server: port is required")
	}
	if config.AntidosBuckets == 0 {
		panic("server: antidosBuckets is required")
	}
	if config.AntidosPeriod == 0 {
		panic("server: antidosPeriod is required")
	}
	if config.AntidosMaxConcurrent == 0 {
		panic("server: antidosMaxConcurrent is required")
	}
	if config.ShutdownTimeout == 0 {
		panic("server: shutdownTimeout is required")
	}

	anti := newAntidos(config.AntidosBuckets, time.Duration(config.AntidosPeriod), config.AntidosMaxConcurrent)

	mux := http.NewServeMux()

	slog.Info("registering handler", "path", "/patterns")
	mux.Handle("GET /patterns", cachedJSONHandler(catalogue()))

	for _, route := range []struct {
		path    string
		handler http.Handler
	}{
		{"/{pattern}/encode/{value}", encodeHandler(false)},
		{"/{pattern}/code/{value}", encodeHandler(true)},
		{"/{pattern}/decode/{code}", decodeHandler(false)},
		{"/{pattern}/value/{code}", decodeHandler(true)},
	} {
		slog.Info("registering handler", "path", route.path)
		mux.Handle("GET "+route.path, anti.middleware(route.handler))
	}

	mux.Handle("GET /", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, errorResponse{Error: "not found"})
	}))

	handler := http.Handler(mux)
	handler = newRecover(handler)
	handler = logMiddleware(handler)

	return &Server{
		addr:            fmt.Sprintf("0.0.0.0:%d", config.Port),
		handler:         handler,
		anti:            anti,
		shutdownTimeout: time.Duration(config.ShutdownTimeout),
	}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := ctxlog.Get(ctx)
	defer s.anti.stop()

	srv := &http.Server{
		Handler:     s.handler,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErrCh := make(chan error, 1)
	go func() {
		defer cancel()
		logger.Info("server is running", "addr", ln.Addr().String())
		serveErrCh <- srv.Serve(ln)
	}()

	<-ctx.Done()

	logger.Info("server is shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer stopCancel()
	shutdownErr := srv.Shutdown(stopCtx)

	if errors.Is(shutdownErr, context.DeadlineExceeded) {
		logger.Error("server shutdown timeout exceeded")
	} else if shutdownErr == nil {
		logger.Info("all clients closed successfully")
	}

	serveErr := <-serveErrCh
	if errors.Is(serveErr, http.ErrServerClosed) {
		serveErr = nil
	}

	return errors.Join(serveErr, shutdownErr)
}

func lookup(w http.ResponseWriter, r *http.Request) (*code.Scheme, bool) {
	p, err := code.ParsePattern(r.PathValue("pattern"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return p.Scheme(), true
}
