package mcp

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// Version is reported to MCP clients
const Version = "0.1.0"

// Server serves the MCP endpoint and the REST API on one listener
type Server struct {
	logger *logging.Logger
	config config.Config

	srv     *http.Server
	started atomic.Bool
}

// NewServer constructs the HTTP server over shared resources
func NewServer(log *logging.Logger, cfg config.Config, res *Resources) (*Server, error) {
	handler, err := newHandler(log, res)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		logger: log,
		config: cfg,
		srv:    httpSrv,
	}, nil
}

func newHandler(log *logging.Logger, res *Resources) (http.Handler, error) {
	impl := &sdkmcp.Implementation{
		Name:    "job-aggregator",
		Version: Version,
	}
	mcpServer := sdkmcp.NewServer(impl, nil)
	NewToolRegistry(log.Named("tools")).RegisterAll(mcpServer, res)

	streamHandler := sdkmcp.NewStreamableHTTPHandler(func(req *http.Request) *sdkmcp.Server {
		return mcpServer
	}, nil)

	rest, err := newAPI(res.JobService, log.Named("api"))
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/mcp/stream", streamHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rest.register(mux)
	return mux, nil
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info("HTTP server listening", "addr", s.srv.Addr, "mcp", "/mcp/stream", "api", "/api")

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutdown requested for HTTP server")
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Warn("HTTP server shutdown with error", "err", err)
		return err
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
