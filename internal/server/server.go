// Package server provides HTTP server setup around the application entry point.
package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"launcher/internal/certs"
	"launcher/internal/config"
)

// EntryPoint builds the application handler from the resolved configuration.
type EntryPoint func(cfg *config.Config) (http.Handler, error)

// ErrNoEntryPoint is returned by New when no application was supplied.
var ErrNoEntryPoint = errors.New("no application entry point")

// Server holds the HTTP server and its dependencies.
type Server struct {
	cfg     *config.Config
	tls     certs.Materials
	app     http.Handler
	log     zerolog.Logger
	httpSrv *http.Server
}

// New builds the application through entry and prepares a server for it.
func New(cfg *config.Config, tls certs.Materials, entry EntryPoint, log zerolog.Logger) (*Server, error) {
	if entry == nil {
		return nil, ErrNoEntryPoint
	}
	app, err := entry(cfg)
	if err != nil {
		return nil, fmt.Errorf("build application: %w", err)
	}
	if app == nil {
		return nil, fmt.Errorf("build application: %w", ErrNoEntryPoint)
	}

	s := &Server{
		cfg: cfg,
		tls: tls,
		app: app,
		log: log,
	}
	s.httpSrv = &http.Server{
		Addr:    s.Addr(),
		Handler: s.Handler(),
	}
	return s, nil
}

// Addr returns the host:port the server binds to.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// TLS returns the certificate material the server uses, if any.
func (s *Server) TLS() certs.Materials {
	return s.tls
}

// Handler returns the application handler with middleware applied.
func (s *Server) Handler() http.Handler {
	if s.cfg.DebugEnabled() {
		return LoggingMiddleware(s.log, s.app)
	}
	return s.app
}

// ListenAndServe starts the server and blocks. A server closed through
// Close returns nil.
func (s *Server) ListenAndServe() error {
	var err error
	if s.tls.Enabled() {
		err = s.httpSrv.ListenAndServeTLS(s.tls.CertFile, s.tls.KeyFile)
	} else {
		err = s.httpSrv.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the server immediately.
func (s *Server) Close() error {
	return s.httpSrv.Close()
}
