package httpserver

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// Start blocks serving HTTP, or HTTPS when both TLS files are configured. It
// returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	s.LogMetricsInitialization()

	addr := s.Addr()
	useTLS := s.config.TLSCertFile != "" && s.config.TLSKeyFile != ""
	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{"addr": addr, "tls": useTLS}).Info("Starting catalog HTTP server")
		if !useTLS && s.config.Environment == "production" {
			s.logger.Warn("Running in HTTP mode - TLS certificates not configured")
		}
	}

	srv, err := s.newHTTPServer()
	if err != nil {
		return err
	}
	return s.echo.StartServer(srv)
}

// newHTTPServer applies the configured timeouts, and the certificate pair when
// TLS is enabled, to the server both transports start through.
func (s *Server) newHTTPServer() (*http.Server, error) {
	srv := &http.Server{
		Addr:         s.Addr(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
	if s.config.TLSCertFile == "" || s.config.TLSKeyFile == "" {
		return srv, nil
	}
	cert, err := tls.LoadX509KeyPair(s.config.TLSCertFile, s.config.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	srv.TLSConfig = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	return srv, nil
}

// Addr is the host:port the server listens on.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, s.config.Port)
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("Draining catalog HTTP server")
	}
	return s.echo.Shutdown(ctx)
}

// Echo exposes the router, mainly for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
