/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and wires the
dashboard pipeline into the router.
*/
package server

import (
	"fmt"
	"net/http"
	"time"

	"AINutritionist/internal/config"
	"AINutritionist/internal/dashboard"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// dashboard runs the fetch, evaluate and suggest pipeline.
	dashboard *dashboard.Service

	// startedAt is reported by the health endpoint.
	startedAt time.Time
}

// New builds the Server around an already wired dashboard service.
func New(cfg config.Config, svc *dashboard.Service) *Server {
	return &Server{
		port:      cfg.Port,
		dashboard: svc,
		startedAt: time.Now(),
	}
}

// NewServer initializes a new Server instance and returns a configured *http.Server.
func NewServer(cfg config.Config, svc *dashboard.Service) *http.Server {
	app := New(cfg, svc)

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", app.port),
		Handler: app.RegisterRoutes(),
		// Renders wait on two sequential upstream calls.
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.HTTPClientTimeout*2 + 10*time.Second,
	}
}
