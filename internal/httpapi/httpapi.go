// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package httpapi serves the badge registry over a JSON HTTP API
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"connectrpc.com/grpchealth"
	"connectrpc.com/grpcreflect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type ServerConfig struct {
	// ListenAddress defaults to ":8080"
	ListenAddress string
}

// Server is the HTTP API server
type Server struct {
	config     ServerConfig
	logger     *slog.Logger
	registry   Registry
	router     chi.Router
	httpServer *http.Server
	listenAddr net.Addr
	mu         sync.Mutex
}

// New creates a new API server instance
func New(
	cfg ServerConfig,
	registry Registry,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.New(
			slog.NewJSONHandler(io.Discard, nil),
		)
	}
	logger = logger.With("component", "httpapi")
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = ":8080"
	}
	s := &Server{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
	s.router = s.routes()
	return s
}

// Handler returns the router serving the API
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the address the server is listening on, or an empty string
// if it is not running
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listenAddr == nil {
		return ""
	}
	return s.listenAddr.String()
}

// Start binds the listen address and serves in a background goroutine. The
// server is shut down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.httpServer != nil {
		s.mu.Unlock()
		return errors.New("server already started")
	}
	server := &http.Server{
		Addr:              s.config.ListenAddress,
		// Use h2c so gRPC health checks work without TLS
		Handler:           h2c.NewHandler(s.router, &http2.Server{}),
		ReadHeaderTimeout: 60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	// Bind first so port conflicts are reported to the caller
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen for API server: %w", err)
	}
	s.httpServer = server
	s.listenAddr = ln.Addr()
	s.mu.Unlock()

	go func() {
		if err := server.Serve(ln); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	s.logger.Info("API listener started on " + ln.Addr().String())

	go func() {
		<-ctx.Done()
		//nolint:contextcheck
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			30*time.Second,
		)
		defer cancel()
		//nolint:contextcheck
		if err := s.Stop(shutdownCtx); err != nil {
			s.logger.Error(
				"failed to shutdown API server on context cancellation",
				"error", err,
			)
		}
	}()
	return nil
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listenAddr = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Debug("shutting down API server")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown API server: %w", err)
	}
	return nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequest)
	r.Get("/health", s.handleHealth)
	healthPath, healthHandler := grpchealth.NewHandler(
		&healthChecker{registry: s.registry},
	)
	r.Handle(healthPath+"*", healthHandler)
	reflector := grpcreflect.NewStaticReflector(grpchealth.HealthV1ServiceName)
	reflectPath, reflectHandler := grpcreflect.NewHandlerV1(reflector)
	r.Handle(reflectPath+"*", reflectHandler)
	reflectAlphaPath, reflectAlphaHandler := grpcreflect.NewHandlerV1Alpha(reflector)
	r.Handle(reflectAlphaPath+"*", reflectAlphaHandler)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", s.handleConfig)
		r.Get("/badges", s.handleBadges)
		r.Get("/badges/{id}", s.handleBadge)
		r.Get("/badges/{id}/keys", s.handleKeys)
		r.Get("/badges/{id}/keys/{pubkey}", s.handleKey)
		r.Get("/badges/{id}/owners", s.handleOwners)
		r.Get("/badges/{id}/owners/{user}", s.handleOwner)
		r.Get("/badges/{id}/tokens", s.handleBadgeTokens)
		r.Get("/badges/{id}/operations", s.handleBadgeOperations)
		r.Get("/accounts/{owner}/tokens", s.handleOwnerTokens)
		r.Get("/tokens/{tokenID}", s.handleToken)
		r.Get("/operations", s.handleOperations)
		r.Post("/execute", s.handleExecute)
		r.Post("/query", s.handleQuery)
	})
	return r
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug(
			"request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
