// Package datastore implements the central data store service: a TCP
// server exposing typed CRUD over the catalog's five collections through
// the framed request/response protocol of pkg/wire.
package datastore

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/pkg/metrics"
	"github.com/playforge/core/pkg/wire"
)

// Server accepts connections and dispatches (collection, action) requests
// against a Store. Each accepted connection is handled by an independent
// goroutine and may carry a pipelined sequence of requests, processed
// serially for that connection.
type Server struct {
	store    *catalog.Store
	logger   *slog.Logger
	metrics  *metrics.DataStoreMetrics
	listener net.Listener
}

// NewServer creates a data store server backed by store.
func NewServer(store *catalog.Store, logger *slog.Logger, m *metrics.DataStoreMetrics) *Server {
	return &Server{store: store, logger: logger, metrics: m}
}

// Start binds addr and begins accepting connections in the background.
func (s *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("datastore: listening on %s: %w", addr, err)
	}
	s.listener = listener
	s.logger.Info("data store server starting", "address", addr)

	go s.acceptConnections(ctx)
	return nil
}

// Stop closes the listener, unblocking Accept in acceptConnections.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("data store server stopping")
	return s.listener.Close()
}

// Addr returns the address the server is listening on. Valid only after
// Start has returned successfully.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) acceptConnections(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
				s.logger.Error("accept failed", "error", err)
				continue
			}
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()
	remote := conn.RemoteAddr().String()
	s.logger.Debug("connection accepted", "remote", remote)

	for {
		var req Envelope
		if err := wire.ReadJSON(conn, &req); err != nil {
			s.logger.Debug("connection closed", "remote", remote, "error", err)
			return
		}

		start := time.Now()
		resp := s.dispatch(req)
		status := "success"
		if resp["status"] == "error" {
			status = "error"
		}
		if s.metrics != nil {
			s.metrics.RequestsTotal.WithLabelValues(req.Collection, req.Action, status).Inc()
			s.metrics.RequestDuration.WithLabelValues(req.Collection, req.Action).Observe(time.Since(start).Seconds())
		}

		if err := wire.WriteJSON(conn, resp); err != nil {
			s.logger.Debug("write failed", "remote", remote, "error", err)
			return
		}
	}
}

// Envelope is the request shape for every data store call: §4.2's
// {collection, action, data}.
type Envelope struct {
	Collection string                 `json:"collection"`
	Action     string                 `json:"action"`
	Data       map[string]interface{} `json:"data"`
}

// response is a convenience alias for the {status, ...} reply shape.
type response map[string]interface{}

func errorResponse(message string) response {
	return response{"status": "error", "message": message}
}

func successResponse(fields response) response {
	if fields == nil {
		fields = response{}
	}
	fields["status"] = "success"
	return fields
}
