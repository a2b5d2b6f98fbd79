// Package developer implements the developer-facing publishing service:
// account management and game bundle upload/update/removal, mirroring the
// lobby service's command-dispatch shape over a narrower surface (§4.4).
package developer

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/pkg/config"
	"github.com/playforge/core/pkg/metrics"
	"github.com/playforge/core/pkg/wire"
)

type commandFunc func(s *Server, conn net.Conn, data map[string]interface{}) response

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

var commandTable = map[string]commandFunc{
	"dev_register":  handleDevRegister,
	"dev_login":     handleDevLogin,
	"upload_game":   handleUploadGame,
	"update_game":   handleUpdateGame,
	"remove_game":   handleRemoveGame,
	"list_my_games": handleListMyGames,
}

// Server is stateless across requests other than the pooled data store
// client and the shared bundle repository; unlike the lobby service it
// tracks no per-connection session, since every command carries its own
// devId (§4.4).
type Server struct {
	ds      *datastore.Client
	bundles *bundle.Root
	cfg     *config.DeveloperConfig
	logger  *slog.Logger
	metrics *metrics.DeveloperMetrics

	listener net.Listener
}

// NewServer wires a developer service against a pooled data store client
// and the shared bundle repository.
func NewServer(cfg *config.DeveloperConfig, ds *datastore.Client, bundles *bundle.Root, logger *slog.Logger, m *metrics.DeveloperMetrics) *Server {
	return &Server{ds: ds, bundles: bundles, cfg: cfg, logger: logger, metrics: m}
}

// Start binds addr and begins accepting developer connections in the
// background.
func (s *Server) Start(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("developer: listening on %s: %w", addr, err)
	}
	s.listener = listener
	s.logger.Info("developer server starting", "address", addr)

	go s.acceptConnections(ctx)
	return nil
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("developer server stopping")
	return s.listener.Close()
}

// Addr returns the address the server is listening on.
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
	s.logger.Debug("developer connection accepted", "remote", remote)

	for {
		// Flat envelope, as in the lobby service: every argument is a
		// sibling of "command", not nested under a "data" key (§4.4).
		var envelope map[string]interface{}
		if err := wire.ReadJSON(conn, &envelope); err != nil {
			s.logger.Debug("developer connection closed", "remote", remote, "error", err)
			return
		}
		command, _ := envelope["command"].(string)
		delete(envelope, "command")

		handler, ok := commandTable[command]
		var resp response
		if !ok {
			resp = errorResponse(fmt.Sprintf("unknown command %q", command))
		} else {
			resp = handler(s, conn, envelope)
		}

		status := "success"
		if resp["status"] == "error" {
			status = "error"
		}
		if s.metrics != nil {
			s.metrics.CommandsTotal.WithLabelValues(command, status).Inc()
		}

		if resp["_handled"] == true {
			// upload_game/update_game already received their file records
			// directly from conn; nothing more to write.
			continue
		}

		if err := wire.WriteJSON(conn, resp); err != nil {
			s.logger.Debug("write failed", "remote", remote, "error", err)
			return
		}
	}
}
