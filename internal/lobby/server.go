package lobby

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/playforge/core/pkg/wire"
)

// commandFunc executes one player command against a session bound to
// conn (sessionUser returns ok=false before login).
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
	"register":            handleRegister,
	"login":                handleLogin,
	"logout":               handleLogout,
	"list_users":           handleListUsers,
	"list_rooms":           handleListRooms,
	"create_room":          handleCreateRoom,
	"join_room":            handleJoinRoom,
	"leave_room":           handleLeaveRoom,
	"invite_user":          handleInviteUser,
	"list_invitations":     handleListInvitations,
	"accept_invitation":    handleAcceptInvitation,
	"start_game":           handleStartGame,
	"check_room_status":    handleCheckRoomStatus,
	"game_ended":           handleGameEnded,
	"browse_store":         handleBrowseStore,
	"get_game_by_name":     handleGetGameByName,
	"download_game":        handleDownloadGame,
	"submit_review":        handleSubmitReview,
	"check_play_history":   handleCheckPlayHistory,
}

// Start binds addr, purges stale rooms (§9.1), and begins accepting
// player connections in the background.
func (s *Server) Start(ctx context.Context, addr string) error {
	if err := s.cleanup(); err != nil {
		s.logger.Warn("startup room cleanup failed", "error", err)
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("lobby: listening on %s: %w", addr, err)
	}
	s.listener = listener
	s.logger.Info("lobby server starting", "address", addr)

	go s.acceptConnections(ctx)
	return nil
}

// Stop closes the listener.
func (s *Server) Stop() error {
	if s.listener == nil {
		return nil
	}
	s.logger.Info("lobby server stopping")
	return s.listener.Close()
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
	defer func() {
		s.handleDisconnect(conn)
		conn.Close()
	}()

	remote := conn.RemoteAddr().String()
	s.logger.Debug("player connection accepted", "remote", remote)

	for {
		// §4.3's command envelope is flat — every argument is a sibling of
		// "command", not nested under a "data" key (distinct from DS's
		// {collection, action, data} shape in §4.2). The same flat shape is
		// what a spawned game server sends back for game_ended (§6), so
		// parsing it this way is what lets that unauthenticated callback
		// reach handleGameEnded with its fields populated.
		var envelope map[string]interface{}
		if err := wire.ReadJSON(conn, &envelope); err != nil {
			s.logger.Debug("player connection closed", "remote", remote, "error", err)
			return
		}
		command, _ := envelope["command"].(string)
		delete(envelope, "command")

		start := time.Now()
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
			s.metrics.CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
		}

		if resp["_handled"] == true {
			// download_game already streamed its own framed records and
			// raw file bytes directly to conn; nothing more to write.
			continue
		}

		if err := wire.WriteJSON(conn, resp); err != nil {
			s.logger.Debug("write failed", "remote", remote, "error", err)
			return
		}
	}
}
