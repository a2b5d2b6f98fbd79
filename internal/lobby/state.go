// Package lobby implements the matchmaking service: transient session,
// room, and invitation state; game-server orchestration; downloads; and
// play-history-gated reviews.
package lobby

import (
	"log/slog"
	"net"
	"sync"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/pkg/config"
	"github.com/playforge/core/pkg/metrics"
)

// Invitation is one pending room invitation as seen by its recipient.
type Invitation struct {
	RoomID   uint32 `json:"roomId"`
	RoomName string `json:"roomName"`
	Host     string `json:"host"`
	GameName string `json:"gameName"`
}

// Server holds every transient table of §3 behind one mutex (§9's "(a)
// one owning task per service" note realized here as one lock instead
// of a channel actor, since handlers are naturally short and
// synchronous).
type Server struct {
	mu sync.Mutex

	onlineUsers map[uint32]net.Conn        // userId -> connection
	sessions    map[net.Conn]uint32        // connection -> userId
	roomMembers map[uint32]map[uint32]bool // roomId -> set of userId
	invitations map[uint32][]Invitation    // userId -> pending invitations

	ports *PortRegistry

	ds       *datastore.Client
	bundles  *bundle.Root
	launcher *Launcher
	cfg      *config.LobbyConfig
	logger   *slog.Logger
	metrics  *metrics.LobbyMetrics

	listener net.Listener
}

// NewServer wires a lobby server against a pooled data store client and
// the shared bundle repository.
func NewServer(cfg *config.LobbyConfig, ds *datastore.Client, bundles *bundle.Root, logger *slog.Logger, m *metrics.LobbyMetrics) *Server {
	s := &Server{
		onlineUsers: make(map[uint32]net.Conn),
		sessions:    make(map[net.Conn]uint32),
		roomMembers: make(map[uint32]map[uint32]bool),
		invitations: make(map[uint32][]Invitation),
		ports:       NewPortRegistry(cfg.GameServer.PortRangeStart, cfg.GameServer.PortRangeEnd),
		ds:          ds,
		bundles:     bundles,
		cfg:         cfg,
		logger:      logger,
		metrics:     m,
	}
	s.launcher = NewLauncher(cfg.GameServer, logger, s.onGameServerExit)
	return s
}

func (s *Server) bindSession(conn net.Conn, userID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onlineUsers[userID] = conn
	s.sessions[conn] = userID
	if s.metrics != nil {
		s.metrics.UsersOnline.Set(float64(len(s.onlineUsers)))
	}
}

func (s *Server) sessionUser(conn net.Conn) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[conn]
	return userID, ok
}

// handleDisconnect tears down every transient reference to a connection
// that has gone away, and marks the bound user offline via the data
// store. Local references are removed under the lobby mutex first; the
// DS call is made only after the mutex is released (§5).
func (s *Server) handleDisconnect(conn net.Conn) {
	s.mu.Lock()
	userID, ok := s.sessions[conn]
	if ok {
		delete(s.sessions, conn)
		delete(s.onlineUsers, userID)
		for _, members := range s.roomMembers {
			delete(members, userID)
		}
	}
	if s.metrics != nil {
		s.metrics.UsersOnline.Set(float64(len(s.onlineUsers)))
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	online := false
	_ = s.ds.Call("User", "update", map[string]interface{}{
		"id":     userID,
		"fields": map[string]interface{}{"online": online},
	}, nil)
}

// cleanup purges every room from the data store at startup (§9 open
// question 1, resolved: kept as specified — LS restart invalidates all
// in-flight rooms since no session state survives a restart either).
func (s *Server) cleanup() error {
	var queried struct {
		Rooms []struct {
			ID uint32 `json:"id"`
		} `json:"rooms"`
	}
	if err := s.ds.Call("Room", "query", map[string]interface{}{}, &queried); err != nil {
		return err
	}
	for _, r := range queried.Rooms {
		if err := s.ds.Call("Room", "delete", map[string]interface{}{"id": r.ID}, nil); err != nil {
			return err
		}
	}
	return nil
}
