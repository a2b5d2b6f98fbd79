package lobby

import (
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/playforge/core/internal/catalog"
)

func handleStartGame(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var req roomIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var got struct {
		Room catalog.Room `json:"room"`
	}
	if err := s.ds.Call("Room", "read", map[string]interface{}{"id": req.RoomID}, &got); err != nil {
		return errorResponse(err.Error())
	}
	room := got.Room
	if room.HostUserID != userID {
		return errorResponse("only the host may start the game")
	}
	if room.Status == catalog.RoomStatusPlaying {
		return errorResponse("game already started")
	}

	game, ok, err := gameByID(s, room.GameID)
	if err != nil || !ok {
		return errorResponse("bound game no longer exists")
	}

	s.mu.Lock()
	members := make([]uint32, 0, len(s.roomMembers[req.RoomID]))
	for id := range s.roomMembers[req.RoomID] {
		members = append(members, id)
	}
	s.mu.Unlock()

	if len(members) != game.MaxPlayers {
		return errorResponse(fmt.Sprintf("room has %d of %d required players", len(members), game.MaxPlayers))
	}

	if game.Status != catalog.GameStatusActive {
		idle := catalog.RoomStatusIdle
		_ = s.ds.Call("Room", "update", map[string]interface{}{
			"id":     req.RoomID,
			"fields": map[string]interface{}{"status": idle, "gameServerPort": nil},
		}, nil)
		return errorResponse("game is no longer active")
	}

	port, err := s.ports.Allocate(req.RoomID)
	if err != nil {
		return errorResponse(err.Error())
	}

	usernames := make([]string, 0, len(members))
	for _, id := range members {
		if user, ok, _ := userByID(s, id); ok {
			usernames = append(usernames, user.Name)
		}
	}

	matchID := uuid.NewString()
	ttl := time.Duration(s.cfg.GameServer.MatchTokenTTLSeconds) * time.Second
	token, err := mintMatchToken(s.cfg.GameServer.MatchSigningKey, req.RoomID, matchID, ttl)
	if err != nil {
		s.ports.Release(req.RoomID)
		return errorResponse(err.Error())
	}

	playing := catalog.RoomStatusPlaying
	portCopy := port
	err = s.ds.Call("Room", "update", map[string]interface{}{
		"id":     req.RoomID,
		"fields": map[string]interface{}{"status": playing, "gameServerPort": portCopy},
	}, nil)
	if err != nil {
		s.ports.Release(req.RoomID)
		return errorResponse(err.Error())
	}

	cwd := s.bundles.VersionDir(game.Name, game.CurrentVersion)
	err = s.launcher.Launch(SpawnArgs{
		Port:        port,
		RoomID:      req.RoomID,
		GameID:      game.ID,
		GameName:    game.Name,
		GameVersion: game.CurrentVersion,
		MatchToken:  token,
		Usernames:   usernames,
		Cwd:         cwd,
		ServerFile:  game.ServerFile,
	})
	if err != nil {
		return errorResponse(err.Error())
	}

	if s.metrics != nil {
		s.metrics.MatchesStarted.Inc()
		s.metrics.PortsInUse.Set(float64(s.ports.InUse()))
	}

	time.Sleep(s.launcher.SettleDelay())
	if !s.launcher.IsAlive(req.RoomID) {
		return errorResponse("game server process exited before becoming ready")
	}

	return successResponse(response{
		"gameServerPort": port,
		"gameName":       game.Name,
		"gameVersion":    game.CurrentVersion,
		"players":        usernames,
	})
}

func handleCheckRoomStatus(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req roomIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var got struct {
		Room catalog.Room `json:"room"`
	}
	if err := s.ds.Call("Room", "read", map[string]interface{}{"id": req.RoomID}, &got); err != nil {
		return errorResponse(err.Error())
	}
	room := got.Room

	if room.Status != catalog.RoomStatusPlaying {
		return successResponse(response{"gameStarted": false})
	}

	game, ok, _ := gameByID(s, room.GameID)
	fields := response{"gameStarted": true}
	if room.GameServerPort != nil {
		fields["gameServerPort"] = *room.GameServerPort
	}
	if ok {
		fields["gameName"] = game.Name
		fields["gameVersion"] = game.CurrentVersion
	}
	return successResponse(fields)
}

type gameEndedRequest struct {
	RoomID      uint32                `json:"roomId"`
	MatchID     string                `json:"matchId"`
	GameID      uint32                `json:"game_id"`
	GameName    string                `json:"game_name"`
	GameVersion string                `json:"game_version"`
	Users       []string              `json:"users"`
	StartAt     time.Time             `json:"startAt"`
	EndAt       time.Time             `json:"endAt"`
	Results     []catalog.MatchResult `json:"results"`
}

// handleGameEnded is the unauthenticated callback a spawned game server
// makes on match completion; its authority to mutate the room comes from
// presenting the per-match token minted at spawn time, not from a login
// session, since the caller is a subprocess, not a player connection.
func handleGameEnded(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req gameEndedRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	token, _ := data["matchToken"].(string)
	if err := verifyMatchToken(s.cfg.GameServer.MatchSigningKey, token, req.RoomID, req.MatchID); err != nil {
		return errorResponse(err.Error())
	}

	idle := catalog.RoomStatusIdle
	err := s.ds.Call("Room", "update", map[string]interface{}{
		"id":     req.RoomID,
		"fields": map[string]interface{}{"status": idle, "gameServerPort": nil},
	}, nil)
	if err != nil {
		return errorResponse(err.Error())
	}
	s.ports.Release(req.RoomID)

	err = s.ds.Call("GameLog", "create", map[string]interface{}{
		"matchId":     req.MatchID,
		"roomId":      req.RoomID,
		"gameId":      req.GameID,
		"gameName":    req.GameName,
		"gameVersion": req.GameVersion,
		"users":       req.Users,
		"startAt":     req.StartAt,
		"endAt":       req.EndAt,
		"results":     req.Results,
	}, nil)
	if err != nil {
		return errorResponse(err.Error())
	}

	if s.metrics != nil {
		s.metrics.MatchesCompleted.Inc()
		s.metrics.PortsInUse.Set(float64(s.ports.InUse()))
	}

	return successResponse(nil)
}

// onGameServerExit is the launcher's exit callback. It only records the
// exit; it does not release the port or revert the room, since a
// subprocess that dies without issuing game_ended leaves that state
// stuck by design (open question, resolved as no-reaper baseline).
func (s *Server) onGameServerExit(roomID uint32, err error) {
	outcome := "clean"
	if err != nil {
		outcome = "error"
	}
	if s.metrics != nil {
		s.metrics.GameServerExits.WithLabelValues(outcome).Inc()
	}
	s.logger.Info("game server subprocess exited", "room_id", roomID, "error", err)
}
