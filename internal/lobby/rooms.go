package lobby

import (
	"net"

	"github.com/playforge/core/internal/catalog"
)

func gameByName(s *Server, name string) (catalog.Game, bool, error) {
	var queried struct {
		Games []catalog.Game `json:"games"`
	}
	if err := s.ds.Call("Game", "query", map[string]interface{}{"name": name, "browsing": true}, &queried); err != nil {
		return catalog.Game{}, false, err
	}
	if len(queried.Games) == 0 {
		return catalog.Game{}, false, nil
	}
	return queried.Games[0], true, nil
}

func gameByID(s *Server, gameID uint32) (catalog.Game, bool, error) {
	var got struct {
		Game catalog.Game `json:"game"`
	}
	if err := s.ds.Call("Game", "read", map[string]interface{}{"id": gameID}, &got); err != nil {
		return catalog.Game{}, false, nil
	}
	return got.Game, true, nil
}

func userByID(s *Server, userID uint32) (catalog.User, bool, error) {
	var got struct {
		User catalog.User `json:"user"`
	}
	if err := s.ds.Call("User", "read", map[string]interface{}{"id": userID}, &got); err != nil {
		return catalog.User{}, false, nil
	}
	return got.User, true, nil
}

// roomView is list_rooms'/join_room's externally visible room shape,
// joining in the host's name and the bound game's maxPlayers.
type roomView struct {
	ID         uint32                `json:"id"`
	Name       string                `json:"name"`
	Host       string                `json:"host"`
	Visibility catalog.RoomVisibility `json:"visibility"`
	GameName   string                `json:"gameName"`
	Status     catalog.RoomStatus    `json:"status"`
	MaxPlayers int                   `json:"maxPlayers"`
	MemberCount int                  `json:"memberCount"`
}

func describeRoom(s *Server, r catalog.Room) roomView {
	view := roomView{
		ID:         r.ID,
		Name:       r.Name,
		Visibility: r.Visibility,
		GameName:   r.GameName,
		Status:     r.Status,
	}
	if host, ok, _ := userByID(s, r.HostUserID); ok {
		view.Host = host.Name
	}
	if game, ok, _ := gameByID(s, r.GameID); ok {
		view.MaxPlayers = game.MaxPlayers
	}
	s.mu.Lock()
	view.MemberCount = len(s.roomMembers[r.ID])
	s.mu.Unlock()
	return view
}

func handleListRooms(s *Server, conn net.Conn, data map[string]interface{}) response {
	var queried struct {
		Rooms []catalog.Room `json:"rooms"`
	}
	if err := s.ds.Call("Room", "query", map[string]interface{}{}, &queried); err != nil {
		return errorResponse(err.Error())
	}

	views := make([]roomView, 0, len(queried.Rooms))
	for _, r := range queried.Rooms {
		views = append(views, describeRoom(s, r))
	}
	return successResponse(response{"rooms": views})
}

type createRoomRequest struct {
	RoomName   string                 `json:"room_name"`
	Visibility catalog.RoomVisibility `json:"visibility"`
	GameName   string                 `json:"game_name"`
}

func handleCreateRoom(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var req createRoomRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	game, ok, err := gameByName(s, req.GameName)
	if err != nil {
		return errorResponse(err.Error())
	}
	if !ok {
		return errorResponse("no active game named " + req.GameName)
	}

	var created struct {
		Room catalog.Room `json:"room"`
	}
	err = s.ds.Call("Room", "create", map[string]interface{}{
		"name":       req.RoomName,
		"hostUserId": userID,
		"visibility": req.Visibility,
		"gameName":   game.Name,
		"gameId":     game.ID,
	}, &created)
	if err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	s.roomMembers[created.Room.ID] = map[uint32]bool{userID: true}
	s.mu.Unlock()

	return successResponse(response{"roomId": created.Room.ID})
}

type roomIDRequest struct {
	RoomID uint32 `json:"roomId"`
}

// joinRoom is the shared implementation behind join_room and
// accept_invitation's bypass of the private-room check.
func joinRoom(s *Server, conn net.Conn, roomID uint32, bypassPrivate bool) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var got struct {
		Room catalog.Room `json:"room"`
	}
	if err := s.ds.Call("Room", "read", map[string]interface{}{"id": roomID}, &got); err != nil {
		return errorResponse(err.Error())
	}
	room := got.Room

	if room.Status == catalog.RoomStatusPlaying {
		return errorResponse("room already playing")
	}

	// A private room only admits its host directly; every other member
	// must come through accept_invitation, which already validated and
	// consumed the invitation before calling in with bypassPrivate=true.
	// Being on InviteList is not itself a join_room bypass (§4.3).
	if room.Visibility == catalog.RoomVisibilityPrivate && !bypassPrivate && room.HostUserID != userID {
		return errorResponse("room is private")
	}

	game, ok, err := gameByID(s, room.GameID)
	if err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	members, exists := s.roomMembers[roomID]
	if !exists {
		members = make(map[uint32]bool)
		s.roomMembers[roomID] = members
	}
	if ok && len(members) >= game.MaxPlayers {
		s.mu.Unlock()
		return errorResponse("room is full")
	}
	members[userID] = true
	s.mu.Unlock()

	return successResponse(response{"roomId": roomID})
}

func handleJoinRoom(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req roomIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}
	return joinRoom(s, conn, req.RoomID, false)
}

func handleLeaveRoom(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var req roomIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	if members, ok := s.roomMembers[req.RoomID]; ok {
		delete(members, userID)
	}
	s.mu.Unlock()

	return successResponse(nil)
}

type inviteUserRequest struct {
	RoomID       uint32 `json:"roomId"`
	TargetUserID uint32 `json:"targetUserId"`
}

func handleInviteUser(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var req inviteUserRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}
	if req.TargetUserID == userID {
		return errorResponse("cannot invite self")
	}

	var got struct {
		Room catalog.Room `json:"room"`
	}
	if err := s.ds.Call("Room", "read", map[string]interface{}{"id": req.RoomID}, &got); err != nil {
		return errorResponse(err.Error())
	}
	room := got.Room
	if room.HostUserID != userID {
		return errorResponse("only the host may invite")
	}
	for _, id := range room.InviteList {
		if id == req.TargetUserID {
			return errorResponse("user already invited")
		}
	}

	s.mu.Lock()
	_, targetOnline := s.onlineUsers[req.TargetUserID]
	s.mu.Unlock()
	if !targetOnline {
		return errorResponse("target user is not online")
	}

	inviteList := append(append([]uint32{}, room.InviteList...), req.TargetUserID)
	if err := s.ds.Call("Room", "update", map[string]interface{}{
		"id":     req.RoomID,
		"fields": map[string]interface{}{"inviteList": inviteList},
	}, nil); err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	s.invitations[req.TargetUserID] = append(s.invitations[req.TargetUserID], Invitation{
		RoomID:   req.RoomID,
		RoomName: room.Name,
		GameName: room.GameName,
	})
	if host, ok, _ := userByID(s, userID); ok {
		invites := s.invitations[req.TargetUserID]
		invites[len(invites)-1].Host = host.Name
	}
	s.mu.Unlock()

	return successResponse(nil)
}

func handleListInvitations(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	s.mu.Lock()
	invites := append([]Invitation{}, s.invitations[userID]...)
	s.mu.Unlock()

	return successResponse(response{"invitations": invites})
}

func handleAcceptInvitation(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	var req roomIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	s.mu.Lock()
	invites := s.invitations[userID]
	found := false
	remaining := invites[:0:0]
	for _, inv := range invites {
		if inv.RoomID == req.RoomID && !found {
			found = true
			continue
		}
		remaining = append(remaining, inv)
	}
	s.invitations[userID] = remaining
	s.mu.Unlock()

	if !found {
		return errorResponse("no pending invitation for that room")
	}

	return joinRoom(s, conn, req.RoomID, true)
}
