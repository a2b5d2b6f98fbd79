package lobby

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"time"

	"github.com/playforge/core/internal/catalog"
)

// decodeData round-trips the generic envelope payload into a typed
// request struct, mirroring the data store's own decodeData.
func decodeData(data map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

type registerRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func handleRegister(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req registerRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var created struct {
		User catalog.User `json:"user"`
	}
	err := s.ds.Call("User", "create", map[string]interface{}{"name": req.Name, "password": req.Password}, &created)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(response{"userId": created.User.ID})
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func handleLogin(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req loginRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var queried struct {
		Users []catalog.User `json:"users"`
	}
	if err := s.ds.Call("User", "query", map[string]interface{}{"name": req.Name}, &queried); err != nil {
		return errorResponse(err.Error())
	}
	if len(queried.Users) != 1 {
		return errorResponse("invalid credentials")
	}
	user := queried.Users[0]
	if hashPassword(req.Password) != user.PasswordHash {
		return errorResponse("invalid credentials")
	}

	if _, alreadyOnline := s.sessionUser(conn); alreadyOnline {
		return errorResponse("already online")
	}
	s.mu.Lock()
	_, taken := s.onlineUsers[user.ID]
	s.mu.Unlock()
	if taken {
		return errorResponse("already online")
	}

	now := time.Now()
	online := true
	err := s.ds.Call("User", "update", map[string]interface{}{
		"id":     user.ID,
		"fields": map[string]interface{}{"online": online, "lastLoginAt": now},
	}, nil)
	if err != nil {
		return errorResponse(err.Error())
	}

	s.bindSession(conn, user.ID)
	return successResponse(response{"userId": user.ID, "name": user.Name})
}

func handleLogout(s *Server, conn net.Conn, data map[string]interface{}) response {
	userID, ok := s.sessionUser(conn)
	if !ok {
		return errorResponse("not logged in")
	}

	s.mu.Lock()
	delete(s.sessions, conn)
	delete(s.onlineUsers, userID)
	for _, members := range s.roomMembers {
		delete(members, userID)
	}
	s.mu.Unlock()

	online := false
	_ = s.ds.Call("User", "update", map[string]interface{}{
		"id":     userID,
		"fields": map[string]interface{}{"online": online},
	}, nil)

	return successResponse(nil)
}

func handleListUsers(s *Server, conn net.Conn, data map[string]interface{}) response {
	online := true
	var queried struct {
		Users []catalog.User `json:"users"`
	}
	if err := s.ds.Call("User", "query", map[string]interface{}{"online": online}, &queried); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(response{"users": queried.Users})
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
