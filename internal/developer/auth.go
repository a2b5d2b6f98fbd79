package developer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"

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

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

type devAuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func handleDevRegister(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req devAuthRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var created struct {
		Developer catalog.Developer `json:"developer"`
	}
	err := s.ds.Call("Developer", "create", map[string]interface{}{"name": req.Username, "password": req.Password}, &created)
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(response{"devId": created.Developer.ID})
}

func handleDevLogin(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req devAuthRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var queried struct {
		Developers []catalog.Developer `json:"developers"`
	}
	if err := s.ds.Call("Developer", "query", map[string]interface{}{"name": req.Username}, &queried); err != nil {
		return errorResponse(err.Error())
	}
	if len(queried.Developers) != 1 {
		return errorResponse("invalid credentials")
	}
	dev := queried.Developers[0]
	if hashPassword(req.Password) != dev.PasswordHash {
		return errorResponse("invalid credentials")
	}

	return successResponse(response{"devId": dev.ID, "name": dev.Name})
}
