package developer

import (
	"fmt"
	"net"
	"path/filepath"
	"regexp"

	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/pkg/wire"
)

// gameInfo is the upload_game/update_game metadata payload (§4.4).
type gameInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	GameType    catalog.GameType `json:"gameType"`
	MaxPlayers  int             `json:"maxPlayers"`
	Version     string          `json:"version"`
	MainFile    string          `json:"mainFile"`
	ServerFile  string          `json:"serverFile"`
}

// semverPattern is the `x.y.z` format §3/§7 require of currentVersion.
var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// validateUpload checks the boundary conditions §7 (Validation errors)
// and §8 mandate for upload_game: required fields present, maxPlayers at
// least 2, and version matching x.y.z.
func validateUpload(info gameInfo) error {
	if info.Name == "" {
		return fmt.Errorf("name is required")
	}
	if info.MainFile == "" {
		return fmt.Errorf("mainFile is required")
	}
	if info.ServerFile == "" {
		return fmt.Errorf("serverFile is required")
	}
	if info.GameType != catalog.GameTypeGUI && info.GameType != catalog.GameTypeCLI {
		return fmt.Errorf("gameType must be GUI or CLI")
	}
	if info.MaxPlayers < 2 {
		return fmt.Errorf("maxPlayers must be at least 2")
	}
	if !semverPattern.MatchString(info.Version) {
		return fmt.Errorf("version must match x.y.z")
	}
	return nil
}

// validateUpdate checks the subset of upload_game's boundary conditions
// that apply to update_game: the fields a version bump actually carries
// forward (mainFile, serverFile, version), since currentVersion is the
// only mutable identity field an update changes.
func validateUpdate(info gameInfo) error {
	if info.MainFile == "" {
		return fmt.Errorf("mainFile is required")
	}
	if info.ServerFile == "" {
		return fmt.Errorf("serverFile is required")
	}
	if !semverPattern.MatchString(info.Version) {
		return fmt.Errorf("version must match x.y.z")
	}
	return nil
}

func gameByID(s *Server, gameID uint32) (catalog.Game, error) {
	var got struct {
		Game catalog.Game `json:"game"`
	}
	if err := s.ds.Call("Game", "read", map[string]interface{}{"id": gameID}, &got); err != nil {
		return catalog.Game{}, err
	}
	return got.Game, nil
}

// receiveFiles reads count FILE_METADATA + raw-byte records from conn and
// writes each into dir, following the same record format LS uses to
// stream downloads (§4.1).
func receiveFiles(s *Server, conn net.Conn, dir string, count int) (int64, error) {
	var total int64
	for i := 0; i < count; i++ {
		var named struct {
			Name string `json:"name"`
		}
		if err := wire.ReadJSON(conn, &named); err != nil {
			return total, err
		}
		meta, err := wire.ReceiveFile(conn, filepath.Join(dir, named.Name))
		if err != nil {
			return total, err
		}
		total += meta.Size
	}
	return total, nil
}

type uploadGameRequest struct {
	DevID     uint32   `json:"devId"`
	GameInfo  gameInfo `json:"gameInfo"`
	FileCount int      `json:"fileCount"`
}

func handleUploadGame(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req uploadGameRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}
	if err := validateUpload(req.GameInfo); err != nil {
		return errorResponse(err.Error())
	}

	var existing struct {
		Games []catalog.Game `json:"games"`
	}
	if err := s.ds.Call("Game", "query", map[string]interface{}{"name": req.GameInfo.Name, "developerId": req.DevID}, &existing); err != nil {
		return errorResponse(err.Error())
	}
	for _, g := range existing.Games {
		if g.CurrentVersion == req.GameInfo.Version {
			return errorResponse("this name and version already exists for this developer")
		}
	}

	dir, err := s.bundles.EnsureVersionDir(req.GameInfo.Name, req.GameInfo.Version)
	if err != nil {
		return errorResponse(err.Error())
	}

	var created struct {
		Game catalog.Game `json:"game"`
	}
	err = s.ds.Call("Game", "create", map[string]interface{}{
		"name":           req.GameInfo.Name,
		"developerId":    req.DevID,
		"description":    req.GameInfo.Description,
		"gameType":       req.GameInfo.GameType,
		"maxPlayers":     req.GameInfo.MaxPlayers,
		"currentVersion": req.GameInfo.Version,
		"mainFile":       req.GameInfo.MainFile,
		"serverFile":     req.GameInfo.ServerFile,
	}, &created)
	if err != nil {
		return errorResponse(err.Error())
	}

	if err := wire.WriteJSON(conn, response{"status": "ready"}); err != nil {
		return response{"_handled": true}
	}

	if s.metrics != nil {
		s.metrics.ActiveTransfers.Inc()
		defer s.metrics.ActiveTransfers.Dec()
	}

	total, err := receiveFiles(s, conn, dir, req.FileCount)
	if err != nil {
		s.logger.Warn("upload_game: receiving files failed", "game", req.GameInfo.Name, "error", err)
		return response{"_handled": true}
	}

	if s.metrics != nil {
		s.metrics.UploadsTotal.Inc()
		s.metrics.UploadBytes.Add(float64(total))
	}

	return response{"_handled": true}
}

type updateGameRequest struct {
	DevID     uint32   `json:"devId"`
	GameID    uint32   `json:"gameId"`
	GameInfo  gameInfo `json:"gameInfo"`
	FileCount int      `json:"fileCount"`
}

// handleUpdateGame retains only the latest bundle version on disk: the
// previous version directory is removed once the new one is created.
func handleUpdateGame(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req updateGameRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}
	if err := validateUpdate(req.GameInfo); err != nil {
		return errorResponse(err.Error())
	}

	game, err := gameByID(s, req.GameID)
	if err != nil {
		return errorResponse(err.Error())
	}
	if game.DeveloperID != req.DevID {
		return errorResponse("not the owner of this game")
	}
	if s.bundles.VersionDirExists(game.Name, req.GameInfo.Version) {
		return errorResponse("this version already exists")
	}

	previousVersion := game.CurrentVersion

	dir, err := s.bundles.EnsureVersionDir(game.Name, req.GameInfo.Version)
	if err != nil {
		return errorResponse(err.Error())
	}

	if err := s.bundles.RemoveVersionDir(game.Name, previousVersion); err != nil {
		s.logger.Warn("update_game: removing previous version failed", "game", game.Name, "version", previousVersion, "error", err)
	}

	var updated struct {
		Game catalog.Game `json:"game"`
	}
	err = s.ds.Call("Game", "update", map[string]interface{}{
		"id": req.GameID,
		"fields": map[string]interface{}{
			"currentVersion": req.GameInfo.Version,
			"mainFile":       req.GameInfo.MainFile,
			"serverFile":     req.GameInfo.ServerFile,
		},
	}, &updated)
	if err != nil {
		return errorResponse(err.Error())
	}

	if err := wire.WriteJSON(conn, response{"status": "ready"}); err != nil {
		return response{"_handled": true}
	}

	if s.metrics != nil {
		s.metrics.ActiveTransfers.Inc()
		defer s.metrics.ActiveTransfers.Dec()
	}

	total, err := receiveFiles(s, conn, dir, req.FileCount)
	if err != nil {
		s.logger.Warn("update_game: receiving files failed", "game", game.Name, "error", err)
		return response{"_handled": true}
	}

	if s.metrics != nil {
		s.metrics.UpdatesTotal.Inc()
		s.metrics.UploadBytes.Add(float64(total))
	}

	return response{"_handled": true}
}

type devGameIDRequest struct {
	DevID  uint32 `json:"devId"`
	GameID uint32 `json:"gameId"`
}

func handleRemoveGame(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req devGameIDRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	game, err := gameByID(s, req.GameID)
	if err != nil {
		return errorResponse(err.Error())
	}
	if game.DeveloperID != req.DevID {
		return errorResponse("not the owner of this game")
	}

	inactive := catalog.GameStatusInactive
	err = s.ds.Call("Game", "update", map[string]interface{}{
		"id":     req.GameID,
		"fields": map[string]interface{}{"status": inactive},
	}, nil)
	if err != nil {
		return errorResponse(err.Error())
	}

	if err := s.bundles.RemoveGameDir(game.Name); err != nil {
		s.logger.Warn("remove_game: removing bundle directory failed", "game", game.Name, "error", err)
	}

	if s.metrics != nil {
		s.metrics.DelistsTotal.Inc()
	}
	return successResponse(nil)
}

type listMyGamesRequest struct {
	DevID uint32 `json:"devId"`
}

type myGameView struct {
	catalog.Game
	AverageRating float64 `json:"averageRating"`
}

func handleListMyGames(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req listMyGamesRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	var queried struct {
		Games []catalog.Game `json:"games"`
	}
	if err := s.ds.Call("Game", "query", map[string]interface{}{"developerId": req.DevID}, &queried); err != nil {
		return errorResponse(err.Error())
	}

	views := make([]myGameView, 0, len(queried.Games))
	for _, g := range queried.Games {
		views = append(views, myGameView{Game: g, AverageRating: g.AverageRating()})
	}
	return successResponse(response{"games": views})
}
