package lobby

import (
	"net"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/pkg/wire"
)

func handleBrowseStore(s *Server, conn net.Conn, data map[string]interface{}) response {
	browsing := true
	var queried struct {
		Games []catalog.Game `json:"games"`
	}
	if err := s.ds.Call("Game", "query", map[string]interface{}{"browsing": browsing}, &queried); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(response{"games": queried.Games})
}

type gameNameRequest struct {
	GameName string `json:"gameName"`
}

func handleGetGameByName(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req gameNameRequest
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
	return successResponse(response{"game": game})
}

type downloadGameRequest struct {
	GameID  uint32 `json:"gameId"`
	Version string `json:"version"`
}

// handleDownloadGame streams every file under the bundle's version
// directory directly over conn once the initial response has been
// written, signalling that via the _handled sentinel so the generic
// per-request loop in handleConnection does not also write a response.
func handleDownloadGame(s *Server, conn net.Conn, data map[string]interface{}) response {
	var req downloadGameRequest
	if err := decodeData(data, &req); err != nil {
		return errorResponse(err.Error())
	}

	game, ok, err := gameByID(s, req.GameID)
	if err != nil || !ok || game.Status != catalog.GameStatusActive {
		return errorResponse("game not found or not active")
	}

	version := req.Version
	if version == "" {
		version = game.CurrentVersion
	}

	dir := s.bundles.VersionDir(game.Name, version)
	if !s.bundles.VersionDirExists(game.Name, version) {
		return errorResponse("bundle version not found")
	}

	files, err := bundle.ListFiles(dir)
	if err != nil {
		return errorResponse(err.Error())
	}

	if err := wire.WriteJSON(conn, response{"status": "ready", "fileCount": len(files)}); err != nil {
		return response{"_handled": true}
	}

	var totalBytes int64
	for _, f := range files {
		if err := wire.WriteJSON(conn, map[string]string{"name": f.RelPath}); err != nil {
			return response{"_handled": true}
		}
		if err := wire.SendFile(conn, f.AbsPath, f.RelPath); err != nil {
			s.logger.Warn("download_game: streaming file failed", "game", game.Name, "file", f.RelPath, "error", err)
			return response{"_handled": true}
		}
		totalBytes += f.Size
	}

	if s.metrics != nil {
		s.metrics.DownloadsTotal.WithLabelValues("success").Inc()
		s.metrics.DownloadBytes.Add(float64(totalBytes))
	}

	return response{"_handled": true}
}
