package developer

import (
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/pkg/config"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	t       *testing.T
	dev     *Server
	bundles *bundle.Root
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()

	store, err := catalog.NewStore(filepath.Join(t.TempDir(), "catalog.json"))
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dsServer := datastore.NewServer(store, logger, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dsServer.Start(ctx, "127.0.0.1:0"))
	t.Cleanup(func() {
		cancel()
		dsServer.Stop()
	})

	dsClient, err := datastore.NewClient(dsServer.Addr(), 4)
	require.NoError(t, err)
	t.Cleanup(func() { dsClient.Close() })

	bundleRoot, err := bundle.NewRoot(filepath.Join(t.TempDir(), "bundles"))
	require.NoError(t, err)

	devServer := NewServer(&config.DeveloperConfig{}, dsClient, bundleRoot, logger, nil)

	return &testHarness{t: t, dev: devServer, bundles: bundleRoot}
}

func (h *testHarness) registerDev(username string) uint32 {
	h.t.Helper()
	resp := handleDevRegister(h.dev, nil, map[string]interface{}{"username": username, "password": "p"})
	require.Equal(h.t, "success", resp["status"])
	return resp["devId"].(uint32)
}

// closedConn returns one end of a pipe whose other end is already closed,
// so the "ready" write in upload_game/update_game fails and the handler
// returns before reading any file records.
func (h *testHarness) closedConn() net.Conn {
	h.t.Helper()
	client, server := net.Pipe()
	client.Close()
	h.t.Cleanup(func() { server.Close() })
	return server
}

func TestDevRegisterAndLogin(t *testing.T) {
	h := newHarness(t)
	h.registerDev("studio1")

	resp := handleDevLogin(h.dev, nil, map[string]interface{}{"username": "studio1", "password": "p"})
	require.Equal(t, "success", resp["status"])

	resp = handleDevLogin(h.dev, nil, map[string]interface{}{"username": "studio1", "password": "wrong"})
	require.Equal(t, "error", resp["status"])
}

func TestUploadGameCreatesBundleDirAndGameRow(t *testing.T) {
	h := newHarness(t)
	devID := h.registerDev("studio1")

	resp := handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{
		"devId": devID,
		"gameInfo": map[string]interface{}{
			"name":        "Asteroids",
			"description": "classic",
			"gameType":    "CLI",
			"maxPlayers":  2,
			"version":     "1.0.0",
			"mainFile":    "main.lua",
			"serverFile":  "server.lua",
		},
		"fileCount": 0,
	})
	require.Equal(t, true, resp["_handled"])

	require.True(t, h.bundles.VersionDirExists("Asteroids", "1.0.0"))

	listResp := handleListMyGames(h.dev, nil, map[string]interface{}{"devId": devID})
	require.Equal(t, "success", listResp["status"])
	games := listResp["games"].([]myGameView)
	require.Len(t, games, 1)
	require.Equal(t, "Asteroids", games[0].Name)
}

func TestUploadGameRejectsDuplicateNameAndVersion(t *testing.T) {
	h := newHarness(t)
	devID := h.registerDev("studio1")

	info := map[string]interface{}{
		"name": "Asteroids", "description": "classic", "gameType": "CLI",
		"maxPlayers": 2, "version": "1.0.0", "mainFile": "main.lua", "serverFile": "server.lua",
	}
	resp := handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{"devId": devID, "gameInfo": info, "fileCount": 0})
	require.Equal(t, true, resp["_handled"])

	resp = handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{"devId": devID, "gameInfo": info, "fileCount": 0})
	require.Equal(t, "error", resp["status"])
}

func TestUpdateGameRejectsNonOwner(t *testing.T) {
	h := newHarness(t)
	devID := h.registerDev("studio1")
	otherDevID := h.registerDev("studio2")

	info := map[string]interface{}{
		"name": "Asteroids", "description": "classic", "gameType": "CLI",
		"maxPlayers": 2, "version": "1.0.0", "mainFile": "main.lua", "serverFile": "server.lua",
	}
	handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{"devId": devID, "gameInfo": info, "fileCount": 0})

	listResp := handleListMyGames(h.dev, nil, map[string]interface{}{"devId": devID})
	games := listResp["games"].([]myGameView)
	gameID := games[0].ID

	resp := handleUpdateGame(h.dev, nil, map[string]interface{}{
		"devId": otherDevID, "gameId": gameID,
		"gameInfo": map[string]interface{}{"name": "Asteroids", "version": "1.1.0", "mainFile": "main.lua", "serverFile": "server.lua"},
		"fileCount": 0,
	})
	require.Equal(t, "error", resp["status"])
}

func TestUpdateGameRemovesPreviousVersionDir(t *testing.T) {
	h := newHarness(t)
	devID := h.registerDev("studio1")

	info := map[string]interface{}{
		"name": "Asteroids", "description": "classic", "gameType": "CLI",
		"maxPlayers": 2, "version": "1.0.0", "mainFile": "main.lua", "serverFile": "server.lua",
	}
	handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{"devId": devID, "gameInfo": info, "fileCount": 0})

	listResp := handleListMyGames(h.dev, nil, map[string]interface{}{"devId": devID})
	games := listResp["games"].([]myGameView)
	gameID := games[0].ID

	resp := handleUpdateGame(h.dev, h.closedConn(), map[string]interface{}{
		"devId": devID, "gameId": gameID,
		"gameInfo": map[string]interface{}{"name": "Asteroids", "version": "2.0.0", "mainFile": "main.lua", "serverFile": "server.lua"},
		"fileCount": 0,
	})
	require.Equal(t, true, resp["_handled"])

	require.False(t, h.bundles.VersionDirExists("Asteroids", "1.0.0"))
	require.True(t, h.bundles.VersionDirExists("Asteroids", "2.0.0"))
}

func TestRemoveGameMarksInactiveAndDeletesBundle(t *testing.T) {
	h := newHarness(t)
	devID := h.registerDev("studio1")

	info := map[string]interface{}{
		"name": "Asteroids", "description": "classic", "gameType": "CLI",
		"maxPlayers": 2, "version": "1.0.0", "mainFile": "main.lua", "serverFile": "server.lua",
	}
	handleUploadGame(h.dev, h.closedConn(), map[string]interface{}{"devId": devID, "gameInfo": info, "fileCount": 0})

	listResp := handleListMyGames(h.dev, nil, map[string]interface{}{"devId": devID})
	games := listResp["games"].([]myGameView)
	gameID := games[0].ID

	resp := handleRemoveGame(h.dev, nil, map[string]interface{}{"devId": devID, "gameId": gameID})
	require.Equal(t, "success", resp["status"])

	game, err := gameByID(h.dev, gameID)
	require.NoError(t, err)
	require.Equal(t, catalog.GameStatusInactive, game.Status)

	_, err = os.Stat(h.bundles.GameDir("Asteroids"))
	require.True(t, os.IsNotExist(err))
}

func TestCommandTableIsExhaustive(t *testing.T) {
	expected := []string{"dev_register", "dev_login", "upload_game", "update_game", "remove_game", "list_my_games"}
	require.Len(t, commandTable, len(expected))
	for _, cmd := range expected {
		_, ok := commandTable[cmd]
		require.Truef(t, ok, "missing handler for %q", cmd)
	}
}
