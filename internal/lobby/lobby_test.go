package lobby

import (
	"context"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"

	"github.com/playforge/core/internal/bundle"
	"github.com/playforge/core/internal/catalog"
	"github.com/playforge/core/internal/datastore"
	"github.com/playforge/core/pkg/config"
	"github.com/stretchr/testify/require"
)

// testHarness wires a real data store server plus a lobby Server against
// it, without binding the lobby's own listener (tests drive command
// handlers directly, avoiding real TCP framing overhead except for DS
// calls, which exercise the pooled client for real).
type testHarness struct {
	t       *testing.T
	lobby   *Server
	store   *catalog.Store
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

	cfg := &config.LobbyConfig{
		GameServer: &config.GameServerConfig{
			PortRangeStart:       20100,
			PortRangeEnd:         20110,
			SettleDelayMS:        1,
			MatchTokenTTLSeconds: 60,
			MatchSigningKey:      "test-signing-key",
		},
	}

	lobbyServer := NewServer(cfg, dsClient, bundleRoot, logger, nil)

	return &testHarness{t: t, lobby: lobbyServer, store: store, bundles: bundleRoot}
}

func (h *testHarness) registerAndLogin(name string) (net.Conn, uint32) {
	h.t.Helper()
	client, server := net.Pipe()
	h.t.Cleanup(func() { client.Close() })

	resp := handleRegister(h.lobby, server, map[string]interface{}{"name": name, "password": "p"})
	require.Equal(h.t, "success", resp["status"])
	userID := resp["userId"].(uint32)

	resp = handleLogin(h.lobby, server, map[string]interface{}{"name": name, "password": "p"})
	require.Equal(h.t, "success", resp["status"], resp["message"])

	return server, userID
}

func TestLoginRejectsSecondSessionForSameUser(t *testing.T) {
	h := newHarness(t)
	_, _ = h.registerAndLogin("alice")

	resp := handleRegister(h.lobby, nil, map[string]interface{}{"name": "alice2", "password": "p"})
	require.Equal(t, "success", resp["status"])

	// A second connection logging into "alice" while the first session is
	// still bound must be rejected.
	second, _ := net.Pipe()
	t.Cleanup(func() { second.Close() })
	resp = handleLogin(h.lobby, second, map[string]interface{}{"name": "alice", "password": "p"})
	require.Equal(t, "error", resp["status"])
}

func TestCreateRoomRequiresActiveGame(t *testing.T) {
	h := newHarness(t)
	conn, _ := h.registerAndLogin("alice")

	resp := handleCreateRoom(h.lobby, conn, map[string]interface{}{"room_name": "r1", "visibility": "public", "game_name": "nope"})
	require.Equal(t, "error", resp["status"])
}

func createActiveGame(t *testing.T, h *testHarness, name string, maxPlayers int) catalog.Game {
	t.Helper()
	var dev struct {
		Developer catalog.Developer `json:"developer"`
	}
	require.NoError(t, h.lobby.ds.Call("Developer", "create", map[string]interface{}{"name": "dev1", "password": "p"}, &dev))

	var created struct {
		Game catalog.Game `json:"game"`
	}
	err := h.lobby.ds.Call("Game", "create", map[string]interface{}{
		"name":           name,
		"developerId":    dev.Developer.ID,
		"description":    "desc",
		"gameType":       "CLI",
		"maxPlayers":     maxPlayers,
		"currentVersion": "1.0.0",
		"mainFile":       "main.lua",
		"serverFile":     "server.lua",
	}, &created)
	require.NoError(t, err)
	return created.Game
}

func TestCreateJoinAndLeaveRoom(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Asteroids", 2)

	hostConn, _ := h.registerAndLogin("host")

	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "public", "game_name": game.Name})
	require.Equal(t, "success", resp["status"], resp["message"])
	roomID := resp["roomId"].(uint32)

	guestConn, guestID := h.registerAndLogin("guest")

	resp = handleJoinRoom(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "success", resp["status"], resp["message"])

	resp = handleLeaveRoom(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "success", resp["status"])

	h.lobby.mu.Lock()
	_, stillMember := h.lobby.roomMembers[roomID][guestID]
	h.lobby.mu.Unlock()
	require.False(t, stillMember)
}

func TestJoinRoomRejectsWhenFull(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Tetris", 1)

	hostConn, _ := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "public", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	guestConn, _ := h.registerAndLogin("guest")
	resp = handleJoinRoom(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "error", resp["status"])
}

func TestJoinRoomRejectsPrivateWithoutInvite(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 2)

	hostConn, _ := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "private", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	guestConn, _ := h.registerAndLogin("guest")
	resp = handleJoinRoom(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "error", resp["status"])
}

func TestInviteAndAcceptInvitationBypassesPrivateCheck(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 2)

	hostConn, _ := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "private", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	guestConn, guestID := h.registerAndLogin("guest")

	resp = handleInviteUser(h.lobby, hostConn, map[string]interface{}{"roomId": roomID, "targetUserId": guestID})
	require.Equal(t, "success", resp["status"], resp["message"])

	resp = handleListInvitations(h.lobby, guestConn, nil)
	require.Equal(t, "success", resp["status"])
	invites := resp["invitations"].([]Invitation)
	require.Len(t, invites, 1)

	resp = handleAcceptInvitation(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "success", resp["status"], resp["message"])
}

func TestInviteUserRejectsSelfAndDuplicate(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 3)

	hostConn, hostID := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "private", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	resp = handleInviteUser(h.lobby, hostConn, map[string]interface{}{"roomId": roomID, "targetUserId": hostID})
	require.Equal(t, "error", resp["status"])

	_, guestID := h.registerAndLogin("guest")
	require.Equal(t, "success", handleInviteUser(h.lobby, hostConn, map[string]interface{}{"roomId": roomID, "targetUserId": guestID})["status"])
	resp = handleInviteUser(h.lobby, hostConn, map[string]interface{}{"roomId": roomID, "targetUserId": guestID})
	require.Equal(t, "error", resp["status"])
}

func TestStartGameRejectsWrongMemberCount(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 2)

	hostConn, _ := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "public", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	resp = handleStartGame(h.lobby, hostConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "error", resp["status"])
}

func TestStartGameRejectsNonHost(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 1)

	hostConn, _ := h.registerAndLogin("host")
	resp := handleCreateRoom(h.lobby, hostConn, map[string]interface{}{"room_name": "r1", "visibility": "public", "game_name": game.Name})
	require.Equal(t, "success", resp["status"])
	roomID := resp["roomId"].(uint32)

	guestConn, _ := h.registerAndLogin("guest")
	resp = handleStartGame(h.lobby, guestConn, map[string]interface{}{"roomId": roomID})
	require.Equal(t, "error", resp["status"])
}

func TestSubmitReviewRejectsWithoutPlayHistory(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 2)

	_, userID := h.registerAndLogin("alice")
	resp := handleSubmitReview(h.lobby, nil, map[string]interface{}{"userId": userID, "gameId": game.ID, "rating": 5, "review": "great"})
	require.Equal(t, "error", resp["status"])

	resp = handleCheckPlayHistory(h.lobby, nil, map[string]interface{}{"userId": userID, "gameId": game.ID})
	require.Equal(t, "success", resp["status"])
	require.Equal(t, false, resp["played"])
}

func TestSubmitReviewSucceedsWithMatchingGameLog(t *testing.T) {
	h := newHarness(t)
	game := createActiveGame(t, h, "Chess", 2)
	_, userID := h.registerAndLogin("alice")

	err := h.lobby.ds.Call("GameLog", "create", map[string]interface{}{
		"matchId":     "m1",
		"roomId":      uint32(1),
		"gameId":      game.ID,
		"gameName":    game.Name,
		"gameVersion": game.CurrentVersion,
		"users":       []string{"alice"},
	}, nil)
	require.NoError(t, err)

	resp := handleCheckPlayHistory(h.lobby, nil, map[string]interface{}{"userId": userID, "gameId": game.ID})
	require.Equal(t, "success", resp["status"])
	require.Equal(t, true, resp["played"])

	resp = handleSubmitReview(h.lobby, nil, map[string]interface{}{"userId": userID, "gameId": game.ID, "rating": 4, "review": "fun"})
	require.Equal(t, "success", resp["status"], resp["message"])
}

func TestGameEndedRejectsBadToken(t *testing.T) {
	h := newHarness(t)
	resp := handleGameEnded(h.lobby, nil, map[string]interface{}{"roomId": uint32(1), "matchId": "m1", "matchToken": "garbage"})
	require.Equal(t, "error", resp["status"])
}

func TestCommandTableIsExhaustive(t *testing.T) {
	expected := []string{
		"register", "login", "logout", "list_users", "list_rooms",
		"create_room", "join_room", "leave_room", "invite_user",
		"list_invitations", "accept_invitation", "start_game",
		"check_room_status", "game_ended", "browse_store",
		"get_game_by_name", "download_game", "submit_review",
		"check_play_history",
	}
	require.Len(t, commandTable, len(expected))
	for _, cmd := range expected {
		_, ok := commandTable[cmd]
		require.Truef(t, ok, "missing handler for %q", cmd)
	}
}
