package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	s, err := NewStore(path)
	require.NoError(t, err)
	return s
}

func TestCreateUserAssignsMonotonicIDs(t *testing.T) {
	s := newTestStore(t)

	alice, err := s.CreateUser("alice", "hash1")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), alice.ID)

	bob, err := s.CreateUser("bob", "hash2")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), bob.ID)
}

func TestCreateUserRejectsDuplicateName(t *testing.T) {
	s := newTestStore(t)

	_, err := s.CreateUser("alice", "hash1")
	require.NoError(t, err)

	_, err = s.CreateUser("alice", "hash2")
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestUpdateUserFieldWiseMerge(t *testing.T) {
	s := newTestStore(t)
	u, err := s.CreateUser("alice", "hash1")
	require.NoError(t, err)

	online := true
	updated, err := s.UpdateUser(u.ID, UserUpdate{Online: &online})
	require.NoError(t, err)
	assert.True(t, updated.Online)
	assert.Equal(t, "alice", updated.Name)
}

func TestQueryUsersOnlineFilter(t *testing.T) {
	s := newTestStore(t)
	alice, _ := s.CreateUser("alice", "h")
	_, _ = s.CreateUser("bob", "h")

	online := true
	_, err := s.UpdateUser(alice.ID, UserUpdate{Online: &online})
	require.NoError(t, err)

	results := s.QueryUsers(UserFilter{Online: &online})
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].Name)
}

func TestStorePersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	s1, err := NewStore(path)
	require.NoError(t, err)
	_, err = s1.CreateUser("alice", "hash1")
	require.NoError(t, err)

	s2, err := NewStore(path)
	require.NoError(t, err)
	results := s2.QueryUsers(UserFilter{})
	require.Len(t, results, 1)
	assert.Equal(t, "alice", results[0].Name)
}

func TestCreateGameRejectsDuplicateDeveloperNameVersion(t *testing.T) {
	s := newTestStore(t)
	dev, err := s.CreateDeveloper("dev", "h")
	require.NoError(t, err)

	_, err = s.CreateGame(NewGame{
		Name: "Coin", DeveloperID: dev.ID, GameType: GameTypeCLI,
		MaxPlayers: 2, CurrentVersion: "1.0.0", MainFile: "c.py", ServerFile: "s.py",
	})
	require.NoError(t, err)

	_, err = s.CreateGame(NewGame{
		Name: "Coin", DeveloperID: dev.ID, GameType: GameTypeCLI,
		MaxPlayers: 2, CurrentVersion: "1.0.0", MainFile: "c.py", ServerFile: "s.py",
	})
	assert.ErrorIs(t, err, ErrDuplicateVersion)
}

func TestQueryGamesBrowsingExcludesInactive(t *testing.T) {
	s := newTestStore(t)
	dev, _ := s.CreateDeveloper("dev", "h")
	g, err := s.CreateGame(NewGame{
		Name: "Coin", DeveloperID: dev.ID, GameType: GameTypeCLI,
		MaxPlayers: 2, CurrentVersion: "1.0.0",
	})
	require.NoError(t, err)

	inactive := GameStatusInactive
	_, err = s.UpdateGame(g.ID, GameUpdate{Status: &inactive})
	require.NoError(t, err)

	results := s.QueryGames(GameFilter{Browsing: true})
	assert.Empty(t, results)
}

func TestAddRatingAppendsRatingAndOptionalReview(t *testing.T) {
	s := newTestStore(t)
	dev, _ := s.CreateDeveloper("dev", "h")
	g, err := s.CreateGame(NewGame{Name: "Coin", DeveloperID: dev.ID, MaxPlayers: 2, CurrentVersion: "1.0.0"})
	require.NoError(t, err)

	updated, err := s.AddRating(g.ID, 1, 4, "fun game")
	require.NoError(t, err)
	assert.Equal(t, []int{4}, updated.Ratings)
	require.Len(t, updated.Reviews, 1)
	assert.Equal(t, "fun game", updated.Reviews[0].Text)

	updated, err = s.AddRating(g.ID, 2, 5, "")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, updated.Ratings)
	assert.Len(t, updated.Reviews, 1)
}

func TestRoomStatusPortInvariant(t *testing.T) {
	s := newTestStore(t)
	host, _ := s.CreateUser("alice", "h")
	r, err := s.CreateRoom(NewRoom{Name: "r1", HostUserID: host.ID, Visibility: RoomVisibilityPublic})
	require.NoError(t, err)
	assert.Equal(t, RoomStatusIdle, r.Status)
	assert.Nil(t, r.GameServerPort)

	port := 10100
	playing := RoomStatusPlaying
	updated, err := s.UpdateRoom(r.ID, RoomUpdate{Status: &playing, GameServerPort: &port})
	require.NoError(t, err)
	assert.Equal(t, RoomStatusPlaying, updated.Status)
	require.NotNil(t, updated.GameServerPort)
	assert.Equal(t, 10100, *updated.GameServerPort)
}

func TestDeleteAllRoomsClearsEveryRow(t *testing.T) {
	s := newTestStore(t)
	host, _ := s.CreateUser("alice", "h")
	_, err := s.CreateRoom(NewRoom{Name: "r1", HostUserID: host.ID, Visibility: RoomVisibilityPublic})
	require.NoError(t, err)
	_, err = s.CreateRoom(NewRoom{Name: "r2", HostUserID: host.ID, Visibility: RoomVisibilityPublic})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAllRooms())
	assert.Empty(t, s.QueryRooms(RoomFilter{}))
}

func TestQueryGameLogsByUser(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateGameLog(NewGameLog{
		MatchID: "m1", RoomID: 1, GameID: 1, GameName: "Coin", GameVersion: "1.0.0",
		Users: []string{"alice", "bob"},
	})
	require.NoError(t, err)

	alice := "alice"
	results := s.QueryGameLogs(GameLogFilter{UserID: &alice})
	require.Len(t, results, 1)

	carol := "carol"
	assert.Empty(t, s.QueryGameLogs(GameLogFilter{UserID: &carol}))
}
