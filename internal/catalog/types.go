// Package catalog defines the five persistent collections that make up
// the data store's single source of truth, and the JSON shape they are
// snapshotted in.
package catalog

import "time"

// GameType enumerates the two kinds of game bundle the catalog tracks.
type GameType string

const (
	GameTypeGUI GameType = "GUI"
	GameTypeCLI GameType = "CLI"
)

// GameStatus marks whether a game is currently browsable.
type GameStatus string

const (
	GameStatusActive   GameStatus = "active"
	GameStatusInactive GameStatus = "inactive"
)

// RoomVisibility controls whether a room accepts unsolicited joins.
type RoomVisibility string

const (
	RoomVisibilityPublic  RoomVisibility = "public"
	RoomVisibilityPrivate RoomVisibility = "private"
)

// RoomStatus tracks the room/port allocation state machine of §4.3.
type RoomStatus string

const (
	RoomStatusIdle    RoomStatus = "idle"
	RoomStatusPlaying RoomStatus = "playing"
)

// User is a registered player account.
type User struct {
	ID           uint32     `json:"id"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"passwordHash"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt"`
	Online       bool       `json:"online"`
}

// Developer is a registered publisher account. Stateless per-request,
// so unlike User it carries no online flag.
type Developer struct {
	ID           uint32    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Review is one free-text rating submission attached to a Game.
type Review struct {
	UserID    uint32    `json:"userId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Game is one uploaded bundle, tracked across versions.
type Game struct {
	ID             uint32     `json:"id"`
	Name           string     `json:"name"`
	DeveloperID    uint32     `json:"developerId"`
	Description    string     `json:"description"`
	GameType       GameType   `json:"gameType"`
	MaxPlayers     int        `json:"maxPlayers"`
	CurrentVersion string     `json:"currentVersion"`
	MainFile       string     `json:"mainFile"`
	ServerFile     string     `json:"serverFile"`
	UploadedAt     time.Time  `json:"uploadedAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	Status         GameStatus `json:"status"`
	Ratings        []int      `json:"ratings"`
	Reviews        []Review   `json:"reviews"`
}

// AverageRating returns the mean of Ratings, or 0 when there are none.
func (g *Game) AverageRating() float64 {
	if len(g.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range g.Ratings {
		sum += r
	}
	return float64(sum) / float64(len(g.Ratings))
}

// Room is a transient grouping of players bound to one game.
//
// Invariant: GameServerPort is non-nil iff Status is playing.
type Room struct {
	ID             uint32         `json:"id"`
	Name           string         `json:"name"`
	HostUserID     uint32         `json:"hostUserId"`
	Visibility     RoomVisibility `json:"visibility"`
	InviteList     []uint32       `json:"inviteList"`
	GameName       string         `json:"gameName"`
	GameID         uint32         `json:"gameId"`
	Status         RoomStatus     `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	GameServerPort *int           `json:"gameServerPort"`
}

// MatchResult records one player's outcome in a completed match.
//
// Winner is bool or the string "draw"; callers that need to distinguish
// a draw from a loss should type-switch on the raw JSON value rather
// than assume a bool, since the wire contract (§6) allows both.
type MatchResult struct {
	UserID uint32      `json:"userId"`
	Winner interface{} `json:"winner"`
}

// GameLog is the append-only record of one completed match.
type GameLog struct {
	ID          uint32        `json:"id"`
	MatchID     string        `json:"matchId"`
	RoomID      uint32        `json:"roomId"`
	GameID      uint32        `json:"gameId"`
	GameName    string        `json:"gameName"`
	GameVersion string        `json:"gameVersion"`
	Users       []string      `json:"users"`
	StartAt     time.Time     `json:"startAt"`
	EndAt       time.Time     `json:"endAt"`
	Results     []MatchResult `json:"results"`
}

// Counters is the monotonic-per-collection ID allocator, persisted
// alongside the five collections it serves.
type Counters struct {
	User      uint32 `json:"user"`
	Developer uint32 `json:"developer"`
	Game      uint32 `json:"game"`
	Room      uint32 `json:"room"`
	GameLog   uint32 `json:"gameLog"`
}
