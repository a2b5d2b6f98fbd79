package lobby

import (
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/playforge/core/pkg/config"
)

// ExitCallback is invoked when a spawned game-server process exits,
// whether it issued game_ended or not.
type ExitCallback func(roomID uint32, err error)

// Launcher spawns game-server subprocesses and tracks their handles in a
// session map keyed by room, reporting each exit through a callback.
// Game servers here are headless TCP listeners launched with plain
// os/exec, not terminal programs, so no PTY is allocated.
type Launcher struct {
	mu       sync.Mutex
	running  map[uint32]*exec.Cmd // roomId -> subprocess
	cfg      *config.GameServerConfig
	logger   *slog.Logger
	onExit   ExitCallback
}

// NewLauncher creates a Launcher that reports process exits via onExit.
func NewLauncher(cfg *config.GameServerConfig, logger *slog.Logger, onExit ExitCallback) *Launcher {
	return &Launcher{
		running: make(map[uint32]*exec.Cmd),
		cfg:     cfg,
		logger:  logger,
		onExit:  onExit,
	}
}

// SpawnArgs is the structured spawn request passed to Launch, replacing
// the argv-string-concatenation pattern §9 flags: argv, cwd, and env are
// built up as typed fields and only joined into a single exec.Cmd at the
// last moment.
type SpawnArgs struct {
	Port        int
	RoomID      uint32
	GameID      uint32
	GameName    string
	GameVersion string
	MatchToken  string
	Usernames   []string
	Cwd         string
	ServerFile  string
}

// Launch starts the game-server subprocess for one room. The spawn
// contract (§6) is `<serverFile> <port> <roomId> <gameId> <gameName>
// <gameVersion> <matchToken> <username>...`, cwd set to the bundle
// version directory.
func (l *Launcher) Launch(args SpawnArgs) error {
	argv := []string{
		args.ServerFile,
		strconv.Itoa(args.Port),
		strconv.Itoa(int(args.RoomID)),
		strconv.Itoa(int(args.GameID)),
		args.GameName,
		args.GameVersion,
		args.MatchToken,
	}
	argv = append(argv, args.Usernames...)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = args.Cwd

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("lobby: starting game server for room %d: %w", args.RoomID, err)
	}

	l.mu.Lock()
	l.running[args.RoomID] = cmd
	l.mu.Unlock()

	go l.waitForExit(args.RoomID, cmd)
	return nil
}

// IsAlive reports whether the subprocess for roomID is still tracked as
// running, used by start_game's post-spawn settle-delay liveness poll.
func (l *Launcher) IsAlive(roomID uint32) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.running[roomID]
	return ok
}

func (l *Launcher) waitForExit(roomID uint32, cmd *exec.Cmd) {
	err := cmd.Wait()

	l.mu.Lock()
	delete(l.running, roomID)
	l.mu.Unlock()

	l.logger.Debug("game server process exited", "room_id", roomID, "error", err)
	if l.onExit != nil {
		l.onExit(roomID, err)
	}
}

// SettleDelay is the short pause start_game waits before polling
// liveness, per §4.3.
func (l *Launcher) SettleDelay() time.Duration {
	return time.Duration(l.cfg.SettleDelayMS) * time.Millisecond
}

