package catalog

import "time"

// NewGameLog is the caller-supplied shape for CreateGameLog.
type NewGameLog struct {
	MatchID     string
	RoomID      uint32
	GameID      uint32
	GameName    string
	GameVersion string
	Users       []string
	StartAt     time.Time
	EndAt       time.Time
	Results     []MatchResult
}

// CreateGameLog allocates the next GameLog id. GameLog rows are
// append-only; there is no update path that mutates Results after the
// fact other than UpdateGameLog's field-wise merge.
func (s *Store) CreateGameLog(l NewGameLog) (GameLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.GameLog++
	row := GameLog{
		ID:          s.counters.GameLog,
		MatchID:     l.MatchID,
		RoomID:      l.RoomID,
		GameID:      l.GameID,
		GameName:    l.GameName,
		GameVersion: l.GameVersion,
		Users:       l.Users,
		StartAt:     l.StartAt,
		EndAt:       l.EndAt,
		Results:     l.Results,
	}
	s.gameLogs[row.ID] = &row

	if err := s.persistLocked(); err != nil {
		return GameLog{}, err
	}
	return row, nil
}

// ReadGameLog returns the GameLog row with the given id.
func (s *Store) ReadGameLog(id uint32) (GameLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.gameLogs[id]
	if !ok {
		return GameLog{}, ErrNotFound
	}
	return *l, nil
}

// GameLogFilter is a conjunctive filter for QueryGameLogs; nil fields
// are ignored.
type GameLogFilter struct {
	RoomID *uint32
	GameID *uint32
	UserID *string
}

// QueryGameLogs returns every GameLog row matching every non-nil field
// of f. UserID matches rows whose Users list contains that username.
func (s *Store) QueryGameLogs(f GameLogFilter) []GameLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []GameLog
	for _, l := range s.gameLogs {
		if f.RoomID != nil && l.RoomID != *f.RoomID {
			continue
		}
		if f.GameID != nil && l.GameID != *f.GameID {
			continue
		}
		if f.UserID != nil && !containsString(l.Users, *f.UserID) {
			continue
		}
		out = append(out, *l)
	}
	return out
}

// GameLogUpdate carries the optional field-wise mutations UpdateGameLog
// applies.
type GameLogUpdate struct {
	EndAt   *time.Time
	Results *[]MatchResult
}

// UpdateGameLog field-wise merges fields into the row with the given id.
func (s *Store) UpdateGameLog(id uint32, fields GameLogUpdate) (GameLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.gameLogs[id]
	if !ok {
		return GameLog{}, ErrNotFound
	}
	if fields.EndAt != nil {
		l.EndAt = *fields.EndAt
	}
	if fields.Results != nil {
		l.Results = *fields.Results
	}

	if err := s.persistLocked(); err != nil {
		return GameLog{}, err
	}
	return *l, nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
