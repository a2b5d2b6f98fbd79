package catalog

// NewGame is the caller-supplied shape for CreateGame; Status, Ratings,
// and Reviews are always initialized by the store.
type NewGame struct {
	Name           string
	DeveloperID    uint32
	Description    string
	GameType       GameType
	MaxPlayers     int
	CurrentVersion string
	MainFile       string
	ServerFile     string
}

// CreateGame allocates the next Game id. The row starts active with no
// ratings or reviews.
func (s *Store) CreateGame(g NewGame) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.games {
		if existing.DeveloperID == g.DeveloperID && existing.Name == g.Name && existing.CurrentVersion == g.CurrentVersion {
			return Game{}, ErrDuplicateVersion
		}
	}

	s.counters.Game++
	row := Game{
		ID:             s.counters.Game,
		Name:           g.Name,
		DeveloperID:    g.DeveloperID,
		Description:    g.Description,
		GameType:       g.GameType,
		MaxPlayers:     g.MaxPlayers,
		CurrentVersion: g.CurrentVersion,
		MainFile:       g.MainFile,
		ServerFile:     g.ServerFile,
		UploadedAt:     now(),
		UpdatedAt:      now(),
		Status:         GameStatusActive,
	}
	s.games[row.ID] = &row

	if err := s.persistLocked(); err != nil {
		return Game{}, err
	}
	return row, nil
}

// ReadGame returns the Game row with the given id.
func (s *Store) ReadGame(id uint32) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	return *g, nil
}

// GameFilter is a conjunctive filter for QueryGames; nil fields are
// ignored. Browsing, when true, additionally restricts to active games,
// matching §4.2's "browsing implies status=active" rule.
type GameFilter struct {
	ID          *uint32
	Name        *string
	DeveloperID *uint32
	Status      *GameStatus
	Browsing    bool
}

// QueryGames returns every Game row matching every non-nil field of f.
func (s *Store) QueryGames(f GameFilter) []Game {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Game
	for _, g := range s.games {
		if f.ID != nil && g.ID != *f.ID {
			continue
		}
		if f.Name != nil && g.Name != *f.Name {
			continue
		}
		if f.DeveloperID != nil && g.DeveloperID != *f.DeveloperID {
			continue
		}
		if f.Status != nil && g.Status != *f.Status {
			continue
		}
		if f.Browsing && g.Status != GameStatusActive {
			continue
		}
		out = append(out, *g)
	}
	return out
}

// GameUpdate carries the optional field-wise mutations UpdateGame applies.
type GameUpdate struct {
	Description    *string
	MaxPlayers     *int
	CurrentVersion *string
	MainFile       *string
	ServerFile     *string
	Status         *GameStatus
}

// UpdateGame field-wise merges fields into the row with the given id and
// stamps UpdatedAt.
func (s *Store) UpdateGame(id uint32, fields GameUpdate) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	if fields.Description != nil {
		g.Description = *fields.Description
	}
	if fields.MaxPlayers != nil {
		g.MaxPlayers = *fields.MaxPlayers
	}
	if fields.CurrentVersion != nil {
		g.CurrentVersion = *fields.CurrentVersion
	}
	if fields.MainFile != nil {
		g.MainFile = *fields.MainFile
	}
	if fields.ServerFile != nil {
		g.ServerFile = *fields.ServerFile
	}
	if fields.Status != nil {
		g.Status = *fields.Status
	}
	g.UpdatedAt = now()

	if err := s.persistLocked(); err != nil {
		return Game{}, err
	}
	return *g, nil
}

// AddRating appends a rating and, if text is non-empty, a review stamped
// with the current time.
func (s *Store) AddRating(gameID, userID uint32, rating int, text string) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[gameID]
	if !ok {
		return Game{}, ErrNotFound
	}
	g.Ratings = append(g.Ratings, rating)
	if text != "" {
		g.Reviews = append(g.Reviews, Review{UserID: userID, Text: text, Timestamp: now()})
	}

	if err := s.persistLocked(); err != nil {
		return Game{}, err
	}
	return *g, nil
}

// DeleteGame removes the row outright. Used only internally (§4.2); the
// player-facing delist path is UpdateGame with Status=inactive.
func (s *Store) DeleteGame(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.games, id)

	return s.persistLocked()
}
