package catalog

// NewRoom is the caller-supplied shape for CreateRoom.
type NewRoom struct {
	Name       string
	HostUserID uint32
	Visibility RoomVisibility
	GameName   string
	GameID     uint32
}

// CreateRoom allocates the next Room id. The room starts idle with no
// game server port and an empty invite list.
func (s *Store) CreateRoom(r NewRoom) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters.Room++
	row := Room{
		ID:         s.counters.Room,
		Name:       r.Name,
		HostUserID: r.HostUserID,
		Visibility: r.Visibility,
		InviteList: nil,
		GameName:   r.GameName,
		GameID:     r.GameID,
		Status:     RoomStatusIdle,
		CreatedAt:  now(),
	}
	s.rooms[row.ID] = &row

	if err := s.persistLocked(); err != nil {
		return Room{}, err
	}
	return row, nil
}

// ReadRoom returns the Room row with the given id.
func (s *Store) ReadRoom(id uint32) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	return *r, nil
}

// RoomFilter is a conjunctive filter for QueryRooms; nil fields are
// ignored.
type RoomFilter struct {
	Visibility *RoomVisibility
	Status     *RoomStatus
}

// QueryRooms returns every Room row matching every non-nil field of f.
func (s *Store) QueryRooms(f RoomFilter) []Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Room
	for _, r := range s.rooms {
		if f.Visibility != nil && r.Visibility != *f.Visibility {
			continue
		}
		if f.Status != nil && r.Status != *f.Status {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// RoomUpdate carries the optional field-wise mutations UpdateRoom applies.
//
// GameServerPort is only applied when Status is also set: the two always
// change together (start_game sets both to playing/port, game_ended sets
// both to idle/nil), so a nil Status means "leave the port alone" and a
// non-nil Status always carries the matching port value, including nil
// to clear it.
type RoomUpdate struct {
	InviteList     *[]uint32
	Status         *RoomStatus
	GameServerPort *int
}

// UpdateRoom field-wise merges fields into the row with the given id.
func (s *Store) UpdateRoom(id uint32, fields RoomUpdate) (Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rooms[id]
	if !ok {
		return Room{}, ErrNotFound
	}
	if fields.InviteList != nil {
		r.InviteList = *fields.InviteList
	}
	if fields.Status != nil {
		r.Status = *fields.Status
		r.GameServerPort = fields.GameServerPort
	}

	if err := s.persistLocked(); err != nil {
		return Room{}, err
	}
	return *r, nil
}

// DeleteRoom removes the row outright.
func (s *Store) DeleteRoom(id uint32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return ErrNotFound
	}
	delete(s.rooms, id)

	return s.persistLocked()
}

// DeleteAllRooms removes every Room row. Used by the lobby's startup
// cleanup (§9 open question 1): retained as specified, invalidating all
// in-flight rooms across a restart.
func (s *Store) DeleteAllRooms() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms = make(map[uint32]*Room)
	return s.persistLocked()
}
