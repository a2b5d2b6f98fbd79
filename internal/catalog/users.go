package catalog

import "time"

// now is the clock used for every timestamp the store stamps; it is a
// variable so it can be replaced with a deterministic one.
var now = time.Now

// CreateUser allocates the next User id, rejecting duplicate names.
func (s *Store) CreateUser(name, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Name == name {
			return User{}, ErrDuplicateName
		}
	}

	s.counters.User++
	u := User{
		ID:           s.counters.User,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now(),
		Online:       false,
	}
	s.users[u.ID] = &u

	if err := s.persistLocked(); err != nil {
		return User{}, err
	}
	return u, nil
}

// ReadUser returns the User row with the given id.
func (s *Store) ReadUser(id uint32) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return *u, nil
}

// UserFilter is a conjunctive filter for QueryUsers; nil fields are
// ignored.
type UserFilter struct {
	ID     *uint32
	Name   *string
	Online *bool
}

// QueryUsers returns every User row matching every non-nil field of f.
func (s *Store) QueryUsers(f UserFilter) []User {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []User
	for _, u := range s.users {
		if f.ID != nil && u.ID != *f.ID {
			continue
		}
		if f.Name != nil && u.Name != *f.Name {
			continue
		}
		if f.Online != nil && u.Online != *f.Online {
			continue
		}
		out = append(out, *u)
	}
	return out
}

// UpdateUser field-wise merges fields into the row with the given id.
// Unset (nil) fields are left untouched; no validation is performed,
// matching the source's unchecked update semantics.
func (s *Store) UpdateUser(id uint32, fields UserUpdate) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	fields.applyTo(u)

	if err := s.persistLocked(); err != nil {
		return User{}, err
	}
	return *u, nil
}

// UserUpdate carries the optional field-wise mutations UpdateUser applies.
type UserUpdate struct {
	Name         *string
	PasswordHash *string
	LastLoginAt  *time.Time
	Online       *bool
}

func (f UserUpdate) applyTo(u *User) {
	if f.Name != nil {
		u.Name = *f.Name
	}
	if f.PasswordHash != nil {
		u.PasswordHash = *f.PasswordHash
	}
	if f.LastLoginAt != nil {
		u.LastLoginAt = f.LastLoginAt
	}
	if f.Online != nil {
		u.Online = *f.Online
	}
}
