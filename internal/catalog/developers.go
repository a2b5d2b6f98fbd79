package catalog

// CreateDeveloper allocates the next Developer id, rejecting duplicate
// names.
func (s *Store) CreateDeveloper(name, passwordHash string) (Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range s.developers {
		if d.Name == name {
			return Developer{}, ErrDuplicateName
		}
	}

	s.counters.Developer++
	d := Developer{
		ID:           s.counters.Developer,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now(),
	}
	s.developers[d.ID] = &d

	if err := s.persistLocked(); err != nil {
		return Developer{}, err
	}
	return d, nil
}

// ReadDeveloper returns the Developer row with the given id.
func (s *Store) ReadDeveloper(id uint32) (Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.developers[id]
	if !ok {
		return Developer{}, ErrNotFound
	}
	return *d, nil
}

// DeveloperFilter is a conjunctive filter for QueryDevelopers; nil
// fields are ignored.
type DeveloperFilter struct {
	ID   *uint32
	Name *string
}

// QueryDevelopers returns every Developer row matching every non-nil
// field of f.
func (s *Store) QueryDevelopers(f DeveloperFilter) []Developer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Developer
	for _, d := range s.developers {
		if f.ID != nil && d.ID != *f.ID {
			continue
		}
		if f.Name != nil && d.Name != *f.Name {
			continue
		}
		out = append(out, *d)
	}
	return out
}

// DeveloperUpdate carries the optional field-wise mutations UpdateDeveloper
// applies.
type DeveloperUpdate struct {
	Name         *string
	PasswordHash *string
}

// UpdateDeveloper field-wise merges fields into the row with the given id.
func (s *Store) UpdateDeveloper(id uint32, fields DeveloperUpdate) (Developer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.developers[id]
	if !ok {
		return Developer{}, ErrNotFound
	}
	if fields.Name != nil {
		d.Name = *fields.Name
	}
	if fields.PasswordHash != nil {
		d.PasswordHash = *fields.PasswordHash
	}

	if err := s.persistLocked(); err != nil {
		return Developer{}, err
	}
	return *d, nil
}
