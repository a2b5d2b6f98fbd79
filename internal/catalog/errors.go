package catalog

import "errors"

var (
	// ErrNotFound is returned when a read/update/delete targets a row
	// that does not exist.
	ErrNotFound = errors.New("catalog: row not found")
	// ErrDuplicateName is returned when a create would violate the
	// User/Developer name-uniqueness invariant.
	ErrDuplicateName = errors.New("catalog: name already in use")
	// ErrDuplicateVersion is returned when a Game create/update would
	// produce two rows sharing (developerId, name, currentVersion).
	ErrDuplicateVersion = errors.New("catalog: developer already has this game version")
)
