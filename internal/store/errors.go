package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is, usually through the helper predicates below.
var (
	// ErrNotFound is returned when the requested object does not exist.
	ErrNotFound = errors.New("object not found")

	// ErrAlreadyExists is returned by Create when an object with the same
	// namespace and name is already stored.
	ErrAlreadyExists = errors.New("object already exists")

	// ErrConflict is returned by Update when the caller's resourceVersion
	// no longer matches the stored object.
	ErrConflict = errors.New("object has been modified")

	// ErrInvalidKey is returned when a data key is not a valid identifier.
	ErrInvalidKey = errors.New("invalid key name")

	// ErrInvalidName is returned when an object name or namespace is not a
	// valid DNS subdomain.
	ErrInvalidName = errors.New("invalid object name")
)

// IsNotFound reports whether err indicates a missing object.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAlreadyExists reports whether err indicates a name collision on create.
func IsAlreadyExists(err error) bool { return errors.Is(err, ErrAlreadyExists) }

// IsConflict reports whether err indicates a stale resourceVersion on update.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
