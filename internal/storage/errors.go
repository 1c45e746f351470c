package storage

import "errors"

// ErrNoRows is returned by QueryRow when the query matched nothing
var ErrNoRows = errors.New("storage: no rows")

// StorageError wraps any failure reported by the database driver:
// lost connectivity, constraint violations, malformed SQL.
// Its message is meant for server logs, not for clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err carries a StorageError
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
