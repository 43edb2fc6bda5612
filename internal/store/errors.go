package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrDuplicate is returned when a record with the same key already exists
var ErrDuplicate = errors.New("record already exists")

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
