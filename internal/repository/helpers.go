package repository

import (
	"database/sql"
	"errors"
)

// HandleNotFound turns sql.ErrNoRows into (nil, nil). Lookups of agents,
// members and group settings report absence this way, and the services map a
// nil row to their own NotFound or InvalidCredentials error.
func HandleNotFound[T any](row *T, err error) (*T, error) {
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, err
	default:
		return row, nil
	}
}
