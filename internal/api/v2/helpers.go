package api

import (
	"strconv"

	"github.com/mediplant/mediplant-go/internal/datastore"
	"github.com/mediplant/mediplant-go/internal/errors"
)

func isNotFound(err error) bool {
	return errors.Is(err, datastore.ErrNotFound)
}

func isInvalidTransition(err error) bool {
	return errors.Is(err, datastore.ErrInvalidTransition)
}

// queryInt parses an integer query parameter with a fallback.
func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

// pagination reads limit/offset query parameters with sane bounds.
func pagination(limitParam, offsetParam string) (limit, offset int) {
	limit = queryInt(limitParam, 20)
	if limit > 100 {
		limit = 100
	}
	offset = queryInt(offsetParam, 0)
	return limit, offset
}
