// Package repository implements data access over Postgres using database/sql.
// All queries are explicit SQL; no ORM.
package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// placeholders renders a comma-separated list of $n placeholders for an IN
// clause, starting at start.
func placeholders(start, count int) string {
	parts := make([]string, count)
	for i := 0; i < count; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ",")
}

// int64Args widens ids for variadic query arguments.
func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
