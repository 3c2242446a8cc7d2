package repositories

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation распознает нарушение unique-констрейнта Postgres.
// Гонки на (candidate_id, round_number) и feedback.round_id не
// предотвращаются, а детектируются и превращаются в ConflictError.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
