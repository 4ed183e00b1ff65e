package usecase

import (
	"context"
	"errors"
	"strings"

	"go-dental-clinic/internal/delivery/http/middleware"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrUnauthenticated = errors.New("missing authenticated clinic user")

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// actor is the authenticated caller a request runs on behalf of
type actor struct {
	ClinicID uuid.UUID
	UserID   uuid.UUID
	RoleID   int
}

func actorFromContext(ctx context.Context) (actor, error) {
	clinicID, ok := middleware.GetClinicIDFromContext(ctx)
	if !ok {
		return actor{}, ErrUnauthenticated
	}
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return actor{}, ErrUnauthenticated
	}
	roleID, _ := middleware.GetRoleIDFromContext(ctx)
	return actor{ClinicID: clinicID, UserID: userID, RoleID: roleID}, nil
}

// normalizePage clamps page and limit and returns the row offset
func normalizePage(page, limit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique constraint violation
// containing the specified constraint name
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

// isForeignKeyError checks if the error is a PostgreSQL foreign key violation
// containing the specified constraint name
func isForeignKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23503 = foreign_key_violation
		if pgErr.Code == "23503" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}
