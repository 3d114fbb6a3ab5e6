package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/rosca/internal/apperrors"
)

// pqUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pqUniqueViolation = "23505"

// isUniqueViolation reports whether err was caused by a UNIQUE or PRIMARY KEY
// constraint on either supported driver.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(sqliteErr.Error(), "UNIQUE")
	}
	return false
}

// insertErr maps a failed insert onto the engine's taxonomy.
func insertErr(err error, what string) error {
	if isUniqueViolation(err) {
		return apperrors.ConflictWrap(err, "%s already exists", what)
	}
	return fmt.Errorf("failed to insert %s: %w", what, err)
}

// getErr maps a failed single-row read onto the engine's taxonomy.
func getErr(err error, what, id string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound("%s not found: %s", what, id)
	}
	return fmt.Errorf("failed to get %s: %w", what, err)
}

// mustAffect returns a not-found error when an UPDATE matched no row.
func mustAffect(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperrors.NotFound("%s not found: %s", what, id)
	}
	return nil
}
