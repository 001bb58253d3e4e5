package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrInvalidCredentials means username/password did not match a stored admin.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialDB is the query surface the checker needs.
type CredentialDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Credentials checks admin logins against the admin_users table by exact
// match. The table is seeded with one default pair at first migration.
type Credentials struct {
	db CredentialDB
}

func NewCredentials(db CredentialDB) *Credentials {
	return &Credentials{db: db}
}

// Verify returns the admin's id when the pair matches.
func (c *Credentials) Verify(ctx context.Context, username, password string) (int64, error) {
	var id int64
	err := c.db.QueryRow(ctx,
		`SELECT id FROM admin_users WHERE username = $1 AND password = $2`,
		username, password).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("auth: verify credentials: %w", err)
	}
	return id, nil
}
