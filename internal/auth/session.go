package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	SessionDuration   = 24 * time.Hour
	InactivityTimeout = 30 * time.Minute
)

// SessionUser is the user behind a valid session token.
type SessionUser struct {
	ID       int
	Username string
	Role     string
}

// ErrSessionExpired is returned for a session idle longer than
// InactivityTimeout. The session is deleted.
var ErrSessionExpired = errors.New("session expired due to inactivity")

// NewSession stores a fresh session for userID and returns its token and
// expiry.
func NewSession(ctx context.Context, db *sql.DB, userID int) (string, time.Time, error) {
	token := uuid.NewString()
	expires := time.Now().UTC().Add(SessionDuration)
	now := time.Now().UTC().Format("2006-01-02 15:04:05")
	_, err := db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, created_at, expires_at, last_activity) VALUES (?, ?, ?, ?, ?)",
		token, userID, now, expires.Format("2006-01-02 15:04:05"), now)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

// LookupSession resolves token to an active user, enforcing expiry and the
// inactivity timeout. Each hit records the activity and slides expires_at to
// SessionDuration from now. Unknown, expired or idle sessions and inactive
// users return sql.ErrNoRows.
func LookupSession(ctx context.Context, db *sql.DB, token string) (*SessionUser, error) {
	var u SessionUser
	var lastActivity sql.NullString
	var active int
	err := db.QueryRowContext(ctx, `SELECT u.id, u.username, u.role, u.active, COALESCE(s.last_activity, s.created_at)
		FROM sessions s JOIN users u ON s.user_id = u.id
		WHERE s.token = ? AND s.expires_at > ?`, token, time.Now().UTC().Format("2006-01-02 15:04:05")).
		Scan(&u.ID, &u.Username, &u.Role, &active, &lastActivity)
	if err != nil {
		return nil, err
	}
	if active == 0 {
		return nil, sql.ErrNoRows
	}
	if t, ok := parseTimestamp(lastActivity.String); ok && time.Since(t) > InactivityTimeout {
		_ = DeleteSession(ctx, db, token)
		return nil, ErrSessionExpired
	}
	now := time.Now().UTC()
	_, _ = db.ExecContext(ctx, "UPDATE sessions SET last_activity = ?, expires_at = ? WHERE token = ?",
		now.Format("2006-01-02 15:04:05"), now.Add(SessionDuration).Format("2006-01-02 15:04:05"), token)
	return &u, nil
}

// DeleteSession removes a session (logout).
func DeleteSession(ctx context.Context, db *sql.DB, token string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

// PurgeExpiredSessions deletes expired sessions and those idle longer than
// InactivityTimeout.
func PurgeExpiredSessions(ctx context.Context, db *sql.DB) (int64, error) {
	now := time.Now().UTC()
	res, err := db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ? OR last_activity < ?",
		now.Format("2006-01-02 15:04:05"), now.Add(-InactivityTimeout).Format("2006-01-02 15:04:05"))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
