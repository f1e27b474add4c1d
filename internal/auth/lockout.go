package auth

import (
	"context"
	"database/sql"
	"time"
)

const (
	MaxFailedLoginAttempts = 10
	AccountLockoutDuration = 15 * time.Minute
)

// IncrementFailedLoginAttempts bumps the failed login counter and locks the
// account once it reaches MaxFailedLoginAttempts.
func IncrementFailedLoginAttempts(ctx context.Context, db *sql.DB, username string) error {
	lockUntil := time.Now().UTC().Add(AccountLockoutDuration).Format("2006-01-02 15:04:05")
	_, err := db.ExecContext(ctx, `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
		    locked_until = CASE
		        WHEN failed_login_attempts + 1 >= ? THEN ?
		        ELSE locked_until
		    END
		WHERE username = ?`, MaxFailedLoginAttempts, lockUntil, username)
	return err
}

// ResetFailedLoginAttempts clears the counter and any lock after a
// successful login.
func ResetFailedLoginAttempts(ctx context.Context, db *sql.DB, username string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts = 0, locked_until = NULL WHERE username = ?", username)
	return err
}

// IsAccountLocked reports whether username is inside a lockout window. An
// expired lock is cleared.
func IsAccountLocked(ctx context.Context, db *sql.DB, username string) (bool, error) {
	var lockedUntil sql.NullString
	err := db.QueryRowContext(ctx, "SELECT locked_until FROM users WHERE username = ?", username).Scan(&lockedUntil)
	if err != nil {
		return false, err
	}
	if !lockedUntil.Valid || lockedUntil.String == "" {
		return false, nil
	}

	lockTime, ok := parseTimestamp(lockedUntil.String)
	if !ok {
		return false, nil
	}
	if time.Now().Before(lockTime) {
		return true, nil
	}
	return false, ResetFailedLoginAttempts(ctx, db, username)
}

// parseTimestamp accepts the layouts SQLite DATETIME columns come back in.
func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
