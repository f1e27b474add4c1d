package auth

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordReused = errors.New("password was recently used, please choose a different password")
	ErrWrongPassword  = errors.New("current password is incorrect")
	ErrUserNotFound   = errors.New("user not found")
)

const passwordHistoryLen = 5

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CheckPasswordHistory verifies a password hasn't been used recently.
func CheckPasswordHistory(ctx context.Context, db *sql.DB, userID int, newPassword string) error {
	rows, err := db.QueryContext(ctx, `
		SELECT password_hash FROM password_history
		WHERE user_id = ?
		ORDER BY id DESC
		LIMIT ?`, userID, passwordHistoryLen)
	if err != nil {
		return err
	}
	var hashes []string
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err == nil {
			hashes = append(hashes, h)
		}
	}
	rows.Close()

	for _, h := range hashes {
		if CheckPassword(h, newPassword) {
			return ErrPasswordReused
		}
	}
	return nil
}

// ChangePassword replaces the password of userID after checking the
// current one, strength and recent history. The old hash joins the history.
func ChangePassword(ctx context.Context, db *sql.DB, userID int, current, next string) error {
	var currentHash string
	err := db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", userID).Scan(&currentHash)
	if err == sql.ErrNoRows {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if !CheckPassword(currentHash, current) {
		return ErrWrongPassword
	}
	if err := ValidatePasswordStrength(next); err != nil {
		return err
	}
	if CheckPassword(currentHash, next) {
		return ErrPasswordReused
	}
	if err := CheckPasswordHistory(ctx, db, userID, next); err != nil {
		return err
	}

	newHash, err := HashPassword(next)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", newHash, userID); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO password_history (user_id, password_hash) VALUES (?, ?)", userID, currentHash)
	return err
}
