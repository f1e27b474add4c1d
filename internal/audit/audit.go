package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"springworks/internal/database"
	"springworks/internal/models"
	"springworks/internal/websocket"
)

// SessionCookie is the name of the login session cookie.
const SessionCookie = "springworks_session"

// Action constants.
const (
	ActionCreate  = "CREATE"
	ActionUpdate  = "UPDATE"
	ActionDelete  = "DELETE"
	ActionArchive = "ARCHIVE"
	ActionExport  = "EXPORT"
	ActionLogin   = "LOGIN"
	ActionLogout  = "LOGOUT"
)

// LogAudit records an action and notifies audit subscribers. It must not be
// called while a transaction on db is open.
func LogAudit(db *sql.DB, hub *websocket.Hub, username, action, module, recordID, summary string) {
	_, err := db.Exec("INSERT INTO audit_log (username, action, module, record_id, summary) VALUES (?, ?, ?, ?, ?)",
		username, action, module, recordID, summary)
	if err != nil {
		zap.S().Errorw("audit log insert failed", "module", module, "record", recordID, "error", err)
		return
	}
	if hub != nil {
		hub.Publish(websocket.TopicAudit, websocket.Event{
			Type:   module + "_" + strings.ToLower(action),
			ID:     recordID,
			Action: action,
			Data:   map[string]string{"username": username, "module": module, "summary": summary},
		})
	}
}

// Options carries the optional fields of a detailed audit entry.
type Options struct {
	UserID      int
	Username    string
	Action      string
	Module      string
	RecordID    string
	Summary     string
	BeforeValue any
	AfterValue  any
	IPAddress   string
	UserAgent   string
}

// LogDetailed records an action with before/after snapshots and client
// details.
func LogDetailed(db *sql.DB, hub *websocket.Hub, opts Options) error {
	var beforeJSON, afterJSON []byte
	if opts.BeforeValue != nil {
		beforeJSON, _ = json.Marshal(opts.BeforeValue)
	}
	if opts.AfterValue != nil {
		afterJSON, _ = json.Marshal(opts.AfterValue)
	}

	_, err := db.Exec(`INSERT INTO audit_log
		(user_id, username, action, module, record_id, summary, before_value, after_value, ip_address, user_agent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		opts.UserID, opts.Username, opts.Action, opts.Module, opts.RecordID,
		opts.Summary, beforeJSON, afterJSON, opts.IPAddress, opts.UserAgent,
	)
	if err != nil {
		zap.S().Errorw("audit log insert failed", "module", opts.Module, "record", opts.RecordID, "error", err)
		return err
	}
	if hub != nil {
		hub.Publish(websocket.TopicAudit, websocket.Event{
			Type:   opts.Module + "_" + strings.ToLower(opts.Action),
			ID:     opts.RecordID,
			Action: opts.Action,
		})
	}
	return nil
}

// LogRequest records an action by the user behind r.
func LogRequest(db *sql.DB, hub *websocket.Hub, r *http.Request, action, module, recordID, summary string, before, after any) {
	userID, username := GetUserContext(r, db)
	_ = LogDetailed(db, hub, Options{
		UserID:      userID,
		Username:    username,
		Action:      action,
		Module:      module,
		RecordID:    recordID,
		Summary:     summary,
		BeforeValue: before,
		AfterValue:  after,
		IPAddress:   GetClientIP(r),
		UserAgent:   r.UserAgent(),
	})
}

// GetUsername extracts the username from a session cookie.
func GetUsername(db *sql.DB, r *http.Request) string {
	_, username := GetUserContext(r, db)
	return username
}

// GetUserContext extracts user information from request.
func GetUserContext(r *http.Request, db *sql.DB) (userID int, username string) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return 0, "system"
	}
	err = db.QueryRow("SELECT u.id, u.username FROM users u JOIN sessions s ON u.id = s.user_id WHERE s.token = ?", cookie.Value).
		Scan(&userID, &username)
	if err != nil {
		return 0, "system"
	}
	return userID, username
}

// GetClientIP extracts the real client IP from the request (handles proxies).
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// List returns the newest audit entries, optionally for one module.
func List(ctx context.Context, db *sql.DB, module string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query := "SELECT id, COALESCE(username,''), action, module, record_id, COALESCE(summary,''), created_at FROM audit_log"
	var args []any
	if module != "" {
		query += " WHERE module = ?"
		args = append(args, module)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Action, &e.Module, &e.RecordID, &e.Summary, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CleanupOldAuditLogs deletes audit log entries older than retentionDays.
func CleanupOldAuditLogs(ctx context.Context, db *sql.DB, retentionDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays).Format(database.TimeLayout)
	result, err := db.ExecContext(ctx, "DELETE FROM audit_log WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
