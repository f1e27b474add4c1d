package admin

import (
	"database/sql"
	"net/http"

	"springworks/internal/audit"
	"springworks/internal/auth"
	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/server"
	"springworks/internal/websocket"
)

// LoginLimiter throttles login attempts per client IP.
type LoginLimiter interface {
	Allow(ip string) bool
}

// Handler holds dependencies for auth, user and audit handlers.
type Handler struct {
	DB            *sql.DB
	Hub           *websocket.Hub
	Limiter       LoginLimiter
	SecureCookies bool
}

func New(db *sql.DB, hub *websocket.Hub, limiter LoginLimiter, secureCookies bool) *Handler {
	return &Handler{DB: db, Hub: hub, Limiter: limiter, SecureCookies: secureCookies}
}

const userColumns = "id, username, COALESCE(email,''), role, active, created_at, last_login"

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	var active int
	var created, lastLogin sql.NullString
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &active, &created, &lastLogin); err != nil {
		return u, err
	}
	u.Active = active == 1
	u.CreatedAt = created.String
	if lastLogin.Valid {
		u.LastLogin = &lastLogin.String
	}
	return u, nil
}

func (h *Handler) getUser(r *http.Request, id int) (models.User, error) {
	return scanUser(h.DB.QueryRowContext(r.Context(), "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// currentUser returns the authenticated user, from the request context when
// RequireAuth ran and from the session cookie otherwise.
func (h *Handler) currentUser(r *http.Request) *auth.SessionUser {
	if id, ok := r.Context().Value(server.CtxUserID).(int); ok && id != 0 {
		username, _ := r.Context().Value(server.CtxUsername).(string)
		return &auth.SessionUser{ID: id, Username: username, Role: server.RoleFrom(r.Context())}
	}
	cookie, err := r.Cookie(audit.SessionCookie)
	if err != nil {
		return nil
	}
	u, err := auth.LookupSession(r.Context(), h.DB, cookie.Value)
	if err != nil {
		return nil
	}
	return u
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) *auth.SessionUser {
	u := h.currentUser(r)
	if u == nil {
		response.Err(w, "Unauthorized", 401)
		return nil
	}
	if u.Role != models.RoleAdmin {
		response.Err(w, "Admin access required", 403)
		return nil
	}
	return u
}

// broadcastUser publishes a user change; u is nil for deletes.
func (h *Handler) broadcastUser(action string, id int, u *models.User) {
	if h.Hub == nil {
		return
	}
	if u == nil {
		h.Hub.BroadcastChange(websocket.TopicUsers, action, id, nil)
		return
	}
	h.Hub.BroadcastChange(websocket.TopicUsers, action, id, *u)
}
