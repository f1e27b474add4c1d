package admin

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"springworks/internal/audit"
	"springworks/internal/auth"
	"springworks/internal/database"
	"springworks/internal/response"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ip := audit.GetClientIP(r)
	if h.Limiter != nil && !h.Limiter.Allow(ip) {
		response.Err(w, "Too many login attempts. Try again in a minute.", 429)
		return
	}

	var req loginRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}
	ctx := r.Context()

	locked, err := auth.IsAccountLocked(ctx, h.DB, req.Username)
	if err == nil && locked {
		response.Err(w, "Account temporarily locked due to too many failed login attempts. Try again later.", 403)
		return
	}

	var id int
	var hash string
	var active int
	err = h.DB.QueryRowContext(ctx, "SELECT id, password_hash, active FROM users WHERE username = ?", req.Username).
		Scan(&id, &hash, &active)
	if err != nil {
		response.Err(w, "Invalid username or password", 401)
		return
	}
	if !auth.CheckPassword(hash, req.Password) {
		if err := auth.IncrementFailedLoginAttempts(ctx, h.DB, req.Username); err != nil {
			zap.S().Warnw("record failed login", "username", req.Username, "error", err)
		}
		response.Err(w, "Invalid username or password", 401)
		return
	}
	if active == 0 {
		response.Err(w, "Account deactivated", 403)
		return
	}

	_ = auth.ResetFailedLoginAttempts(ctx, h.DB, req.Username)
	token, expires, err := auth.NewSession(ctx, h.DB, id)
	if err != nil {
		zap.S().Errorw("create session", "username", req.Username, "error", err)
		response.Err(w, "Failed to create session", 500)
		return
	}
	_, _ = h.DB.ExecContext(ctx, "UPDATE users SET last_login = ? WHERE id = ?", database.Now(), id)

	http.SetCookie(w, &http.Cookie{
		Name:     audit.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})

	u, err := h.getUser(r, id)
	if err != nil {
		response.Err(w, "internal error", 500)
		return
	}
	audit.LogAudit(h.DB, h.Hub, u.Username, audit.ActionLogin, "user", u.Username, "Logged in from "+ip)
	response.JSON(w, map[string]any{"user": u})
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(audit.SessionCookie); err == nil {
		username := audit.GetUsername(h.DB, r)
		if err := auth.DeleteSession(r.Context(), h.DB, cookie.Value); err != nil {
			zap.S().Warnw("delete session", "error", err)
		}
		audit.LogAudit(h.DB, h.Hub, username, audit.ActionLogout, "user", username, "Logged out")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     audit.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	response.JSON(w, map[string]string{"status": "ok"})
}

// Me handles GET /auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	su := h.currentUser(r)
	if su == nil {
		response.Err(w, "Unauthorized", 401)
		return
	}
	u, err := h.getUser(r, su.ID)
	if err != nil {
		response.Err(w, "Unauthorized", 401)
		return
	}
	response.JSON(w, map[string]any{"user": u})
}

// ChangePassword handles POST /auth/change-password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	su := h.currentUser(r)
	if su == nil {
		response.Err(w, "Unauthorized", 401)
		return
	}
	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		response.Err(w, "Current and new password required", 400)
		return
	}

	err := auth.ChangePassword(r.Context(), h.DB, su.ID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
	case errors.Is(err, auth.ErrWrongPassword):
		response.Err(w, "Current password is incorrect", 401)
		return
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, sql.ErrNoRows):
		response.Err(w, "User not found", 404)
		return
	case errors.Is(err, auth.ErrPasswordReused):
		response.Err(w, err.Error(), 400)
		return
	default:
		if auth.ValidatePasswordStrength(req.NewPassword) != nil {
			response.Err(w, err.Error(), 400)
			return
		}
		zap.S().Errorw("change password", "userID", su.ID, "error", err)
		response.Err(w, "internal error", 500)
		return
	}
	audit.LogAudit(h.DB, h.Hub, su.Username, audit.ActionUpdate, "user", su.Username, "Changed password")
	response.JSON(w, map[string]string{"status": "password_changed"})
}
