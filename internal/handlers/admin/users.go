package admin

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"springworks/internal/audit"
	"springworks/internal/auth"
	"springworks/internal/database"
	"springworks/internal/models"
	"springworks/internal/response"
	"springworks/internal/validation"
)

type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// ListUsers handles GET /api/v1/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	rows, err := h.DB.QueryContext(r.Context(), "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	defer rows.Close()
	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			zap.S().Warnw("scan user", "error", err)
			continue
		}
		users = append(users, u)
	}
	response.JSON(w, users)
}

// CreateUser handles POST /api/v1/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}
	var req userRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Role == "" {
		req.Role = models.RoleUser
	}

	ve := &validation.ValidationErrors{}
	validation.RequireField(ve, "username", req.Username)
	validation.RequireField(ve, "password", req.Password)
	validation.ValidateMaxLength(ve, "username", req.Username, 100)
	validation.ValidateMaxLength(ve, "email", req.Email, 255)
	validation.ValidateEmail(ve, "email", req.Email)
	validation.ValidateEnum(ve, "role", req.Role, validation.ValidRoles)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		response.Err(w, err.Error(), 400)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		response.Err(w, "Failed to hash password", 500)
		return
	}
	res, err := h.DB.ExecContext(r.Context(),
		"INSERT INTO users (username, password_hash, email, role, active) VALUES (?, ?, ?, ?, 1)",
		req.Username, hash, req.Email, req.Role)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			response.Err(w, "Username already exists", 409)
			return
		}
		response.Err(w, err.Error(), 500)
		return
	}
	id, _ := res.LastInsertId()
	u, err := h.getUser(r, int(id))
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	audit.LogAudit(h.DB, h.Hub, admin.Username, audit.ActionCreate, "user", u.Username,
		fmt.Sprintf("Created user %s (%s)", u.Username, u.Role))
	h.broadcastUser("create", u.ID, &u)
	response.Created(w, u)
}

// parseUserID loads the user behind idStr, writing 400/404 itself.
func (h *Handler) parseUserID(w http.ResponseWriter, r *http.Request, idStr string) (models.User, bool) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		response.Err(w, "Invalid user id", 400)
		return models.User{}, false
	}
	u, err := h.getUser(r, id)
	if err == sql.ErrNoRows {
		response.Err(w, "User not found", 404)
		return u, false
	}
	if err != nil {
		response.Err(w, err.Error(), 500)
		return u, false
	}
	return u, true
}

// UpdateUser handles PUT /api/v1/users/:id. A non-empty password resets it.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request, idStr string) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}
	u, ok := h.parseUserID(w, r, idStr)
	if !ok {
		return
	}
	var req userRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}
	if req.Role == "" {
		req.Role = u.Role
	}
	ve := &validation.ValidationErrors{}
	validation.ValidateMaxLength(ve, "email", req.Email, 255)
	validation.ValidateEmail(ve, "email", req.Email)
	validation.ValidateEnum(ve, "role", req.Role, validation.ValidRoles)
	if ve.HasErrors() {
		response.ValidationErr(w, ve)
		return
	}
	if u.ID == admin.ID && req.Role != models.RoleAdmin {
		response.Err(w, "Cannot remove your own admin role", 400)
		return
	}

	hash := ""
	if req.Password != "" {
		if err := auth.ValidatePasswordStrength(req.Password); err != nil {
			response.Err(w, err.Error(), 400)
			return
		}
		var err error
		if hash, err = auth.HashPassword(req.Password); err != nil {
			response.Err(w, "Failed to hash password", 500)
			return
		}
	}

	ctx := r.Context()
	err := database.WithTx(ctx, h.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "UPDATE users SET email = ?, role = ? WHERE id = ?", req.Email, req.Role, u.ID); err != nil {
			return err
		}
		if hash == "" {
			return nil
		}
		_, err := tx.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, u.ID)
		return err
	})
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}

	updated, err := h.getUser(r, u.ID)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	audit.LogRequest(h.DB, h.Hub, r, audit.ActionUpdate, "user", u.Username, "Updated user "+u.Username, u, updated)
	h.broadcastUser("update", updated.ID, &updated)
	response.JSON(w, updated)
}

// DeleteUser handles DELETE /api/v1/users/:id.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, idStr string) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}
	u, ok := h.parseUserID(w, r, idStr)
	if !ok {
		return
	}
	if u.ID == admin.ID {
		response.Err(w, "Cannot delete your own account", 400)
		return
	}
	ctx := r.Context()
	if _, err := h.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", u.ID); err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if _, err := h.DB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", u.ID); err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	audit.LogAudit(h.DB, h.Hub, admin.Username, audit.ActionDelete, "user", u.Username, "Deleted user "+u.Username)
	h.broadcastUser("delete", u.ID, nil)
	response.JSON(w, map[string]string{"status": "deleted"})
}

// ToggleActive handles POST /api/v1/users/:id/toggle-active. Deactivating a
// user ends their sessions.
func (h *Handler) ToggleActive(w http.ResponseWriter, r *http.Request, idStr string) {
	admin := h.requireAdmin(w, r)
	if admin == nil {
		return
	}
	u, ok := h.parseUserID(w, r, idStr)
	if !ok {
		return
	}
	if u.ID == admin.ID {
		response.Err(w, "Cannot deactivate your own account", 400)
		return
	}
	active := 1
	if u.Active {
		active = 0
	}
	ctx := r.Context()
	if _, err := h.DB.ExecContext(ctx, "UPDATE users SET active = ? WHERE id = ?", active, u.ID); err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	if active == 0 {
		_, _ = h.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", u.ID)
	}
	u.Active = active == 1
	state := "Deactivated"
	if u.Active {
		state = "Activated"
	}
	audit.LogAudit(h.DB, h.Hub, admin.Username, audit.ActionUpdate, "user", u.Username, state+" user "+u.Username)
	h.broadcastUser("update", u.ID, &u)
	response.JSON(w, u)
}

// ListAudit handles GET /api/v1/audit?module=&limit=.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	if h.requireAdmin(w, r) == nil {
		return
	}
	q := r.URL.Query()
	limit, _ := strconv.Atoi(strings.TrimSpace(q.Get("limit")))
	entries, err := audit.List(r.Context(), h.DB, q.Get("module"), limit)
	if err != nil {
		response.Err(w, err.Error(), 500)
		return
	}
	response.JSON(w, entries)
}
