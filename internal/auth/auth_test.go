package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"springworks/internal/database"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Short123!", true},
		{"Shorter1234!", false},
		{"alllowercase", true},
		{"lower1234567", true},
		{"lowerUPPER!!", false},
		{"Password1234", false},
		{"ExactlyTwelve", true},
		{"ExactlyTwel1", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePasswordStrength(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestSalesOrderSortOrderBy(t *testing.T) {
	tests := []struct {
		field, dir string
		want       string
		wantErr    bool
	}{
		{"", "", "ORDER BY created_date DESC, id DESC", false},
		{"customerName", "asc", "ORDER BY customer_name ASC, id ASC", false},
		{"totalAmount", "DESC", "ORDER BY total_amount DESC, id DESC", false},
		{"salesOrderId", "", "ORDER BY id DESC, id DESC", false},
		{"customer_name; DROP TABLE users", "", "", true},
		{"status", "sideways", "", true},
	}
	for _, tt := range tests {
		got, err := SalesOrderSort.OrderBy(tt.field, tt.dir)
		if (err != nil) != tt.wantErr {
			t.Errorf("OrderBy(%q,%q) err = %v", tt.field, tt.dir, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OrderBy(%q,%q) = %q, want %q", tt.field, tt.dir, got, tt.want)
		}
	}
}

func TestMapAPIPathToPermission(t *testing.T) {
	tests := []struct {
		path, method   string
		module, action string
	}{
		{"products", "GET", ModuleProducts, PermActionView},
		{"products/PROD-2001/archive", "POST", ModuleProducts, PermActionCreate},
		{"sales-orders/SO-0001", "PUT", ModuleSalesOrders, PermActionEdit},
		{"job-cards/lookup", "GET", ModuleJobCards, PermActionView},
		{"production-job-cards/JC-5001/status", "PUT", ModuleOrders, PermActionEdit},
		{"users/3", "DELETE", ModuleAdmin, PermActionDelete},
		{"audit", "GET", ModuleAdmin, PermActionView},
		{"dashboard", "GET", "", ""},
		{"", "GET", "", ""},
	}
	for _, tt := range tests {
		m, a := MapAPIPathToPermission(tt.path, tt.method)
		if m != tt.module || a != tt.action {
			t.Errorf("%s %s = (%q,%q), want (%q,%q)", tt.method, tt.path, m, a, tt.module, tt.action)
		}
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed("admin", ModuleAdmin, PermActionDelete) {
		t.Error("admin should manage users")
	}
	if Allowed("user", ModuleAdmin, PermActionView) {
		t.Error("users must not see administration")
	}
	if Allowed("user", ModuleProducts, PermActionPurge) {
		t.Error("users must not purge products")
	}
	if !Allowed("user", ModuleSalesOrders, PermActionCreate) {
		t.Error("users create sales orders")
	}
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:", database.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sql.DB, username, password string, active bool) int {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	a := 0
	if active {
		a = 1
	}
	res, err := db.Exec("INSERT INTO users (username, password_hash, role, active) VALUES (?, ?, 'user', ?)", username, hash, a)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	id, _ := res.LastInsertId()
	return int(id)
}

func TestLockoutAfterMaxAttempts(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	createUser(t, db, "operator", "Operator1234!", true)

	for i := 0; i < MaxFailedLoginAttempts-1; i++ {
		if err := IncrementFailedLoginAttempts(ctx, db, "operator"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	locked, err := IsAccountLocked(ctx, db, "operator")
	if err != nil || locked {
		t.Fatalf("should not be locked yet: %v %v", locked, err)
	}

	_ = IncrementFailedLoginAttempts(ctx, db, "operator")
	locked, err = IsAccountLocked(ctx, db, "operator")
	if err != nil || !locked {
		t.Fatalf("expected lock after %d failures: %v %v", MaxFailedLoginAttempts, locked, err)
	}

	_ = ResetFailedLoginAttempts(ctx, db, "operator")
	locked, _ = IsAccountLocked(ctx, db, "operator")
	if locked {
		t.Error("reset should unlock")
	}
}

func TestExpiredLockIsCleared(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	createUser(t, db, "operator", "Operator1234!", true)
	past := time.Now().UTC().Add(-time.Minute).Format("2006-01-02 15:04:05")
	db.Exec("UPDATE users SET failed_login_attempts = 10, locked_until = ? WHERE username = 'operator'", past)

	locked, err := IsAccountLocked(ctx, db, "operator")
	if err != nil || locked {
		t.Fatalf("expired lock should not hold: %v %v", locked, err)
	}
	var attempts int
	db.QueryRow("SELECT failed_login_attempts FROM users WHERE username = 'operator'").Scan(&attempts)
	if attempts != 0 {
		t.Errorf("expected counter reset, got %d", attempts)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "planner", "Planner12345!", true)

	token, expires, err := NewSession(ctx, db, id)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if time.Until(expires) < SessionDuration-time.Minute {
		t.Errorf("unexpected expiry %v", expires)
	}

	u, err := LookupSession(ctx, db, token)
	if err != nil {
		t.Fatalf("LookupSession: %v", err)
	}
	if u.ID != id || u.Username != "planner" || u.Role != "user" {
		t.Errorf("unexpected user %+v", u)
	}

	if err := DeleteSession(ctx, db, token); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := LookupSession(ctx, db, token); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("expected ErrNoRows after logout, got %v", err)
	}
}

func TestSessionExpirySlides(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "planner", "Planner12345!", true)
	token, _, _ := NewSession(ctx, db, id)

	// Logged in 23h ago, active a minute ago: one hour left.
	soon := time.Now().UTC().Add(time.Hour).Format("2006-01-02 15:04:05")
	recent := time.Now().UTC().Add(-time.Minute).Format("2006-01-02 15:04:05")
	db.Exec("UPDATE sessions SET expires_at = ?, last_activity = ? WHERE token = ?", soon, recent, token)

	if _, err := LookupSession(ctx, db, token); err != nil {
		t.Fatalf("LookupSession: %v", err)
	}
	var raw string
	db.QueryRow("SELECT expires_at FROM sessions WHERE token = ?", token).Scan(&raw)
	expires, ok := parseTimestamp(raw)
	if !ok {
		t.Fatalf("unparsable expires_at %q", raw)
	}
	if time.Until(expires) < SessionDuration-time.Minute {
		t.Errorf("expiry not extended: %s", raw)
	}
}

func TestSessionInactivityTimeout(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "planner", "Planner12345!", true)
	token, _, _ := NewSession(ctx, db, id)

	idle := time.Now().UTC().Add(-InactivityTimeout - time.Minute).Format("2006-01-02 15:04:05")
	db.Exec("UPDATE sessions SET last_activity = ? WHERE token = ?", idle, token)

	if _, err := LookupSession(ctx, db, token); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	var n int
	db.QueryRow("SELECT COUNT(*) FROM sessions WHERE token = ?", token).Scan(&n)
	if n != 0 {
		t.Error("idle session should be deleted")
	}
}

func TestSessionOfInactiveUserIsRejected(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "former", "Former123456!", false)
	token, _, _ := NewSession(ctx, db, id)
	if _, err := LookupSession(ctx, db, token); err == nil {
		t.Fatal("inactive users must not authenticate")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "planner", "Planner12345!", true)
	live, _, _ := NewSession(ctx, db, id)
	dead, _, _ := NewSession(ctx, db, id)
	db.Exec("UPDATE sessions SET expires_at = '2000-01-01 00:00:00' WHERE token = ?", dead)

	n, err := PurgeExpiredSessions(ctx, db)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 purged session, got %d", n)
	}
	if _, err := LookupSession(ctx, db, live); err != nil {
		t.Errorf("live session should survive: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	id := createUser(t, db, "planner", "Planner12345!", true)

	if err := ChangePassword(ctx, db, id, "wrong", "Another12345!"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}
	if err := ChangePassword(ctx, db, id, "Planner12345!", "weak"); err == nil {
		t.Fatal("expected strength error")
	}
	if err := ChangePassword(ctx, db, id, "Planner12345!", "Another12345!"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if err := ChangePassword(ctx, db, id, "Another12345!", "Planner12345!"); !errors.Is(err, ErrPasswordReused) {
		t.Errorf("expected reuse rejection, got %v", err)
	}
	if err := ChangePassword(ctx, db, 999, "x", "Another12345!"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
