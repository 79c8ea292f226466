package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sahilchouksey/campus-shelf/database"
	"github.com/sahilchouksey/campus-shelf/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// setupApp routes the handler behind a stub that authenticates every request
// as the given actor.
func setupApp(t *testing.T, db *gorm.DB, actor *model.User) *fiber.App {
	t.Helper()

	handler := NewAdminHandler(db)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", actor.ID)
		c.Locals("user", actor)
		return c.Next()
	})
	app.Get("/users", handler.ListUsers)
	app.Patch("/users/:id/role", handler.UpdateUserRole)

	return app
}

func patchRole(t *testing.T, app *fiber.App, userID uint, role string) *http.Response {
	t.Helper()

	payload, _ := json.Marshal(fiber.Map{"role": role})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/users/%d/role", userID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestUpdateUserRolePromotes(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	target := model.User{Email: "user@example.com", PasswordHash: "x", Name: "User", Role: model.RoleUser}
	db.Create(&super)
	db.Create(&target)

	app := setupApp(t, db, &super)

	resp := patchRole(t, app, target.ID, "admin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored model.User
	db.First(&stored, target.ID)
	if stored.Role != model.RoleAdmin {
		t.Errorf("expected role admin, got %q", stored.Role)
	}
	if stored.TokenVersion != target.TokenVersion+1 {
		t.Errorf("role change must bump token_version, got %d", stored.TokenVersion)
	}
}

func TestUpdateUserRoleRejectsInvalidRole(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	target := model.User{Email: "user@example.com", PasswordHash: "x", Name: "User", Role: model.RoleUser}
	db.Create(&super)
	db.Create(&target)

	app := setupApp(t, db, &super)

	for _, role := range []string{"root", "Admin", "moderator", ""} {
		resp := patchRole(t, app, target.ID, role)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("role %q: expected 400, got %d", role, resp.StatusCode)
		}
	}

	var stored model.User
	db.First(&stored, target.ID)
	if stored.Role != model.RoleUser {
		t.Errorf("invalid requests must not change the role, got %q", stored.Role)
	}
}

func TestUpdateUserRoleProtectsSuperAdmins(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	otherSuper := model.User{Email: "super2@example.com", PasswordHash: "x", Name: "Super 2", Role: model.RoleSuperAdmin}
	db.Create(&super)
	db.Create(&otherSuper)

	app := setupApp(t, db, &super)

	resp := patchRole(t, app, otherSuper.ID, "user")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a super admin target, got %d", resp.StatusCode)
	}

	var stored model.User
	db.First(&stored, otherSuper.ID)
	if stored.Role != model.RoleSuperAdmin {
		t.Errorf("super admin role must not change, got %q", stored.Role)
	}
}

func TestUpdateUserRoleRejectsSelfChange(t *testing.T) {
	db := setupTestDB(t)

	// Built from an admin actor since super admin targets are already blocked
	actor := model.User{Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Role: model.RoleAdmin}
	db.Create(&actor)

	app := setupApp(t, db, &actor)

	resp := patchRole(t, app, actor.ID, "user")
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for a self role change, got %d", resp.StatusCode)
	}
}

func TestUpdateUserRoleUnknownUser(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	db.Create(&super)

	app := setupApp(t, db, &super)

	resp := patchRole(t, app, 999, "admin")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for an unknown user, got %d", resp.StatusCode)
	}
}

func TestUpdateUserRoleSameRoleIsNoOp(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	target := model.User{Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Role: model.RoleAdmin}
	db.Create(&super)
	db.Create(&target)

	app := setupApp(t, db, &super)

	resp := patchRole(t, app, target.ID, "admin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored model.User
	db.First(&stored, target.ID)
	if stored.TokenVersion != target.TokenVersion {
		t.Errorf("a no-op role change must not invalidate tokens, got version %d", stored.TokenVersion)
	}
}

func TestListUsersFiltersByRole(t *testing.T) {
	db := setupTestDB(t)

	super := model.User{Email: "super@example.com", PasswordHash: "x", Name: "Super", Role: model.RoleSuperAdmin}
	db.Create(&super)
	db.Create(&model.User{Email: "a@example.com", PasswordHash: "x", Name: "A", Role: model.RoleUser})
	db.Create(&model.User{Email: "b@example.com", PasswordHash: "x", Name: "B", Role: model.RoleAdmin})

	app := setupApp(t, db, &super)

	req := httptest.NewRequest(http.MethodGet, "/users?role=admin", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []model.User `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected 1 admin, got %d", len(body.Data))
	}
	if body.Data[0].Email != "b@example.com" {
		t.Errorf("unexpected user in filtered list: %q", body.Data[0].Email)
	}
}
