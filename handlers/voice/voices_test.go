package voice

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

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	handler := NewVoiceHandler(db)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-Test-User"); raw != "" {
			var id uint
			fmt.Sscanf(raw, "%d", &id)
			c.Locals("user_id", id)
		}
		return c.Next()
	})
	app.Get("/voices", handler.ListVoices)
	app.Get("/voices/:id", handler.GetVoice)
	app.Post("/voices", handler.CreateVoice)
	app.Put("/voices/:id", handler.UpdateVoice)
	app.Delete("/voices/:id", handler.DeleteVoice)
	app.Post("/voices/:id/like", handler.LikeVoice)
	app.Delete("/voices/:id/like", handler.UnlikeVoice)

	return app, db
}

func seedUsers(t *testing.T, db *gorm.DB) (model.User, model.User) {
	t.Helper()

	author := model.User{Email: "author@example.com", PasswordHash: "x", Name: "Author", Role: model.RoleUser}
	reader := model.User{Email: "reader@example.com", PasswordHash: "x", Name: "Reader", Role: model.RoleAdmin}
	db.Create(&author)
	db.Create(&reader)
	return author, reader
}

func doJSON(t *testing.T, app *fiber.App, method, path string, userID uint, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestOnlyAuthorCanEditOrDelete(t *testing.T) {
	app, db := setupApp(t)
	author, reader := seedUsers(t, db)

	voice := model.Voice{Content: "Exam schedule is brutal this year", UserID: author.ID, Status: model.VoiceActive}
	db.Create(&voice)
	path := fmt.Sprintf("/voices/%d", voice.ID)

	// Another user, even an admin, gets a 403 -- the post is public so
	// there is nothing to hide.
	resp := doJSON(t, app, http.MethodPut, path, reader.ID, fiber.Map{"content": "edited"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-author edit, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, path, reader.ID, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for non-author delete, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPut, path, author.ID, fiber.Map{"content": "edited by author"})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for author edit, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, path, author.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for author delete, got %d", resp.StatusCode)
	}
}

func TestListVoicesOnlyActive(t *testing.T) {
	app, db := setupApp(t)
	author, _ := seedUsers(t, db)

	db.Create(&model.Voice{Content: "visible", UserID: author.ID, Status: model.VoiceActive})
	db.Create(&model.Voice{Content: "hidden", UserID: author.ID, Status: model.VoiceArchived})
	db.Create(&model.Voice{Content: "flagged", UserID: author.ID, Status: model.VoiceReported})

	resp := doJSON(t, app, http.MethodGet, "/voices", 0, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []VoiceResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 1 {
		t.Fatalf("expected only the active voice, got %d", len(body.Data))
	}
	if body.Data[0].Content != "visible" {
		t.Errorf("unexpected voice in feed: %q", body.Data[0].Content)
	}
}

func TestLikeIsIdempotent(t *testing.T) {
	app, db := setupApp(t)
	author, reader := seedUsers(t, db)

	voice := model.Voice{Content: "Library hours extended", UserID: author.ID, Status: model.VoiceActive}
	db.Create(&voice)
	path := fmt.Sprintf("/voices/%d/like", voice.ID)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, path, reader.ID, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("like attempt %d: expected 200, got %d", i, resp.StatusCode)
		}
	}

	var count int64
	db.Model(&model.VoiceLike{}).Where("voice_id = ?", voice.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single like row, got %d", count)
	}
}

func TestLikeCountAndLikedFlag(t *testing.T) {
	app, db := setupApp(t)
	author, reader := seedUsers(t, db)

	voice := model.Voice{Content: "New reading room", UserID: author.ID, Status: model.VoiceActive}
	db.Create(&voice)

	doJSON(t, app, http.MethodPost, fmt.Sprintf("/voices/%d/like", voice.ID), author.ID, nil)
	doJSON(t, app, http.MethodPost, fmt.Sprintf("/voices/%d/like", voice.ID), reader.ID, nil)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/voices/%d", voice.ID), reader.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data VoiceResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.LikeCount != 2 {
		t.Errorf("expected like count 2, got %d", body.Data.LikeCount)
	}
	if !body.Data.Liked {
		t.Error("expected liked flag for the requesting user")
	}

	// Unlike and check the flag drops while the other like survives
	doJSON(t, app, http.MethodDelete, fmt.Sprintf("/voices/%d/like", voice.ID), reader.ID, nil)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/voices/%d", voice.ID), reader.ID, nil)
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Data.LikeCount != 1 {
		t.Errorf("expected like count 1 after unlike, got %d", body.Data.LikeCount)
	}
	if body.Data.Liked {
		t.Error("liked flag should be cleared after unlike")
	}
}

func TestCreateVoiceRequiresContent(t *testing.T) {
	app, db := setupApp(t)
	author, _ := seedUsers(t, db)

	resp := doJSON(t, app, http.MethodPost, "/voices", author.ID, fiber.Map{"content": ""})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for empty content, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPost, "/voices", author.ID, fiber.Map{"content": "hello campus"})
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}
}
