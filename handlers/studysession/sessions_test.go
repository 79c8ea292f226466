package studysession

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

// setupApp wires the session routes behind a stub that authenticates every
// request as the user named in the X-Test-User header.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	handler := NewStudySessionHandler(db)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-Test-User"); raw != "" {
			var id uint
			fmt.Sscanf(raw, "%d", &id)
			c.Locals("user_id", id)
		}
		return c.Next()
	})
	app.Get("/study-sessions", handler.ListSessions)
	app.Get("/study-sessions/:id", handler.GetSession)
	app.Post("/study-sessions", handler.CreateSession)
	app.Put("/study-sessions/:id", handler.UpdateSession)
	app.Delete("/study-sessions/:id", handler.DeleteSession)

	return app, db
}

func seedUsers(t *testing.T, db *gorm.DB) (model.User, model.User) {
	t.Helper()

	owner := model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner", Role: model.RoleUser}
	other := model.User{Email: "other@example.com", PasswordHash: "x", Name: "Other", Role: model.RoleUser}
	db.Create(&owner)
	db.Create(&other)
	return owner, other
}

func seedNote(t *testing.T, db *gorm.DB, uploaderID uint, title string) model.Note {
	t.Helper()

	branch := model.Branch{Name: "Computer Science", Code: "CSE"}
	year := model.Year{Value: 2, Label: "Second Year"}
	semester := model.Semester{Value: 3, Label: "Semester 3"}
	credit := model.Credit{Value: 4, Label: "4 Credits"}
	db.Create(&branch)
	db.Create(&year)
	db.Create(&semester)
	db.Create(&credit)

	subject := model.Subject{
		Name: "Operating Systems", Code: "OS",
		BranchID: branch.ID, YearID: year.ID, SemesterID: semester.ID, CreditID: credit.ID,
	}
	db.Create(&subject)

	note := model.Note{
		Title: title, BranchID: branch.ID, YearID: year.ID, SemesterID: semester.ID,
		SubjectID: subject.ID, FileID: "notes/os.pdf", FileURL: "https://cdn.example.com/notes/os.pdf",
		UploaderID: uploaderID,
	}
	db.Create(&note)
	return note
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

func TestCreateSessionSnapshotsSurviveEdits(t *testing.T) {
	app, db := setupApp(t)
	owner, _ := seedUsers(t, db)
	note := seedNote(t, db, owner.ID, "Process Scheduling")

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Midterm prep",
		"notes": []fiber.Map{
			{"note_id": note.ID, "title": note.Title, "file_url": note.FileURL},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	// Rename the note after the session captured it
	db.Model(&model.Note{}).Where("id = ?", note.ID).Update("title", "Renamed")

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/study-sessions/%d", created.Data.ID), owner.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var fetched struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&fetched); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var noteRefs []model.SessionNoteRef
	if err := json.Unmarshal(fetched.Data.Notes, &noteRefs); err != nil {
		t.Fatalf("failed to decode note snapshots: %v", err)
	}
	if len(noteRefs) != 1 {
		t.Fatalf("expected 1 note snapshot, got %d", len(noteRefs))
	}
	if noteRefs[0].Title != "Process Scheduling" {
		t.Errorf("snapshot title should not follow the edit, got %q", noteRefs[0].Title)
	}
	if noteRefs[0].FileURL != "https://cdn.example.com/notes/os.pdf" {
		t.Errorf("snapshot file URL changed: %q", noteRefs[0].FileURL)
	}
}

func TestSessionSurvivesNoteDeletion(t *testing.T) {
	app, db := setupApp(t)
	owner, _ := seedUsers(t, db)
	note := seedNote(t, db, owner.ID, "Memory Management")

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Finals prep",
		"notes": []fiber.Map{
			{"note_id": note.ID, "title": note.Title, "file_url": note.FileURL},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	db.Delete(&model.Note{}, note.ID)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/study-sessions/%d", created.Data.ID), owner.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session should still be readable after the note is deleted, got %d", resp.StatusCode)
	}
}

// The aggregator trusts the client-assembled bundle as given; it does not
// check the ids against the registry.
func TestCreateSessionStoresBundleVerbatim(t *testing.T) {
	app, db := setupApp(t)
	owner, _ := seedUsers(t, db)

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Archived material",
		"papers": []fiber.Map{
			{"paper_id": 999, "paper_type": "university_paper", "title": "2019 Final", "file_url": "https://cdn.example.com/papers/2019.pdf"},
		},
		"notes": []fiber.Map{
			{"note_id": 888, "title": "Old handout", "file_url": "https://cdn.example.com/notes/old.pdf"},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 even for ids unknown to the registry, got %d", resp.StatusCode)
	}

	var created struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var paperRefs []model.SessionPaperRef
	if err := json.Unmarshal(created.Data.Papers, &paperRefs); err != nil {
		t.Fatalf("failed to decode paper snapshots: %v", err)
	}
	if len(paperRefs) != 1 {
		t.Fatalf("expected 1 paper snapshot, got %d", len(paperRefs))
	}
	if paperRefs[0].PaperID != 999 || paperRefs[0].Title != "2019 Final" {
		t.Errorf("paper bundle not stored verbatim: %+v", paperRefs[0])
	}
	if paperRefs[0].PaperType != model.PaperRefUniversity {
		t.Errorf("unexpected paper type %q", paperRefs[0].PaperType)
	}

	var noteRefs []model.SessionNoteRef
	if err := json.Unmarshal(created.Data.Notes, &noteRefs); err != nil {
		t.Fatalf("failed to decode note snapshots: %v", err)
	}
	if len(noteRefs) != 1 || noteRefs[0].NoteID != 888 || noteRefs[0].Title != "Old handout" {
		t.Errorf("note bundle not stored verbatim: %+v", noteRefs)
	}
}

func TestCreateSessionRejectsBadPaperType(t *testing.T) {
	app, db := setupApp(t)
	owner, _ := seedUsers(t, db)

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Bad bundle",
		"papers": []fiber.Map{
			{"paper_id": 1, "paper_type": "mystery_paper", "title": "???"},
		},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for an unknown paper type, got %d", resp.StatusCode)
	}
}

func TestSessionOwnerScoping(t *testing.T) {
	app, db := setupApp(t)
	owner, other := seedUsers(t, db)

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Private session",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	path := fmt.Sprintf("/study-sessions/%d", created.Data.ID)

	// Another user cannot see, update, or delete the session; the response
	// is indistinguishable from a missing ID.
	resp = doJSON(t, app, http.MethodGet, path, other.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for another user's GET, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodPut, path, other.ID, fiber.Map{"title": "Hijacked"})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for another user's PUT, got %d", resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodDelete, path, other.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for another user's DELETE, got %d", resp.StatusCode)
	}

	// The owner still can
	resp = doJSON(t, app, http.MethodGet, path, owner.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 for the owner, got %d", resp.StatusCode)
	}
}

func TestListSessionsScopedToUser(t *testing.T) {
	app, db := setupApp(t)
	owner, other := seedUsers(t, db)

	for i := 0; i < 2; i++ {
		doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
			"title": fmt.Sprintf("Session %d", i),
		})
	}
	doJSON(t, app, http.MethodPost, "/study-sessions", other.ID, fiber.Map{
		"title": "Someone else's session",
	})

	resp := doJSON(t, app, http.MethodGet, "/study-sessions", owner.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data []model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data) != 2 {
		t.Fatalf("expected 2 sessions for the owner, got %d", len(body.Data))
	}
	for _, session := range body.Data {
		if session.UserID != owner.ID {
			t.Errorf("listing leaked a session owned by user %d", session.UserID)
		}
	}
}

func TestUpdateSessionStatusOnly(t *testing.T) {
	app, db := setupApp(t)
	owner, _ := seedUsers(t, db)
	note := seedNote(t, db, owner.ID, "Deadlocks")

	resp := doJSON(t, app, http.MethodPost, "/study-sessions", owner.ID, fiber.Map{
		"title": "Revision",
		"notes": []fiber.Map{
			{"note_id": note.ID, "title": note.Title, "file_url": note.FileURL},
		},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Data model.StudySession `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/study-sessions/%d", created.Data.ID), owner.ID, fiber.Map{
		"status": "completed",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored model.StudySession
	if err := db.First(&stored, created.Data.ID).Error; err != nil {
		t.Fatalf("session missing: %v", err)
	}
	if stored.Status != model.StudySessionCompleted {
		t.Errorf("expected completed status, got %q", stored.Status)
	}

	var noteRefs []model.SessionNoteRef
	if err := json.Unmarshal(stored.Notes, &noteRefs); err != nil {
		t.Fatalf("failed to decode note snapshots: %v", err)
	}
	if len(noteRefs) != 1 || noteRefs[0].Title != "Deadlocks" {
		t.Error("updating status should not touch the material snapshots")
	}

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/study-sessions/%d", created.Data.ID), owner.ID, fiber.Map{
		"status": "paused",
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("expected 422 for unknown status, got %d", resp.StatusCode)
	}
}
