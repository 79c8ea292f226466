package subject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
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

func seedTaxonomy(t *testing.T, db *gorm.DB) (model.Branch, model.Year, model.Semester, model.Credit) {
	t.Helper()

	branch := model.Branch{Name: "Computer Science", Code: "CSE"}
	year := model.Year{Value: 2, Label: "Second Year"}
	semester := model.Semester{Value: 3, Label: "Semester 3"}
	credit := model.Credit{Value: 4, Label: "4 Credits"}
	db.Create(&branch)
	db.Create(&year)
	db.Create(&semester)
	db.Create(&credit)
	return branch, year, semester, credit
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := setupTestDB(t)
	handler := NewSubjectHandler(db)

	app := fiber.New()
	app.Get("/subjects", handler.ListSubjects)
	app.Get("/subjects/:id", handler.GetSubject)
	app.Post("/subjects", handler.CreateSubject)
	app.Put("/subjects/:id", handler.UpdateSubject)
	app.Delete("/subjects/:id", handler.DeleteSubject)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestCreateSubjectMissingDimensionNamed(t *testing.T) {
	app, db := setupApp(t)
	branch, year, semester, credit := seedTaxonomy(t, db)

	cases := []struct {
		name string
		body fiber.Map
		want string
	}{
		{"branch", fiber.Map{"name": "Algorithms", "code": "ALG", "branch_id": 999, "year_id": year.ID, "semester_id": semester.ID, "credit_id": credit.ID}, "Branch not found"},
		{"year", fiber.Map{"name": "Algorithms", "code": "ALG", "branch_id": branch.ID, "year_id": 999, "semester_id": semester.ID, "credit_id": credit.ID}, "Year not found"},
		{"semester", fiber.Map{"name": "Algorithms", "code": "ALG", "branch_id": branch.ID, "year_id": year.ID, "semester_id": 999, "credit_id": credit.ID}, "Semester not found"},
		{"credit", fiber.Map{"name": "Algorithms", "code": "ALG", "branch_id": branch.ID, "year_id": year.ID, "semester_id": semester.ID, "credit_id": 999}, "Credit not found"},
	}

	for _, tc := range cases {
		resp := postJSON(t, app, "/subjects", tc.body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tc.name, resp.StatusCode)
			continue
		}
		raw, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(raw), tc.want) {
			t.Errorf("%s: expected message %q in response, got %s", tc.name, tc.want, raw)
		}

		var count int64
		db.Model(&model.Subject{}).Count(&count)
		if count != 0 {
			t.Errorf("%s: no subject row should exist after a failed create", tc.name)
		}
	}
}

func TestCreateSubjectUppercasesCode(t *testing.T) {
	app, db := setupApp(t)
	branch, year, semester, credit := seedTaxonomy(t, db)

	resp := postJSON(t, app, "/subjects", fiber.Map{
		"name": "Operating Systems", "code": "  os101 ",
		"branch_id": branch.ID, "year_id": year.ID, "semester_id": semester.ID, "credit_id": credit.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var stored model.Subject
	if err := db.Where("name = ?", "Operating Systems").First(&stored).Error; err != nil {
		t.Fatalf("subject not stored: %v", err)
	}
	if stored.Code != "OS101" {
		t.Errorf("expected code stored as OS101, got %q", stored.Code)
	}
}

func TestCreateSubjectDuplicateCode(t *testing.T) {
	app, db := setupApp(t)
	branch, year, semester, credit := seedTaxonomy(t, db)

	body := fiber.Map{
		"name": "Databases", "code": "DBMS",
		"branch_id": branch.ID, "year_id": year.ID, "semester_id": semester.ID, "credit_id": credit.ID,
	}

	resp := postJSON(t, app, "/subjects", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	// Different case, same code after normalization
	body["name"] = "Database Systems"
	body["code"] = "dbms"
	resp = postJSON(t, app, "/subjects", body)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for duplicate code, got %d", resp.StatusCode)
	}
}

func TestGetSubjectResolvesTaxonomy(t *testing.T) {
	app, db := setupApp(t)
	branch, year, semester, credit := seedTaxonomy(t, db)

	subject := model.Subject{
		Name: "Computer Networks", Code: "CN",
		BranchID: branch.ID, YearID: year.ID, SemesterID: semester.ID, CreditID: credit.ID,
	}
	db.Create(&subject)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/subjects/%d", subject.ID), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data model.Subject `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body.Data.Branch.Name != "Computer Science" {
		t.Errorf("expected resolved branch name, got %q", body.Data.Branch.Name)
	}
	if body.Data.Year.Value != 2 {
		t.Errorf("expected resolved year value 2, got %d", body.Data.Year.Value)
	}
	if body.Data.Semester.Value != 3 {
		t.Errorf("expected resolved semester value 3, got %d", body.Data.Semester.Value)
	}
	if body.Data.Credit.Value != 4 {
		t.Errorf("expected resolved credit value 4, got %v", body.Data.Credit.Value)
	}
}

func TestDeleteSubjectGuardedByMaterial(t *testing.T) {
	app, db := setupApp(t)
	branch, year, semester, credit := seedTaxonomy(t, db)

	uploader := model.User{Email: "admin@example.com", PasswordHash: "x", Name: "Admin", Role: model.RoleAdmin}
	db.Create(&uploader)

	subject := model.Subject{
		Name: "Microprocessors", Code: "MP",
		BranchID: branch.ID, YearID: year.ID, SemesterID: semester.ID, CreditID: credit.ID,
	}
	db.Create(&subject)

	note := model.Note{
		Title: "Unit 1", BranchID: branch.ID, YearID: year.ID, SemesterID: semester.ID,
		SubjectID: subject.ID, FileID: "notes/unit1.pdf", FileURL: "https://cdn.example.com/notes/unit1.pdf",
		UploaderID: uploader.ID,
	}
	db.Create(&note)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/subjects/%d", subject.ID), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 while material exists, got %d", resp.StatusCode)
	}

	db.Delete(&note)

	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/subjects/%d", subject.ID), nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 after material removed, got %d", resp.StatusCode)
	}
}
