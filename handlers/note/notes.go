package note

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/services"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/pdfvalidation"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

const storagePrefix = "notes"

// NoteHandler handles note-related requests
type NoteHandler struct {
	db        *gorm.DB
	library   *services.LibraryService
	validator *validation.Validator
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(db *gorm.DB, library *services.LibraryService) *NoteHandler {
	return &NoteHandler{
		db:        db,
		library:   library,
		validator: validation.NewValidator(),
	}
}

// preloadRefs attaches taxonomy and subject relations with narrow
// projections for list and detail responses.
func preloadRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Subject", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "code")
		}).
		Preload("Branch", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "code")
		}).
		Preload("Year", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		}).
		Preload("Semester", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		}).
		Preload("Uploader", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}

// ListNotes handles GET /api/v1/notes
func (h *NoteHandler) ListNotes(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Note{})

	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if yearID := c.Query("year_id"); yearID != "" {
		query = query.Where("year_id = ?", yearID)
	}
	if semesterID := c.Query("semester_id"); semesterID != "" {
		query = query.Where("semester_id = ?", semesterID)
	}
	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count notes")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var notes []model.Note
	if err := preloadRefs(query).
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&notes).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch notes")
	}

	return response.Paginated(c, notes, pagination)
}

// GetNote handles GET /api/v1/notes/:id
func (h *NoteHandler) GetNote(c *fiber.Ctx) error {
	id := c.Params("id")

	var note model.Note
	if err := preloadRefs(h.db).First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Note not found")
		}
		return response.InternalServerError(c, "Failed to fetch note")
	}

	return response.Success(c, note)
}

// AccessNote handles GET /api/v1/notes/:id/access and returns the file URL
func (h *NoteHandler) AccessNote(c *fiber.Ctx) error {
	id := c.Params("id")

	var note model.Note
	if err := h.db.First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Note not found")
		}
		return response.InternalServerError(c, "Failed to fetch note")
	}

	return response.Success(c, fiber.Map{
		"file_url":  note.FileURL,
		"file_size": note.FileSize,
	})
}

// checkRefs verifies the taxonomy and subject references for a note and
// names the missing dimension when one does not exist.
func (h *NoteHandler) checkRefs(branchID, yearID, semesterID, subjectID uint) (string, error) {
	var count int64

	if err := h.db.Model(&model.Branch{}).Where("id = ?", branchID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "Branch not found", nil
	}

	if err := h.db.Model(&model.Year{}).Where("id = ?", yearID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "Year not found", nil
	}

	if err := h.db.Model(&model.Semester{}).Where("id = ?", semesterID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "Semester not found", nil
	}

	if err := h.db.Model(&model.Subject{}).Where("id = ?", subjectID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "Subject not found", nil
	}

	return "", nil
}

// CreateNote handles POST /api/v1/admin/notes. The request is multipart:
// metadata fields plus a single "file" part holding the PDF.
func (h *NoteHandler) CreateNote(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	description := validation.SanitizeString(c.FormValue("description"))
	branchID, _ := strconv.ParseUint(c.FormValue("branch_id"), 10, 32)
	yearID, _ := strconv.ParseUint(c.FormValue("year_id"), 10, 32)
	semesterID, _ := strconv.ParseUint(c.FormValue("semester_id"), 10, 32)
	subjectID, _ := strconv.ParseUint(c.FormValue("subject_id"), 10, 32)

	if title == "" || branchID == 0 || yearID == 0 || semesterID == 0 || subjectID == 0 {
		return response.BadRequest(c, "Title, branch_id, year_id, semester_id and subject_id are required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required")
	}

	missing, err := h.checkRefs(uint(branchID), uint(yearID), uint(semesterID), uint(subjectID))
	if err != nil {
		return response.InternalServerError(c, "Failed to verify references")
	}
	if missing != "" {
		return response.BadRequest(c, missing)
	}

	// Phase one: validate and store the file
	upload, err := h.library.ValidateAndUpload(c.Context(), storagePrefix, file, pdfvalidation.NotesLimits)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to upload file")
	}

	note := model.Note{
		Title:       title,
		BranchID:    uint(branchID),
		YearID:      uint(yearID),
		SemesterID:  uint(semesterID),
		SubjectID:   uint(subjectID),
		Description: description,
		FileID:      upload.FileID,
		FileURL:     upload.FileURL,
		FileSize:    upload.FileSize,
		PageCount:   upload.PageCount,
		UploaderID:  user.ID,
	}

	// Phase two: insert the row; on failure remove the stored object again
	if err := h.db.Create(&note).Error; err != nil {
		h.library.Discard(c.Context(), upload.FileID, storagePrefix)
		return response.InternalServerError(c, "Failed to create note")
	}

	preloadRefs(h.db).First(&note, note.ID)

	return response.Created(c, note)
}

// UpdateNote handles PUT /api/v1/admin/notes/:id. Only metadata changes;
// replacing the file means deleting and re-uploading.
func (h *NoteHandler) UpdateNote(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var note model.Note
	if err := h.db.First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Note not found")
		}
		return response.InternalServerError(c, "Failed to fetch note")
	}

	if req.Title != "" {
		note.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != "" {
		note.Description = validation.SanitizeString(req.Description)
	}

	if err := h.db.Save(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to update note")
	}

	preloadRefs(h.db).First(&note, note.ID)

	return response.SuccessWithMessage(c, "Note updated successfully", note)
}

// DeleteNote handles DELETE /api/v1/admin/notes/:id. The database row goes
// first; object removal is best effort with orphan tracking.
func (h *NoteHandler) DeleteNote(c *fiber.Ctx) error {
	id := c.Params("id")

	var note model.Note
	if err := h.db.First(&note, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Note not found")
		}
		return response.InternalServerError(c, "Failed to fetch note")
	}

	if err := h.db.Delete(&note).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete note")
	}

	h.library.RemoveFile(c.Context(), note.FileID, storagePrefix)

	return response.SuccessWithMessage(c, "Note deleted successfully", nil)
}
