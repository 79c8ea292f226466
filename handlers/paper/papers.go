package paper

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/services"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/pdfvalidation"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

const (
	universityPrefix = "university_papers"
	midsemPrefix     = "midsem_papers"
)

// PaperHandler handles university and midsem exam paper requests
type PaperHandler struct {
	db      *gorm.DB
	library *services.LibraryService
}

// NewPaperHandler creates a new paper handler
func NewPaperHandler(db *gorm.DB, library *services.LibraryService) *PaperHandler {
	return &PaperHandler{
		db:      db,
		library: library,
	}
}

func preloadRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Subject", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "code")
		}).
		Preload("Uploader", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}

// validExamYear bounds the free-form exam year to something plausible
func validExamYear(year int) bool {
	return year >= 1990 && year <= time.Now().Year()+1
}

// ListUniversityPapers handles GET /api/v1/papers/university
func (h *PaperHandler) ListUniversityPapers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.UniversityPaper{})

	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count papers")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var papers []model.UniversityPaper
	if err := preloadRefs(query).
		Order("year DESC, created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&papers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch papers")
	}

	return response.Paginated(c, papers, pagination)
}

// GetUniversityPaper handles GET /api/v1/papers/university/:id
func (h *PaperHandler) GetUniversityPaper(c *fiber.Ctx) error {
	id := c.Params("id")

	var paper model.UniversityPaper
	if err := preloadRefs(h.db).First(&paper, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Paper not found")
		}
		return response.InternalServerError(c, "Failed to fetch paper")
	}

	return response.Success(c, paper)
}

// CreateUniversityPaper handles POST /api/v1/admin/papers/university
func (h *PaperHandler) CreateUniversityPaper(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	description := validation.SanitizeString(c.FormValue("description"))
	subjectID, _ := strconv.ParseUint(c.FormValue("subject_id"), 10, 32)
	year, _ := strconv.Atoi(c.FormValue("year"))

	if title == "" || subjectID == 0 {
		return response.BadRequest(c, "Title and subject_id are required")
	}
	if !validExamYear(year) {
		return response.BadRequest(c, "Invalid exam year")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required")
	}

	var count int64
	if err := h.db.Model(&model.Subject{}).Where("id = ?", subjectID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify subject")
	}
	if count == 0 {
		return response.BadRequest(c, "Subject not found")
	}

	upload, err := h.library.ValidateAndUpload(c.Context(), universityPrefix, file, pdfvalidation.PaperLimits)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to upload file")
	}

	paper := model.UniversityPaper{
		Title:       title,
		SubjectID:   uint(subjectID),
		Year:        year,
		Description: description,
		FileID:      upload.FileID,
		FileURL:     upload.FileURL,
		UploaderID:  user.ID,
	}

	if err := h.db.Create(&paper).Error; err != nil {
		h.library.Discard(c.Context(), upload.FileID, universityPrefix)
		return response.InternalServerError(c, "Failed to create paper")
	}

	preloadRefs(h.db).First(&paper, paper.ID)

	return response.Created(c, paper)
}

// DeleteUniversityPaper handles DELETE /api/v1/admin/papers/university/:id
func (h *PaperHandler) DeleteUniversityPaper(c *fiber.Ctx) error {
	id := c.Params("id")

	var paper model.UniversityPaper
	if err := h.db.First(&paper, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Paper not found")
		}
		return response.InternalServerError(c, "Failed to fetch paper")
	}

	if err := h.db.Delete(&paper).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete paper")
	}

	h.library.RemoveFile(c.Context(), paper.FileID, universityPrefix)

	return response.SuccessWithMessage(c, "Paper deleted successfully", nil)
}

// ListMidsemPapers handles GET /api/v1/papers/midsem
func (h *PaperHandler) ListMidsemPapers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.MidsemPaper{})

	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}
	if college := c.Query("college"); college != "" {
		query = query.Where("college = ?", college)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count papers")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var papers []model.MidsemPaper
	if err := preloadRefs(query).
		Order("year DESC, created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&papers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch papers")
	}

	return response.Paginated(c, papers, pagination)
}

// GetMidsemPaper handles GET /api/v1/papers/midsem/:id
func (h *PaperHandler) GetMidsemPaper(c *fiber.Ctx) error {
	id := c.Params("id")

	var paper model.MidsemPaper
	if err := preloadRefs(h.db).First(&paper, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Paper not found")
		}
		return response.InternalServerError(c, "Failed to fetch paper")
	}

	return response.Success(c, paper)
}

// CreateMidsemPaper handles POST /api/v1/admin/papers/midsem. Midsem papers
// additionally carry the college that set the paper.
func (h *PaperHandler) CreateMidsemPaper(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	description := validation.SanitizeString(c.FormValue("description"))
	college := validation.SanitizeString(c.FormValue("college"))
	subjectID, _ := strconv.ParseUint(c.FormValue("subject_id"), 10, 32)
	year, _ := strconv.Atoi(c.FormValue("year"))

	if title == "" || subjectID == 0 || college == "" {
		return response.BadRequest(c, "Title, subject_id and college are required")
	}
	if !validExamYear(year) {
		return response.BadRequest(c, "Invalid exam year")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required")
	}

	var count int64
	if err := h.db.Model(&model.Subject{}).Where("id = ?", subjectID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify subject")
	}
	if count == 0 {
		return response.BadRequest(c, "Subject not found")
	}

	upload, err := h.library.ValidateAndUpload(c.Context(), midsemPrefix, file, pdfvalidation.PaperLimits)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to upload file")
	}

	paper := model.MidsemPaper{
		Title:       title,
		SubjectID:   uint(subjectID),
		Year:        year,
		College:     college,
		Description: description,
		FileID:      upload.FileID,
		FileURL:     upload.FileURL,
		UploaderID:  user.ID,
	}

	if err := h.db.Create(&paper).Error; err != nil {
		h.library.Discard(c.Context(), upload.FileID, midsemPrefix)
		return response.InternalServerError(c, "Failed to create paper")
	}

	preloadRefs(h.db).First(&paper, paper.ID)

	return response.Created(c, paper)
}

// DeleteMidsemPaper handles DELETE /api/v1/admin/papers/midsem/:id
func (h *PaperHandler) DeleteMidsemPaper(c *fiber.Ctx) error {
	id := c.Params("id")

	var paper model.MidsemPaper
	if err := h.db.First(&paper, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Paper not found")
		}
		return response.InternalServerError(c, "Failed to fetch paper")
	}

	if err := h.db.Delete(&paper).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete paper")
	}

	h.library.RemoveFile(c.Context(), paper.FileID, midsemPrefix)

	return response.SuccessWithMessage(c, "Paper deleted successfully", nil)
}
