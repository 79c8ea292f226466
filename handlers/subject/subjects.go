package subject

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// SubjectHandler handles subject-related requests
type SubjectHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewSubjectHandler creates a new subject handler
func NewSubjectHandler(db *gorm.DB) *SubjectHandler {
	return &SubjectHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateSubjectRequest represents the request body for creating a subject
type CreateSubjectRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Code        string `json:"code" validate:"required,min=2,max=50"`
	BranchID    uint   `json:"branch_id" validate:"required,min=1"`
	YearID      uint   `json:"year_id" validate:"required,min=1"`
	SemesterID  uint   `json:"semester_id" validate:"required,min=1"`
	CreditID    uint   `json:"credit_id" validate:"required,min=1"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateSubjectRequest represents the request body for updating a subject
type UpdateSubjectRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Code        string `json:"code" validate:"omitempty,min=2,max=50"`
	BranchID    *uint  `json:"branch_id" validate:"omitempty,min=1"`
	YearID      *uint  `json:"year_id" validate:"omitempty,min=1"`
	SemesterID  *uint  `json:"semester_id" validate:"omitempty,min=1"`
	CreditID    *uint  `json:"credit_id" validate:"omitempty,min=1"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// preloadTaxonomy attaches the four taxonomy relations with narrow
// projections so responses carry names and values without the bookkeeping
// columns.
func preloadTaxonomy(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Branch", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "code")
		}).
		Preload("Year", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		}).
		Preload("Semester", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		}).
		Preload("Credit", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		})
}

// checkTaxonomyRefs verifies that every referenced taxonomy row exists and
// names the missing dimension when one does not.
func (h *SubjectHandler) checkTaxonomyRefs(branchID, yearID, semesterID, creditID uint) (string, error) {
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

	if err := h.db.Model(&model.Credit{}).Where("id = ?", creditID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "Credit not found", nil
	}

	return "", nil
}

// ListSubjects handles GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Subject{})

	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if yearID := c.Query("year_id"); yearID != "" {
		query = query.Where("year_id = ?", yearID)
	}
	if semesterID := c.Query("semester_id"); semesterID != "" {
		query = query.Where("semester_id = ?", semesterID)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count subjects")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var subjects []model.Subject
	if err := preloadTaxonomy(query).
		Order("name ASC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&subjects).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch subjects")
	}

	return response.Paginated(c, subjects, pagination)
}

// GetSubject handles GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c *fiber.Ctx) error {
	id := c.Params("id")

	var subject model.Subject
	if err := preloadTaxonomy(h.db).First(&subject, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	return response.Success(c, subject)
}

// CreateSubject handles POST /api/v1/admin/subjects
func (h *SubjectHandler) CreateSubject(c *fiber.Ctx) error {
	var req CreateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Description = validation.SanitizeString(req.Description)

	missing, err := h.checkTaxonomyRefs(req.BranchID, req.YearID, req.SemesterID, req.CreditID)
	if err != nil {
		return response.InternalServerError(c, "Failed to verify taxonomy references")
	}
	if missing != "" {
		return response.BadRequest(c, missing)
	}

	subject := model.Subject{
		Name:        req.Name,
		Code:        req.Code,
		BranchID:    req.BranchID,
		YearID:      req.YearID,
		SemesterID:  req.SemesterID,
		CreditID:    req.CreditID,
		Description: req.Description,
	}

	if err := h.db.Create(&subject).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Subject with this code already exists")
		}
		return response.InternalServerError(c, "Failed to create subject")
	}

	preloadTaxonomy(h.db).First(&subject, subject.ID)

	return response.Created(c, subject)
}

// UpdateSubject handles PUT /api/v1/admin/subjects/:id
func (h *SubjectHandler) UpdateSubject(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateSubjectRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	branchID := subject.BranchID
	if req.BranchID != nil {
		branchID = *req.BranchID
	}
	yearID := subject.YearID
	if req.YearID != nil {
		yearID = *req.YearID
	}
	semesterID := subject.SemesterID
	if req.SemesterID != nil {
		semesterID = *req.SemesterID
	}
	creditID := subject.CreditID
	if req.CreditID != nil {
		creditID = *req.CreditID
	}

	missing, err := h.checkTaxonomyRefs(branchID, yearID, semesterID, creditID)
	if err != nil {
		return response.InternalServerError(c, "Failed to verify taxonomy references")
	}
	if missing != "" {
		return response.BadRequest(c, missing)
	}

	subject.BranchID = branchID
	subject.YearID = yearID
	subject.SemesterID = semesterID
	subject.CreditID = creditID

	if req.Name != "" {
		subject.Name = validation.SanitizeString(req.Name)
	}
	if req.Code != "" {
		subject.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	}
	if req.Description != "" {
		subject.Description = validation.SanitizeString(req.Description)
	}

	if err := h.db.Save(&subject).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Subject with this code already exists")
		}
		return response.InternalServerError(c, "Failed to update subject")
	}

	preloadTaxonomy(h.db).First(&subject, subject.ID)

	return response.SuccessWithMessage(c, "Subject updated successfully", subject)
}

// DeleteSubject handles DELETE /api/v1/admin/subjects/:id. Subjects that
// still have material attached cannot be removed.
func (h *SubjectHandler) DeleteSubject(c *fiber.Ctx) error {
	id := c.Params("id")

	var subject model.Subject
	if err := h.db.First(&subject, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Subject not found")
		}
		return response.InternalServerError(c, "Failed to fetch subject")
	}

	var noteCount, paperCount, midsemCount, videoCount int64
	h.db.Model(&model.Note{}).Where("subject_id = ?", subject.ID).Count(&noteCount)
	h.db.Model(&model.UniversityPaper{}).Where("subject_id = ?", subject.ID).Count(&paperCount)
	h.db.Model(&model.MidsemPaper{}).Where("subject_id = ?", subject.ID).Count(&midsemCount)
	h.db.Model(&model.VideoLecture{}).Where("subject_id = ?", subject.ID).Count(&videoCount)

	if noteCount+paperCount+midsemCount+videoCount > 0 {
		return response.Conflict(c, "Cannot delete subject with existing material")
	}

	if err := h.db.Delete(&subject).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete subject")
	}

	return response.SuccessWithMessage(c, "Subject deleted successfully", nil)
}
