package academic

import (
	"fmt"
	"math"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// AcademicHandler handles year, semester and credit taxonomy requests
type AcademicHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewAcademicHandler creates a new academic taxonomy handler
func NewAcademicHandler(db *gorm.DB) *AcademicHandler {
	return &AcademicHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateYearRequest represents the request body for creating a year
type CreateYearRequest struct {
	Value int    `json:"value" validate:"required,min=1,max=4"`
	Label string `json:"label" validate:"required,min=2,max=50"`
}

// CreateSemesterRequest represents the request body for creating a semester
type CreateSemesterRequest struct {
	Value int    `json:"value" validate:"required,min=1,max=8"`
	Label string `json:"label" validate:"required,min=2,max=50"`
}

// CreateCreditRequest represents the request body for creating a credit
type CreateCreditRequest struct {
	Value float64 `json:"value" validate:"required"`
	Label string  `json:"label" validate:"required,min=1,max=50"`
}

// validCreditValue reports whether a credit value is at least 0.5 and has at
// most one decimal place.
func validCreditValue(v float64) bool {
	if v < 0.5 {
		return false
	}
	scaled := v * 10
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// ListYears handles GET /api/v1/years
func (h *AcademicHandler) ListYears(c *fiber.Ctx) error {
	var years []model.Year
	if err := h.db.Order("value ASC").Find(&years).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch years")
	}
	return response.Success(c, years)
}

// CreateYear handles POST /api/v1/admin/years
func (h *AcademicHandler) CreateYear(c *fiber.Ctx) error {
	var req CreateYearRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	year := model.Year{
		Value: req.Value,
		Label: validation.SanitizeString(req.Label),
	}

	if err := h.db.Create(&year).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Year with this value or label already exists")
		}
		return response.InternalServerError(c, "Failed to create year")
	}

	return response.Created(c, year)
}

// DeleteYear handles DELETE /api/v1/admin/years/:id
func (h *AcademicHandler) DeleteYear(c *fiber.Ctx) error {
	id := c.Params("id")

	var year model.Year
	if err := h.db.First(&year, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Year not found")
		}
		return response.InternalServerError(c, "Failed to fetch year")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("year_id = ?", year.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check year dependencies")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Cannot delete year with existing subjects")
	}

	var noteCount int64
	h.db.Model(&model.Note{}).Where("year_id = ?", year.ID).Count(&noteCount)
	var organizerCount int64
	h.db.Model(&model.Organizer{}).Where("year_id = ?", year.ID).Count(&organizerCount)
	if noteCount > 0 || organizerCount > 0 {
		return response.Conflict(c, "Cannot delete year with existing uploads")
	}

	if err := h.db.Delete(&year).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete year")
	}

	return response.SuccessWithMessage(c, "Year deleted successfully", nil)
}

// ListSemesters handles GET /api/v1/semesters
func (h *AcademicHandler) ListSemesters(c *fiber.Ctx) error {
	var semesters []model.Semester
	if err := h.db.Order("value ASC").Find(&semesters).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch semesters")
	}
	return response.Success(c, semesters)
}

// CreateSemester handles POST /api/v1/admin/semesters
func (h *AcademicHandler) CreateSemester(c *fiber.Ctx) error {
	var req CreateSemesterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	semester := model.Semester{
		Value: req.Value,
		Label: validation.SanitizeString(req.Label),
	}

	if err := h.db.Create(&semester).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Semester with this value or label already exists")
		}
		return response.InternalServerError(c, "Failed to create semester")
	}

	return response.Created(c, semester)
}

// DeleteSemester handles DELETE /api/v1/admin/semesters/:id
func (h *AcademicHandler) DeleteSemester(c *fiber.Ctx) error {
	id := c.Params("id")

	var semester model.Semester
	if err := h.db.First(&semester, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Semester not found")
		}
		return response.InternalServerError(c, "Failed to fetch semester")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("semester_id = ?", semester.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check semester dependencies")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Cannot delete semester with existing subjects")
	}

	var noteCount int64
	h.db.Model(&model.Note{}).Where("semester_id = ?", semester.ID).Count(&noteCount)
	if noteCount > 0 {
		return response.Conflict(c, "Cannot delete semester with existing uploads")
	}

	if err := h.db.Delete(&semester).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete semester")
	}

	return response.SuccessWithMessage(c, "Semester deleted successfully", nil)
}

// ListCredits handles GET /api/v1/credits
func (h *AcademicHandler) ListCredits(c *fiber.Ctx) error {
	var credits []model.Credit
	if err := h.db.Order("value ASC").Find(&credits).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch credits")
	}
	return response.Success(c, credits)
}

// CreateCredit handles POST /api/v1/admin/credits
func (h *AcademicHandler) CreateCredit(c *fiber.Ctx) error {
	var req CreateCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if !validCreditValue(req.Value) {
		return response.BadRequest(c, fmt.Sprintf("Invalid credit value %.2f: must be at least 0.5 with at most one decimal place", req.Value))
	}

	credit := model.Credit{
		Value: req.Value,
		Label: validation.SanitizeString(req.Label),
	}

	if err := h.db.Create(&credit).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Credit with this label already exists")
		}
		return response.InternalServerError(c, "Failed to create credit")
	}

	return response.Created(c, credit)
}

// DeleteCredit handles DELETE /api/v1/admin/credits/:id
func (h *AcademicHandler) DeleteCredit(c *fiber.Ctx) error {
	id := c.Params("id")

	var credit model.Credit
	if err := h.db.First(&credit, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Credit not found")
		}
		return response.InternalServerError(c, "Failed to fetch credit")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("credit_id = ?", credit.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check credit dependencies")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Cannot delete credit with existing subjects")
	}

	if err := h.db.Delete(&credit).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete credit")
	}

	return response.SuccessWithMessage(c, "Credit deleted successfully", nil)
}
