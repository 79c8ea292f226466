package college

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// CollegeHandler handles college-related requests
type CollegeHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewCollegeHandler creates a new college handler
func NewCollegeHandler(db *gorm.DB) *CollegeHandler {
	return &CollegeHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateCollegeRequest represents the request body for creating a college
type CreateCollegeRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Place string `json:"place" validate:"omitempty,max=255"`
}

// ListColleges handles GET /api/v1/colleges
func (h *CollegeHandler) ListColleges(c *fiber.Ctx) error {
	var colleges []model.College
	if err := h.db.Order("name ASC").Find(&colleges).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges")
	}
	return response.Success(c, colleges)
}

// CreateCollege handles POST /api/v1/admin/colleges
func (h *CollegeHandler) CreateCollege(c *fiber.Ctx) error {
	var req CreateCollegeRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	college := model.College{
		Name:  validation.SanitizeString(req.Name),
		Place: validation.SanitizeString(req.Place),
	}

	if err := h.db.Create(&college).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "College with this name already exists")
		}
		return response.InternalServerError(c, "Failed to create college")
	}

	return response.Created(c, college)
}

// DeleteCollege handles DELETE /api/v1/admin/colleges/:id
func (h *CollegeHandler) DeleteCollege(c *fiber.Ctx) error {
	id := c.Params("id")

	var college model.College
	if err := h.db.First(&college, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "College not found")
		}
		return response.InternalServerError(c, "Failed to fetch college")
	}

	if err := h.db.Delete(&college).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete college")
	}

	return response.SuccessWithMessage(c, "College deleted successfully", nil)
}
