package branch

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// BranchHandler handles branch-related requests
type BranchHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(db *gorm.DB) *BranchHandler {
	return &BranchHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateBranchRequest represents the request body for creating a branch
type CreateBranchRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Code        string `json:"code" validate:"required,min=2,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateBranchRequest represents the request body for updating a branch
type UpdateBranchRequest struct {
	Name        string `json:"name" validate:"omitempty,min=2,max=255"`
	Code        string `json:"code" validate:"omitempty,min=2,max=20"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// ListBranches handles GET /api/v1/branches
func (h *BranchHandler) ListBranches(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Branch{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count branches")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var branches []model.Branch
	if err := query.Order("name ASC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&branches).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch branches")
	}

	return response.Paginated(c, branches, pagination)
}

// GetBranch handles GET /api/v1/branches/:id
func (h *BranchHandler) GetBranch(c *fiber.Ctx) error {
	id := c.Params("id")

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	return response.Success(c, branch)
}

// CreateBranch handles POST /api/v1/admin/branches
func (h *BranchHandler) CreateBranch(c *fiber.Ctx) error {
	var req CreateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Code = strings.ToUpper(validation.SanitizeString(req.Code))
	req.Description = validation.SanitizeString(req.Description)

	branch := model.Branch{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
	}

	if err := h.db.Create(&branch).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Branch with this name or code already exists")
		}
		return response.InternalServerError(c, "Failed to create branch")
	}

	return response.Created(c, branch)
}

// UpdateBranch handles PUT /api/v1/admin/branches/:id
func (h *BranchHandler) UpdateBranch(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateBranchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	if req.Name != "" {
		branch.Name = validation.SanitizeString(req.Name)
	}
	if req.Code != "" {
		branch.Code = strings.ToUpper(validation.SanitizeString(req.Code))
	}
	if req.Description != "" {
		branch.Description = validation.SanitizeString(req.Description)
	}

	if err := h.db.Save(&branch).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return response.Conflict(c, "Branch with this name or code already exists")
		}
		return response.InternalServerError(c, "Failed to update branch")
	}

	return response.SuccessWithMessage(c, "Branch updated successfully", branch)
}

// DeleteBranch handles DELETE /api/v1/admin/branches/:id. Branches that are
// still referenced by subjects or uploaded material cannot be removed.
func (h *BranchHandler) DeleteBranch(c *fiber.Ctx) error {
	id := c.Params("id")

	var branch model.Branch
	if err := h.db.First(&branch, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Branch not found")
		}
		return response.InternalServerError(c, "Failed to fetch branch")
	}

	var subjectCount int64
	if err := h.db.Model(&model.Subject{}).Where("branch_id = ?", branch.ID).Count(&subjectCount).Error; err != nil {
		return response.InternalServerError(c, "Failed to check branch dependencies")
	}
	if subjectCount > 0 {
		return response.Conflict(c, "Cannot delete branch with existing subjects")
	}

	var noteCount int64
	h.db.Model(&model.Note{}).Where("branch_id = ?", branch.ID).Count(&noteCount)
	var organizerCount int64
	h.db.Model(&model.Organizer{}).Where("branch_id = ?", branch.ID).Count(&organizerCount)
	if noteCount > 0 || organizerCount > 0 {
		return response.Conflict(c, "Cannot delete branch with existing uploads")
	}

	if err := h.db.Delete(&branch).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete branch")
	}

	return response.SuccessWithMessage(c, "Branch deleted successfully", nil)
}
