package organizer

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

const storagePrefix = "organizers"

// OrganizerHandler handles organizer-related requests
type OrganizerHandler struct {
	db      *gorm.DB
	library *services.LibraryService
}

// NewOrganizerHandler creates a new organizer handler
func NewOrganizerHandler(db *gorm.DB, library *services.LibraryService) *OrganizerHandler {
	return &OrganizerHandler{
		db:      db,
		library: library,
	}
}

func preloadRefs(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Branch", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "code")
		}).
		Preload("Year", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "value", "label")
		}).
		Preload("Uploader", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		})
}

// ListOrganizers handles GET /api/v1/organizers
func (h *OrganizerHandler) ListOrganizers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")

	query := h.db.Model(&model.Organizer{})

	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if yearID := c.Query("year_id"); yearID != "" {
		query = query.Where("year_id = ?", yearID)
	}
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count organizers")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var organizers []model.Organizer
	if err := preloadRefs(query).
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&organizers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch organizers")
	}

	return response.Paginated(c, organizers, pagination)
}

// GetOrganizer handles GET /api/v1/organizers/:id
func (h *OrganizerHandler) GetOrganizer(c *fiber.Ctx) error {
	id := c.Params("id")

	var organizer model.Organizer
	if err := preloadRefs(h.db).First(&organizer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organizer not found")
		}
		return response.InternalServerError(c, "Failed to fetch organizer")
	}

	return response.Success(c, organizer)
}

// AccessOrganizer handles GET /api/v1/organizers/:id/access
func (h *OrganizerHandler) AccessOrganizer(c *fiber.Ctx) error {
	id := c.Params("id")

	var organizer model.Organizer
	if err := h.db.First(&organizer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organizer not found")
		}
		return response.InternalServerError(c, "Failed to fetch organizer")
	}

	return response.Success(c, fiber.Map{
		"file_url":  organizer.FileURL,
		"file_size": organizer.FileSize,
	})
}

// CreateOrganizer handles POST /api/v1/admin/organizers. Organizers are
// classified by branch and year only.
func (h *OrganizerHandler) CreateOrganizer(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	title := validation.SanitizeString(c.FormValue("title"))
	description := validation.SanitizeString(c.FormValue("description"))
	branchID, _ := strconv.ParseUint(c.FormValue("branch_id"), 10, 32)
	yearID, _ := strconv.ParseUint(c.FormValue("year_id"), 10, 32)

	if title == "" || branchID == 0 || yearID == 0 {
		return response.BadRequest(c, "Title, branch_id and year_id are required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "PDF file is required")
	}

	var count int64
	if err := h.db.Model(&model.Branch{}).Where("id = ?", branchID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify references")
	}
	if count == 0 {
		return response.BadRequest(c, "Branch not found")
	}
	if err := h.db.Model(&model.Year{}).Where("id = ?", yearID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify references")
	}
	if count == 0 {
		return response.BadRequest(c, "Year not found")
	}

	upload, err := h.library.ValidateAndUpload(c.Context(), storagePrefix, file, pdfvalidation.OrganizerLimits)
	if err != nil {
		if errors.Is(err, services.ErrInvalidDocument) {
			return response.BadRequest(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to upload file")
	}

	organizer := model.Organizer{
		Title:       title,
		BranchID:    uint(branchID),
		YearID:      uint(yearID),
		Description: description,
		FileID:      upload.FileID,
		FileURL:     upload.FileURL,
		FileSize:    upload.FileSize,
		PageCount:   upload.PageCount,
		UploaderID:  user.ID,
	}

	if err := h.db.Create(&organizer).Error; err != nil {
		h.library.Discard(c.Context(), upload.FileID, storagePrefix)
		return response.InternalServerError(c, "Failed to create organizer")
	}

	preloadRefs(h.db).First(&organizer, organizer.ID)

	return response.Created(c, organizer)
}

// UpdateOrganizer handles PUT /api/v1/admin/organizers/:id
func (h *OrganizerHandler) UpdateOrganizer(c *fiber.Ctx) error {
	id := c.Params("id")

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var organizer model.Organizer
	if err := h.db.First(&organizer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organizer not found")
		}
		return response.InternalServerError(c, "Failed to fetch organizer")
	}

	if req.Title != "" {
		organizer.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != "" {
		organizer.Description = validation.SanitizeString(req.Description)
	}

	if err := h.db.Save(&organizer).Error; err != nil {
		return response.InternalServerError(c, "Failed to update organizer")
	}

	preloadRefs(h.db).First(&organizer, organizer.ID)

	return response.SuccessWithMessage(c, "Organizer updated successfully", organizer)
}

// DeleteOrganizer handles DELETE /api/v1/admin/organizers/:id
func (h *OrganizerHandler) DeleteOrganizer(c *fiber.Ctx) error {
	id := c.Params("id")

	var organizer model.Organizer
	if err := h.db.First(&organizer, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organizer not found")
		}
		return response.InternalServerError(c, "Failed to fetch organizer")
	}

	if err := h.db.Delete(&organizer).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete organizer")
	}

	h.library.RemoveFile(c.Context(), organizer.FileID, storagePrefix)

	return response.SuccessWithMessage(c, "Organizer deleted successfully", nil)
}
