package videolecture

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// VideoLectureHandler handles video lecture requests
type VideoLectureHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewVideoLectureHandler creates a new video lecture handler
func NewVideoLectureHandler(db *gorm.DB) *VideoLectureHandler {
	return &VideoLectureHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateVideoLectureRequest represents the request body for linking a video
type CreateVideoLectureRequest struct {
	Title       string `json:"title" validate:"required,min=2,max=255"`
	SubjectID   uint   `json:"subject_id" validate:"required,min=1"`
	Type        string `json:"type" validate:"required,oneof=single playlist"`
	VideoURL    string `json:"video_url" validate:"required,url"`
	Description string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateVideoLectureRequest represents the request body for updating a video
type UpdateVideoLectureRequest struct {
	Title       string `json:"title" validate:"omitempty,min=2,max=255"`
	Type        string `json:"type" validate:"omitempty,oneof=single playlist"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Description string `json:"description" validate:"omitempty,max=1000"`
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

// ListVideoLectures handles GET /api/v1/videos
func (h *VideoLectureHandler) ListVideoLectures(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.VideoLecture{})

	if subjectID := c.Query("subject_id"); subjectID != "" {
		query = query.Where("subject_id = ?", subjectID)
	}
	if videoType := c.Query("type"); videoType != "" {
		query = query.Where("type = ?", videoType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count video lectures")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var videos []model.VideoLecture
	if err := preloadRefs(query).
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&videos).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch video lectures")
	}

	return response.Paginated(c, videos, pagination)
}

// GetVideoLecture handles GET /api/v1/videos/:id
func (h *VideoLectureHandler) GetVideoLecture(c *fiber.Ctx) error {
	id := c.Params("id")

	var video model.VideoLecture
	if err := preloadRefs(h.db).First(&video, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Video lecture not found")
		}
		return response.InternalServerError(c, "Failed to fetch video lecture")
	}

	return response.Success(c, video)
}

// CreateVideoLecture handles POST /api/v1/admin/videos
func (h *VideoLectureHandler) CreateVideoLecture(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateVideoLectureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var count int64
	if err := h.db.Model(&model.Subject{}).Where("id = ?", req.SubjectID).Count(&count).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify subject")
	}
	if count == 0 {
		return response.BadRequest(c, "Subject not found")
	}

	video := model.VideoLecture{
		Title:       validation.SanitizeString(req.Title),
		SubjectID:   req.SubjectID,
		Type:        model.VideoType(req.Type),
		VideoURL:    req.VideoURL,
		Description: validation.SanitizeString(req.Description),
		UploaderID:  user.ID,
	}

	if err := h.db.Create(&video).Error; err != nil {
		return response.InternalServerError(c, "Failed to create video lecture")
	}

	preloadRefs(h.db).First(&video, video.ID)

	return response.Created(c, video)
}

// UpdateVideoLecture handles PUT /api/v1/admin/videos/:id
func (h *VideoLectureHandler) UpdateVideoLecture(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateVideoLectureRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var video model.VideoLecture
	if err := h.db.First(&video, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Video lecture not found")
		}
		return response.InternalServerError(c, "Failed to fetch video lecture")
	}

	if req.Title != "" {
		video.Title = validation.SanitizeString(req.Title)
	}
	if req.Type != "" {
		video.Type = model.VideoType(req.Type)
	}
	if req.VideoURL != "" {
		video.VideoURL = req.VideoURL
	}
	if req.Description != "" {
		video.Description = validation.SanitizeString(req.Description)
	}

	if err := h.db.Save(&video).Error; err != nil {
		return response.InternalServerError(c, "Failed to update video lecture")
	}

	preloadRefs(h.db).First(&video, video.ID)

	return response.SuccessWithMessage(c, "Video lecture updated successfully", video)
}

// DeleteVideoLecture handles DELETE /api/v1/admin/videos/:id
func (h *VideoLectureHandler) DeleteVideoLecture(c *fiber.Ctx) error {
	id := c.Params("id")

	var video model.VideoLecture
	if err := h.db.First(&video, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Video lecture not found")
		}
		return response.InternalServerError(c, "Failed to fetch video lecture")
	}

	if err := h.db.Delete(&video).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete video lecture")
	}

	return response.SuccessWithMessage(c, "Video lecture deleted successfully", nil)
}
