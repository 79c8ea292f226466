package voice

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// VoiceHandler handles community voice posts. Editing and deleting a voice
// is gated on the original poster regardless of role; a mismatch is a 403
// since the post itself is public.
type VoiceHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewVoiceHandler creates a new voice handler
func NewVoiceHandler(db *gorm.DB) *VoiceHandler {
	return &VoiceHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateVoiceRequest represents the request body for posting a voice
type CreateVoiceRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// UpdateVoiceRequest represents the request body for editing a voice
type UpdateVoiceRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// VoiceResponse decorates a voice with its like count
type VoiceResponse struct {
	model.Voice
	LikeCount int64 `json:"like_count"`
	Liked     bool  `json:"liked"`
}

func preloadAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "image")
	})
}

func (h *VoiceHandler) decorate(voice model.Voice, userID uint) VoiceResponse {
	var likeCount int64
	h.db.Model(&model.VoiceLike{}).Where("voice_id = ?", voice.ID).Count(&likeCount)

	liked := false
	if userID != 0 {
		var c int64
		h.db.Model(&model.VoiceLike{}).Where("voice_id = ? AND user_id = ?", voice.ID, userID).Count(&c)
		liked = c > 0
	}

	return VoiceResponse{Voice: voice, LikeCount: likeCount, Liked: liked}
}

// ListVoices handles GET /api/v1/voices
func (h *VoiceHandler) ListVoices(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.Voice{}).Where("status = ?", model.VoiceActive)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count voices")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var voices []model.Voice
	if err := preloadAuthor(query).
		Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&voices).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch voices")
	}

	decorated := make([]VoiceResponse, 0, len(voices))
	for _, voice := range voices {
		decorated = append(decorated, h.decorate(voice, userID))
	}

	return response.Paginated(c, decorated, pagination)
}

// GetVoice handles GET /api/v1/voices/:id
func (h *VoiceHandler) GetVoice(c *fiber.Ctx) error {
	userID, _ := middleware.GetUserID(c)
	id := c.Params("id")

	var voice model.Voice
	if err := preloadAuthor(h.db).First(&voice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Voice not found")
		}
		return response.InternalServerError(c, "Failed to fetch voice")
	}

	return response.Success(c, h.decorate(voice, userID))
}

// CreateVoice handles POST /api/v1/voices
func (h *VoiceHandler) CreateVoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateVoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	voice := model.Voice{
		Content: validation.SanitizeString(req.Content),
		UserID:  userID,
		Status:  model.VoiceActive,
	}

	if err := h.db.Create(&voice).Error; err != nil {
		return response.InternalServerError(c, "Failed to create voice")
	}

	preloadAuthor(h.db).First(&voice, voice.ID)

	return response.Created(c, h.decorate(voice, userID))
}

// UpdateVoice handles PUT /api/v1/voices/:id
func (h *VoiceHandler) UpdateVoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var req UpdateVoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var voice model.Voice
	if err := h.db.First(&voice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Voice not found")
		}
		return response.InternalServerError(c, "Failed to fetch voice")
	}

	if voice.UserID != userID {
		return response.Forbidden(c, "Only the author can edit this voice")
	}

	voice.Content = validation.SanitizeString(req.Content)

	if err := h.db.Save(&voice).Error; err != nil {
		return response.InternalServerError(c, "Failed to update voice")
	}

	preloadAuthor(h.db).First(&voice, voice.ID)

	return response.SuccessWithMessage(c, "Voice updated successfully", h.decorate(voice, userID))
}

// DeleteVoice handles DELETE /api/v1/voices/:id
func (h *VoiceHandler) DeleteVoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var voice model.Voice
	if err := h.db.First(&voice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Voice not found")
		}
		return response.InternalServerError(c, "Failed to fetch voice")
	}

	if voice.UserID != userID {
		return response.Forbidden(c, "Only the author can delete this voice")
	}

	if err := h.db.Delete(&voice).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete voice")
	}

	return response.SuccessWithMessage(c, "Voice deleted successfully", nil)
}

// LikeVoice handles POST /api/v1/voices/:id/like. Liking twice is a no-op.
func (h *VoiceHandler) LikeVoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var voice model.Voice
	if err := h.db.First(&voice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Voice not found")
		}
		return response.InternalServerError(c, "Failed to fetch voice")
	}

	like := model.VoiceLike{VoiceID: voice.ID, UserID: userID}
	if err := h.db.Create(&like).Error; err != nil && err != gorm.ErrDuplicatedKey {
		return response.InternalServerError(c, "Failed to like voice")
	}

	return response.Success(c, h.decorate(voice, userID))
}

// UnlikeVoice handles DELETE /api/v1/voices/:id/like
func (h *VoiceHandler) UnlikeVoice(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var voice model.Voice
	if err := h.db.First(&voice, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Voice not found")
		}
		return response.InternalServerError(c, "Failed to fetch voice")
	}

	h.db.Where("voice_id = ? AND user_id = ?", voice.ID, userID).Delete(&model.VoiceLike{})

	return response.Success(c, h.decorate(voice, userID))
}
