package studysession

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"github.com/sahilchouksey/campus-shelf/utils/validation"
	"gorm.io/gorm"
)

// StudySessionHandler handles study session requests. Sessions are strictly
// owner-scoped: requests for another user's session return 404, not 403, so
// session IDs leak nothing.
type StudySessionHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewStudySessionHandler creates a new study session handler
func NewStudySessionHandler(db *gorm.DB) *StudySessionHandler {
	return &StudySessionHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// PaperRefRequest is a client-assembled paper snapshot. The caller supplies
// the denormalized title and file URL alongside the id; the session stores
// them verbatim and never re-resolves them against the registry.
type PaperRefRequest struct {
	PaperID   uint   `json:"paper_id" validate:"required,min=1"`
	PaperType string `json:"paper_type" validate:"required,oneof=university_paper midsem_paper"`
	Title     string `json:"title" validate:"required,min=1,max=255"`
	FileURL   string `json:"file_url" validate:"omitempty,max=1000"`
}

// NoteRefRequest is a client-assembled note snapshot
type NoteRefRequest struct {
	NoteID  uint   `json:"note_id" validate:"required,min=1"`
	Title   string `json:"title" validate:"required,min=1,max=255"`
	FileURL string `json:"file_url" validate:"omitempty,max=1000"`
}

// CreateSessionRequest represents the request body for creating a session
type CreateSessionRequest struct {
	Title       string                  `json:"title" validate:"required,min=2,max=255"`
	Description string                  `json:"description" validate:"omitempty,max=1000"`
	Papers      []PaperRefRequest       `json:"papers" validate:"omitempty,dive"`
	Notes       []NoteRefRequest        `json:"notes" validate:"omitempty,dive"`
	Videos      []model.SessionVideoRef `json:"videos" validate:"omitempty"`
}

// UpdateSessionRequest represents the request body for updating a session.
// The material snapshots are immutable; only the descriptive fields and the
// lifecycle status can change.
type UpdateSessionRequest struct {
	Title       string `json:"title" validate:"omitempty,min=2,max=255"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	Status      string `json:"status" validate:"omitempty,oneof=active completed archived"`
}

// paperBundle copies the client-supplied paper snapshots verbatim. The
// session is a dumb store: the ids are kept for provenance only and are
// never joined back to the registry.
func paperBundle(refs []PaperRefRequest) []model.SessionPaperRef {
	bundle := make([]model.SessionPaperRef, 0, len(refs))
	for _, ref := range refs {
		bundle = append(bundle, model.SessionPaperRef{
			PaperID:   ref.PaperID,
			PaperType: model.PaperRefType(ref.PaperType),
			Title:     validation.SanitizeString(ref.Title),
			FileURL:   ref.FileURL,
		})
	}
	return bundle
}

// noteBundle copies the client-supplied note snapshots verbatim
func noteBundle(refs []NoteRefRequest) []model.SessionNoteRef {
	bundle := make([]model.SessionNoteRef, 0, len(refs))
	for _, ref := range refs {
		bundle = append(bundle, model.SessionNoteRef{
			NoteID:  ref.NoteID,
			Title:   validation.SanitizeString(ref.Title),
			FileURL: ref.FileURL,
		})
	}
	return bundle
}

// ListSessions handles GET /api/v1/study-sessions
func (h *StudySessionHandler) ListSessions(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	query := h.db.Model(&model.StudySession{}).Where("user_id = ?", userID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count study sessions")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var sessions []model.StudySession
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&sessions).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch study sessions")
	}

	return response.Paginated(c, sessions, pagination)
}

// GetSession handles GET /api/v1/study-sessions/:id
func (h *StudySessionHandler) GetSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var session model.StudySession
	if err := h.db.Where("user_id = ?", userID).First(&session, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Study session not found")
		}
		return response.InternalServerError(c, "Failed to fetch study session")
	}

	return response.Success(c, session)
}

// CreateSession handles POST /api/v1/study-sessions
func (h *StudySessionHandler) CreateSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	papersJSON, err := json.Marshal(paperBundle(req.Papers))
	if err != nil {
		return response.InternalServerError(c, "Failed to encode papers")
	}
	notesJSON, err := json.Marshal(noteBundle(req.Notes))
	if err != nil {
		return response.InternalServerError(c, "Failed to encode notes")
	}
	videos := req.Videos
	if videos == nil {
		videos = []model.SessionVideoRef{}
	}
	videosJSON, err := json.Marshal(videos)
	if err != nil {
		return response.InternalServerError(c, "Failed to encode videos")
	}

	session := model.StudySession{
		UserID:      userID,
		Title:       validation.SanitizeString(req.Title),
		Description: validation.SanitizeString(req.Description),
		Papers:      papersJSON,
		Notes:       notesJSON,
		Videos:      videosJSON,
		Status:      model.StudySessionActive,
	}

	if err := h.db.Create(&session).Error; err != nil {
		return response.InternalServerError(c, "Failed to create study session")
	}

	return response.Created(c, session)
}

// UpdateSession handles PUT /api/v1/study-sessions/:id
func (h *StudySessionHandler) UpdateSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var req UpdateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var session model.StudySession
	if err := h.db.Where("user_id = ?", userID).First(&session, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Study session not found")
		}
		return response.InternalServerError(c, "Failed to fetch study session")
	}

	if req.Title != "" {
		session.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != "" {
		session.Description = validation.SanitizeString(req.Description)
	}
	if req.Status != "" {
		session.Status = model.StudySessionStatus(req.Status)
	}

	if err := h.db.Save(&session).Error; err != nil {
		return response.InternalServerError(c, "Failed to update study session")
	}

	return response.SuccessWithMessage(c, "Study session updated successfully", session)
}

// DeleteSession handles DELETE /api/v1/study-sessions/:id
func (h *StudySessionHandler) DeleteSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var session model.StudySession
	if err := h.db.Where("user_id = ?", userID).First(&session, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Study session not found")
		}
		return response.InternalServerError(c, "Failed to fetch study session")
	}

	if err := h.db.Delete(&session).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete study session")
	}

	return response.SuccessWithMessage(c, "Study session deleted successfully", nil)
}
