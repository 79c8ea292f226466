package admin

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"github.com/sahilchouksey/campus-shelf/utils/response"
	"gorm.io/gorm"
)

// AdminHandler handles admin user management and platform stats
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ListUsers handles GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")

	query := h.db.Model(&model.User{})

	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count users")
	}

	pagination := response.CalculatePagination(page, limit, total)
	offset := (pagination.CurrentPage - 1) * pagination.PerPage

	var users []model.User
	if err := query.Order("created_at DESC").
		Limit(pagination.PerPage).
		Offset(offset).
		Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Paginated(c, users, pagination)
}

// UpdateUserRole handles PATCH /api/v1/admin/users/:id/role. Only a super
// admin reaches this handler. Super admin accounts themselves cannot be
// reassigned here, which also prevents self-demotion.
func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	actor, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	id := c.Params("id")

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	newRole, valid := model.ParseRole(req.Role)
	if !valid {
		return response.BadRequest(c, "Invalid role. Must be 'user', 'admin' or 'super_admin'")
	}

	var user model.User
	if err := h.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if user.Role == model.RoleSuperAdmin {
		return response.Forbidden(c, "Super admin accounts cannot be modified")
	}
	if user.ID == actor.ID {
		return response.Forbidden(c, "Cannot change your own role")
	}

	if user.Role == newRole {
		return response.SuccessWithMessage(c, "Role unchanged", user)
	}

	// Invalidate outstanding tokens so the old role stops working immediately
	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"role":          newRole,
		"token_version": gorm.Expr("token_version + 1"),
	}).Error; err != nil {
		return response.InternalServerError(c, "Failed to update role")
	}

	user.Role = newRole

	return response.SuccessWithMessage(c, "Role updated successfully", user)
}
