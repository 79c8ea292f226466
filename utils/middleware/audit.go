package middleware

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"gorm.io/gorm"
)

// AdminAuditLog records an audit trail entry for admin mutations. It runs
// after the wrapped handler and only logs requests that succeeded.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			return err
		}

		if c.Response().StatusCode() >= fiber.StatusBadRequest {
			return nil
		}

		admin, ok := GetUser(c)
		if !ok {
			return nil
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, parseErr := strconv.ParseUint(id, 10, 32); parseErr == nil {
				resourceID = uint(parsedID)
			}
		}

		entry := model.AdminAuditLog{
			AdminID:     admin.ID,
			Action:      action,
			Resource:    resource,
			ResourceID:  resourceID,
			NewValue:    capturedBody(c),
			IPAddress:   c.IP(),
			UserAgent:   c.Get("User-Agent"),
			Description: c.Method() + " " + c.Path(),
		}

		db.Create(&entry)
		return nil
	}
}

// capturedBody returns the mutation payload worth keeping in the audit row.
// Only JSON bodies are recorded; multipart uploads carry megabytes of file
// content that has no place in a text column, so those log metadata only.
func capturedBody(c *fiber.Ctx) string {
	switch c.Method() {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
	default:
		return ""
	}

	contentType := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return ""
	}

	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return ""
	}

	return string(body)
}
