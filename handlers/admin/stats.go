package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/utils/response"
)

// PlatformStats summarizes catalog and community volumes for the dashboard
type PlatformStats struct {
	Users            int64 `json:"users"`
	Branches         int64 `json:"branches"`
	Subjects         int64 `json:"subjects"`
	Notes            int64 `json:"notes"`
	Organizers       int64 `json:"organizers"`
	UniversityPapers int64 `json:"university_papers"`
	MidsemPapers     int64 `json:"midsem_papers"`
	VideoLectures    int64 `json:"video_lectures"`
	StudySessions    int64 `json:"study_sessions"`
	Voices           int64 `json:"voices"`
	OrphanedFiles    int64 `json:"orphaned_files"`
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(c *fiber.Ctx) error {
	var stats PlatformStats

	h.db.Model(&model.User{}).Count(&stats.Users)
	h.db.Model(&model.Branch{}).Count(&stats.Branches)
	h.db.Model(&model.Subject{}).Count(&stats.Subjects)
	h.db.Model(&model.Note{}).Count(&stats.Notes)
	h.db.Model(&model.Organizer{}).Count(&stats.Organizers)
	h.db.Model(&model.UniversityPaper{}).Count(&stats.UniversityPapers)
	h.db.Model(&model.MidsemPaper{}).Count(&stats.MidsemPapers)
	h.db.Model(&model.VideoLecture{}).Count(&stats.VideoLectures)
	h.db.Model(&model.StudySession{}).Count(&stats.StudySessions)
	h.db.Model(&model.Voice{}).Count(&stats.Voices)
	h.db.Model(&model.OrphanedFile{}).Where("deleted_at IS NULL").Count(&stats.OrphanedFiles)

	return response.Success(c, stats)
}

// ListAuditLog handles GET /api/v1/admin/audit-log
func (h *AdminHandler) ListAuditLog(c *fiber.Ctx) error {
	var entries []model.AdminAuditLog
	if err := h.db.Order("created_at DESC").Limit(200).Find(&entries).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit log")
	}
	return response.Success(c, entries)
}
