package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sahilchouksey/campus-shelf/model"
)

// maxOrphanAttempts caps retries per orphaned object; beyond this the row is
// kept for manual inspection but no longer retried automatically.
const maxOrphanAttempts = 10

// ReconcileOrphanedFiles retries deletion of storage objects whose database
// rows are already gone. Runs every 30 minutes.
func (m *CronManager) ReconcileOrphanedFiles() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "reconcile_orphaned_files"

	var orphans []model.OrphanedFile
	err := m.db.Where("deleted_at IS NULL AND attempts < ?", maxOrphanAttempts).
		Order("created_at ASC").
		Limit(100).
		Find(&orphans).Error
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to query orphaned files: %w", err))
		return
	}

	if len(orphans) == 0 {
		m.logJobComplete(jobName, "No orphaned files to reconcile")
		return
	}

	removed := 0
	failed := 0

	for _, orphan := range orphans {
		if err := m.store.DeleteFile(ctx, orphan.FileID); err != nil {
			log.Printf("[CRON] Failed to delete orphaned file %s: %v", orphan.FileID, err)
			m.db.Model(&orphan).Updates(map[string]interface{}{
				"attempts":   orphan.Attempts + 1,
				"last_error": err.Error(),
			})
			failed++
			continue
		}

		now := time.Now()
		if err := m.db.Model(&orphan).Update("deleted_at", &now).Error; err != nil {
			log.Printf("[CRON] Failed to mark orphaned file %s as deleted: %v", orphan.FileID, err)
			failed++
			continue
		}
		removed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reconciled %d orphaned files, removed %d, failed %d", len(orphans), removed, failed))
}

// CleanupTokenBlacklist removes expired entries from the JWT blacklist.
// Runs daily.
func (m *CronManager) CleanupTokenBlacklist() {
	jobName := "cleanup_token_blacklist"

	result := m.db.Where("expires_at < ?", time.Now()).Delete(&model.JWTTokenBlacklist{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete expired tokens: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d expired blacklist entries", result.RowsAffected))
}

// CleanupCronLogs trims cron job logs older than 30 days. Runs daily.
func (m *CronManager) CleanupCronLogs() {
	jobName := "cleanup_cron_logs"

	cutoff := time.Now().AddDate(0, 0, -30)
	result := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old cron logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d old cron log entries", result.RowsAffected))
}
