package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/services/storage"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron  *cron.Cron
	db    *gorm.DB
	store storage.ObjectStorage
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, store storage.ObjectStorage) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:  c,
		db:    db,
		store: store,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Every 30 minutes: retry deletion of orphaned storage objects
	_, err := m.cron.AddFunc("0 */30 * * * *", func() {
		m.logJobStart("reconcile_orphaned_files")
		m.ReconcileOrphanedFiles()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: remove expired token blacklist entries
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("cleanup_token_blacklist")
		m.CleanupTokenBlacklist()
	})
	if err != nil {
		return err
	}

	// Daily at 3:30 AM: trim old cron job logs
	_, err = m.cron.AddFunc("0 30 3 * * *", func() {
		m.logJobStart("cleanup_cron_logs")
		m.CleanupCronLogs()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
}

// latestRunning finds the newest still-running log entry for a job
func (m *CronManager) latestRunning(jobName string) (*model.CronJobLog, bool) {
	var cronLog model.CronJobLog
	err := m.db.Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		First(&cronLog).Error
	if err != nil {
		return nil, false
	}
	return &cronLog, true
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	cronLog, ok := m.latestRunning(jobName)
	if !ok {
		return
	}
	m.db.Model(cronLog).Updates(map[string]interface{}{
		"status":       "completed",
		"completed_at": time.Now(),
		"message":      message,
	})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	cronLog, ok := m.latestRunning(jobName)
	if !ok {
		return
	}
	m.db.Model(cronLog).Updates(map[string]interface{}{
		"status":       "failed",
		"completed_at": time.Now(),
		"error_msg":    err.Error(),
	})
}
