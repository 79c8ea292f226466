package app

import (
	"fmt"
	"log"
	"os"

	"github.com/sahilchouksey/campus-shelf/api"
	"github.com/sahilchouksey/campus-shelf/config"
	"github.com/sahilchouksey/campus-shelf/database"
	"github.com/sahilchouksey/campus-shelf/router"
	"github.com/sahilchouksey/campus-shelf/services/cron"
	"github.com/sahilchouksey/campus-shelf/services/storage"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether the Postgres is running or not\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return fmt.Errorf("failed to get GORM DB instance")
	}

	// Seed taxonomy defaults and the bootstrap super admin
	seeder := database.NewSeeder(db)
	if err := seeder.SeedAll(); err != nil {
		log.Printf("Warning: seeding failed: %v", err)
	}

	// Object storage client
	objectStore, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: getEnv.DO_SPACES_KEY,
		SecretKey: getEnv.DO_SPACES_SECRET,
		Bucket:    getEnv.DO_SPACES_BUCKET,
		Region:    getEnv.DO_SPACES_REGION,
		Endpoint:  getEnv.DO_SPACES_ENDPOINT,
		CDNURL:    os.Getenv("DO_SPACES_CDN_URL"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	// Initialize Cron Manager (only if enabled via environment variable)
	var cronManager *cron.CronManager
	if os.Getenv("CRON_ENABLED") != "false" { // Default to enabled
		cronManager = cron.NewCronManager(db, objectStore)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
			// Don't fail the app, just log the warning
		}
	}

	// Defer Closing DB and stopping cron jobs
	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	// Setup Routes (security middleware is applied inside)
	router.SetupRoutes(app, store, objectStore)

	// Get the PORT & Start the Server
	return server.Run()
}
