package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/campus-shelf/database"
	"github.com/sahilchouksey/campus-shelf/handlers"
	"github.com/sahilchouksey/campus-shelf/handlers/academic"
	admin_handlers "github.com/sahilchouksey/campus-shelf/handlers/admin"
	auth_handlers "github.com/sahilchouksey/campus-shelf/handlers/auth"
	"github.com/sahilchouksey/campus-shelf/handlers/branch"
	"github.com/sahilchouksey/campus-shelf/handlers/college"
	"github.com/sahilchouksey/campus-shelf/handlers/note"
	"github.com/sahilchouksey/campus-shelf/handlers/organizer"
	"github.com/sahilchouksey/campus-shelf/handlers/paper"
	"github.com/sahilchouksey/campus-shelf/handlers/studysession"
	"github.com/sahilchouksey/campus-shelf/handlers/subject"
	"github.com/sahilchouksey/campus-shelf/handlers/videolecture"
	"github.com/sahilchouksey/campus-shelf/handlers/voice"
	"github.com/sahilchouksey/campus-shelf/model"
	"github.com/sahilchouksey/campus-shelf/services"
	"github.com/sahilchouksey/campus-shelf/services/storage"
	"github.com/sahilchouksey/campus-shelf/utils/auth"
	"github.com/sahilchouksey/campus-shelf/utils/cache"
	"github.com/sahilchouksey/campus-shelf/utils/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every route group onto the app
func SetupRoutes(app *fiber.App, store database.Storage, objectStore storage.ObjectStorage) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "campus-shelf-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis is optional: without it logins simply lose brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	libraryService := services.NewLibraryService(db, objectStore)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	branchHandler := branch.NewBranchHandler(db)
	academicHandler := academic.NewAcademicHandler(db)
	collegeHandler := college.NewCollegeHandler(db)
	subjectHandler := subject.NewSubjectHandler(db)
	noteHandler := note.NewNoteHandler(db, libraryService)
	organizerHandler := organizer.NewOrganizerHandler(db, libraryService)
	paperHandler := paper.NewPaperHandler(db, libraryService)
	videoHandler := videolecture.NewVideoLectureHandler(db)
	sessionHandler := studysession.NewStudySessionHandler(db)
	voiceHandler := voice.NewVoiceHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	authGroup.Put("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Taxonomy reads (public)
	api.Get("/branches", branchHandler.ListBranches)
	api.Get("/branches/:id", branchHandler.GetBranch)
	api.Get("/years", academicHandler.ListYears)
	api.Get("/semesters", academicHandler.ListSemesters)
	api.Get("/credits", academicHandler.ListCredits)
	api.Get("/colleges", collegeHandler.ListColleges)

	// Subject catalog reads (public)
	api.Get("/subjects", subjectHandler.ListSubjects)
	api.Get("/subjects/:id", subjectHandler.GetSubject)

	// Document registry reads (public); file access requires a login
	api.Get("/notes", noteHandler.ListNotes)
	api.Get("/notes/:id", noteHandler.GetNote)
	api.Get("/notes/:id/access", authMiddleware.Required(), noteHandler.AccessNote)
	api.Get("/organizers", organizerHandler.ListOrganizers)
	api.Get("/organizers/:id", organizerHandler.GetOrganizer)
	api.Get("/organizers/:id/access", authMiddleware.Required(), organizerHandler.AccessOrganizer)
	api.Get("/papers/university", paperHandler.ListUniversityPapers)
	api.Get("/papers/university/:id", paperHandler.GetUniversityPaper)
	api.Get("/papers/midsem", paperHandler.ListMidsemPapers)
	api.Get("/papers/midsem/:id", paperHandler.GetMidsemPaper)
	api.Get("/videos", videoHandler.ListVideoLectures)
	api.Get("/videos/:id", videoHandler.GetVideoLecture)

	// Study sessions (owner-scoped)
	sessions := api.Group("/study-sessions", authMiddleware.Required())
	sessions.Get("/", sessionHandler.ListSessions)
	sessions.Post("/", sessionHandler.CreateSession)
	sessions.Get("/:id", sessionHandler.GetSession)
	sessions.Put("/:id", sessionHandler.UpdateSession)
	sessions.Delete("/:id", sessionHandler.DeleteSession)

	// Community voices
	api.Get("/voices", voiceHandler.ListVoices)
	api.Get("/voices/:id", voiceHandler.GetVoice)
	api.Post("/voices", authMiddleware.Required(), voiceHandler.CreateVoice)
	api.Put("/voices/:id", authMiddleware.Required(), voiceHandler.UpdateVoice)
	api.Delete("/voices/:id", authMiddleware.Required(), voiceHandler.DeleteVoice)
	api.Post("/voices/:id/like", authMiddleware.Required(), voiceHandler.LikeVoice)
	api.Delete("/voices/:id/like", authMiddleware.Required(), voiceHandler.UnlikeVoice)

	// Admin routes: all mutations sit behind the role gate and leave an
	// audit trail
	adminGroup := api.Group("/admin", authMiddleware.RequireRole(model.RoleAdmin))

	adminGroup.Post("/branches", middleware.AdminAuditLog(db, "branch_create", "branches"), branchHandler.CreateBranch)
	adminGroup.Put("/branches/:id", middleware.AdminAuditLog(db, "branch_update", "branches"), branchHandler.UpdateBranch)
	adminGroup.Delete("/branches/:id", middleware.AdminAuditLog(db, "branch_delete", "branches"), branchHandler.DeleteBranch)

	adminGroup.Post("/years", middleware.AdminAuditLog(db, "year_create", "years"), academicHandler.CreateYear)
	adminGroup.Delete("/years/:id", middleware.AdminAuditLog(db, "year_delete", "years"), academicHandler.DeleteYear)
	adminGroup.Post("/semesters", middleware.AdminAuditLog(db, "semester_create", "semesters"), academicHandler.CreateSemester)
	adminGroup.Delete("/semesters/:id", middleware.AdminAuditLog(db, "semester_delete", "semesters"), academicHandler.DeleteSemester)
	adminGroup.Post("/credits", middleware.AdminAuditLog(db, "credit_create", "credits"), academicHandler.CreateCredit)
	adminGroup.Delete("/credits/:id", middleware.AdminAuditLog(db, "credit_delete", "credits"), academicHandler.DeleteCredit)

	adminGroup.Post("/colleges", middleware.AdminAuditLog(db, "college_create", "colleges"), collegeHandler.CreateCollege)
	adminGroup.Delete("/colleges/:id", middleware.AdminAuditLog(db, "college_delete", "colleges"), collegeHandler.DeleteCollege)

	adminGroup.Post("/subjects", middleware.AdminAuditLog(db, "subject_create", "subjects"), subjectHandler.CreateSubject)
	adminGroup.Put("/subjects/:id", middleware.AdminAuditLog(db, "subject_update", "subjects"), subjectHandler.UpdateSubject)
	adminGroup.Delete("/subjects/:id", middleware.AdminAuditLog(db, "subject_delete", "subjects"), subjectHandler.DeleteSubject)

	adminGroup.Post("/notes", middleware.AdminAuditLog(db, "note_create", "notes"), noteHandler.CreateNote)
	adminGroup.Put("/notes/:id", middleware.AdminAuditLog(db, "note_update", "notes"), noteHandler.UpdateNote)
	adminGroup.Delete("/notes/:id", middleware.AdminAuditLog(db, "note_delete", "notes"), noteHandler.DeleteNote)

	adminGroup.Post("/organizers", middleware.AdminAuditLog(db, "organizer_create", "organizers"), organizerHandler.CreateOrganizer)
	adminGroup.Put("/organizers/:id", middleware.AdminAuditLog(db, "organizer_update", "organizers"), organizerHandler.UpdateOrganizer)
	adminGroup.Delete("/organizers/:id", middleware.AdminAuditLog(db, "organizer_delete", "organizers"), organizerHandler.DeleteOrganizer)

	adminGroup.Post("/papers/university", middleware.AdminAuditLog(db, "university_paper_create", "university_papers"), paperHandler.CreateUniversityPaper)
	adminGroup.Delete("/papers/university/:id", middleware.AdminAuditLog(db, "university_paper_delete", "university_papers"), paperHandler.DeleteUniversityPaper)
	adminGroup.Post("/papers/midsem", middleware.AdminAuditLog(db, "midsem_paper_create", "midsem_papers"), paperHandler.CreateMidsemPaper)
	adminGroup.Delete("/papers/midsem/:id", middleware.AdminAuditLog(db, "midsem_paper_delete", "midsem_papers"), paperHandler.DeleteMidsemPaper)

	adminGroup.Post("/videos", middleware.AdminAuditLog(db, "video_create", "video_lectures"), videoHandler.CreateVideoLecture)
	adminGroup.Put("/videos/:id", middleware.AdminAuditLog(db, "video_update", "video_lectures"), videoHandler.UpdateVideoLecture)
	adminGroup.Delete("/videos/:id", middleware.AdminAuditLog(db, "video_delete", "video_lectures"), videoHandler.DeleteVideoLecture)

	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/stats", adminHandler.GetStats)
	adminGroup.Get("/audit-log", adminHandler.ListAuditLog)

	// Role changes require the top of the hierarchy
	api.Patch("/admin/users/:id/role",
		authMiddleware.RequireRole(model.RoleSuperAdmin),
		middleware.AdminAuditLog(db, "role_update", "users"),
		adminHandler.UpdateUserRole)
}
