package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/uni-sims-api/api/swagger"
	"github.com/noah-isme/uni-sims-api/internal/handler"
	"github.com/noah-isme/uni-sims-api/internal/middleware"
	"github.com/noah-isme/uni-sims-api/internal/models"
	"github.com/noah-isme/uni-sims-api/internal/repository"
	"github.com/noah-isme/uni-sims-api/internal/service"
	"github.com/noah-isme/uni-sims-api/pkg/cache"
	"github.com/noah-isme/uni-sims-api/pkg/config"
	"github.com/noah-isme/uni-sims-api/pkg/database"
	"github.com/noah-isme/uni-sims-api/pkg/jobs"
	"github.com/noah-isme/uni-sims-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/uni-sims-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/uni-sims-api/pkg/middleware/requestid"
	"github.com/noah-isme/uni-sims-api/pkg/storage"
)

// @title University SIMS API
// @version 1.0.0
// @description Academic management backend covering the semester registration workflow
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	cacheRepo.SetLookupHook(metricsSvc.RecordCacheOperation)
	defer cacheRepo.Close() //nolint:errcheck

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	semesterRepo := repository.NewSemesterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	offeredRepo := repository.NewOfferedCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	enrolledCourseRepo := repository.NewEnrolledCourseRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	semesterSvc := service.NewSemesterService(semesterRepo, cacheRepo, cfg.Cache.CurrentSemesterTTL, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	registrationSvc := service.NewRegistrationService(registrationRepo, semesterRepo, cacheRepo, service.RegistrationConfig{
		EnforceSinglePeriod: cfg.Registration.EnforceSinglePeriod,
		PerCreditFee:        float64(cfg.Registration.PerCreditFee),
	}, validate, logr)
	offeredSvc := service.NewOfferedCourseService(offeredRepo, registrationRepo, courseRepo, studentRepo, validate, logr)
	sectionSvc := service.NewSectionService(sectionRepo, offeredRepo, studentRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, registrationRepo, logr)
	enrollmentSvc := service.NewEnrollmentService(
		enrollmentRepo,
		registrationRepo,
		offeredRepo,
		sectionRepo,
		studentRepo,
		courseRepo,
		enrolledCourseRepo,
		cacheRepo,
		cfg.Cache.AvailableCoursesTTL,
		validate,
		logr,
	).WithMetrics(metricsSvc)
	gradeSvc := service.NewGradeService(enrolledCourseRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, validate, logr)

	var transcriptSvc *service.TranscriptService
	if cfg.Transcripts.Enabled {
		store, err := storage.NewLocalStorage(cfg.Transcripts.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init transcript storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Transcripts.SignedURLSecret, cfg.Transcripts.SignedURLTTL)
		transcriptSvc = service.NewTranscriptService(
			transcriptRepo,
			enrolledCourseRepo,
			studentRepo,
			store,
			signer,
			jobs.QueueConfig{
				Workers:    cfg.Transcripts.WorkerConcurrency,
				MaxRetries: cfg.Transcripts.WorkerRetries,
				Logger:     logr,
			},
			logr,
		).WithMetrics(metricsSvc)
		transcriptSvc.Start(ctx)
		defer transcriptSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	semesterHandler := handler.NewSemesterHandler(semesterSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	offeredHandler := handler.NewOfferedCourseHandler(offeredSvc)
	sectionHandler := handler.NewSectionHandler(sectionSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	gradeHandler := handler.NewGradeHandler(gradeSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	var transcriptHandler *handler.TranscriptHandler
	if transcriptSvc != nil {
		transcriptHandler = handler.NewTranscriptHandler(transcriptSvc)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)
	if transcriptHandler != nil {
		// Auth travels in the signed token, not the Authorization header.
		api.GET("/transcripts/download", transcriptHandler.Download)
	}

	authed := api.Group("", middleware.JWT(authSvc))

	authed.GET("/auth/me", authHandler.Me)
	authed.POST("/auth/change-password", authHandler.ChangePassword)

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	studentOnly := middleware.RequireRoles(models.RoleStudent)
	graders := middleware.RequireRoles(models.RoleFaculty, models.RoleAdmin)

	semesters := authed.Group("/semesters")
	semesters.GET("", semesterHandler.List)
	semesters.GET("/current", semesterHandler.GetCurrent)
	semesters.GET("/:id", semesterHandler.Get)
	semesters.POST("", adminOnly, semesterHandler.Create)
	semesters.PUT("/:id", adminOnly, semesterHandler.Update)
	semesters.DELETE("/:id", adminOnly, semesterHandler.Delete)

	courses := authed.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.GET("/:id", courseHandler.Get)
	courses.POST("", adminOnly, courseHandler.Create)
	courses.PUT("/:id", adminOnly, courseHandler.Update)
	courses.DELETE("/:id", adminOnly, courseHandler.Delete)

	registrations := authed.Group("/semester-registrations")
	registrations.GET("", registrationHandler.List)
	registrations.GET("/ongoing", registrationHandler.GetOngoing)
	registrations.GET("/:id", registrationHandler.Get)
	registrations.POST("", adminOnly, registrationHandler.Create)
	registrations.PATCH("/:id", adminOnly, registrationHandler.Update)
	registrations.DELETE("/:id", adminOnly, registrationHandler.Delete)
	registrations.POST("/:id/start-new-semester", adminOnly, registrationHandler.StartNewSemester)

	offered := authed.Group("/offered-courses")
	offered.GET("", offeredHandler.List)
	offered.GET("/:id", offeredHandler.Get)
	offered.POST("", adminOnly, offeredHandler.Create)
	offered.DELETE("/:id", adminOnly, offeredHandler.Delete)

	sections := authed.Group("/offered-course-sections")
	sections.GET("", sectionHandler.List)
	sections.GET("/:id", sectionHandler.Get)
	sections.POST("", adminOnly, sectionHandler.Create)
	sections.DELETE("/:id", adminOnly, sectionHandler.Delete)

	schedules := authed.Group("/class-schedules")
	schedules.GET("", scheduleHandler.List)
	schedules.GET("/my", studentOnly, scheduleHandler.MySchedule)

	myRegistration := authed.Group("/my-registration", studentOnly)
	myRegistration.POST("/start", enrollmentHandler.StartRegistration)
	myRegistration.GET("", enrollmentHandler.MyRegistration)
	myRegistration.GET("/available-courses", enrollmentHandler.AvailableCourses)
	myRegistration.POST("/enroll", enrollmentHandler.Enroll)
	myRegistration.POST("/withdraw", enrollmentHandler.Withdraw)
	myRegistration.POST("/confirm", enrollmentHandler.Confirm)

	enrolled := authed.Group("/enrolled-courses")
	enrolled.GET("", gradeHandler.List)
	enrolled.GET("/export", graders, gradeHandler.Export)
	enrolled.GET("/:id", gradeHandler.Get)
	enrolled.PATCH("/update-marks", graders, gradeHandler.UpdateMark)
	enrolled.POST("/finalize", graders, gradeHandler.Finalize)

	academicInfo := authed.Group("/academic-info")
	academicInfo.GET("/my", studentOnly, gradeHandler.MyAcademicInfo)
	academicInfo.GET("/:studentId", graders, gradeHandler.AcademicInfo)

	payments := authed.Group("/payments")
	payments.GET("", adminOnly, paymentHandler.List)
	payments.GET("/my", studentOnly, paymentHandler.MyPayment)
	payments.GET("/:id", adminOnly, paymentHandler.Get)
	payments.POST("/:id/pay", adminOnly, paymentHandler.RecordPayment)

	if transcriptHandler != nil {
		transcripts := authed.Group("/transcripts", studentOnly)
		transcripts.POST("", transcriptHandler.Request)
		transcripts.GET("/:id", transcriptHandler.Get)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("server shutdown failed", "error", err)
	}
}
