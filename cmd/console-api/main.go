package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/ebd-pro/console-api/internal/handler"
	"github.com/ebd-pro/console-api/internal/middleware"
	"github.com/ebd-pro/console-api/internal/models"
	"github.com/ebd-pro/console-api/internal/repository"
	"github.com/ebd-pro/console-api/internal/service"
	"github.com/ebd-pro/console-api/pkg/cache"
	"github.com/ebd-pro/console-api/pkg/config"
	"github.com/ebd-pro/console-api/pkg/database"
	"github.com/ebd-pro/console-api/pkg/logger"
	corsmiddleware "github.com/ebd-pro/console-api/pkg/middleware/cors"
	reqidmiddleware "github.com/ebd-pro/console-api/pkg/middleware/requestid"
)

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboards will not be cached", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	classRepo := repository.NewClassRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	sessionSvc := service.NewSessionService(profileRepo, teacherRepo, classRepo, cfg.Auth.AllowProfileFallback, logr)
	authSvc := service.NewAuthService(userRepo, sessionSvc, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "console-api",
	})
	userSvc := service.NewUserService(userRepo, profileRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, classRepo, cacheRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, cacheRepo, validate, logr)
	categorySvc := service.NewCategoryService(categoryRepo, classRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, cacheRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, cacheRepo, validate, logr)
	stateSvc := service.NewStateService(classRepo, studentRepo, teacherRepo, categoryRepo, attendanceRepo, logr)
	metricsSvc := service.NewMetricsService()
	dashboardSvc := service.NewDashboardService(stateSvc, cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr)
	reportSvc := service.NewReportService(stateSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	stateHandler := handler.NewStateHandler(stateSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc)
	classHandler := handler.NewClassHandler(classSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	studentHandler := handler.NewStudentHandler(studentSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	reportHandler := handler.NewReportHandler(reportSvc, cfg.Exports.Enabled)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.GET("/session", middleware.JWT(authSvc), middleware.Session(authSvc), authHandler.Session)
	}

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc), middleware.Session(authSvc))
	{
		authed.GET("/state", stateHandler.Snapshot)

		authed.GET("/attendance", attendanceHandler.List)
		authed.POST("/attendance", attendanceHandler.Save)

		authed.GET("/dashboard/teacher", dashboardHandler.Teacher)

		authed.GET("/reports/history", reportHandler.History)
		authed.GET("/reports/export", reportHandler.Export)
	}

	admin := api.Group("")
	admin.Use(middleware.JWT(authSvc), middleware.Session(authSvc), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/dashboard/admin", dashboardHandler.Admin)

		admin.GET("/classes", classHandler.List)
		admin.GET("/classes/:id", classHandler.Get)
		admin.POST("/classes", classHandler.Save)
		admin.DELETE("/classes/:id", classHandler.Delete)

		admin.GET("/teachers", teacherHandler.List)
		admin.GET("/teachers/:id", teacherHandler.Get)
		admin.POST("/teachers", teacherHandler.Save)
		admin.DELETE("/teachers/:id", teacherHandler.Delete)

		admin.GET("/categories", categoryHandler.List)
		admin.POST("/categories", categoryHandler.Save)
		admin.DELETE("/categories/:id", categoryHandler.Delete)

		admin.GET("/students", studentHandler.List)
		admin.POST("/students", studentHandler.Save)
		admin.DELETE("/students/:id", studentHandler.Delete)

		admin.DELETE("/attendance/:id", attendanceHandler.Delete)

		admin.POST("/users", userHandler.SignUp)
		admin.GET("/profiles", userHandler.ListProfiles)
		admin.PUT("/profiles/:id", userHandler.UpdateProfile)
		admin.DELETE("/profiles/:id", userHandler.DeleteProfile)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
