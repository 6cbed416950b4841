package app

import (
	"context"
	"cquizy_backend/internal/config"
	"cquizy_backend/internal/controller"
	"cquizy_backend/internal/repository"
	"cquizy_backend/internal/service"
	"cquizy_backend/pkg/database"
	"cquizy_backend/pkg/logger"
	"cquizy_backend/pkg/monitoring"
	"cquizy_backend/pkg/security"
	"cquizy_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	group      *repository.GroupRepository
	grade      *repository.GradeRepository
	project    *repository.ProjectRepository
	quiz       *repository.QuizRepository
	event      *repository.EventRepository
	submission *repository.SubmissionRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	group      *service.GroupService
	grade      *service.GradeService
	project    *service.ProjectService
	quiz       *service.QuizService
	submission *service.SubmissionService
	event      *service.EventService
}

type controllers struct {
	auth       *controller.AuthController
	group      *controller.GroupController
	project    *controller.ProjectController
	quiz       *controller.QuizController
	submission *controller.SubmissionController
	event      *controller.EventController
	health     *controller.HealthController
}

// RegisterConfigCallback adds a hook invoked on every hot config reload.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig is the configwatcher entry point: it swaps the config and runs
// the registered callbacks.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	logger.SetMode(cfg.Server.Mode)
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		group:      repository.NewGroupRepository(db),
		grade:      repository.NewGradeRepository(db),
		project:    repository.NewProjectRepository(db),
		quiz:       repository.NewQuizRepository(db),
		event:      repository.NewEventRepository(db, rdb),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       service.NewUserService(repos.user),
		group:      service.NewGroupService(repos.group),
		grade:      service.NewGradeService(repos.grade, repos.group),
		project:    service.NewProjectService(repos.project),
		quiz:       service.NewQuizService(repos.quiz, repos.project, repos.group, repos.submission),
		submission: service.NewSubmissionService(db, repos.submission, repos.quiz, repos.project, repos.group, repos.grade),
		event:      service.NewEventService(repos.event, repos.quiz, repos.group),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		group:      controller.NewGroupController(s.group, s.grade),
		project:    controller.NewProjectController(s.project),
		quiz:       controller.NewQuizController(s.quiz, s.submission),
		submission: controller.NewSubmissionController(s.submission),
		event:      controller.NewEventController(s.event),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run migrations", zap.Error(err))
		}
		logger.Log.Info("Database migrations applied")
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("cquizy-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
