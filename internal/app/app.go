package app

import (
	"context"
	"course_hub_backend/internal/admin"
	"course_hub_backend/internal/config"
	"course_hub_backend/internal/controller"
	"course_hub_backend/internal/repository"
	"course_hub_backend/internal/service"
	"course_hub_backend/internal/util"
	"course_hub_backend/pkg/configwatcher"
	"course_hub_backend/pkg/database"
	"course_hub_backend/pkg/logger"
	"course_hub_backend/pkg/monitoring"
	"course_hub_backend/pkg/security"
	"course_hub_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user             *repository.UserRepository
	course           *repository.CourseRepository
	lesson           *repository.LessonRepository
	enrollment       *repository.EnrollmentRepository
	lessonCompletion *repository.LessonCompletionRepository
	contact          *repository.ContactRepository
	search           *repository.SearchRepository
	admin            *repository.AdminRepository
}

type services struct {
	auth     *service.AuthService
	storage  *service.StorageService
	markdown *service.MarkdownRenderer
	progress *service.ProgressService
	course   *service.CourseService
	search   *service.SearchService
	chat     *service.ChatService
	contact  *service.ContactService
	media    *service.MediaService
	admin    *service.AdminService
}

type controllers struct {
	auth    *controller.AuthController
	course  *controller.CourseController
	search  *controller.SearchController
	contact *controller.ContactController
	chat    *controller.ChatController
	admin   *controller.AdminController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:             repository.NewUserRepository(db),
		course:           repository.NewCourseRepository(db),
		lesson:           repository.NewLessonRepository(db),
		enrollment:       repository.NewEnrollmentRepository(db),
		lessonCompletion: repository.NewLessonCompletionRepository(db),
		contact:          repository.NewContactRepository(db),
		search:           repository.NewSearchRepository(db),
		admin:            repository.NewAdminRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.markdown = service.NewMarkdownRenderer()
	s.auth = service.NewAuthService(repos.user, cfg)
	s.progress = service.NewProgressService(repos.enrollment, repos.lessonCompletion, repos.lesson)
	s.course = service.NewCourseService(
		repos.course,
		repos.lesson,
		repos.enrollment,
		s.progress,
		s.storage,
		s.markdown,
	)

	// Redis 不可用时搜索直接查库
	var cache service.SearchCache
	if rdb != nil {
		cache = service.NewRedisSearchCache(rdb)
	}
	s.search = service.NewSearchService(repos.search, cache, cfg.Search.CacheTTL, cfg.Search.Limit)

	s.chat = service.NewChatService(cfg.Chat)
	s.contact = service.NewContactService(repos.contact, service.NewNotifier(cfg.Mail))
	s.media = service.NewMediaService(s.storage, repos.lesson, filepath.Join(os.TempDir(), "course_hub"))
	s.admin = service.NewAdminService(repos.admin, admin.DefaultRegistry())

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		course:  controller.NewCourseController(s.course),
		search:  controller.NewSearchController(s.search),
		contact: controller.NewContactController(s.contact),
		chat:    controller.NewChatController(s.chat),
		admin:   controller.NewAdminController(s.admin, s.media),
		health:  controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// registerReloaders 只有不影响已建立连接的配置项支持热更新
func (a *App) registerReloaders(s *services) {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.ApplyMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if cfg.Search.CacheTTL > 0 {
			s.search.SetTTL(cfg.Search.CacheTTL)
		}
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if cfg.Chat.Model != "" {
			s.chat.SetModel(cfg.Chat.Model)
		}
	})
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config applied",
		zap.String("mode", cfg.Server.Mode),
		zap.Duration("search_cache_ttl", cfg.Search.CacheTTL),
		zap.String("chat_model", cfg.Chat.Model))
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
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
		logger.Log.Warn("Redis unavailable, search cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services)
	app.registerReloaders(services)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("course-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.Config.File != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.Config.File, a.applyConfig); err != nil {
				logger.Log.Warn("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}

	logger.Log.Info("Server exiting")
}
