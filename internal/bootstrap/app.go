package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/handler/http"
	gormpersistence "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/persistence/gorm"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/setup"
	redisstate "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/state/redis"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/middleware"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/worker"
)

// App 包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	AsynqClient *asynq.Client
	AsynqServer *worker.WorkerServer
	HttpServer  *http.Server
}

// NewLogger 按环境选择日志格式
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel) // 已在 validate 中修正
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	// service 层使用全局 logger，保持同样的格式和级别
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stdout)
	return log
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s, Format: %T)", log.GetLevel().String(), log.Formatter)

	// 3. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(setup.DBConfig{
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		Name:     cfg.DB.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	redisClient, err := setup.InitRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	log.Info("Redis client initialized")

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	log.Info("Asynq client initialized")

	// 4. 初始化外部服务
	providers := NewProviders(cfg, log)
	log.Infof("Providers initialized (%d messaging channels)", len(providers.Channels))

	// 5. 初始化 Repositories
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	memberRepo := gormpersistence.NewGormMemberRepository(db)
	banRepo := gormpersistence.NewGormBanRepository(db)
	permitRepo := gormpersistence.NewGormAssistantPermitRepository(db)
	checkInRepo := gormpersistence.NewGormCheckInRepository(db)
	docRepo := gormpersistence.NewGormDocRepository(db)
	stateRepo := redisstate.NewRedisStateRepository(redisClient, cfg.Redis.KeyPrefix)
	log.Info("Repositories initialized")

	// 6. 初始化 Services
	tokenService, err := service.NewAuthTokenService(cfg.JWT.JumpSecret, cfg.JWT.LoginSecret, cfg.JWT.ExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthTokenService: %w", err)
	}
	notifier := service.NewTaskNotifier(asynqClient, cfg.Worker.MaxRetry)
	classService := service.NewClassService(service.ClassServiceDeps{
		Rooms:      roomRepo,
		Members:    memberRepo,
		Locks:      stateRepo,
		Channels:   providers.Channels,
		Links:      providers.Live,
		Verifier:   providers.Live,
		Vod:        providers.vod(),
		Metrics:    providers.metrics(),
		Whiteboard: providers.whiteboard(),
	}, service.ClassOptions{
		ListConcurrency: cfg.Class.ListConcurrency,
		ListTaskTimeout: cfg.Class.ListTaskTimeout,
		LockWait:        cfg.Class.LockWait,
	})
	memberService := service.NewMemberService(roomRepo, memberRepo, banRepo, permitRepo, stateRepo, notifier, cfg.Class.LockWait)
	permitService := service.NewAssistantPermitService(roomRepo, permitRepo, memberService)
	chatroomService := service.NewChatroomService(providers.moderator())
	docService := service.NewDocService(docRepo)
	checkInService := service.NewCheckInService(checkInRepo)
	log.Info("Services initialized")

	// 7. 初始化 Handlers
	if err := httpHandler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	handlers := httpHandler.Handlers{
		Class:    httpHandler.NewClassHandler(classService, tokenService),
		Chatroom: httpHandler.NewChatroomHandler(chatroomService, classService),
		Member:   httpHandler.NewMemberHandler(memberService, permitService),
		Doc:      httpHandler.NewDocHandler(docService),
		CheckIn:  httpHandler.NewCheckInHandler(checkInService),
	}

	// 8. 初始化 Worker Server
	workerServer := worker.NewWorkerServer(redisClientOpt, cfg.Worker.Concurrency, providers.Channels, log)
	log.Info("Worker server initialized")

	// 9. 初始化 Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.Server.CORSOrigin))
	router.Use(middleware.RateLimit(stateRepo, cfg.RateLimit.Max, cfg.RateLimit.Window))

	var auth gin.HandlerFunc
	if cfg.Server.AuthRequired {
		auth = middleware.Auth(cfg.JWT.LoginSecret)
	}
	httpHandler.RegisterRoutes(router, handlers, auth)
	log.Infof("Router setup complete (auth required: %t)", cfg.Server.AuthRequired)

	// 10. 初始化 HTTP Server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	return &App{
		Config:      cfg,
		Log:         log,
		DB:          db,
		RedisClient: redisClient,
		AsynqClient: asynqClient,
		AsynqServer: workerServer,
		HttpServer:  httpServer,
	}, nil
}

// Start 启动 Worker 和 HTTP 服务器
func (a *App) Start() {
	go a.AsynqServer.Start()
	a.Log.Info("Asynq worker server routine started")

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停 Worker，未处理完的任务留在队列里
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 2. HTTP 服务器
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 3. Asynq Client
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}

	// 4. Redis
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}

	// 5. 数据库
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Log.Errorf("Error closing database connection: %v", err)
			}
		}
	}

	a.Log.Info("Application shutdown complete.")
}
