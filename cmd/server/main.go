package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamehub/config"
	"gamehub/internal/handler"
	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/internal/service"
	dbPkg "gamehub/pkg/db"
	"gamehub/pkg/jwt"
	"gamehub/pkg/logger"
	"gamehub/pkg/ratelimit"
	"gamehub/pkg/redis"
	"gamehub/pkg/scheduler"
	"gamehub/pkg/storage"
	"gamehub/pkg/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// 2. 初始化日志系统
	log := logger.InitLogger(cfg.Log)
	defer log.Sync()

	log.Info("=== GameHub 启动 ===")
	log.Info("服务器配置信息",
		zap.String("port", cfg.Server.Port),
		zap.String("database_host", cfg.Database.Host),
		zap.Int("database_port", cfg.Database.Port),
		zap.String("database_name", cfg.Database.Database),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
		zap.Duration("jwt_expire_time", cfg.JWT.ExpireTime),
		zap.String("cleanup_cron", cfg.Cleanup.Cron),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 初始化数据库连接并迁移
	orm, err := dbPkg.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("数据库连接失败", zap.Error(err))
	}
	defer func() {
		if err := dbPkg.CloseDB(); err != nil {
			log.Error("关闭数据库连接失败", zap.Error(err))
		}
	}()
	if err := dbPkg.AutoMigrate(orm, model.All()...); err != nil {
		log.Fatal("自动迁移失败", zap.Error(err))
	}
	log.Info("数据库连接成功，自动迁移完成")

	// 4. Redis 可选，连接失败时缓存与在线状态降级
	if cfg.Redis.Enabled {
		if err := redis.InitRedis(cfg.Redis); err != nil {
			log.Warn("Redis连接失败，以无缓存模式运行", zap.Error(err))
		} else {
			log.Info("Redis连接成功")
			defer redis.Close()
		}
	}

	// 5. 业务服务
	jwtSvc := jwt.NewJWTService(cfg.JWT)
	repos := repository.New(orm)
	wsManager := websocket.NewManager()

	notificationSvc := service.NewNotificationService(repos, wsManager)
	chatSvc := service.NewChatService(repos, wsManager)
	deps := handler.Deps{
		DB:              orm,
		JWT:             jwtSvc,
		Upload:          cfg.Upload,
		Users:           service.NewUserService(orm, repos, jwtSvc),
		Games:           service.NewGameService(orm, repos),
		Reviews:         service.NewReviewService(repos),
		Forum:           service.NewForumService(orm, repos, notificationSvc),
		Events:          service.NewEventService(orm, repos, notificationSvc),
		Purchases:       service.NewPurchaseService(orm, repos),
		Recommendations: service.NewRecommendationService(repos, cfg.Recommendation),
		Friends:         service.NewFriendService(orm, repos, notificationSvc),
		Chat:            chatSvc,
		Notifications:   notificationSvc,
	}

	files, err := storage.NewFileStorage(cfg.Upload)
	if err != nil {
		log.Fatal("上传目录初始化失败", zap.Error(err))
	}
	deps.Storage = files

	done := make(chan struct{})
	limiter := ratelimit.New(cfg.RateLimit)
	limiter.StartCleanup(done, 10*time.Minute)
	deps.Limiter = limiter

	dispatcher := service.NewDispatcher(chatSvc, notificationSvc, wsManager)
	deps.WebSocket = websocket.NewHandler(jwtSvc, cfg.WebSocket, wsManager, dispatcher).ServeWS

	// 6. 定时清理过期聊天记录与通知
	jobs := scheduler.New(5 * time.Minute)
	cleanup := service.NewCleanupService(chatSvc, notificationSvc, cfg.Cleanup.Retention)
	if err := jobs.Register("cleanup", cfg.Cleanup.Cron, cleanup.Run); err != nil {
		log.Fatal("注册定时任务失败", zap.Error(err))
	}
	jobs.Start()

	// 7. 路由
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(deps)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP服务器启动", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP服务器启动失败", zap.Error(err))
		}
	}()

	// 8. 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("正在关闭服务器...")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("HTTP服务器关闭失败", zap.Error(err))
	}
	jobs.Stop(ctx)

	log.Info("服务器已安全关闭")
}
