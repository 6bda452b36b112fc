package handler

import (
	"net/http"
	"time"

	"gamehub/config"
	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/db"
	"gamehub/pkg/jwt"
	"gamehub/pkg/logger"
	"gamehub/pkg/metrics"
	"gamehub/pkg/ratelimit"
	"gamehub/pkg/redis"
	"gamehub/pkg/response"
	"gamehub/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps 路由依赖
type Deps struct {
	DB              *gorm.DB
	JWT             *jwt.JWTService
	Upload          config.UploadConfig
	Storage         *storage.FileStorage
	Limiter         *ratelimit.Limiter
	WebSocket       gin.HandlerFunc
	Users           *service.UserService
	Games           *service.GameService
	Reviews         *service.ReviewService
	Forum           *service.ForumService
	Events          *service.EventService
	Purchases       *service.PurchaseService
	Recommendations *service.RecommendationService
	Friends         *service.FriendService
	Chat            *service.ChatService
	Notifications   *service.NotificationService
}

// NewRouter 注册全部路由
func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(logger.RequestLogger())
	router.Use(logger.ErrorLoggerMiddleware())
	router.Use(metrics.Middleware())

	router.GET("/health", healthCheck(d.DB))
	router.GET("/metrics", metrics.Handler())
	if d.Storage != nil {
		router.Static(d.Upload.URLPrefix, d.Storage.Dir())
	}
	if d.WebSocket != nil {
		router.GET("/ws", d.WebSocket)
	}

	admin := string(model.RoleAdministrator)
	auth := d.JWT.AuthMiddleware()
	adminOnly := jwt.RequireRoles(admin)
	moderatorOnly := jwt.RequireRoles(moderators...)

	users := NewUserHandler(d.Users, d.Storage, d.Upload.URLPrefix)
	games := NewGameHandler(d.Games, d.Reviews)
	reviews := NewReviewHandler(d.Reviews)
	forum := NewForumHandler(d.Forum)
	events := NewEventHandler(d.Events)
	purchases := NewPurchaseHandler(d.Purchases)
	recommendations := NewRecommendationHandler(d.Recommendations)
	friends := NewFriendHandler(d.Friends)
	chat := NewChatHandler(d.Chat)
	notifications := NewNotificationHandler(d.Notifications)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		if d.Limiter == nil {
			return []gin.HandlerFunc{h}
		}
		return []gin.HandlerFunc{d.Limiter.Middleware(), h}
	}

	v1 := router.Group("/api/v1")
	{
		// 用户
		v1.POST("/users", limited(users.Register)...)
		v1.POST("/users/login", limited(users.Login)...)
		u := v1.Group("/users", auth)
		{
			u.GET("", adminOnly, users.List)
			u.GET("/online", users.Online)
			u.GET("/:id", users.Get)
			u.PUT("/:id", jwt.RequireSelfOrRoles("id", admin), users.Update)
			u.DELETE("/:id", jwt.RequireSelfOrRoles("id", admin), users.Delete)
			u.POST("/:id/profile-picture", jwt.RequireSelfOrRoles("id", admin), users.UploadProfilePicture)
		}

		// 游戏目录
		g := v1.Group("/games")
		{
			g.GET("", games.List)
			g.GET("/:id", games.Get)
			g.GET("/user/:userId", games.ByUser)
			g.POST("", auth, adminOnly, games.Create)
			g.PUT("/:id", auth, adminOnly, games.Update)
			g.DELETE("/:id", auth, adminOnly, games.Delete)
			g.POST("/:id/review", auth, games.Review)
		}

		// 评价
		r := v1.Group("/reviews")
		{
			r.GET("", reviews.List)
			r.GET("/:id", reviews.Get)
			r.GET("/games/:gameId", reviews.ByGame)
			r.GET("/user/:userId", reviews.ByUser)
			r.PUT("/:id", auth, reviews.Update)
			r.DELETE("/:id", auth, reviews.Delete)
		}

		// 论坛
		f := v1.Group("/forum/posts")
		{
			f.GET("", forum.ListPosts)
			f.GET("/:id", forum.GetPost)
			f.GET("/:id/comments", forum.Comments)
			f.POST("", auth, forum.CreatePost)
			f.PUT("/:id", auth, forum.UpdatePost)
			f.DELETE("/:id", auth, forum.DeletePost)
			f.POST("/:id/like", auth, forum.LikePost)
			f.POST("/:id/comments", auth, forum.Comment)
			f.DELETE("/:id/comments/:commentId", auth, forum.DeleteComment)
		}

		// 活动
		e := v1.Group("/events")
		{
			e.GET("", events.List)
			e.GET("/:id", events.Get)
			e.GET("/:id/participants", events.Participants)
			e.POST("", auth, moderatorOnly, events.Create)
			e.PUT("/:id", auth, moderatorOnly, events.Update)
			e.DELETE("/:id", auth, moderatorOnly, events.Delete)
			e.POST("/:id/participants/:userId", auth, events.Join)
			e.DELETE("/:id/participants/:userId", auth, events.Leave)
		}

		// 商店
		p := v1.Group("/purchases", auth)
		{
			p.GET("/owns", purchases.Owns)
			p.POST("/:userId/game/:gameId", jwt.RequireSelfOrRoles("userId", admin), purchases.Purchase)
			p.GET("/:userId", jwt.RequireSelfOrRoles("userId", admin), purchases.List)
		}

		v1.GET("/recommendations/:userId", auth, jwt.RequireSelfOrRoles("userId", admin), recommendations.ForUser)

		// 好友
		fr := v1.Group("/friends", auth)
		{
			fr.GET("", friends.List)
			fr.POST("/requests", friends.SendRequest)
			fr.GET("/requests", friends.Pending)
			fr.PUT("/requests/:id/accept", friends.Accept)
			fr.PUT("/requests/:id/reject", friends.Reject)
			fr.DELETE("/:id", friends.Remove)
		}

		// 私聊
		ch := v1.Group("/chat/messages", auth)
		{
			ch.POST("", chat.Send)
			ch.GET("/:userId", chat.History)
		}

		// 通知
		n := v1.Group("/notifications", auth)
		{
			n.GET("", notifications.List)
			n.GET("/unread/count", notifications.UnreadCount)
			n.PUT("/read-all", notifications.MarkAllAsRead)
			n.PUT("/:id/read", notifications.MarkAsRead)
		}
	}

	return router
}

// healthCheck 数据库不可用时返回503，Redis 不可用只降级
func healthCheck(orm *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{
			"status":   "ok",
			"database": "up",
			"redis":    "disabled",
			"time":     time.Now().Format(time.RFC3339),
		}
		if redis.Enabled() {
			status["redis"] = "up"
			if err := redis.HealthCheck(); err != nil {
				logger.Warn("Redis健康检查失败", zap.Error(err))
				status["redis"] = "down"
			}
		}
		if err := db.Ping(orm); err != nil {
			logger.Error("数据库健康检查失败", zap.Error(err))
			status["status"] = "degraded"
			status["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, response.Response{Code: http.StatusServiceUnavailable, Message: "database unavailable", Data: status})
			return
		}
		response.Success(c, status)
	}
}
