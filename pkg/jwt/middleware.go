package jwt

import (
	"strconv"
	"strings"

	"gamehub/pkg/logger"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// ContextUserIDKey 用户ID在gin.Context中的键名
	ContextUserIDKey = "user_id"
	// ContextRolesKey 角色列表在gin.Context中的键名
	ContextRolesKey = "roles"
)

// AuthMiddleware JWT认证中间件
// 从请求头中提取Authorization: Bearer <token>
// 验证token并将用户信息存入gin.Context
func (s *JWTService) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少Authorization请求头")
			c.Abort()
			return
		}

		// 检查Bearer前缀
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "Authorization格式错误，应为Bearer <token>")
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			response.Unauthorized(c, "token不能为空")
			c.Abort()
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			logger.Warn("JWT验证失败",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
			)
			response.Unauthorized(c, "token无效或已过期")
			c.Abort()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *CustomClaims) {
	c.Set(ContextUserIDKey, claims.Subject)
	c.Set(ContextRolesKey, claims.Roles)
}

// GetUserID 从gin.Context中获取用户ID
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(ContextUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// CurrentUserID 以 uint 形式返回当前用户ID，未认证时返回 false
func CurrentUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(GetUserID(c), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// GetRoles 从gin.Context中获取角色列表
func GetRoles(c *gin.Context) []string {
	if roles, exists := c.Get(ContextRolesKey); exists {
		if r, ok := roles.([]string); ok {
			return r
		}
	}
	return nil
}

// HasAnyRole 当前用户是否拥有任一角色
func HasAnyRole(c *gin.Context, roles ...string) bool {
	for _, have := range GetRoles(c) {
		for _, want := range roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

// IsSelfOrHasRole 当前用户是目标用户本人，或拥有任一角色
func IsSelfOrHasRole(c *gin.Context, targetUserID uint, roles ...string) bool {
	if uid, ok := CurrentUserID(c); ok && uid == targetUserID {
		return true
	}
	return HasAnyRole(c, roles...)
}

// RequireRoles 角色校验中间件，必须在 AuthMiddleware 之后使用
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == "" {
			response.Unauthorized(c, "用户未认证")
			c.Abort()
			return
		}
		if !HasAnyRole(c, roles...) {
			response.Forbidden(c, "权限不足")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSelfOrRoles 路径参数中的用户ID必须是当前用户，或当前用户拥有任一角色
func RequireSelfOrRoles(param string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		target, err := strconv.ParseUint(c.Param(param), 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid "+param)
			c.Abort()
			return
		}
		if !IsSelfOrHasRole(c, uint(target), roles...) {
			response.Forbidden(c, "只能操作自己的数据")
			c.Abort()
			return
		}
		c.Next()
	}
}
