package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamehub/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(expire time.Duration) *JWTService {
	return NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "gamehub", ExpireTime: expire})
}

func TestGenerateAndValidate(t *testing.T) {
	s := newService(time.Hour)
	token, err := s.GenerateToken(42, "alice", []string{"USER", "ADMINISTRATOR"})
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, []string{"USER", "ADMINISTRATOR"}, claims.Roles)

	_, err = s.GenerateToken(0, "", nil)
	assert.Error(t, err)
}

func TestValidateRejectsForeignAndExpiredTokens(t *testing.T) {
	token, err := newService(time.Hour).GenerateToken(1, "", nil)
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "other", Issuer: "gamehub", ExpireTime: time.Hour})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	wrongIssuer := NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "someone-else", ExpireTime: time.Hour})
	_, err = wrongIssuer.ValidateToken(token)
	assert.Error(t, err)

	expired, err := newService(-time.Hour).GenerateToken(1, "", nil)
	require.NoError(t, err)
	_, err = newService(time.Hour).ValidateToken(expired)
	assert.Error(t, err)
}

func TestGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newService(time.Hour)
	user, err := s.GenerateToken(7, "u", []string{"USER"})
	require.NoError(t, err)
	admin, err := s.GenerateToken(1, "root", []string{"ADMINISTRATOR"})
	require.NoError(t, err)

	r := gin.New()
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/admin", s.AuthMiddleware(), RequireRoles("ADMINISTRATOR"), ok)
	r.GET("/users/:id", s.AuthMiddleware(), RequireSelfOrRoles("id", "ADMINISTRATOR"), ok)

	call := func(path, token string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call("/admin", ""))
	assert.Equal(t, http.StatusForbidden, call("/admin", user))
	assert.Equal(t, http.StatusNoContent, call("/admin", admin))

	assert.Equal(t, http.StatusNoContent, call("/users/7", user))
	assert.Equal(t, http.StatusForbidden, call("/users/8", user))
	assert.Equal(t, http.StatusNoContent, call("/users/8", admin))
	assert.Equal(t, http.StatusBadRequest, call("/users/abc", user))
}
