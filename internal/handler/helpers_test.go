package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamehub/config"
	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/internal/service"
	"gamehub/pkg/db"
	"gamehub/pkg/jwt"
	"gamehub/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type nopPusher struct{}

func (nopPusher) Push(uint, string, interface{}) {}

type apiEnv struct {
	orm       *gorm.DB
	router    *gin.Engine
	uploadDir string
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orm, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), db.GormConfig(false))
	require.NoError(t, err)
	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(orm, model.All()...))

	upload := config.UploadConfig{Dir: t.TempDir(), URLPrefix: "/images", MaxSize: 1 << 20}
	files, err := storage.NewFileStorage(upload)
	require.NoError(t, err)

	repos := repository.New(orm)
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "gamehub", ExpireTime: time.Hour})
	notifications := service.NewNotificationService(repos, nopPusher{})

	router := NewRouter(Deps{
		DB:              orm,
		JWT:             jwtSvc,
		Upload:          upload,
		Storage:         files,
		Users:           service.NewUserService(orm, repos, jwtSvc),
		Games:           service.NewGameService(orm, repos),
		Reviews:         service.NewReviewService(repos),
		Forum:           service.NewForumService(orm, repos, notifications),
		Events:          service.NewEventService(orm, repos, notifications),
		Purchases:       service.NewPurchaseService(orm, repos),
		Recommendations: service.NewRecommendationService(repos, config.RecommendationConfig{}),
		Friends:         service.NewFriendService(orm, repos, notifications),
		Chat:            service.NewChatService(repos, nopPusher{}),
		Notifications:   notifications,
	})
	return &apiEnv{orm: orm, router: router, uploadDir: upload.Dir}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *apiEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 && w.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

// register 注册并返回用户ID与token
func (e *apiEnv) register(t *testing.T, name string) (uint, string) {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/api/v1/users", "", gin.H{
		"username": name,
		"email":    name + "@example.com",
		"password": "pw-" + name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth struct {
		User struct {
			ID uint `json:"id"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	return auth.User.ID, auth.AccessToken
}

// promote 直接在库里设置角色后重新登录，拿到带新角色的token
func (e *apiEnv) promote(t *testing.T, id uint, name string, roles ...model.Role) string {
	t.Helper()
	require.NoError(t, e.orm.Model(&model.User{}).Where("id = ?", id).
		Update("roles", model.RoleSet(roles)).Error)
	w, env := e.do(t, http.MethodPost, "/api/v1/users/login", "", gin.H{
		"username": name,
		"password": "pw-" + name,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var auth struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	return auth.AccessToken
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v))
}
