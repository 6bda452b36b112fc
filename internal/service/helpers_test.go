package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"gamehub/config"
	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/db"
	"gamehub/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type pushed struct {
	UserID uint
	Type   string
	Data   interface{}
}

type recordingPusher struct {
	mu     sync.Mutex
	events []pushed
}

func (p *recordingPusher) Push(userID uint, eventType string, data interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, pushed{UserID: userID, Type: eventType, Data: data})
}

func (p *recordingPusher) For(userID uint) []pushed {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []pushed
	for _, e := range p.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	orm    *gorm.DB
	repos  *repository.Repositories
	pusher *recordingPusher
	jwt    *jwt.JWTService

	users           *UserService
	games           *GameService
	reviews         *ReviewService
	forum           *ForumService
	events          *EventService
	purchases       *PurchaseService
	recommendations *RecommendationService
	notifications   *NotificationService
	chat            *ChatService
	friends         *FriendService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	orm, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(false))
	require.NoError(t, err)

	sqlDB, err := orm.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(orm, model.All()...))
	return orm
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	orm := newTestDB(t)
	repos := repository.New(orm)
	pusher := &recordingPusher{}
	jwtSvc := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", Issuer: "gamehub", ExpireTime: time.Hour})
	notifications := NewNotificationService(repos, pusher)

	return &testEnv{
		orm:             orm,
		repos:           repos,
		pusher:          pusher,
		jwt:             jwtSvc,
		users:           NewUserService(orm, repos, jwtSvc),
		games:           NewGameService(orm, repos),
		reviews:         NewReviewService(repos),
		forum:           NewForumService(orm, repos, notifications),
		events:          NewEventService(orm, repos, notifications),
		purchases:       NewPurchaseService(orm, repos),
		recommendations: NewRecommendationService(repos, config.RecommendationConfig{}),
		notifications:   notifications,
		chat:            NewChatService(repos, pusher),
		friends:         NewFriendService(orm, repos, notifications),
	}
}

func (e *testEnv) createUser(t *testing.T, name string) *model.User {
	t.Helper()
	res, err := e.users.CreateUser(context.Background(), CreateUserInput{
		Username: name,
		Email:    name + "@example.com",
		Password: "pw-" + name,
	})
	require.NoError(t, err)
	return res.User
}

func (e *testEnv) createGame(t *testing.T, title string, price *float64, genres ...model.Genre) *model.Game {
	t.Helper()
	release := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := e.games.CreateGame(context.Background(), GameInput{
		Title:       title,
		Genres:      genres,
		ReleaseDate: &release,
		Developer:   "Studio",
		Price:       price,
	})
	require.NoError(t, err)
	return g
}

func price(v float64) *float64 { return &v }

func gameIDs(games []*model.Game) []uint {
	ids := make([]uint, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}
