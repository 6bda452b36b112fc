package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/jwt"
	"gamehub/pkg/logger"
	"gamehub/pkg/password"
	"gamehub/pkg/redis"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validate = validator.New()

// CreateUserInput 注册参数
type CreateUserInput struct {
	Username    string
	Email       string
	Password    string
	Description string
}

// UpdateUserInput 更新参数
// Roles 为空时清空角色集合
type UpdateUserInput struct {
	Username    string
	Email       string
	Password    string
	Description string
	Roles       []string
}

// AuthResult 注册/登录结果
type AuthResult struct {
	User  *model.User
	Token string
}

// UserService 用户业务
type UserService struct {
	orm   *gorm.DB
	repos *repository.Repositories
	jwt   *jwt.JWTService
}

// NewUserService 创建用户服务
func NewUserService(orm *gorm.DB, repos *repository.Repositories, jwtService *jwt.JWTService) *UserService {
	return &UserService{orm: orm, repos: repos, jwt: jwtService}
}

func validateProfile(username, email string) error {
	var fields []apperr.FieldError
	if blank(username) {
		fields = append(fields, apperr.FieldError{Field: "username", Message: "must not be blank"})
	}
	if err := validate.Var(email, "required,email"); err != nil {
		fields = append(fields, apperr.FieldError{Field: "email", Message: "must be a valid email address"})
	}
	if len(fields) > 0 {
		return apperr.Validation(fields...)
	}
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, username, email string, excludeID uint) error {
	taken, err := s.repos.Users.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return apperr.Internal(err, "check username")
	}
	if taken {
		return apperr.Conflict("username %q is already taken", username)
	}
	taken, err = s.repos.Users.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return apperr.Internal(err, "check email")
	}
	if taken {
		return apperr.Conflict("email %q is already registered", email)
	}
	return nil
}

// CreateUser 注册，新用户只拥有 USER 角色
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*AuthResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateProfile(in.Username, in.Email); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apperr.Validation(apperr.FieldError{Field: "password", Message: "is required"})
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}
	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Description:  in.Description,
		Roles:        model.RoleSet{model.RoleUser},
	}
	// 并发注册时唯一索引兜底
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return s.issue(user)
}

// UpdateUser 更新用户资料
func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*model.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if err := validateProfile(in.Username, in.Email); err != nil {
		return nil, err
	}
	roles, err := model.ParseRoles(in.Roles)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, in.Username, in.Email, id); err != nil {
		return nil, err
	}

	user.Username = in.Username
	user.Email = in.Email
	user.Description = in.Description
	user.Roles = roles
	// 只有提供了新密码且与当前密码不同时才重新哈希
	if in.Password != "" && !password.Verify(in.Password, user.PasswordHash) {
		hash, err := password.Hash(in.Password)
		if err != nil {
			return nil, apperr.Internal(err, "hash password")
		}
		user.PasswordHash = hash
	}

	if err := s.repos.Users.Update(ctx, user); err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return user, nil
}

// Login 用户名+密码登录
// 凭证错误时 ok 为 false 且 err 为 nil，err 只表示系统故障
func (s *UserService) Login(ctx context.Context, username, plainPassword string) (*AuthResult, bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || plainPassword == "" {
		return nil, false, nil
	}
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, apperr.Internal(err, "load user")
	}
	if !password.Verify(plainPassword, user.PasswordHash) {
		return nil, false, nil
	}
	// 旧成本的哈希在登录成功时顺带升级，失败不影响登录
	if password.NeedsRehash(user.PasswordHash) {
		if hash, err := password.Hash(plainPassword); err == nil {
			user.PasswordHash = hash
			if err := s.repos.Users.Update(ctx, user); err != nil {
				logger.Warn("升级密码哈希失败", zap.Uint("user_id", user.ID), zap.Error(err))
			}
		}
	}
	res, err := s.issue(user)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (s *UserService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Roles.Strings())
	if err != nil {
		return nil, apperr.Internal(err, "issue token")
	}
	return &AuthResult{User: user, Token: token}, nil
}

// DeleteUser 删除用户及其全部数据，用户不存在时直接返回
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	exists, err := s.repos.Users.Exists(ctx, id)
	if err != nil {
		return apperr.Internal(err, "check user")
	}
	if !exists {
		return nil
	}
	err = db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).Users.Delete(ctx, id)
	})
	if err != nil {
		return apperr.FromDB(err, "user")
	}
	ignoreCacheErr("invalidate recommendations", redis.InvalidateRecommendations(id))
	ignoreCacheErr("reset unread count", redis.ResetUnreadCount(id))
	return nil
}

// UpdateUserProfilePicture 记录头像文件名
func (s *UserService) UpdateUserProfilePicture(ctx context.Context, id uint, filename string) error {
	ok, err := s.repos.Users.Exists(ctx, id)
	if err := mustExist(ok, err, "user"); err != nil {
		return err
	}
	if err := s.repos.Users.UpdateProfilePicture(ctx, id, filename); err != nil {
		return apperr.Internal(err, "update profile picture")
	}
	return nil
}

// GetUser 根据ID获取用户
func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	user, err := s.repos.Users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "user")
	}
	return user, nil
}

// ListUsers 全部用户
func (s *UserService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.repos.Users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "list users")
	}
	return users, nil
}

// OnlineUsers 当前在线用户（依赖 Redis，未启用时返回空列表）
func (s *UserService) OnlineUsers(ctx context.Context) ([]*model.User, error) {
	presences, err := redis.GetOnlineUsersWithDetails()
	if err != nil {
		ignoreCacheErr("online users", err)
		return []*model.User{}, nil
	}
	ids := make([]uint, 0, len(presences))
	for _, p := range presences {
		if p.Status == "online" {
			ids = append(ids, p.UserID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	users, err := s.repos.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err, "list online users")
	}
	return users, nil
}
