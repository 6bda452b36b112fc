package handler

import (
	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/jwt"
	"gamehub/pkg/logger"
	"gamehub/pkg/response"
	"gamehub/pkg/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserHandler 用户接口
type UserHandler struct {
	service    *service.UserService
	storage    *storage.FileStorage
	pictureURL string
}

// NewUserHandler 创建用户接口
func NewUserHandler(s *service.UserService, files *storage.FileStorage, pictureURL string) *UserHandler {
	return &UserHandler{service: s, storage: files, pictureURL: pictureURL}
}

func (h *UserHandler) info(u *model.User) *response.UserInfo {
	return response.FilterUserInfo(u, h.pictureURL)
}

// Register 用户注册
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Username    string `json:"username" binding:"required"`
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, err := h.service.CreateUser(c.Request.Context(), service.CreateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "注册成功", &response.AuthResponse{
		User:        h.info(res.User),
		AccessToken: res.Token,
	})
}

// Login 用户登录，token 同时写入 Authorization 响应头
func (h *UserHandler) Login(c *gin.Context) {
	// 密码为空按登录失败处理（401），不作为参数错误
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	res, ok, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !ok {
		response.Unauthorized(c, "invalid username or password")
		return
	}
	c.Header("Authorization", "Bearer "+res.Token)
	response.SuccessWithMessage(c, "登录成功", &response.AuthResponse{
		User:        h.info(res.User),
		AccessToken: res.Token,
	})
}

// List 全部用户（管理员）
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]*response.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, h.info(u))
	}
	response.Success(c, out)
}

// Online 在线用户
func (h *UserHandler) Online(c *gin.Context) {
	users, err := h.service.OnlineUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.Summaries(users))
}

// Get 获取用户资料
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, h.info(user))
}

// Update 更新用户资料，只有管理员可以设置角色
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req struct {
		Username    string   `json:"username" binding:"required"`
		Email       string   `json:"email" binding:"required,email"`
		Password    string   `json:"password"`
		Description string   `json:"description"`
		Roles       []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	if len(req.Roles) > 0 && !jwt.HasAnyRole(c, string(model.RoleAdministrator)) {
		response.Forbidden(c, "only administrators may assign roles")
		return
	}
	user, err := h.service.UpdateUser(c.Request.Context(), id, service.UpdateUserInput{
		Username:    req.Username,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
		Roles:       req.Roles,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", h.info(user))
}

// Delete 删除用户
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var picture string
	if user, err := h.service.GetUser(c.Request.Context(), id); err == nil {
		picture = user.ProfilePicture
	}
	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	h.removeFile(picture)
	response.SuccessWithMessage(c, "已删除", nil)
}

// UploadProfilePicture 上传头像，表单字段 file
func (h *UserHandler) UploadProfilePicture(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	name, err := h.storage.Save(fh.Filename, fh.Size, f)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if err := h.service.UpdateUserProfilePicture(c.Request.Context(), id, name); err != nil {
		h.removeFile(name)
		response.FromError(c, err)
		return
	}
	h.removeFile(user.ProfilePicture)
	user.ProfilePicture = name
	response.SuccessWithMessage(c, "头像已更新", h.info(user))
}

func (h *UserHandler) removeFile(name string) {
	if name == "" {
		return
	}
	if err := h.storage.Delete(name); err != nil {
		logger.Warn("删除头像文件失败", zap.String("file", name), zap.Error(err))
	}
}
