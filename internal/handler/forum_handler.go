package handler

import (
	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/jwt"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// 帖子与评论的管理角色
var moderators = []string{string(model.RoleAdministrator), string(model.RoleCommunityManager)}

// ForumHandler 论坛接口
type ForumHandler struct {
	service *service.ForumService
}

// NewForumHandler 创建论坛接口
func NewForumHandler(s *service.ForumService) *ForumHandler {
	return &ForumHandler{service: s}
}

type postRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

func (r postRequest) toInput() service.PostInput {
	return service.PostInput{Title: r.Title, Content: r.Content, Category: r.Category}
}

// CreatePost 发帖
func (h *ForumHandler) CreatePost(c *gin.Context) {
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), req.toInput(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "发布成功", response.FilterPostInfo(post))
}

// ListPosts 帖子列表，?category= 过滤
func (h *ForumHandler) ListPosts(c *gin.Context) {
	posts, err := h.service.ListPosts(c.Request.Context(), c.Query("category"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterPosts(posts))
}

// GetPost 获取帖子
func (h *ForumHandler) GetPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterPostInfo(post))
}

// ownPost 帖子作者或版主
func (h *ForumHandler) ownPost(c *gin.Context, id uint) bool {
	post, err := h.service.GetPost(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return false
	}
	if !jwt.IsSelfOrHasRole(c, post.AuthorID, moderators...) {
		response.Forbidden(c, "只能操作自己的帖子")
		return false
	}
	return true
}

// UpdatePost 编辑帖子
func (h *ForumHandler) UpdatePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok || !h.ownPost(c, id) {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	post, err := h.service.UpdatePost(c.Request.Context(), id, req.toInput(), uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", response.FilterPostInfo(post))
}

// DeletePost 删除帖子
func (h *ForumHandler) DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok || !h.ownPost(c, id) {
		return
	}
	if err := h.service.DeletePost(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}

// LikePost 点赞/取消点赞
func (h *ForumHandler) LikePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	post, liked, err := h.service.LikePost(c.Request.Context(), id, uid)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, gin.H{
		"post":  response.FilterPostInfo(post),
		"liked": liked,
	})
}

// Comment 发表评论
func (h *ForumHandler) Comment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	comment, err := h.service.CommentOnPost(c.Request.Context(), id, uid, req.Content)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "评论成功", response.FilterCommentInfo(comment))
}

// Comments 帖子下的评论
func (h *ForumHandler) Comments(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.service.GetCommentsByPostID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterComments(comments))
}

// DeleteComment 删除评论（评论作者或版主）
func (h *ForumHandler) DeleteComment(c *gin.Context) {
	postID, ok := idParam(c, "id")
	if !ok {
		return
	}
	commentID, ok := idParam(c, "commentId")
	if !ok {
		return
	}
	comment, err := h.service.GetComment(c.Request.Context(), postID, commentID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	if !jwt.IsSelfOrHasRole(c, comment.AuthorID, moderators...) {
		response.Forbidden(c, "只能删除自己的评论")
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), postID, commentID); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}
