package handler

import (
	"gamehub/internal/model"
	"gamehub/internal/service"
	"gamehub/pkg/response"

	"github.com/gin-gonic/gin"
)

// GameHandler 游戏目录接口
type GameHandler struct {
	games   *service.GameService
	reviews *service.ReviewService
}

// NewGameHandler 创建游戏接口
func NewGameHandler(games *service.GameService, reviews *service.ReviewService) *GameHandler {
	return &GameHandler{games: games, reviews: reviews}
}

type gameRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date" binding:"required"`
	Developer   string   `json:"developer" binding:"required"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
}

func (r *gameRequest) toInput() (service.GameInput, error) {
	in := service.GameInput{
		Title:       r.Title,
		Description: r.Description,
		Developer:   r.Developer,
		Price:       r.Price,
	}
	release, err := parseDate(r.ReleaseDate)
	if err != nil {
		return in, errInvalidDate("releaseDate")
	}
	in.ReleaseDate = &release
	for _, name := range r.Genres {
		g, err := model.ParseGenre(name)
		if err != nil {
			return in, err
		}
		in.Genres = append(in.Genres, g)
	}
	return in, nil
}

func (h *GameHandler) bind(c *gin.Context) (service.GameInput, bool) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return service.GameInput{}, false
	}
	in, err := req.toInput()
	if err != nil {
		response.FromError(c, err)
		return in, false
	}
	return in, true
}

// Create 创建游戏（管理员）
func (h *GameHandler) Create(c *gin.Context) {
	in, ok := h.bind(c)
	if !ok {
		return
	}
	game, err := h.games.CreateGame(c.Request.Context(), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "创建成功", response.FilterGameInfo(game))
}

// Update 更新游戏（管理员）
func (h *GameHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	in, ok := h.bind(c)
	if !ok {
		return
	}
	game, err := h.games.UpdateGame(c.Request.Context(), id, in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "更新成功", response.FilterGameInfo(game))
}

// Delete 删除游戏（管理员）
func (h *GameHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.games.DeleteGame(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.SuccessWithMessage(c, "已删除", nil)
}

// List 全部游戏
func (h *GameHandler) List(c *gin.Context) {
	games, err := h.games.ListGames(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterGames(games))
}

// Get 获取游戏
func (h *GameHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	game, err := h.games.GetGame(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterGameInfo(game))
}

// ByUser 用户已购买的游戏
func (h *GameHandler) ByUser(c *gin.Context) {
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	games, err := h.games.GetGamesByUserID(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, response.FilterGames(games))
}

// Review 当前用户评价游戏
func (h *GameHandler) Review(c *gin.Context) {
	gameID, ok := idParam(c, "id")
	if !ok {
		return
	}
	uid, ok := currentUser(c)
	if !ok {
		return
	}
	var req struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}
	review, err := h.reviews.CreateReview(c.Request.Context(), service.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	}, uid, gameID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, "评价成功", response.FilterReviewInfo(review))
}

