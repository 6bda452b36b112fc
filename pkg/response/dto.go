package response

import (
	"time"

	"gamehub/internal/model"
)

const timeLayout = "2006-01-02 15:04:05"
const dateLayout = "2006-01-02"

// UserInfo 用户信息（隐藏敏感字段）
type UserInfo struct {
	ID             uint     `json:"id"`
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	ProfilePicture string   `json:"profile_picture,omitempty"`
	Description    string   `json:"description"`
	Roles          []string `json:"roles"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// FilterUserInfo 过滤用户信息，隐藏密码哈希
// pictureURL 为头像访问前缀，例如 /images
func FilterUserInfo(user *model.User, pictureURL string) *UserInfo {
	if user == nil {
		return nil
	}
	info := &UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Description: user.Description,
		Roles:       user.Roles.Strings(),
		CreatedAt:   user.CreatedAt.Format(timeLayout),
		UpdatedAt:   user.UpdatedAt.Format(timeLayout),
	}
	if user.ProfilePicture != "" {
		info.ProfilePicture = pictureURL + "/" + user.ProfilePicture
	}
	return info
}

// AuthResponse 注册/登录响应
type AuthResponse struct {
	User        *UserInfo `json:"user"`
	AccessToken string    `json:"access_token"`
}

// AuthorSummary 作者摘要
type AuthorSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

func summarize(id uint, u *model.User) AuthorSummary {
	s := AuthorSummary{ID: id}
	if u != nil {
		s.Username = u.Username
	}
	return s
}

// GameInfo 游戏信息
type GameInfo struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Genres      []string `json:"genres"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Developer   string   `json:"developer"`
	Price       *float64 `json:"price"`
}

// FilterGameInfo 转换游戏信息
func FilterGameInfo(g *model.Game) *GameInfo {
	if g == nil {
		return nil
	}
	info := &GameInfo{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Genres:      make([]string, 0, len(g.Genres)),
		Developer:   g.Developer,
		Price:       g.Price,
	}
	for _, genre := range g.GenreList() {
		info.Genres = append(info.Genres, string(genre))
	}
	if g.ReleaseDate != nil {
		info.ReleaseDate = g.ReleaseDate.Format(dateLayout)
	}
	return info
}

// FilterGames 批量转换
func FilterGames(games []*model.Game) []*GameInfo {
	out := make([]*GameInfo, 0, len(games))
	for _, g := range games {
		out = append(out, FilterGameInfo(g))
	}
	return out
}

// ReviewInfo 评价信息
type ReviewInfo struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	GameID    uint   `json:"game_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// FilterReviewInfo 转换评价信息
func FilterReviewInfo(r *model.Review) *ReviewInfo {
	if r == nil {
		return nil
	}
	return &ReviewInfo{
		ID:        r.ID,
		UserID:    r.UserID,
		GameID:    r.GameID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.Format(timeLayout),
	}
}

// FilterReviews 批量转换
func FilterReviews(reviews []*model.Review) []*ReviewInfo {
	out := make([]*ReviewInfo, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, FilterReviewInfo(r))
	}
	return out
}

// PostInfo 帖子信息，作者只返回摘要
type PostInfo struct {
	ID         uint          `json:"id"`
	Title      string        `json:"title"`
	Content    string        `json:"content"`
	Category   string        `json:"category"`
	LikesCount int           `json:"likes_count"`
	Author     AuthorSummary `json:"author"`
	CreatedAt  string        `json:"created_at"`
}

// FilterPostInfo 转换帖子信息
func FilterPostInfo(p *model.ForumPost) *PostInfo {
	if p == nil {
		return nil
	}
	return &PostInfo{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		Category:   p.Category,
		LikesCount: p.LikesCount,
		Author:     summarize(p.AuthorID, p.Author),
		CreatedAt:  p.CreatedAt.Format(timeLayout),
	}
}

// FilterPosts 批量转换
func FilterPosts(posts []*model.ForumPost) []*PostInfo {
	out := make([]*PostInfo, 0, len(posts))
	for _, p := range posts {
		out = append(out, FilterPostInfo(p))
	}
	return out
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID        uint          `json:"id"`
	PostID    uint          `json:"post_id"`
	Content   string        `json:"content"`
	Author    AuthorSummary `json:"author"`
	CreatedAt string        `json:"created_at"`
}

// FilterCommentInfo 转换评论信息
func FilterCommentInfo(c *model.Comment) *CommentInfo {
	if c == nil {
		return nil
	}
	return &CommentInfo{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		Author:    summarize(c.AuthorID, c.Author),
		CreatedAt: c.CreatedAt.Format(timeLayout),
	}
}

// FilterComments 批量转换
func FilterComments(comments []*model.Comment) []*CommentInfo {
	out := make([]*CommentInfo, 0, len(comments))
	for _, c := range comments {
		out = append(out, FilterCommentInfo(c))
	}
	return out
}

// EventInfo 活动信息
type EventInfo struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	ParticipantCount int    `json:"participant_count"`
}

// FilterEventInfo 转换活动信息
func FilterEventInfo(e *model.Event) *EventInfo {
	if e == nil {
		return nil
	}
	return &EventInfo{
		ID:               e.ID,
		Name:             e.Name,
		Description:      e.Description,
		StartDate:        e.StartDate.Format(time.RFC3339),
		EndDate:          e.EndDate.Format(time.RFC3339),
		ParticipantCount: len(e.Participants),
	}
}

// FilterEvents 批量转换
func FilterEvents(events []*model.Event) []*EventInfo {
	out := make([]*EventInfo, 0, len(events))
	for _, e := range events {
		out = append(out, FilterEventInfo(e))
	}
	return out
}

// Summaries 用户列表只返回摘要（活动参与者、好友）
func Summaries(users []*model.User) []AuthorSummary {
	out := make([]AuthorSummary, 0, len(users))
	for _, u := range users {
		out = append(out, summarize(u.ID, u))
	}
	return out
}

// FriendRequestInfo 好友申请信息
type FriendRequestInfo struct {
	ID        uint          `json:"id"`
	From      AuthorSummary `json:"from"`
	To        AuthorSummary `json:"to"`
	Status    string        `json:"status"`
	CreatedAt string        `json:"created_at"`
}

// FilterFriendRequest 转换好友关系
func FilterFriendRequest(f *model.FriendRelationship) *FriendRequestInfo {
	if f == nil {
		return nil
	}
	return &FriendRequestInfo{
		ID:        f.ID,
		From:      summarize(f.UserID, f.User),
		To:        summarize(f.FriendID, f.Friend),
		Status:    string(f.Status),
		CreatedAt: f.CreatedAt.Format(timeLayout),
	}
}

// FilterFriendRequests 批量转换
func FilterFriendRequests(list []*model.FriendRelationship) []*FriendRequestInfo {
	out := make([]*FriendRequestInfo, 0, len(list))
	for _, f := range list {
		out = append(out, FilterFriendRequest(f))
	}
	return out
}

// MessageResponse 消息响应
type MessageResponse struct {
	ID         uint   `json:"id"`
	SenderID   uint   `json:"sender_id"`
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
	IsRead     bool   `json:"is_read"`
	Timestamp  string `json:"timestamp"`
}

// FilterMessageInfo 过滤消息信息
func FilterMessageInfo(message *model.ChatMessage) *MessageResponse {
	if message == nil {
		return nil
	}
	return &MessageResponse{
		ID:         message.ID,
		SenderID:   message.SenderID,
		ReceiverID: message.ReceiverID,
		Content:    message.Content,
		IsRead:     message.IsRead,
		Timestamp:  message.Timestamp.Format(timeLayout),
	}
}

// FilterMessages 批量转换
func FilterMessages(messages []*model.ChatMessage) []*MessageResponse {
	out := make([]*MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, FilterMessageInfo(m))
	}
	return out
}

// NotificationInfo 通知信息
type NotificationInfo struct {
	ID        uint   `json:"id"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Read      bool   `json:"read"`
	SenderID  *uint  `json:"sender_id,omitempty"`
	EventID   *uint  `json:"event_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// FilterNotifications 批量转换
func FilterNotifications(list []*model.Notification) []*NotificationInfo {
	out := make([]*NotificationInfo, 0, len(list))
	for _, n := range list {
		out = append(out, &NotificationInfo{
			ID:        n.ID,
			Message:   n.Message,
			Type:      string(n.Type),
			Read:      n.Read,
			SenderID:  n.SenderID,
			EventID:   n.EventID,
			Timestamp: n.Timestamp.Format(timeLayout),
		})
	}
	return out
}

// PurchaseInfo 购买记录
type PurchaseInfo struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	Game         *GameInfo `json:"game,omitempty"`
	GameID       uint      `json:"game_id"`
	Amount       float64   `json:"amount"`
	PurchaseDate string    `json:"purchase_date"`
}

// FilterPurchase 转换购买记录
func FilterPurchase(p *model.Purchase) *PurchaseInfo {
	if p == nil {
		return nil
	}
	return &PurchaseInfo{
		ID:           p.ID,
		UserID:       p.UserID,
		GameID:       p.GameID,
		Game:         FilterGameInfo(p.Game),
		Amount:       p.Amount,
		PurchaseDate: p.PurchaseDate.Format(timeLayout),
	}
}

// FilterPurchases 批量转换
func FilterPurchases(list []*model.Purchase) []*PurchaseInfo {
	out := make([]*PurchaseInfo, 0, len(list))
	for _, p := range list {
		out = append(out, FilterPurchase(p))
	}
	return out
}
