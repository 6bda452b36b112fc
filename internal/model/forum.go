package model

import "time"

// ForumPost 论坛帖子
// LikesCount 与 post_like 表的记录数保持一致，点赞/取消在同一事务中更新
// 评论和点赞归帖子所有，删除帖子时级联删除

type ForumPost struct {
	ID         uint       `gorm:"primaryKey"`
	Title      string     `gorm:"type:varchar(255);not null;comment:标题"`
	Content    string     `gorm:"type:text;comment:内容"`
	AuthorID   uint       `gorm:"not null;index;comment:作者ID"`
	Author     *User      `gorm:"foreignKey:AuthorID"`
	Category   string     `gorm:"type:varchar(64);index;comment:分类"`
	LikesCount int        `gorm:"not null;default:0;comment:点赞数"`
	Likes      []PostLike `gorm:"foreignKey:PostID"`
	Comments   []Comment  `gorm:"foreignKey:PostID"`
	CreatedAt  time.Time  `gorm:"comment:创建时间"`
	UpdatedAt  time.Time  `gorm:"comment:更新时间"`
}

func (ForumPost) TableName() string { return "forum_post" }

// PostLike 点赞记录，(post_id, user_id) 唯一

type PostLike struct {
	PostID    uint `gorm:"primaryKey;autoIncrement:false"`
	UserID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (PostLike) TableName() string { return "post_like" }

// Comment 帖子评论

type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	Content   string    `gorm:"type:text;not null;comment:评论内容"`
	AuthorID  uint      `gorm:"not null;index;comment:作者ID"`
	Author    *User     `gorm:"foreignKey:AuthorID"`
	PostID    uint      `gorm:"not null;index;comment:帖子ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

func (Comment) TableName() string { return "comment" }
