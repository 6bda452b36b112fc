package model

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Game{},
		&GameGenre{},
		&Review{},
		&Purchase{},
		&ForumPost{},
		&PostLike{},
		&Comment{},
		&Event{},
		&FriendRelationship{},
		&ChatMessage{},
		&Notification{},
	}
}
