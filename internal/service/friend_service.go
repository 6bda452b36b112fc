package service

import (
	"context"
	"fmt"

	"gamehub/internal/model"
	"gamehub/internal/repository"
	"gamehub/pkg/apperr"
	"gamehub/pkg/db"
	"gamehub/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FriendService 好友关系业务
type FriendService struct {
	orm           *gorm.DB
	repos         *repository.Repositories
	notifications *NotificationService
}

// NewFriendService 创建好友服务
func NewFriendService(orm *gorm.DB, repos *repository.Repositories, notifications *NotificationService) *FriendService {
	return &FriendService{orm: orm, repos: repos, notifications: notifications}
}

// SendRequest 发送好友申请
// 任一方向已有待处理或已接受的关系时冲突，被拒绝的关系重新打开为待处理
func (s *FriendService) SendRequest(ctx context.Context, userID, friendID uint) (*model.FriendRelationship, error) {
	if userID == friendID {
		return nil, apperr.InvalidArgument("cannot add yourself as a friend")
	}
	var (
		rel       *model.FriendRelationship
		requester *model.User
	)
	err := db.Transaction(ctx, s.orm, func(tx *gorm.DB) error {
		repos := s.repos.WithTx(tx)
		var err error
		if requester, err = repos.Users.GetByID(ctx, userID); err != nil {
			return apperr.FromDB(err, "user")
		}
		ok, err := repos.Users.Exists(ctx, friendID)
		if err := mustExist(ok, err, "user"); err != nil {
			return err
		}

		existing, err := repos.Friends.FindBetween(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if existing == nil {
			rel = &model.FriendRelationship{UserID: userID, FriendID: friendID, Status: model.FriendPending}
			return repos.Friends.Create(ctx, rel)
		}
		switch existing.Status {
		case model.FriendPending:
			return apperr.Conflict("a friend request is already pending")
		case model.FriendAccepted:
			return apperr.Conflict("users are already friends")
		}
		existing.UserID = userID
		existing.FriendID = friendID
		existing.Status = model.FriendPending
		rel = existing
		return repos.Friends.UpdateStatus(ctx, rel)
	})
	if err != nil {
		return nil, apperr.FromDB(err, "friend relationship")
	}

	msg := fmt.Sprintf("%s sent you a friend request", requester.Username)
	if err := s.notifications.Notify(ctx, friendID, model.NotificationFriendRequest, msg, &requester.ID, nil); err != nil {
		logger.Warn("好友申请通知发送失败", zap.Uint("user_id", friendID), zap.Error(err))
	}
	return s.get(ctx, rel.ID)
}

func (s *FriendService) get(ctx context.Context, id uint) (*model.FriendRelationship, error) {
	rel, err := s.repos.Friends.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.FromDB(err, "friend request")
	}
	return rel, nil
}

// respond 只有接收方可以处理待处理的申请
func (s *FriendService) respond(ctx context.Context, id, actingUserID uint, status model.FriendStatus) (*model.FriendRelationship, error) {
	rel, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rel.FriendID != actingUserID {
		return nil, apperr.Forbidden("only the recipient can respond to a friend request")
	}
	if rel.Status != model.FriendPending {
		return nil, apperr.InvalidArgument("friend request is not pending")
	}
	rel.Status = status
	if err := s.repos.Friends.UpdateStatus(ctx, rel); err != nil {
		return nil, apperr.FromDB(err, "friend request")
	}
	return rel, nil
}

// Accept 接受好友申请并通知申请方
func (s *FriendService) Accept(ctx context.Context, id, actingUserID uint) (*model.FriendRelationship, error) {
	rel, err := s.respond(ctx, id, actingUserID, model.FriendAccepted)
	if err != nil {
		return nil, err
	}
	name := ""
	if rel.Friend != nil {
		name = rel.Friend.Username
	}
	msg := fmt.Sprintf("%s accepted your friend request", name)
	if err := s.notifications.Notify(ctx, rel.UserID, model.NotificationFriendAccepted, msg, &rel.FriendID, nil); err != nil {
		logger.Warn("好友通过通知发送失败", zap.Uint("user_id", rel.UserID), zap.Error(err))
	}
	return rel, nil
}

// Reject 拒绝好友申请
func (s *FriendService) Reject(ctx context.Context, id, actingUserID uint) (*model.FriendRelationship, error) {
	return s.respond(ctx, id, actingUserID, model.FriendRejected)
}

// Remove 删除好友关系，双方均可操作
func (s *FriendService) Remove(ctx context.Context, id, actingUserID uint) error {
	rel, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if rel.UserID != actingUserID && rel.FriendID != actingUserID {
		return apperr.Forbidden("not a party of this friend relationship")
	}
	if err := s.repos.Friends.Delete(ctx, id); err != nil {
		return apperr.Internal(err, "delete friend relationship")
	}
	return nil
}

// ListFriends 用户的好友列表
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]*model.User, error) {
	rels, err := s.repos.Friends.ListAccepted(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "list friends")
	}
	ids := make([]uint, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.Counterpart(userID))
	}
	friends, err := s.repos.Users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err, "list friends")
	}
	return friends, nil
}

// ListPending 待当前用户处理的好友申请
func (s *FriendService) ListPending(ctx context.Context, userID uint) ([]*model.FriendRelationship, error) {
	list, err := s.repos.Friends.ListPending(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err, "list friend requests")
	}
	return list, nil
}
