package service

import (
	"context"
	"testing"

	"gamehub/internal/model"
	"gamehub/pkg/apperr"
	"gamehub/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserAssignsUserRoleAndToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := env.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "a@x.io", Password: "pw1"})
	require.NoError(t, err)
	assert.NotZero(t, res.User.ID)
	assert.Equal(t, model.RoleSet{model.RoleUser}, res.User.Roles)
	assert.NotEqual(t, "pw1", res.User.PasswordHash)

	claims, err := env.jwt.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, claims.Roles)

	stored, err := env.users.GetUser(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSet{model.RoleUser}, stored.Roles)
}

func TestCreateUserRejectsDuplicatesAndBadEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice")

	_, err := env.users.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "other@x.io", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = env.users.CreateUser(ctx, CreateUserInput{Username: "bob", Email: "alice@example.com", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = env.users.CreateUser(ctx, CreateUserInput{Username: "carol", Email: "not-an-email", Password: "pw"})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestLoginNeverErrorsOnBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "alice")

	res, ok, err := env.users.Login(ctx, "alice", "wrong")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)

	res, ok, err = env.users.Login(ctx, "nobody", "pw")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, res)

	res, ok, err = env.users.Login(ctx, "alice", "pw-alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, res.Token)
}

func TestUpdateUserRolesAndPassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	oldHash := alice.PasswordHash

	updated, err := env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "pw-alice",
		Roles:    []string{"ADMINISTRATOR", "user"},
	})
	require.NoError(t, err)
	assert.Equal(t, oldHash, updated.PasswordHash, "same password is not re-hashed")
	assert.Equal(t, model.RoleSet{model.RoleAdministrator, model.RoleUser}, updated.Roles)

	updated, err = env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
		Username: "alice2",
		Email:    "alice2@example.com",
		Password: "new-pw",
	})
	require.NoError(t, err)
	assert.True(t, password.Verify("new-pw", updated.PasswordHash))
	assert.Empty(t, updated.Roles, "roles are cleared when none are supplied")

	_, err = env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{
		Username: "alice2", Email: "alice2@example.com", Roles: []string{"ROOT"},
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)

	_, err = env.users.UpdateUser(ctx, 999, UpdateUserInput{Username: "x", Email: "x@x.io"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateUserRejectsTakenUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	env.createUser(t, "bob")

	_, err := env.users.UpdateUser(ctx, alice.ID, UpdateUserInput{Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeleteUserCascadesAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	game := env.createGame(t, "Foo", price(10), model.GenreAction)

	_, err := env.reviews.CreateReview(ctx, ReviewInput{Rating: 4, Comment: "nice"}, alice.ID, game.ID)
	require.NoError(t, err)
	_, err = env.purchases.PurchaseGame(ctx, alice.ID, game.ID)
	require.NoError(t, err)
	alicePost, err := env.forum.CreatePost(ctx, PostInput{Title: "mine"}, alice.ID)
	require.NoError(t, err)
	_, err = env.forum.CommentOnPost(ctx, alicePost.ID, bob.ID, "hi")
	require.NoError(t, err)
	bobPost, err := env.forum.CreatePost(ctx, PostInput{Title: "bob's"}, bob.ID)
	require.NoError(t, err)
	_, _, err = env.forum.LikePost(ctx, bobPost.ID, alice.ID)
	require.NoError(t, err)
	_, err = env.chat.Save(ctx, alice.ID, bob.ID, "hello")
	require.NoError(t, err)
	_, err = env.friends.SendRequest(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteUser(ctx, alice.ID))
	require.NoError(t, env.users.DeleteUser(ctx, alice.ID), "deleting twice is a no-op")

	_, err = env.users.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	reviews, err := env.reviews.ListReviews(ctx)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	owned, err := env.purchases.CheckOwnership(ctx, alice.ID, game.ID)
	require.NoError(t, err)
	assert.False(t, owned)

	_, err = env.forum.GetPost(ctx, alicePost.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	post, err := env.forum.GetPost(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, post.LikesCount, "likes by the deleted user are withdrawn")

	msgs, err := env.chat.MessagesBetween(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	friends, err := env.friends.ListPending(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)

	// 游戏本身不受影响
	_, err = env.games.GetGame(ctx, game.ID)
	assert.NoError(t, err)
}

func TestUpdateUserProfilePicture(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	require.NoError(t, env.users.UpdateUserProfilePicture(ctx, alice.ID, "abc.png"))
	u, err := env.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "abc.png", u.ProfilePicture)

	assert.ErrorIs(t, env.users.UpdateUserProfilePicture(ctx, 999, "x.png"), apperr.ErrNotFound)
}

func TestOnlineUsersWithoutRedisIsEmpty(t *testing.T) {
	env := newTestEnv(t)
	users, err := env.users.OnlineUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}
