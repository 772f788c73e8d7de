package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage/inmemory"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

func newUserEnv(t *testing.T) (*UserService, *inmemory.UserStore, *inmemory.IdeaStore) {
	t.Helper()
	users := inmemory.NewUserStore()
	ideas := inmemory.NewIdeaStore()
	return NewUserService(users, ideas), users, ideas
}

func adminCaller(t *testing.T, users *inmemory.UserStore) models.Caller {
	t.Helper()
	admin := seedUser(t, users, "the-admin", models.RoleAdmin)
	return models.Caller{ID: admin.ID, Role: models.RoleAdmin}
}

func validUpdate() UpdateUserInput {
	return UpdateUserInput{
		Name:        "New Name",
		Alias:       "new-alias",
		Email:       "new@example.com",
		DateOfBirth: "1990-01-01",
		Address:     "1 Main St",
	}
}

func TestListUsers_ExcludesAdmins(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	caller := adminCaller(t, users)
	seedUser(t, users, "regular1", models.RoleUser)
	seedUser(t, users, "regular2", models.RoleUser)
	seedUser(t, users, "other-admin", models.RoleAdmin)

	list, err := svc.List(context.Background(), caller)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.Equal(t, models.RoleUser, u.Role)
	}
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	regular := seedUser(t, users, "regular", models.RoleUser)

	_, err := svc.List(context.Background(), models.Caller{ID: regular.ID, Role: models.RoleUser})
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
}

func TestUpdateUser(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	ctx := context.Background()
	caller := adminCaller(t, users)
	target := seedUser(t, users, "target", models.RoleUser)

	updated, err := svc.Update(ctx, caller, target.ID, validUpdate())
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "new@example.com", updated.Email)
	// Role is never touched by admin edits.
	assert.Equal(t, models.RoleUser, updated.Role)
}

func TestUpdateUser_Validation(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	ctx := context.Background()
	caller := adminCaller(t, users)
	target := seedUser(t, users, "target", models.RoleUser)

	missing := validUpdate()
	missing.Address = "  "
	_, err := svc.Update(ctx, caller, target.ID, missing)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	badEmail := validUpdate()
	badEmail.Email = "not-an-email"
	_, err = svc.Update(ctx, caller, target.ID, badEmail)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.Update(ctx, caller, primitive.NewObjectID(), validUpdate())
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestUpdateUser_UniquenessAgainstOthers(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	ctx := context.Background()
	caller := adminCaller(t, users)
	target := seedUser(t, users, "target", models.RoleUser)
	seedUser(t, users, "taken-alias", models.RoleUser)

	dup := validUpdate()
	dup.Email = "taken-alias@example.com" // another user's email
	_, err := svc.Update(ctx, caller, target.ID, dup)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	dup = validUpdate()
	dup.Alias = "taken-alias"
	_, err = svc.Update(ctx, caller, target.ID, dup)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	// Keeping your own email is not a conflict.
	keep := validUpdate()
	keep.Email = "target@example.com"
	_, err = svc.Update(ctx, caller, target.ID, keep)
	require.NoError(t, err)
}

func TestDeleteUser_CascadesIdeas(t *testing.T) {
	svc, users, ideas := newUserEnv(t)
	ctx := context.Background()
	caller := adminCaller(t, users)
	target := seedUser(t, users, "target", models.RoleUser)
	bystander := seedUser(t, users, "bystander", models.RoleUser)

	for i := 0; i < 3; i++ {
		_, err := ideas.Create(ctx, &models.Idea{Text: "a target idea text", Author: target.ID})
		require.NoError(t, err)
	}
	kept, err := ideas.Create(ctx, &models.Idea{Text: "a bystander idea text", Author: bystander.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, caller, target.ID))

	_, err = users.GetByID(ctx, target.ID)
	require.Error(t, err)

	remaining, err := ideas.List(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].ID)
}

func TestDeleteUser_Guards(t *testing.T) {
	svc, users, _ := newUserEnv(t)
	ctx := context.Background()
	caller := adminCaller(t, users)
	regular := seedUser(t, users, "regular", models.RoleUser)

	// Admins cannot delete their own account.
	err := svc.Delete(ctx, caller, caller.ID)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	// Non-admins cannot delete anyone.
	err = svc.Delete(ctx, models.Caller{ID: regular.ID, Role: models.RoleUser}, caller.ID)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	err = svc.Delete(ctx, caller, primitive.NewObjectID())
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}
