package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage/inmemory"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

func newIdeaEnv(t *testing.T) (*IdeaService, *inmemory.IdeaStore, *inmemory.UserStore) {
	t.Helper()
	ideas := inmemory.NewIdeaStore()
	users := inmemory.NewUserStore()
	return NewIdeaService(ideas, users), ideas, users
}

func seedUser(t *testing.T, users *inmemory.UserStore, alias, role string) *models.User {
	t.Helper()
	user, err := users.Create(context.Background(), &models.User{
		Name:  "Test " + alias,
		Alias: alias,
		Email: alias + "@example.com",
		Role:  role,
	})
	require.NoError(t, err)
	return user
}

func TestCreateIdea_Validation(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	author := seedUser(t, users, "author", models.RoleUser)

	// Trimmed length below the minimum fails even when the raw input is longer.
	_, err := svc.Create(ctx, author.ID, "   short   ", "")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	_, err = svc.Create(ctx, author.ID, strings.Repeat("a", 2001), "")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	// Exactly 10 characters after trimming is accepted and stored trimmed.
	idea, err := svc.Create(ctx, author.ID, "  abcdefghij  ", "")
	require.NoError(t, err)
	assert.Equal(t, "abcdefghij", idea.Text)
	assert.Empty(t, idea.Likes)
	assert.Empty(t, idea.Comments)
	assert.False(t, idea.IsReported)

	// Exactly 2000 raw characters is accepted.
	_, err = svc.Create(ctx, author.ID, strings.Repeat("a", 2000), "")
	require.NoError(t, err)
}

func TestCreateIdea_ResolvesAuthorIdentity(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	author := seedUser(t, users, "bright-alias", models.RoleUser)

	idea, err := svc.Create(ctx, author.ID, "a perfectly valid idea", "data:image/png;base64,xyz")
	require.NoError(t, err)

	require.NotNil(t, idea.AuthorInfo)
	assert.Equal(t, author.ID, idea.AuthorInfo.ID)
	assert.Equal(t, "bright-alias", idea.AuthorInfo.Alias)
	assert.Equal(t, "data:image/png;base64,xyz", idea.Image)
}

func TestUpdateIdea_Authorization(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	author := seedUser(t, users, "author", models.RoleUser)
	stranger := seedUser(t, users, "stranger", models.RoleUser)
	admin := seedUser(t, users, "admin", models.RoleAdmin)

	idea, err := svc.Create(ctx, author.ID, "the original idea text", "")
	require.NoError(t, err)

	// A non-admin non-author is always rejected.
	_, err = svc.UpdateText(ctx, idea.ID, models.Caller{ID: stranger.ID, Role: models.RoleUser}, "attempted replacement")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	// The author may edit.
	updated, err := svc.UpdateText(ctx, idea.ID, models.Caller{ID: author.ID, Role: models.RoleUser}, "  new text here  ")
	require.NoError(t, err)
	assert.Equal(t, "new text here", updated.Text)

	// Any admin may edit regardless of authorship.
	updated, err = svc.UpdateText(ctx, idea.ID, models.Caller{ID: admin.ID, Role: models.RoleAdmin}, "admin replacement text")
	require.NoError(t, err)
	assert.Equal(t, "admin replacement text", updated.Text)
}

func TestUpdateIdea_ValidatesBeforeAuthorization(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	author := seedUser(t, users, "author", models.RoleUser)

	idea, err := svc.Create(ctx, author.ID, "the original idea text", "")
	require.NoError(t, err)

	_, err = svc.UpdateText(ctx, idea.ID, models.Caller{ID: author.ID, Role: models.RoleUser}, "short")
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestDeleteIdea(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	author := seedUser(t, users, "author", models.RoleUser)
	stranger := seedUser(t, users, "stranger", models.RoleUser)

	idea, err := svc.Create(ctx, author.ID, "an idea destined to go", "")
	require.NoError(t, err)

	err = svc.Delete(ctx, idea.ID, models.Caller{ID: stranger.ID, Role: models.RoleUser})
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	require.NoError(t, svc.Delete(ctx, idea.ID, models.Caller{ID: author.ID, Role: models.RoleUser}))

	_, err = svc.Get(ctx, idea.ID)
	require.Error(t, err)
	assert.True(t, utils.IsErrorCode(err, utils.ErrNotFound))
}

func TestListByAuthor(t *testing.T) {
	svc, _, users := newIdeaEnv(t)
	ctx := context.Background()
	a := seedUser(t, users, "a", models.RoleUser)
	b := seedUser(t, users, "b", models.RoleUser)

	_, err := svc.Create(ctx, a.ID, "first idea from user a", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, b.ID, "first idea from user b", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, a.ID, "second idea from user a", "")
	require.NoError(t, err)

	mine, err := svc.ListByAuthor(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, idea := range mine {
		assert.Equal(t, a.ID, idea.AuthorInfo.ID)
	}
}
