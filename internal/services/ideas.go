package services

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// IdeaService owns idea content validation and the engagement operations
// applied to idea records. It resolves author/commenter identity on every
// returned record so callers never need a second fetch.
type IdeaService struct {
	ideas storage.IdeaStore
	users storage.UserStore
}

func NewIdeaService(ideas storage.IdeaStore, users storage.UserStore) *IdeaService {
	return &IdeaService{ideas: ideas, users: users}
}

// validateIdeaText trims and checks the content bounds: minimum on the trimmed
// text, maximum on the raw input.
func validateIdeaText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < models.IdeaTextMinLength {
		return "", utils.NewInvalidInputError("Idea must contain at least 10 characters")
	}
	if len(text) > models.IdeaTextMaxLength {
		return "", utils.NewInvalidInputError("Idea cannot exceed 2000 characters")
	}
	return trimmed, nil
}

func (s *IdeaService) Create(ctx context.Context, authorID primitive.ObjectID, text, image string) (*models.Idea, error) {
	trimmed, err := validateIdeaText(text)
	if err != nil {
		return nil, err
	}

	idea, err := s.ideas.Create(ctx, &models.Idea{
		Text:   trimmed,
		Image:  image, // opaque: base64 payload or an upload URL
		Author: authorID,
	})
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to create idea", err)
	}
	return s.populate(ctx, idea)
}

func (s *IdeaService) Get(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	idea, err := s.ideas.GetByID(ctx, id)
	if err != nil {
		return nil, ideaError(err)
	}
	return s.populate(ctx, idea)
}

// ListByAuthor returns the author's own ideas, newest first.
func (s *IdeaService) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Idea, error) {
	ideas, err := s.ideas.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to fetch ideas", err)
	}
	return s.populateAll(ctx, ideas)
}

func (s *IdeaService) UpdateText(ctx context.Context, id primitive.ObjectID, caller models.Caller, text string) (*models.Idea, error) {
	trimmed, err := validateIdeaText(text)
	if err != nil {
		return nil, err
	}

	idea, err := s.ideas.GetByID(ctx, id)
	if err != nil {
		return nil, ideaError(err)
	}
	if !CanModify(idea, caller) {
		return nil, utils.NewForbiddenError("You are not allowed to edit this idea")
	}

	updated, err := s.ideas.UpdateText(ctx, id, trimmed)
	if err != nil {
		return nil, ideaError(err)
	}
	return s.populate(ctx, updated)
}

// Delete removes the idea along with its embedded comments and reports.
func (s *IdeaService) Delete(ctx context.Context, id primitive.ObjectID, caller models.Caller) error {
	idea, err := s.ideas.GetByID(ctx, id)
	if err != nil {
		return ideaError(err)
	}
	if !CanModify(idea, caller) {
		return utils.NewForbiddenError("You are not allowed to delete this idea")
	}
	return ideaError(s.ideas.Delete(ctx, id))
}

func ideaError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return utils.NewNotFoundError("Idea not found")
	}
	return utils.NewDatabaseError("Idea store failure", err)
}

// populate resolves author, liker, and commenter identities on a single idea.
func (s *IdeaService) populate(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	populated, err := s.populateAll(ctx, []*models.Idea{idea})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populateAll batches the user lookup across all ideas so a feed of N ideas
// costs one extra round trip, not N.
func (s *IdeaService) populateAll(ctx context.Context, ideas []*models.Idea) ([]*models.Idea, error) {
	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, idea := range ideas {
		add(idea.Author)
		for _, uid := range idea.Likes {
			add(uid)
		}
		for i := range idea.Comments {
			add(idea.Comments[i].User)
		}
	}

	users, err := s.users.GetManyByIDs(ctx, ids)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to resolve user identities", err)
	}

	for _, idea := range ideas {
		if u, ok := users[idea.Author]; ok {
			ref := u.Ref()
			idea.AuthorInfo = &ref
		}
		idea.LikeInfo = []models.UserRef{}
		for _, uid := range idea.Likes {
			if u, ok := users[uid]; ok {
				idea.LikeInfo = append(idea.LikeInfo, u.Ref())
			}
		}
		for i := range idea.Comments {
			if u, ok := users[idea.Comments[i].User]; ok {
				ref := u.Ref()
				idea.Comments[i].UserInfo = &ref
			}
		}
	}
	return ideas, nil
}
