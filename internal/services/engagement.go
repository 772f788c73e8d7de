package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// ToggleLike flips the (idea, user) like membership and reports the resulting
// state. Membership is decided from the freshly loaded record; the store
// mutation itself is an atomic set add/remove, so concurrent toggles by
// different users never overwrite each other.
func (s *IdeaService) ToggleLike(ctx context.Context, ideaID, userID primitive.ObjectID) (liked bool, likesCount int, err error) {
	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return false, 0, ideaError(err)
	}

	var updated *models.Idea
	if idea.HasLike(userID) {
		updated, err = s.ideas.RemoveLike(ctx, ideaID, userID)
		liked = false
	} else {
		updated, err = s.ideas.AddLike(ctx, ideaID, userID)
		liked = true
	}
	if err != nil {
		return false, 0, ideaError(err)
	}
	return liked, updated.LikesCount(), nil
}

// AddComment appends a comment to the end of the idea's comment sequence and
// returns it with the commenting user's identity resolved.
func (s *IdeaService) AddComment(ctx context.Context, ideaID, userID primitive.ObjectID, text string) (*models.Comment, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, utils.NewInvalidInputError("Comment cannot be empty")
	}
	if len(text) > models.CommentTextMaxLength {
		return nil, utils.NewInvalidInputError("Comment cannot exceed 500 characters")
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Text:      trimmed,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.ideas.AddComment(ctx, ideaID, comment); err != nil {
		return nil, ideaError(err)
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		ref := user.Ref()
		comment.UserInfo = &ref
	}
	return &comment, nil
}

// ReportIdea flags the idea for admin review. Repeated reports by the same
// user are kept as separate entries.
func (s *IdeaService) ReportIdea(ctx context.Context, ideaID, userID primitive.ObjectID, reason string) error {
	report, err := newReport(userID, reason)
	if err != nil {
		return err
	}
	return ideaError(s.ideas.AddReport(ctx, ideaID, report))
}

// ReportComment files a report against a single comment; the parent idea is
// flagged exactly as with an idea-level report.
func (s *IdeaService) ReportComment(ctx context.Context, ideaID, commentID, userID primitive.ObjectID, reason string) error {
	report, err := newReport(userID, reason)
	if err != nil {
		return err
	}

	idea, err := s.ideas.GetByID(ctx, ideaID)
	if err != nil {
		return ideaError(err)
	}
	if idea.CommentByID(commentID) == nil {
		return utils.NewNotFoundError("Comment not found")
	}

	report.Comment = &commentID
	return ideaError(s.ideas.AddReport(ctx, ideaID, report))
}

func newReport(userID primitive.ObjectID, reason string) (models.Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return models.Report{}, utils.NewInvalidInputError("Report reason is required")
	}
	return models.Report{
		User:      userID,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}, nil
}
