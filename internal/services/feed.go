package services

import (
	"context"
	"sort"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// Feed returns every idea ordered for display: most liked first, ties broken
// by newest creation time. The store hands back a createdAt-desc seed order;
// the engagement sort layered on top must be stable.
func (s *IdeaService) Feed(ctx context.Context) ([]*models.Idea, error) {
	ideas, err := s.ideas.List(ctx)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to fetch ideas", err)
	}

	sort.SliceStable(ideas, func(a, b int) bool {
		if len(ideas[a].Likes) != len(ideas[b].Likes) {
			return len(ideas[a].Likes) > len(ideas[b].Likes)
		}
		return ideas[a].CreatedAt.After(ideas[b].CreatedAt)
	})

	return s.populateAll(ctx, ideas)
}
