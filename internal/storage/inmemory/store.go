// Package inmemory implements the storage interfaces with plain maps. It backs
// the service and handler tests; production wiring uses mongostore.
package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
)

type IdeaStore struct {
	mu    sync.RWMutex
	ideas map[primitive.ObjectID]*models.Idea
	seq   map[primitive.ObjectID]int // insertion order, tie-break for equal timestamps
	next  int
}

func NewIdeaStore() *IdeaStore {
	return &IdeaStore{
		ideas: make(map[primitive.ObjectID]*models.Idea),
		seq:   make(map[primitive.ObjectID]int),
	}
}

func (s *IdeaStore) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	idea.ID = primitive.NewObjectID()
	if idea.CreatedAt.IsZero() {
		idea.CreatedAt = now
	}
	idea.UpdatedAt = now
	if idea.Likes == nil {
		idea.Likes = []primitive.ObjectID{}
	}
	if idea.Comments == nil {
		idea.Comments = []models.Comment{}
	}
	if idea.Reports == nil {
		idea.Reports = []models.Report{}
	}

	s.ideas[idea.ID] = cloneIdea(idea)
	s.seq[idea.ID] = s.next
	s.next++
	return cloneIdea(idea), nil
}

func (s *IdeaStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return cloneIdea(idea), nil
}

func (s *IdeaStore) List(ctx context.Context) ([]*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(*models.Idea) bool { return true }), nil
}

func (s *IdeaStore) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(func(i *models.Idea) bool { return i.Author == authorID }), nil
}

// sorted returns matching ideas newest first; insertion order breaks timestamp
// ties so the seed ordering is deterministic.
func (s *IdeaStore) sorted(match func(*models.Idea) bool) []*models.Idea {
	out := []*models.Idea{}
	for _, idea := range s.ideas {
		if match(idea) {
			out = append(out, cloneIdea(idea))
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return s.seq[out[a].ID] > s.seq[out[b].ID]
	})
	return out
}

func (s *IdeaStore) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Idea, error) {
	return s.mutate(id, func(idea *models.Idea) {
		idea.Text = text
	})
}

func (s *IdeaStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ideas[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.ideas, id)
	delete(s.seq, id)
	return nil
}

func (s *IdeaStore) DeleteByAuthor(ctx context.Context, authorID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, idea := range s.ideas {
		if idea.Author == authorID {
			delete(s.ideas, id)
			delete(s.seq, id)
		}
	}
	return nil
}

func (s *IdeaStore) AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error) {
	return s.mutate(id, func(idea *models.Idea) {
		if !idea.HasLike(userID) {
			idea.Likes = append(idea.Likes, userID)
		}
	})
}

func (s *IdeaStore) RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error) {
	return s.mutate(id, func(idea *models.Idea) {
		likes := idea.Likes[:0]
		for _, uid := range idea.Likes {
			if uid != userID {
				likes = append(likes, uid)
			}
		}
		idea.Likes = likes
	})
}

func (s *IdeaStore) AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Idea, error) {
	return s.mutate(id, func(idea *models.Idea) {
		idea.Comments = append(idea.Comments, comment)
	})
}

func (s *IdeaStore) AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error {
	_, err := s.mutate(id, func(idea *models.Idea) {
		idea.Reports = append(idea.Reports, report)
		idea.IsReported = true
	})
	return err
}

func (s *IdeaStore) mutate(id primitive.ObjectID, fn func(*models.Idea)) (*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	fn(idea)
	idea.UpdatedAt = time.Now().UTC()
	return cloneIdea(idea), nil
}

func (s *IdeaStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.ideas)), nil
}

func (s *IdeaStore) CountReported(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, idea := range s.ideas {
		if idea.IsReported {
			n++
		}
	}
	return n, nil
}

func (s *IdeaStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, idea := range s.ideas {
		if !idea.CreatedAt.Before(from) && idea.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

// cloneIdea deep-copies a record so callers never share slices with the store,
// mirroring the fetch-returns-a-fresh-document behavior of the real database.
func cloneIdea(in *models.Idea) *models.Idea {
	out := *in
	out.Likes = append([]primitive.ObjectID{}, in.Likes...)
	out.Comments = append([]models.Comment{}, in.Comments...)
	out.Reports = append([]models.Report{}, in.Reports...)
	return &out
}
