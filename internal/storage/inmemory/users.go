package inmemory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
)

type UserStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
	seq   map[primitive.ObjectID]int
	next  int
}

func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[primitive.ObjectID]*models.User),
		seq:   make(map[primitive.ObjectID]int),
	}
}

func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = models.RoleUser
	}

	clone := *user
	s.users[user.ID] = &clone
	s.seq[user.ID] = s.next
	s.next++
	return user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *UserStore) GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[primitive.ObjectID]*models.User, len(ids))
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			clone := *user
			out[id] = &clone
		}
	}
	return out, nil
}

func (s *UserStore) ListNonAdmins(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.User{}
	for _, user := range s.users {
		if user.Role != models.RoleAdmin {
			clone := *user
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if !out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].CreatedAt.After(out[b].CreatedAt)
		}
		return s.seq[out[a].ID] > s.seq[out[b].ID]
	})
	return out, nil
}

func (s *UserStore) Update(ctx context.Context, id primitive.ObjectID, update storage.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user.Name = update.Name
	user.Alias = update.Alias
	user.Email = strings.ToLower(strings.TrimSpace(update.Email))
	user.DateOfBirth = update.DateOfBirth
	user.Address = update.Address
	user.UpdatedAt = time.Now().UTC()

	clone := *user
	return &clone, nil
}

func (s *UserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.users, id)
	delete(s.seq, id)
	return nil
}

func (s *UserStore) EmailTaken(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, user := range s.users {
		if user.ID != exclude && user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) AliasTaken(ctx context.Context, alias string, exclude primitive.ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.ID != exclude && user.Alias == alias {
			return true, nil
		}
	}
	return false, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *UserStore) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, user := range s.users {
		if !user.CreatedAt.Before(from) && user.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}
