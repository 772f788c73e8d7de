package services

import (
	"context"
	"math"
	"time"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// Statistics is the admin dashboard summary, computed as of the call time.
type Statistics struct {
	TotalUsers     int64   `json:"totalUsers"`
	TotalIdeas     int64   `json:"totalIdeas"`
	TotalLikes     int64   `json:"totalLikes"`
	TotalReports   int64   `json:"totalReports"`
	IdeasThisMonth int64   `json:"ideasThisMonth"`
	UsersThisMonth int64   `json:"usersThisMonth"`
	IdeasTrend     float64 `json:"ideasTrend"`
	UsersTrend     float64 `json:"usersTrend"`
}

// StatsService derives summary counts and month-over-month trends by scanning
// the idea and user collections. Read-only.
type StatsService struct {
	ideas storage.IdeaStore
	users storage.UserStore

	// Now is swappable so tests can pin the calendar month.
	Now func() time.Time
}

func NewStatsService(ideas storage.IdeaStore, users storage.UserStore) *StatsService {
	return &StatsService{ideas: ideas, users: users, Now: time.Now}
}

// Trend is the month-over-month percentage change, rounded to one decimal.
// The edge cases are fixed: 100 when there was nothing last month but
// something this month, 0 when both months are empty.
func Trend(prev, curr int64) float64 {
	switch {
	case prev > 0:
		return math.Round(float64(curr-prev)/float64(prev)*1000) / 10
	case curr > 0:
		return 100
	default:
		return 0
	}
}

func (s *StatsService) Compute(ctx context.Context, caller models.Caller) (*Statistics, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}

	now := s.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	nextMonthStart := monthStart.AddDate(0, 1, 0)

	stats := &Statistics{}
	var err error

	if stats.TotalUsers, err = s.users.Count(ctx); err != nil {
		return nil, utils.NewDatabaseError("Failed to count users", err)
	}
	if stats.TotalIdeas, err = s.ideas.Count(ctx); err != nil {
		return nil, utils.NewDatabaseError("Failed to count ideas", err)
	}
	if stats.TotalReports, err = s.ideas.CountReported(ctx); err != nil {
		return nil, utils.NewDatabaseError("Failed to count reported ideas", err)
	}

	// Total likes is a sum over every idea's like set.
	ideas, err := s.ideas.List(ctx)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to fetch ideas", err)
	}
	for _, idea := range ideas {
		stats.TotalLikes += int64(len(idea.Likes))
	}

	if stats.IdeasThisMonth, err = s.ideas.CountCreatedBetween(ctx, monthStart, nextMonthStart); err != nil {
		return nil, utils.NewDatabaseError("Failed to count this month's ideas", err)
	}
	if stats.UsersThisMonth, err = s.users.CountCreatedBetween(ctx, monthStart, nextMonthStart); err != nil {
		return nil, utils.NewDatabaseError("Failed to count this month's users", err)
	}

	ideasLastMonth, err := s.ideas.CountCreatedBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to count last month's ideas", err)
	}
	usersLastMonth, err := s.users.CountCreatedBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to count last month's users", err)
	}

	stats.IdeasTrend = Trend(ideasLastMonth, stats.IdeasThisMonth)
	stats.UsersTrend = Trend(usersLastMonth, stats.UsersThisMonth)
	return stats, nil
}
