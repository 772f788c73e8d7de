package storage

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
)

// ErrNotFound is returned when the referenced record does not exist. The
// service layer translates it into the proper application error.
var ErrNotFound = errors.New("record not found")

// UserUpdate carries the admin-editable user fields. Role is deliberately
// absent: escalation happens out-of-band.
type UserUpdate struct {
	Name        string
	Alias       string
	Email       string
	DateOfBirth string
	Address     string
}

// IdeaStore is the authoritative collection of idea records. Like, comment and
// report mutations must be atomic field-level updates, never whole-document
// overwrites, so concurrent disjoint mutations don't clobber each other.
type IdeaStore interface {
	Create(ctx context.Context, idea *models.Idea) (*models.Idea, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Idea, error)
	// List returns all ideas, newest first. This is the seed order the feed
	// composer re-sorts by engagement.
	List(ctx context.Context) ([]*models.Idea, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*models.Idea, error)
	UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Idea, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByAuthor(ctx context.Context, authorID primitive.ObjectID) error

	// AddLike / RemoveLike mutate the like set ($addToSet / $pull semantics)
	// and return the updated record.
	AddLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error)
	RemoveLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Idea, error)

	// AddComment appends to the end of the comment sequence.
	AddComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Idea, error)
	// AddReport appends a report and flags the idea as reported.
	AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error

	Count(ctx context.Context) (int64, error)
	CountReported(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// UserStore holds user records. The idea core only reads them for identity
// resolution and role checks; the auth and admin surfaces own the writes.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetManyByIDs fetches users in one round trip for populate-style identity
	// resolution; missing ids are simply absent from the result.
	GetManyByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.User, error)
	// ListNonAdmins returns regular users, newest first.
	ListNonAdmins(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, update UserUpdate) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	// EmailTaken / AliasTaken check uniqueness against users other than exclude.
	EmailTaken(ctx context.Context, email string, exclude primitive.ObjectID) (bool, error)
	AliasTaken(ctx context.Context, alias string, exclude primitive.ObjectID) (bool, error)

	Count(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}
