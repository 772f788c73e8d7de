package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Content length bounds, measured after trimming for the minimum and on the raw
// input for the maximum.
const (
	IdeaTextMinLength    = 10
	IdeaTextMaxLength    = 2000
	CommentTextMaxLength = 500
)

// Idea is the central content unit. Comments and reports are embedded
// sub-documents; likes is a set of user references.
type Idea struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Text  string `bson:"text" json:"text"`
	Image string `bson:"image,omitempty" json:"image,omitempty"` // opaque: base64 or URL

	Author primitive.ObjectID   `bson:"author" json:"-"`
	Likes  []primitive.ObjectID `bson:"likes" json:"-"`

	Comments []Comment `bson:"comments" json:"comments"`

	IsReported bool     `bson:"isReported" json:"isReported"`
	Reports    []Report `bson:"reports" json:"reports,omitempty"`

	// Resolved identities, filled in by the service layer; never persisted.
	AuthorInfo *UserRef  `bson:"-" json:"author,omitempty"`
	LikeInfo   []UserRef `bson:"-" json:"likes"`
}

// Comment lives inside its idea. Append-only: no edit or delete operation
// exists, insertion order is display order.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"-"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`

	UserInfo *UserRef `bson:"-" json:"user,omitempty"`
}

// Report flags the parent idea for admin review; it never removes or hides
// content. Comment is set when the report targets a single comment.
type Report struct {
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty" json:"comment,omitempty"`
	Reason    string              `bson:"reason" json:"reason"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

func (i *Idea) LikesCount() int {
	return len(i.Likes)
}

// HasLike reports whether userID is currently in the like set.
func (i *Idea) HasLike(userID primitive.ObjectID) bool {
	for _, id := range i.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// CommentByID returns the embedded comment with the given id, or nil.
func (i *Idea) CommentByID(commentID primitive.ObjectID) *Comment {
	for idx := range i.Comments {
		if i.Comments[idx].ID == commentID {
			return &i.Comments[idx]
		}
	}
	return nil
}
