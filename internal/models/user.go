package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles. Role escalation happens out-of-band (cmd/makeadmin), never via the API.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`

	Name     string `bson:"name" json:"name"`
	Alias    string `bson:"alias" json:"alias"`
	Email    string `bson:"email" json:"email"`
	Password string `bson:"password" json:"-"` // Argon2id hash, never serialized

	ProfilePhoto string `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	DateOfBirth  string `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Address      string `bson:"address,omitempty" json:"address,omitempty"`

	Role string `bson:"role" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRef is the denormalized identity embedded in idea/comment responses so the
// frontend never needs a second fetch to display an author.
type UserRef struct {
	ID           primitive.ObjectID `json:"id"`
	Name         string             `json:"name"`
	Alias        string             `json:"alias"`
	ProfilePhoto string             `json:"profilePhoto,omitempty"`
}

func (u *User) Ref() UserRef {
	return UserRef{
		ID:           u.ID,
		Name:         u.Name,
		Alias:        u.Alias,
		ProfilePhoto: u.ProfilePhoto,
	}
}

// Caller is the authenticated identity attached to a request by the auth
// middleware: id plus role, nothing else.
type Caller struct {
	ID   primitive.ObjectID
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}
