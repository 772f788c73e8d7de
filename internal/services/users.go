package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserService covers the admin-only user management surface: listing regular
// users, editing their profile fields, and deleting an account together with
// all ideas it authored.
type UserService struct {
	users storage.UserStore
	ideas storage.IdeaStore
}

func NewUserService(users storage.UserStore, ideas storage.IdeaStore) *UserService {
	return &UserService{users: users, ideas: ideas}
}

// UpdateUserInput carries the admin-editable fields. All are required; role is
// never touched here.
type UpdateUserInput struct {
	Name        string `json:"name"`
	Alias       string `json:"alias"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Address     string `json:"address"`
}

// List returns all non-admin users, newest first.
func (s *UserService) List(ctx context.Context, caller models.Caller) ([]*models.User, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}
	users, err := s.users.ListNonAdmins(ctx)
	if err != nil {
		return nil, utils.NewDatabaseError("Failed to fetch users", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, caller models.Caller, id primitive.ObjectID, input UpdateUserInput) (*models.User, error) {
	if err := RequireAdmin(caller); err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Alias = strings.TrimSpace(input.Alias)
	input.Email = strings.TrimSpace(input.Email)
	input.DateOfBirth = strings.TrimSpace(input.DateOfBirth)
	input.Address = strings.TrimSpace(input.Address)
	if input.Name == "" || input.Alias == "" || input.Email == "" || input.DateOfBirth == "" || input.Address == "" {
		return nil, utils.NewInvalidInputError("All fields are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, utils.NewInvalidInputError("Invalid email format")
	}

	if taken, err := s.users.EmailTaken(ctx, input.Email, id); err != nil {
		return nil, utils.NewDatabaseError("Failed to check email", err)
	} else if taken {
		return nil, utils.NewAppError(utils.ErrDuplicate, "This email is already in use", nil)
	}
	if taken, err := s.users.AliasTaken(ctx, input.Alias, id); err != nil {
		return nil, utils.NewDatabaseError("Failed to check alias", err)
	} else if taken {
		return nil, utils.NewAppError(utils.ErrDuplicate, "This alias is already in use", nil)
	}

	user, err := s.users.Update(ctx, id, storage.UserUpdate{
		Name:        input.Name,
		Alias:       input.Alias,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
		Address:     input.Address,
	})
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}

// Delete removes a user and cascades deletion of all their ideas. Ideas go
// first; if the second step fails the user survives with no content, never
// the other way around.
func (s *UserService) Delete(ctx context.Context, caller models.Caller, id primitive.ObjectID) error {
	if err := RequireAdmin(caller); err != nil {
		return err
	}
	if caller.ID == id {
		return utils.NewInvalidInputError("You cannot delete your own account")
	}

	if _, err := s.users.GetByID(ctx, id); err != nil {
		return userError(err)
	}
	if err := s.ideas.DeleteByAuthor(ctx, id); err != nil {
		return utils.NewDatabaseError("Failed to delete user's ideas", err)
	}
	return userError(s.users.Delete(ctx, id))
}

func userError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return utils.NewNotFoundError("User not found")
	}
	return utils.NewDatabaseError("User store failure", err)
}
