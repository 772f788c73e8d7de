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

const passwordMinLength = 6

// AuthService is the identity guard's registration/login side. Everything
// downstream only ever sees the caller id and role it yields.
type AuthService struct {
	users    storage.UserStore
	sessions SessionStore
}

func NewAuthService(users storage.UserStore, sessions SessionStore) *AuthService {
	return &AuthService{users: users, sessions: sessions}
}

type SignupInput struct {
	Name         string `json:"name"`
	Alias        string `json:"alias"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	DateOfBirth  string `json:"dateOfBirth,omitempty"`
	Address      string `json:"address,omitempty"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}

// Signup registers a user with the "user" role and opens a session.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Alias = strings.TrimSpace(input.Alias)
	input.Email = strings.TrimSpace(input.Email)
	if input.Name == "" || input.Alias == "" || input.Email == "" || input.Password == "" {
		return nil, "", utils.NewInvalidInputError("Name, alias, email and password are required")
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, "", utils.NewInvalidInputError("Invalid email format")
	}
	if len(input.Password) < passwordMinLength {
		return nil, "", utils.NewInvalidInputError("Password must be at least 6 characters")
	}

	if taken, err := s.users.EmailTaken(ctx, input.Email, primitive.NilObjectID); err != nil {
		return nil, "", utils.NewDatabaseError("Failed to check email", err)
	} else if taken {
		return nil, "", utils.NewAppError(utils.ErrDuplicate, "This email is already in use", nil)
	}
	if taken, err := s.users.AliasTaken(ctx, input.Alias, primitive.NilObjectID); err != nil {
		return nil, "", utils.NewDatabaseError("Failed to check alias", err)
	} else if taken {
		return nil, "", utils.NewAppError(utils.ErrDuplicate, "This alias is already in use", nil)
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, "", utils.NewDatabaseError("Failed to hash password", err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         input.Name,
		Alias:        input.Alias,
		Email:        input.Email,
		Password:     hash,
		DateOfBirth:  input.DateOfBirth,
		Address:      strings.TrimSpace(input.Address),
		ProfilePhoto: input.ProfilePhoto,
		Role:         models.RoleUser,
	})
	if err != nil {
		return nil, "", utils.NewDatabaseError("Failed to create user", err)
	}

	token, err := s.sessions.Create(ctx, user.ID.Hex())
	if err != nil {
		return nil, "", utils.NewDatabaseError("Failed to create session", err)
	}
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, "", utils.NewInvalidInputError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, "", utils.NewUnauthorizedError("Invalid email or password")
		}
		return nil, "", utils.NewDatabaseError("Failed to fetch user", err)
	}

	ok, err := utils.VerifyPassword(password, user.Password)
	if err != nil || !ok {
		return nil, "", utils.NewUnauthorizedError("Invalid email or password")
	}

	token, err := s.sessions.Create(ctx, user.ID.Hex())
	if err != nil {
		return nil, "", utils.NewDatabaseError("Failed to create session", err)
	}
	return user, token, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}

// Me returns the user behind an authenticated caller.
func (s *AuthService) Me(ctx context.Context, callerID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, userError(err)
	}
	return user, nil
}
