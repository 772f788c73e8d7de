package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/middleware"
	"github.com/brightideas/bright-ideas-backend/internal/services"
)

// UserHandler is the admin-only user management surface.
type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List handles GET /users: all non-admin users, newest first.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	users, err := h.users.List(ctx, caller)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// Update handles PUT /users/{id}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := userID(w, r)
	if !ok {
		return
	}

	var input services.UpdateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.users.Update(ctx, caller, id, input)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User updated successfully",
		"user":    user,
	})
}

// Delete handles DELETE /users/{id}: removes the user and cascades deletion
// of every idea they authored.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := userID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.users.Delete(ctx, caller, id); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User and all their ideas deleted successfully",
	})
}

func userID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "Invalid user ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
