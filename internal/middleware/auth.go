package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/services"
	"github.com/brightideas/bright-ideas-backend/internal/storage"
)

type contextKey string

const callerKey contextKey = "caller"
const tokenKey contextKey = "sessionToken"

// Caller returns the authenticated identity attached by RequireAuth.
func Caller(r *http.Request) (models.Caller, bool) {
	caller, ok := r.Context().Value(callerKey).(models.Caller)
	return caller, ok
}

// SessionToken returns the raw bearer token of the current request.
func SessionToken(r *http.Request) string {
	token, _ := r.Context().Value(tokenKey).(string)
	return token
}

// ExtractBearerToken pulls the token from "Authorization: Bearer <token>".
func ExtractBearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAuth resolves the request's session token to a caller identity
// (id + role) and attaches it to the context. The role lookup happens exactly
// once per request; downstream handlers never re-fetch the user for it.
func RequireAuth(sessions services.SessionStore, users storage.UserStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			userID, ok, err := sessions.Validate(r.Context(), token)
			if err != nil || !ok {
				unauthenticated(w)
				return
			}

			id, err := primitive.ObjectIDFromHex(userID)
			if err != nil {
				unauthenticated(w)
				return
			}
			user, err := users.GetByID(r.Context(), id)
			if err != nil {
				unauthenticated(w)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, models.Caller{ID: user.ID, Role: user.Role})
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthenticated(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": "Authentication required",
	})
}
