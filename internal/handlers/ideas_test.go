package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightideas/bright-ideas-backend/internal/handlers"
	"github.com/brightideas/bright-ideas-backend/internal/middleware"
	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/internal/routes"
	"github.com/brightideas/bright-ideas-backend/internal/services"
	"github.com/brightideas/bright-ideas-backend/internal/storage/inmemory"
)

type fakeSessions struct {
	mu      sync.Mutex
	byToken map[string]string
	n       int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byToken: map[string]string{}}
}

func (f *fakeSessions) Create(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	token := fmt.Sprintf("token-%d", f.n)
	f.byToken[token] = userID
	return token, nil
}

func (f *fakeSessions) Validate(ctx context.Context, token string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, ok := f.byToken[token]
	return userID, ok, nil
}

func (f *fakeSessions) Invalidate(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byToken, token)
	return nil
}

type testServer struct {
	router   *chi.Mux
	users    *inmemory.UserStore
	sessions *fakeSessions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ideaStore := inmemory.NewIdeaStore()
	userStore := inmemory.NewUserStore()
	sessions := newFakeSessions()

	ideaSvc := services.NewIdeaService(ideaStore, userStore)
	statsSvc := services.NewStatsService(ideaStore, userStore)
	userSvc := services.NewUserService(userStore, ideaStore)
	authSvc := services.NewAuthService(userStore, sessions)

	r := chi.NewRouter()
	routes.SetupRoutes(r, routes.Handlers{
		Ideas:       handlers.NewIdeaHandler(ideaSvc, statsSvc),
		Users:       handlers.NewUserHandler(userSvc),
		Auth:        handlers.NewAuthHandler(authSvc),
		Upload:      handlers.NewUploadHandler(nil),
		RequireAuth: middleware.RequireAuth(sessions, userStore),
	})
	return &testServer{router: r, users: userStore, sessions: sessions}
}

// do sends a JSON request with an optional bearer token and decodes the
// envelope.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var envelope map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return rec.Code, envelope
}

// signup registers a user through the API and returns (userID, token).
func (s *testServer) signup(t *testing.T, alias string) (string, string) {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     "User " + alias,
		"alias":    alias,
		"email":    alias + "@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, code)
	user := resp["user"].(map[string]interface{})
	return user["id"].(string), resp["token"].(string)
}

// seedAdmin creates an admin directly (role escalation is not an API surface)
// and opens a session for it.
func (s *testServer) seedAdmin(t *testing.T) (string, string) {
	t.Helper()
	admin, err := s.users.Create(context.Background(), &models.User{
		Name: "Admin", Alias: "admin", Email: "admin@example.com", Role: models.RoleAdmin,
	})
	require.NoError(t, err)
	token, err := s.sessions.Create(context.Background(), admin.ID.Hex())
	require.NoError(t, err)
	return admin.ID.Hex(), token
}

func TestIdeaLifecycle(t *testing.T) {
	s := newTestServer(t)
	u1ID, u1 := s.signup(t, "u1")
	_, u2 := s.signup(t, "u2")
	_, u3 := s.signup(t, "u3")
	_, admin := s.seedAdmin(t)

	// U1 creates an idea with exactly 10 characters.
	code, resp := s.do(t, http.MethodPost, "/ideas", u1, map[string]string{"text": "abcdefghij"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, true, resp["success"])
	idea := resp["idea"].(map[string]interface{})
	ideaID := idea["id"].(string)
	assert.Equal(t, "abcdefghij", idea["text"])
	assert.Empty(t, idea["likes"])

	// U2 toggles a like on, then off.
	code, resp = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/like", u2, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["isLiked"])
	assert.Equal(t, float64(1), resp["likesCount"])

	code, resp = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/like", u2, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, resp["isLiked"])
	assert.Equal(t, float64(0), resp["likesCount"])

	// U1 comments; the comment comes back with the commenter resolved.
	code, resp = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/comment", u1, map[string]string{"text": "hi"})
	require.Equal(t, http.StatusOK, code)
	comment := resp["comment"].(map[string]interface{})
	assert.Equal(t, "hi", comment["text"])
	assert.Equal(t, u1ID, comment["user"].(map[string]interface{})["id"])

	// A non-admin non-author cannot edit.
	code, resp = s.do(t, http.MethodPut, "/ideas/"+ideaID, u3, map[string]string{"text": "hijacked text here"})
	require.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, resp["success"])

	// An admin can, regardless of authorship.
	code, resp = s.do(t, http.MethodPut, "/ideas/"+ideaID, admin, map[string]string{"text": "new text here"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "new text here", resp["idea"].(map[string]interface{})["text"])
}

func TestFeedIsPublicAndMutationsAreNot(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1")

	code, _ := s.do(t, http.MethodPost, "/ideas", u1, map[string]string{"text": "a public feed idea"})
	require.Equal(t, http.StatusCreated, code)

	// The feed needs no token.
	code, resp := s.do(t, http.MethodGet, "/ideas", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["ideas"], 1)

	// Creating does.
	code, _ = s.do(t, http.MethodPost, "/ideas", "", map[string]string{"text": "an anonymous idea"})
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(t, http.MethodPost, "/ideas", "bogus-token", map[string]string{"text": "an anonymous idea"})
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestStatisticsEndpointIsAdminOnly(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1")
	_, admin := s.seedAdmin(t)

	code, _ := s.do(t, http.MethodGet, "/ideas/statistics", u1, nil)
	require.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(t, http.MethodGet, "/ideas/statistics", admin, nil)
	require.Equal(t, http.StatusOK, code)
	stats := resp["statistics"].(map[string]interface{})
	assert.Equal(t, float64(2), stats["totalUsers"])
	assert.Equal(t, float64(0), stats["totalIdeas"])
}

func TestValidationErrorsSurfaceAs400(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1")

	code, resp := s.do(t, http.MethodPost, "/ideas", u1, map[string]string{"text": "short"})
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["message"])

	// Malformed id comes back 400, missing record 404.
	code, _ = s.do(t, http.MethodPost, "/ideas/not-a-hex-id/like", u1, nil)
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(t, http.MethodPost, "/ideas/64a0f0f0f0f0f0f0f0f0f0f0/like", u1, nil)
	require.Equal(t, http.StatusNotFound, code)
}

func TestReportEndpoints(t *testing.T) {
	s := newTestServer(t)
	_, u1 := s.signup(t, "u1")
	_, u2 := s.signup(t, "u2")

	code, resp := s.do(t, http.MethodPost, "/ideas", u1, map[string]string{"text": "a reportable idea"})
	require.Equal(t, http.StatusCreated, code)
	ideaID := resp["idea"].(map[string]interface{})["id"].(string)

	code, resp = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/report", u2, map[string]string{"reason": "spam"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["success"])

	code, resp = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/comment", u1, map[string]string{"text": "a comment"})
	require.Equal(t, http.StatusOK, code)
	commentID := resp["comment"].(map[string]interface{})["id"].(string)

	code, _ = s.do(t, http.MethodPost, "/ideas/"+ideaID+"/comments/"+commentID+"/report", u2, map[string]string{"reason": "rude"})
	require.Equal(t, http.StatusOK, code)

	// The flag shows up on the public record.
	code, resp = s.do(t, http.MethodGet, "/ideas/"+ideaID, "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp["idea"].(map[string]interface{})["isReported"])
}

func TestAdminUserManagement(t *testing.T) {
	s := newTestServer(t)
	u1ID, u1 := s.signup(t, "u1")
	adminID, admin := s.seedAdmin(t)

	// Seed an idea for the soon-to-be-deleted user.
	code, _ := s.do(t, http.MethodPost, "/ideas", u1, map[string]string{"text": "soon to disappear"})
	require.Equal(t, http.StatusCreated, code)

	// Listing excludes admins and requires the admin role.
	code, _ = s.do(t, http.MethodGet, "/users", u1, nil)
	require.Equal(t, http.StatusForbidden, code)

	code, resp := s.do(t, http.MethodGet, "/users", admin, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["users"], 1)

	// Self-deletion is refused.
	code, _ = s.do(t, http.MethodDelete, "/users/"+adminID, admin, nil)
	require.Equal(t, http.StatusBadRequest, code)

	// Deleting the user cascades their ideas.
	code, _ = s.do(t, http.MethodDelete, "/users/"+u1ID, admin, nil)
	require.Equal(t, http.StatusOK, code)

	code, resp = s.do(t, http.MethodGet, "/ideas", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, resp["ideas"])
}
