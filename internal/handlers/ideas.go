package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/brightideas/bright-ideas-backend/internal/middleware"
	"github.com/brightideas/bright-ideas-backend/internal/services"
)

const requestTimeout = 10 * time.Second

type IdeaHandler struct {
	ideas *services.IdeaService
	stats *services.StatsService
}

func NewIdeaHandler(ideas *services.IdeaService, stats *services.StatsService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas, stats: stats}
}

type CreateIdeaRequest struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type UpdateIdeaRequest struct {
	Text string `json:"text"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

type ReportRequest struct {
	Reason string `json:"reason"`
}

// Create handles POST /ideas.
func (h *IdeaHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)

	var req CreateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	idea, err := h.ideas.Create(ctx, caller.ID, req.Text, req.Image)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Idea published successfully",
		"idea":    idea,
	})
}

// List handles GET /ideas: the public, engagement-sorted feed.
func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ideas, err := h.ideas.Feed(ctx)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ideas":   ideas,
	})
}

// MyIdeas handles GET /ideas/my-ideas.
func (h *IdeaHandler) MyIdeas(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ideas, err := h.ideas.ListByAuthor(ctx, caller.ID)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"ideas":   ideas,
	})
}

// Get handles GET /ideas/{id}.
func (h *IdeaHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	idea, err := h.ideas.Get(ctx, id)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"idea":    idea,
	})
}

// Update handles PUT /ideas/{id} (author or admin).
func (h *IdeaHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	var req UpdateIdeaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	idea, err := h.ideas.UpdateText(ctx, id, caller, req.Text)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Idea updated successfully",
		"idea":    idea,
	})
}

// Delete handles DELETE /ideas/{id} (author or admin).
func (h *IdeaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.ideas.Delete(ctx, id, caller); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Idea deleted successfully",
	})
}

// ToggleLike handles POST /ideas/{id}/like.
func (h *IdeaHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	liked, likesCount, err := h.ideas.ToggleLike(ctx, id, caller.ID)
	if err != nil {
		fail(w, err)
		return
	}

	message := "Like removed"
	if liked {
		message = "Idea liked"
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"message":    message,
		"likesCount": likesCount,
		"isLiked":    liked,
	})
}

// AddComment handles POST /ideas/{id}/comment.
func (h *IdeaHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	comment, err := h.ideas.AddComment(ctx, id, caller.ID, req.Text)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Comment added",
		"comment": comment,
	})
}

// Report handles POST /ideas/{id}/report.
func (h *IdeaHandler) Report(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.ideas.ReportIdea(ctx, id, caller.ID, req.Reason); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Report submitted",
	})
}

// ReportComment handles POST /ideas/{id}/comments/{commentId}/report.
func (h *IdeaHandler) ReportComment(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)
	id, ok := ideaID(w, r)
	if !ok {
		return
	}
	commentID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "commentId"))
	if err != nil {
		badRequest(w, "Invalid comment ID")
		return
	}

	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := h.ideas.ReportComment(ctx, id, commentID, caller.ID, req.Reason); err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Report submitted",
	})
}

// Statistics handles GET /ideas/statistics (admin only).
func (h *IdeaHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.Caller(r)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	stats, err := h.stats.Compute(ctx, caller)
	if err != nil {
		fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"statistics": stats,
	})
}

func ideaID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		badRequest(w, "Invalid idea ID")
		return primitive.NilObjectID, false
	}
	return id, true
}
