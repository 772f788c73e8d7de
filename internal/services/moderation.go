package services

import (
	"github.com/brightideas/bright-ideas-backend/internal/models"
	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// Moderation is the single place ownership/role decisions are made; handlers
// and services consult it instead of re-checking roles inline.

// CanModify reports whether the caller may edit or delete the idea:
// the author always can, and so can any admin.
func CanModify(idea *models.Idea, caller models.Caller) bool {
	return caller.IsAdmin() || idea.Author == caller.ID
}

// RequireAdmin fails with a Forbidden error unless the caller is an admin.
func RequireAdmin(caller models.Caller) error {
	if !caller.IsAdmin() {
		return utils.NewForbiddenError("Access denied. Admin only.")
	}
	return nil
}
