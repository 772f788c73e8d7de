package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/brightideas/bright-ideas-backend/pkg/utils"
)

// writeJSON writes the uniform response envelope.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// fail translates an error into {success:false, message} with the status the
// error's code dictates.
func fail(w http.ResponseWriter, err error) {
	message := "Internal server error"
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	writeJSON(w, utils.HTTPStatus(err), map[string]interface{}{
		"success": false,
		"message": message,
	})
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"success": false,
		"message": message,
	})
}
