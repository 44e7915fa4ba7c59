package handlers

import (
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/auth"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// respondError renders err as a JSON error body. Server errors are logged
// with the request context before the generic response is sent.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := utils.ParseError(err)

	if appErr.StatusCode >= http.StatusInternalServerError {
		var userID int64
		if user, ok := auth.UserFromContext(r.Context()); ok {
			userID = user.ID
		}
		logger := utils.RequestLogger(chimiddleware.GetReqID(r.Context()), userID, r.Method, r.URL.Path)
		logger.Error().Err(err).Msg("Request failed")
	}

	utils.ErrorFromAppError(w, appErr)
}
