package middleware

import (
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/utils"
)

// Recovery is a middleware that recovers from panics and returns a 500 Internal Server Error
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let the server abort the connection as it would without us
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				utils.LogPanic(rec, debug.Stack(), map[string]interface{}{
					"request_id":  chimiddleware.GetReqID(r.Context()),
					"method":      r.Method,
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
				})

				utils.Error(
					w,
					http.StatusInternalServerError,
					constants.CodeInternalError,
					"An unexpected error occurred while processing your request",
					nil,
				)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
