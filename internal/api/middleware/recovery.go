package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pocketworld/internal/api/apierr"
	"github.com/mcoot/pocketworld/internal/middleware"
)

// Recovery creates panic recovery middleware that answers in the API's
// JSON error format
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger, apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
