package middleware

import (
	"github.com/mcoot/pocketworld/internal/middleware"
)

// Logging re-exports the shared request logging middleware for the API
// surface
var Logging = middleware.Logging
