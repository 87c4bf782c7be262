package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"imagevault/api"
)

// HandlePanics keeps a panicking handler from tearing down the connection
// without a response. Domain failures never reach here; this is the backstop
// for bugs, and it answers with the same JSON error shape as everything else.
func HandlePanics() gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error().Any("panic", recovered).Str("path", c.Request.URL.Path).Msg("Recovered from panic in handler")
		c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{
			Error: fmt.Sprintf("internal error: %v", recovered),
		})
	}
}
