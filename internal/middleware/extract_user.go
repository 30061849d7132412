package middleware

import (
	"net/http"

	"github.com/Dilshan-Pathirana/HMS-Dilshan-sub004/internal/shared/response"

	"github.com/gin-gonic/gin"
)

func ExtractUserID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID, exists := ctx.Get("user_id")
		if !exists {
			response.Error(ctx, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated", nil)
			ctx.Abort()
			return
		}

		userIDStr, ok := userID.(string)
		if !ok || userIDStr == "" {
			response.Error(ctx, http.StatusUnauthorized, "INVALID_USER_ID", "Malformed user_id", nil)
			ctx.Abort()
			return
		}

		// Re-set under a key that is guaranteed to hold a string
		ctx.Set("user_id_validated", userIDStr)
		ctx.Next()
	}
}
