package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// CheckBlocked rejects users whose spam score crossed the auto-block
// threshold or who were blocked manually by an admin.
func CheckBlocked() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utilities.ExtractUser(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err(err.Error()))
			return
		}

		// Admin can't be blocked
		if user.Role == model.RoleAdmin {
			ctx.Next()
			return
		}

		if user.IsBlocked {
			ctx.AbortWithStatusJSON(http.StatusForbidden, utilities.Err(
				"Your account has been blocked. Contact an administrator."))
			return
		}

		ctx.Next()
	}
}
