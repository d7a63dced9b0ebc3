// Package middleware contain utilities middleware code
package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"

	"BracOut-backend/internal/auth"
	"BracOut-backend/internal/database"
	"BracOut-backend/internal/model"
	"BracOut-backend/internal/utilities"
)

// RequireAuth function is a middleware in Go that validates a Bearer token in the Authorization
// header and checks if the user associated with the token exists and is not expired before allowing
// access to the endpoint.
func RequireAuth(db *database.DBinstanceStruct) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := utilities.ExtractBearerToken(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, utilities.Err(err.Error()))
			return
		}

		token, err := auth.ValidatedToken(tokenString)

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err("Access token expired"))
				return
			}

			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err(
				fmt.Sprintf("Failed to validate token: %s", err.Error())))
			return
		}

		if !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err("Invalid access token"))
			return
		}

		claims := token.Claims.(*jwt.RegisteredClaims)

		if claims.Issuer != auth.JwtIssuer {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err("Invalid token issuer"))
			return
		}

		ctx.Set("claims", claims)

		var foundUser model.User
		if err := db.Preload("Verification").Where("id = ?", claims.Subject).First(&foundUser).Error; err != nil {

			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.Err("User not exist"))
				return
			}

			ctx.AbortWithStatusJSON(http.StatusInternalServerError,
				utilities.ErrInternal("Failed to retrieve user data", err))
			return
		}

		ctx.Set("user", foundUser)
		ctx.Next()
	}
}
