package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/Marga-Ghale/ora-boards-backend/internal/models"
	"github.com/Marga-Ghale/ora-boards-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "userID"

// AuthMiddleware rejects requests without a valid bearer token.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c.GetHeader("Authorization"))
		if problem != "" {
			log.Printf("❌ [Auth] %s - %s %s", problem, c.Request.Method, c.Request.URL.Path)
			unauthorized(c, problem)
			return
		}

		userID, err := authService.UserIDFromToken(token)
		if err != nil {
			log.Printf("❌ [Auth] Rejected token - %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// bearerToken returns the token or a message describing what is wrong
// with the header.
func bearerToken(header string) (string, string) {
	if header == "" {
		return "", "Authorization header required"
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", "Invalid authorization header format"
	}
	return token, ""
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, models.APIResponse{Success: false, Message: message})
}

// GetUserID returns the authenticated user id, or "" outside AuthMiddleware.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// RequireUserID writes a 401 when no user is on the context.
func RequireUserID(c *gin.Context) (string, bool) {
	if userID := GetUserID(c); userID != "" {
		return userID, true
	}
	unauthorized(c, "User not authenticated")
	return "", false
}
