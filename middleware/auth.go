package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"renewal-review-api/config"
	"renewal-review-api/models"
	"renewal-review-api/services"
)

const callerKey = "caller"

type Claims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the JWT issued by the institutional identity
// service and resolves the caller's current role row. The resolved caller
// is stored in the request context as a value object; handlers pass it
// explicitly into the workflow services.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get token from header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// Check Bearer prefix
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		// Parse token
		token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*Claims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		// Resolve the caller's current role; the token's role claim may be
		// stale after a role change, the users row is authoritative.
		var user models.User
		if err := config.DB.Where("user_id = ? AND delete_at IS NULL", claims.UserID).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			c.Abort()
			return
		}

		c.Set(callerKey, services.Caller{
			UserID: user.UserID,
			Email:  user.Email,
			Role:   user.RoleID,
			Active: user.IsActive,
		})

		c.Next()
	}
}

// CallerFrom extracts the resolved caller set by AuthMiddleware.
func CallerFrom(c *gin.Context) (services.Caller, bool) {
	value, exists := c.Get(callerKey)
	if !exists {
		return services.Caller{}, false
	}
	caller, ok := value.(services.Caller)
	return caller, ok
}

// RequireRole rejects callers below the given role in the hierarchy
// (staff < reviewer < approver < admin) or with an inactive account.
func RequireRole(minRole int) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "Caller identity missing"})
			c.Abort()
			return
		}

		if !caller.HasRole(minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":         "Insufficient permissions",
				"required_role": models.RoleName(minRole),
				"current_role":  models.RoleName(caller.Role),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
