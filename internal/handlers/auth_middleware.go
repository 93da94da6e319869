package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alpha-aviation/enrollment-service/internal/models"
	"github.com/alpha-aviation/enrollment-service/internal/services"
	"github.com/alpha-aviation/enrollment-service/internal/utils"
)

// AuthMiddleware verifies bearer tokens and gates routes by role.
type AuthMiddleware struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthMiddleware(authService services.AuthService, logger utils.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		BaseHandler: NewBaseHandler(logger),
		authService: authService,
	}
}

// Authenticate loads the token's user from the store on every request.
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			am.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
			return
		}

		user, err := am.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				am.log(c).Debug("Rejected token", "error", err)
			}
			am.handleServiceError(c, err, errorMessages{})
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user", user)
		c.Set("user_role", user.Role)
		c.Next()
	}
}

// RequireRoleMiddleware admits only the listed roles. Admins are not implicitly
// allowed on student routes.
func (am *AuthMiddleware) RequireRoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			am.fail(c, http.StatusUnauthorized, "unauthorized", "Not authorized to access this route", nil)
			return
		}

		if !slices.Contains(roles, user.Role) {
			am.log(c).Warn("Role check failed", "user_id", user.ID, "role", user.Role, "required", roles)
			am.fail(c, http.StatusForbidden, "forbidden", "You do not have permission to perform this action", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("invalid user ID type in context")
	}

	return id, nil
}
