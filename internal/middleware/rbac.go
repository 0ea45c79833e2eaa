package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-scheduler-api/internal/models"
	appErrors "github.com/noah-isme/sma-scheduler-api/pkg/errors"
	"github.com/noah-isme/sma-scheduler-api/pkg/response"
)

// Self in an RBAC list grants access when the route's teacherId (or id)
// parameter equals the caller's user id.
const Self = "SELF"

// RBAC enforces role-based access control. It must run after JWT.
func RBAC(allowed ...string) gin.HandlerFunc {
	roles := make(map[models.UserRole]struct{}, len(allowed))
	allowSelf := false
	for _, a := range allowed {
		if a == Self {
			allowSelf = true
			continue
		}
		roles[models.UserRole(a)] = struct{}{}
	}

	return func(c *gin.Context) {
		claims, ok := c.Get(ContextUserKey)
		user, typed := claims.(*models.JWTClaims)
		if !ok || !typed || user == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := roles[user.Role]; ok {
			c.Next()
			return
		}
		if allowSelf && selfParam(c) != "" && selfParam(c) == user.UserID {
			c.Next()
			return
		}

		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "role "+string(user.Role)+" may not access this resource"))
		c.Abort()
	}
}

// RequireRoles restricts a route to the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return RBAC(roleNames(roles)...)
}

// RequireRolesOrSelf additionally admits the user the route is about.
func RequireRolesOrSelf(roles ...models.UserRole) gin.HandlerFunc {
	return RBAC(append(roleNames(roles), Self)...)
}

func roleNames(roles []models.UserRole) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}

func selfParam(c *gin.Context) string {
	if id := c.Param("teacherId"); id != "" {
		return id
	}
	return c.Param("id")
}
