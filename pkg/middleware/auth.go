package middleware

import (
	"context"
	"strings"

	"github.com/sowzaxx7/8m-community/internal/model"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

// NewAuthMiddleware resolves the bearer token of the request and sets the
// resolved user as user and its ID as userID
func NewAuthMiddleware(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respond.Error(c, service.ErrUnauthenticated)
			return
		}

		user, err := r.Resolve(c.Request.Context(), token)
		if err != nil {
			respond.Error(c, err)
			return
		}

		c.Set("user", user)
		c.Set("userID", user.ID)
		c.Set("token", token)
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value. The
// scheme is matched case-insensitively.
func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// CurrentUser returns the user set by the auth middleware
func CurrentUser(c *gin.Context) *model.User {
	if v, ok := c.Get("user"); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}

	return nil
}
