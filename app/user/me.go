package user

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

// UserMe answers the requesting user with their posts, and echoes the token
// so the frontend can keep it
func UserMe(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	if err := service.Authorize(user, service.ViewProfile()); err != nil {
		respond.Error(c, err)
		return
	}

	profile, err := d.Users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  profile,
		"token": c.GetString("token"),
	})
}
