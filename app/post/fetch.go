package post

import (
	"net/http"
	"strconv"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

func PostFetch(c *gin.Context, d *internal.Deps) {
	user := middleware.CurrentUser(c)

	postID := c.Param("id")
	id, err := strconv.ParseUint(postID, 10, 64)
	if err != nil || id == 0 {
		respond.Message(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := service.Authorize(user, service.ViewPost(postID)); err != nil {
		respond.Error(c, err)
		return
	}

	post, err := d.Posts.Get(c.Request.Context(), uint(id))
	if err != nil {
		respond.Error(c, err)
		return
	}

	// author is the requesting user with their posts, without their email
	profile, err := d.Users.Profile(c.Request.Context(), user.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":   post,
		"author": profile.Public(),
	})
}
