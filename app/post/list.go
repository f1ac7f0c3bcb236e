package post

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/model"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

// PostList answers the posts of one tag. length is the number of posts across
// all tags.
func PostList(c *gin.Context, d *internal.Deps) {
	if err := service.Authorize(middleware.CurrentUser(c), service.ListPosts()); err != nil {
		respond.Error(c, err)
		return
	}

	tag := model.Tag(c.Query("tag"))

	posts, err := d.Posts.List(c.Request.Context(), tag)
	if err != nil {
		respond.Error(c, err)
		return
	}

	total, err := d.Posts.Count(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":  posts,
		"length": total,
	})
}
