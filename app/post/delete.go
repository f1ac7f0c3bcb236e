package post

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

type deleteBody struct {
	PostID uint `json:"postId" binding:"required"`
}

func PostDelete(c *gin.Context, d *internal.Deps) {
	var body deleteBody

	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Message(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	err := d.Posts.Delete(c.Request.Context(), middleware.CurrentUser(c), body.PostID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post deleted",
	})
}
