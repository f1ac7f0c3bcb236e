package post

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/model"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

type createForm struct {
	Title       string                `form:"title" binding:"required"`
	Description string                `form:"description" binding:"required"`
	Tag         string                `form:"tag" binding:"required,forumtag"`
	File        *multipart.FileHeader `form:"file"`
}

func PostCreate(c *gin.Context, d *internal.Deps) {
	var form createForm

	if err := c.ShouldBind(&form); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Message(c, http.StatusRequestEntityTooLarge, "Request body size exceeds limit")
			return
		}

		respond.Message(c, http.StatusBadRequest, "Title, description and a valid tag are required")
		return
	}

	post, err := d.Posts.Create(c.Request.Context(), middleware.CurrentUser(c), service.CreatePostInput{
		Title:       form.Title,
		Description: form.Description,
		Tag:         model.Tag(form.Tag),
		File:        form.File,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Post created",
		"post":    post,
	})
}
