package notification

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
)

func NotificationFetch(c *gin.Context, d *internal.Deps) {
	if err := service.Authorize(middleware.CurrentUser(c), service.ListNotifications()); err != nil {
		respond.Error(c, err)
		return
	}

	notifications, err := d.Notifier.List(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"length":        len(notifications),
	})
}
