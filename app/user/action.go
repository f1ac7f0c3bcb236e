package user

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/service"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type actionBody struct {
	UserID string `json:"userId" binding:"required"`
}

var actions = map[string]struct {
	banned  bool
	message string
}{
	"ban":   {true, "User banned"},
	"unban": {false, "User unbanned"},
}

// UserAction bans or unbans a user
func UserAction(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	action, ok := actions[c.Param("action")]
	if !ok {
		respond.Error(c, service.ErrInvalidAction)
		return
	}

	var body actionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respond.Message(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	actor := middleware.CurrentUser(c)

	target, err := d.Users.SetBanned(c.Request.Context(), actor, body.UserID, action.banned)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": action.message,
	})

	zap.L().Info("Changed ban state",
		zap.String("actorID", actor.ID),
		zap.String("targetID", target.ID),
		zap.Bool("banned", action.banned),
		zap.String("requestID", requestID),
	)
}
