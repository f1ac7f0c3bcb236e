package auth

import (
	"net/http"

	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/pkg/respond"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CookieName   = "8m.auth"
	cookieMaxAge = 3600
)

// DiscordCallback finishes the Discord login. The browser gets the session
// token as a cookie and is sent back to the forum.
func DiscordCallback(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	token, user, err := d.Sessions.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, token, cookieMaxAge, "/", "", d.Settings.CookieSecure, false)
	c.Redirect(http.StatusTemporaryRedirect, d.Settings.LoginRedirect)

	zap.L().Debug("User logged in", zap.String("userID", user.ID), zap.String("requestID", requestID))
}
