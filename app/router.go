// Package app wires the HTTP routes to their handlers
package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/sowzaxx7/8m-community/app/auth"
	"github.com/sowzaxx7/8m-community/app/notification"
	"github.com/sowzaxx7/8m-community/app/post"
	"github.com/sowzaxx7/8m-community/app/root"
	"github.com/sowzaxx7/8m-community/app/user"
	"github.com/sowzaxx7/8m-community/internal"
	"github.com/sowzaxx7/8m-community/internal/storage"
	"github.com/sowzaxx7/8m-community/pkg/middleware"
	"github.com/sowzaxx7/8m-community/pkg/validators"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type RouterOptions struct {
	// Allowed CORS origins
	Origins []string
	// Requests per second per client IP, 0 disables the limiter
	RateLimit int
}

func NewRouter(d *internal.Deps, o RouterOptions) *gin.Engine {
	validators.Register()

	if len(o.Origins) == 0 {
		o.Origins = []string{"http://localhost:3000"}
	}

	router := gin.New()

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	})
	if o.RateLimit > 0 {
		go limiter.Cleanup(nil)
	}

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.Origins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == http.MethodHead
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 8 << 20

	jwt := middleware.NewAuthMiddleware(d.Verifier)

	m := router.Group("/api", limiter.Handler())
	{
		// HEAD /api/heartbeat			-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// GET /api/auth/discord/callback	-> Finishes the Discord login and sets the session cookie
		m.GET("/auth/discord/callback", middleware.SecurityHeaders(), func(c *gin.Context) { auth.DiscordCallback(c, d) })

		// GET /api/notifications		-> Returns all notifications
		m.GET("/notifications", jwt, func(c *gin.Context) { notification.NotificationFetch(c, d) })
	}

	p := m.Group("/posts", jwt)
	{
		// GET /api/posts?tag=			-> Returns the posts of a tag
		p.GET("", func(c *gin.Context) { post.PostList(c, d) })

		// POST /api/posts/create		-> Creates a post with an optional attachment
		p.POST("/create", middleware.BodySizeLimiter(d.Settings.MaxUploadSize), func(c *gin.Context) { post.PostCreate(c, d) })

		// DELETE /api/posts/delete		-> Deletes a post and its attachments (Owner only)
		p.DELETE("/delete", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { post.PostDelete(c, d) })

		// GET /api/posts/:id			-> Returns a post by its ID
		p.GET("/:id", func(c *gin.Context) { post.PostFetch(c, d) })
	}

	u := m.Group("/users", jwt)
	{
		// GET /api/users/me			-> Returns the requesting user
		u.GET("/me", func(c *gin.Context) { user.UserMe(c, d) })

		// POST /api/users/:action		-> Bans or unbans a user (Owner only)
		u.POST("/:action", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { user.UserAction(c, d) })
	}

	switch s := d.Storage.(type) {
	case *storage.Local:
		router.Static(s.PublicPath, s.Dir)
	case nil:
	default:
		router.GET("/uploads/:name", func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, s.URL(c.Param("name")))
		})
	}

	// GET /metrics				-> Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// SplitOrigins turns a comma separated origin list into a slice
func SplitOrigins(s string) []string {
	var origins []string

	for o := range strings.SplitSeq(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return origins
}
