package middleware

import "github.com/gin-gonic/gin"

var securityHeaders = map[string]string{
	"Content-Security-Policy":   "default-src 'self'",
	"X-Content-Type-Options":    "nosniff",
	"X-Frame-Options":           "DENY",
	"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
	"X-XSS-Protection":          "1; mode=block",
}

func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		for k, v := range securityHeaders {
			c.Header(k, v)
		}

		c.Next()
	}
}
