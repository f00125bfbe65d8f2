package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// NewServer creates a new HTTP server with all routes configured
func NewServer(handler *Handler, apiAccessKey string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
				param.ClientIP,
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.Request.Proto,
				param.StatusCode,
				param.Latency,
				param.Request.UserAgent(),
				param.ErrorMessage,
			)
		},
		SkipPaths: []string{"/health"},
	}))

	r.Use(gin.Recovery())

	setupRoutes(r, handler, apiAccessKey)

	return r
}

func setupRoutes(r *gin.Engine, handler *Handler, apiAccessKey string) {
	r.GET("/health", handler.GetHealth)

	if handler.metrics != nil {
		r.GET("/metrics", handler.GetMetrics)
	}

	imports := r.Group("/")
	if apiAccessKey != "" {
		imports.Use(authMiddleware(apiAccessKey))
		slog.Info("Import endpoint requires an API key")
	} else {
		slog.Warn("Import endpoint is open (API_ACCESS_KEY not set)")
	}
	imports.POST("/import", handler.PostImport)

	r.GET("/", func(c *gin.Context) {
		endpoints := map[string]string{
			"import": "/import (POST form: email, password, group, feed, extra_tags, preview, debug, autocorrect)",
			"health": "/health",
		}
		if handler.metrics != nil {
			endpoints["metrics"] = "/metrics"
		}

		c.JSON(http.StatusOK, gin.H{
			"service":     "Blog Migrate",
			"version":     handler.version,
			"description": "Copies every post of a Blogger blog to Tumblr",
			"endpoints":   endpoints,
			"auth": gin.H{
				"required": apiAccessKey != "",
				"header":   "X-API-Key",
			},
		})
	})

	r.GET("/favicon.ico", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
}

// authMiddleware accepts the key from X-API-Key or an Authorization bearer token.
func authMiddleware(apiAccessKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		providedKey := c.GetHeader("X-API-Key")

		if providedKey == "" {
			authHeader := c.GetHeader("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				providedKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if providedKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "API key required",
				"message": "Provide API key in X-API-Key header or Authorization: Bearer <key>",
			})
			return
		}

		if providedKey != apiAccessKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid API key",
				"message": "The provided API key is not valid",
			})
			return
		}

		c.Next()
	}
}
