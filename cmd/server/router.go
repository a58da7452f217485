package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainerrors "donation-platform.backend/internal/domain/errors"
	"donation-platform.backend/internal/interfaces/http/middleware"
	"donation-platform.backend/internal/interfaces/http/response"
)

func applyCORSMiddleware(r *gin.Engine, frontendURL string) {
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{frontendURL},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization",
			middleware.IdempotencyHeader, middleware.RequestIDHeader,
		},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// cacheFor caches successful GET responses by request URI
func cacheFor(ttl time.Duration) gin.HandlerFunc {
	if ttl <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return cache.CacheByRequestURI(persist.NewMemoryStore(ttl), ttl)
}

// registerFallback answers unknown routes. With a static dir, non-API GETs
// get the file if it exists and index.html otherwise so client-side routes
// survive a reload.
func registerFallback(r *gin.Engine, staticDir string) {
	r.NoRoute(func(c *gin.Context) {
		p := c.Request.URL.Path
		isRead := c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead
		if staticDir == "" || !isRead || p == "/api" || strings.HasPrefix(p, "/api/") {
			response.Error(c, domainerrors.NotFound("Route not found"))
			return
		}

		file := filepath.Join(staticDir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join(staticDir, "index.html"))
	})
}
