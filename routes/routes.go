package routes

import (
	"net/http"
	"time"

	"poolchill/handlers"
	"poolchill/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the redirect-callback listener's endpoints.
func RegisterRoutes(r *gin.Engine, cb *handlers.CallbackHandler) {
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	// The external flows (e-mail confirmation, identity provider) all land
	// here with their respective query parameters.
	r.GET("/callback", cb.HandleCallback)

	// Read-only snapshot for hosted pages polling the local listener.
	r.GET("/wizard/state", cb.WizardState)

	RegisterHealthRoute(r)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Pool & Chill"})
	})
}
