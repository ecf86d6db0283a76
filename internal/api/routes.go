// Package api exposes the HTTP surface: strategy planning, content review,
// manual task execution, the autopilot controls and the SSE event stream.
package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(h *Handlers) *gin.Engine {
	router := gin.Default()

	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/analyze", h.AnalyzeWebsite)

		strategy := api.Group("/strategy")
		{
			strategy.POST("/generate", h.GenerateStrategy)
			strategy.GET("", h.GetStrategy)
		}

		api.GET("/state", h.GetState)

		content := api.Group("/content")
		{
			content.GET("", h.ListContent)
			content.GET("/:id", h.GetContent)
			content.PUT("/:id", h.UpdateContent)
			content.POST("/:id/approve", h.ApproveContent)
			content.POST("/:id/reject", h.RejectContent)
			content.POST("/:id/publish", h.PublishContent)
		}

		api.POST("/tasks/:id/execute", h.ExecuteTask)
		api.POST("/publish/approved", h.PublishApprovedContent)

		auto := api.Group("/autopilot")
		{
			auto.POST("/start", h.StartAutopilot)
			auto.POST("/stop", h.StopAutopilot)
			auto.GET("/status", h.AutopilotStatus)
			auto.GET("/events", h.AutopilotEvents)
		}

		api.POST("/audio/podcast/:id", h.SynthesizePodcast)
		api.GET("/video/operations/*name", h.VideoOperation)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

// corsMiddleware adds CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
