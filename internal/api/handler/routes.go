package handler

import (
	"moodmingle/backend/internal/metrics"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Router builds the gin engine with every HTTP and WebSocket route.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{h.frontendURL},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(metrics.Middleware())
	r.Use(RequestLogger(h.log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/ws", h.ServeWebSocket)

	api := r.Group("/api")
	{
		api.GET("/moods", h.ListMoods)

		api.POST("/users", h.CreateUser)
		api.GET("/users/match/:moodId", h.MatchUsers)
		api.GET("/users/:id", h.GetUser)
		api.PATCH("/users/:id", h.UpdateUser)

		api.GET("/mood/:userId", h.GetMood)
		api.POST("/mood", h.SetMood)

		api.GET("/journal/:userId", h.ListJournal)
		api.POST("/journal", h.CreateJournalEntry)

		api.POST("/heart", h.SendHeart)
		api.GET("/hearts/:userId", h.ListHearts)
		api.PATCH("/hearts/:userId", h.MarkHeartsRead)
		api.PATCH("/hearts/:userId/read", h.MarkHeartsRead)
		api.DELETE("/hearts/:userId", h.ClearHearts)

		api.POST("/private-chat/request", h.RequestPrivateChat)
		api.POST("/private-chat/respond", h.RespondPrivateChat)
		api.GET("/private-chat/requests/:userId", h.ListChatRequests)
		api.DELETE("/private-chat/requests/:userId", h.ClearChatRequests)

		api.GET("/messages/:roomId", h.RoomHistory)
	}

	return r
}
