package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/truthcheck/truthcheck/internal/analysis"
	"github.com/truthcheck/truthcheck/internal/common"
	"github.com/truthcheck/truthcheck/internal/config"
	"github.com/truthcheck/truthcheck/internal/httpapi/handlers"
	"github.com/truthcheck/truthcheck/internal/httpapi/middleware"
	"github.com/truthcheck/truthcheck/internal/store/redisstore"
)

func NewRouter(db *gorm.DB, cfg config.Config, rds *redisstore.Store, pub analysis.Publisher) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())

	r.NoRoute(func(c *gin.Context) {
		common.Fail(c, http.StatusNotFound, 40400, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		common.Fail(c, http.StatusMethodNotAllowed, 40500, "method not allowed")
	})

	r.Use(middleware.RequestID())

	h := handlers.NewHandler(db, cfg, rds, pub)

	r.GET("/ping", h.Ping)

	// identity
	r.POST("/users", h.CreateUser)
	r.GET("/users/confirm", h.ConfirmEmail)
	r.POST("/login", h.Login)

	authGroup := r.Group("/")
	authGroup.Use(middleware.AuthRequired(cfg.JWTSecret, rds))
	authGroup.GET("/me", h.Me)
	authGroup.POST("/logout", h.Logout)

	// analysis (JWT required)
	authGroup.POST("/analyses", h.CreateAnalysis)
	authGroup.GET("/analyses", h.ListAnalyses)
	authGroup.GET("/analyses/:job_id", h.GetAnalysis)
	authGroup.POST("/analyses/:job_id/report", h.GenerateReport)

	// chat widget (JWT required)
	authGroup.POST("/chat/sessions", h.CreateChatSession)
	authGroup.POST("/chat/messages", h.SendChatMessage)
	authGroup.GET("/chat/sessions/:session_id/messages", h.ListChatMessages)
	authGroup.GET("/chat/faq", h.ListFAQ)

	// notifications (JWT required)
	authGroup.GET("/notifications", h.ListNotifications)
	authGroup.POST("/notifications/:id/read", h.MarkNotificationRead)

	return r
}
