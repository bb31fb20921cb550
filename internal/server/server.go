package server

import (
	"fmt"
	"os"

	"github.com/eventmaster-dev/eventmaster/config"
	"github.com/eventmaster-dev/eventmaster/internal/handlers"
	"github.com/eventmaster-dev/eventmaster/internal/mailer"
	"github.com/eventmaster-dev/eventmaster/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	mailCfg, err := config.LoadMailConfig()
	if err != nil {
		return fmt.Errorf("failed to load mail config: %v", err)
	}
	m := mailer.New(mailCfg.Server, mailCfg.Port, mailCfg.Username, mailCfg.Password, mailCfg.Sender)

	r := gin.Default()
	r.Use(cors.Default())

	setupRoutes(r, db, m)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, m *mailer.Mailer) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.MailerMiddleware(m))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)
		public.GET("/summary", handlers.Summary)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/search", handlers.SearchEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/my-events", handlers.MyEvents)

		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
			eventProtected.POST("/:id/register", handlers.RegisterForEvent)
			eventProtected.GET("/:id/attendees", handlers.ListAttendees)
			eventProtected.DELETE("/:id/attendees/:attendee_id", handlers.RemoveAttendee)
			eventProtected.GET("/:id/analytics", handlers.EventAnalytics)
		}
	}
}
