package handler

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/config"
	"hydroshop/storefront/internal/handler/middleware"
	"hydroshop/storefront/internal/session"
)

func SetupRouter(
	cfg *config.Config,
	logger *zap.Logger,
	templates *template.Template,
	sessions session.Manager,
	catalogHandler *CatalogHandler,
	cartHandler *CartHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	if templates != nil {
		r.SetHTMLTemplate(templates)
	}

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Storefront routes carry the shopper's session
	shop := r.Group("/")
	shop.Use(middleware.Session(sessions, logger))
	{
		shop.GET("/", catalogHandler.Index)
		shop.GET("/collections/:handle", catalogHandler.Collection)
		shop.GET("/products/:handle", catalogHandler.Product)

		shop.GET("/cart", cartHandler.Show)
		shop.POST("/cart", cartHandler.Mutate)
	}

	return r
}
