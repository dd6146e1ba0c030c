package router

import (
	"html/template"
	"time"

	"github.com/OldiBike/mototrip-planner-sub000/config"
	"github.com/OldiBike/mototrip-planner-sub000/handlers"
	"github.com/OldiBike/mototrip-planner-sub000/middleware"
	"github.com/OldiBike/mototrip-planner-sub000/web"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	Config             *config.Config
	Templates          *template.Template
	RedisClient        *redis.Client // nil disables the search rate limit
	HealthHandler      *handlers.HealthHandler
	CatalogHandler     *handlers.CatalogHandler
	BuilderHandler     *handlers.BuilderHandler
	HotelSearchHandler *handlers.HotelSearchHandler
}

// SetupRouter configures and returns the main Gin engine with all routes defined.
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.Default()
	r.SetHTMLTemplate(deps.Templates)

	// Global Middleware
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(&deps.Config.Server))
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config))

	// Health and Metrics Routes
	r.GET("/health", deps.HealthHandler.DetailedHealth)
	r.GET("/health/liveness", deps.HealthHandler.LivenessCheck)
	r.GET("/health/readiness", deps.HealthHandler.ReadinessCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.StaticFS("/static", web.Static())

	// Everything below belongs to a console session
	consoleRoutes := r.Group("")
	consoleRoutes.Use(middleware.ConsoleSession(deps.Config.Console.SessionCookie, deps.Config.IsProduction()))
	{
		consoleRoutes.GET("/", handlers.Home)
		consoleRoutes.GET("/uploads/:token", deps.CatalogHandler.UploadStatus)

		catalogRoutes := consoleRoutes.Group("/catalog/:resource")
		{
			catalogRoutes.GET("", deps.CatalogHandler.List)
			catalogRoutes.POST("", deps.CatalogHandler.Submit)
			catalogRoutes.GET("/new", deps.CatalogHandler.New)
			catalogRoutes.POST("/close", deps.CatalogHandler.Close)

			itemRoutes := catalogRoutes.Group("/items/:id")
			{
				itemRoutes.GET("/edit", deps.CatalogHandler.Edit)
				itemRoutes.GET("/delete", deps.CatalogHandler.ConfirmDelete)
				itemRoutes.POST("/delete", deps.CatalogHandler.Delete)
				itemRoutes.POST("/reveal", deps.CatalogHandler.Reveal)
				itemRoutes.POST("/photos", deps.CatalogHandler.UploadPhotos)
			}
		}

		builderRoutes := consoleRoutes.Group("/builder/:tripId")
		{
			builderRoutes.GET("", deps.BuilderHandler.Page)
			builderRoutes.POST("/reload", deps.BuilderHandler.Reload)
			builderRoutes.GET("/map", deps.BuilderHandler.Map)
			builderRoutes.POST("/publish", deps.BuilderHandler.Publish)
			builderRoutes.POST("/simulate", deps.BuilderHandler.Simulate)
			builderRoutes.POST("/sale-price", deps.BuilderHandler.SalePrice)
			builderRoutes.POST("/hotel-options", deps.BuilderHandler.HotelOptions)

			builderRoutes.POST("/days", deps.BuilderHandler.NewDay)
			dayRoutes := builderRoutes.Group("/days/:dayId")
			{
				dayRoutes.GET("/edit", deps.BuilderHandler.EditDay)
				dayRoutes.GET("/delete", deps.BuilderHandler.ConfirmDeleteDay)
				dayRoutes.POST("/delete", deps.BuilderHandler.DeleteDay)
				dayRoutes.POST("/gpx", deps.BuilderHandler.RetryGPX)
				dayRoutes.GET("/gallery", deps.BuilderHandler.Gallery)
			}

			modalRoutes := builderRoutes.Group("/modal")
			{
				modalRoutes.POST("/draft", deps.BuilderHandler.Draft)
				modalRoutes.POST("/pois", deps.BuilderHandler.AddPOI)
				modalRoutes.POST("/pois/:index/delete", deps.BuilderHandler.RemovePOI)
				modalRoutes.POST("/restaurants", deps.BuilderHandler.AddRestaurant)
				modalRoutes.POST("/restaurants/:index/delete", deps.BuilderHandler.RemoveRestaurant)
				modalRoutes.POST("/hotel", deps.BuilderHandler.SelectHotel)
				modalRoutes.POST("/save", deps.BuilderHandler.SaveDay)
				modalRoutes.POST("/close", deps.BuilderHandler.CloseDay)
			}

			galleryRoutes := builderRoutes.Group("/gallery")
			{
				galleryRoutes.POST("/next", deps.BuilderHandler.GalleryNext)
				galleryRoutes.POST("/prev", deps.BuilderHandler.GalleryPrev)
				galleryRoutes.POST("/tab", deps.BuilderHandler.GalleryTab)
				galleryRoutes.POST("/close", deps.BuilderHandler.GalleryClose)
			}
		}

		searchRoutes := consoleRoutes.Group("/search/hotels")
		{
			searchRoutes.GET("/suggest", deps.HotelSearchHandler.Suggest)
			searchRoutes.POST("/moto-friendly",
				middleware.SearchRateLimiter(deps.RedisClient, deps.Config.Console.SearchPerMinute, time.Minute),
				deps.HotelSearchHandler.SearchMotoFriendly,
			)
		}
	}

	return r
}
