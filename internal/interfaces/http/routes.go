package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler, auth AuthService, allowedOrigins []string) {
	if len(allowedOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = allowedOrigins
		corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
		router.Use(cors.New(corsCfg))
	}

	authRoutes := router.Group("/api/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
		authRoutes.GET("/me", AuthRequired(auth), handler.Me)
	}

	stocks := router.Group("/api/stocks")
	{
		stocks.GET("/list", handler.ListStocks)
		stocks.GET("/search", handler.SearchStocks)
		stocks.GET("/:code", handler.GetStock)
	}

	stock := router.Group("/api/stock")
	{
		stock.GET("/current/:code", handler.GetCurrentPrice)
		stock.GET("/chart/:code", handler.GetChart)
		stock.GET("/summary/:code", handler.GetSummary)
		stock.GET("/news/:code", handler.GetNews)
	}

	watchlist := router.Group("/api/watchlist", AuthRequired(auth))
	{
		watchlist.GET("", handler.ListWatchlist)
		watchlist.POST("", handler.AddToWatchlist)
		watchlist.DELETE("/:code", handler.RemoveFromWatchlist)
		watchlist.GET("/check/:code", handler.CheckWatchlist)
	}

	portfolio := router.Group("/api/portfolio", AuthRequired(auth))
	{
		portfolio.GET("", handler.GetPortfolio)
		portfolio.POST("", handler.AddLot)
		portfolio.PUT("/:id", handler.UpdateLot)
		portfolio.DELETE("/:id", handler.RemoveLot)
	}

	router.GET("/health", handler.Health)
}
