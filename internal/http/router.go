package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crackthecode/internal/http/handlers"
	"crackthecode/internal/http/middleware"
	"crackthecode/internal/service"
	"crackthecode/internal/ws"
)

// Routes - зависимости HTTP поверхности
type Routes struct {
	API       *handlers.Handler
	WS        *ws.WSHandler
	Auth      *service.Auth
	RateLimit gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, rt Routes) {
	r.GET("/healthz", rt.API.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if rt.WS != nil {
		r.GET("/ws/play", rt.WS.HandleWS())
	}

	api := r.Group("/api")
	if rt.RateLimit != nil {
		api.Use(rt.RateLimit)
	}
	api.Use(middleware.Identity(rt.Auth))

	api.GET("/categories", rt.API.ListCategories)
	api.GET("/hint", rt.API.GetHint)

	authed := api.Group("", middleware.RequirePlayer())
	authed.GET("/daily/status", rt.API.DailyStatus)
	authed.POST("/scores", rt.API.SubmitScore)
}
