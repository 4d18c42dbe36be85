package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "item-service.com/item-service/internal/http/middlewares"
)

func Register(e *echo.Echo, h *Handler, rateLimitPerMinute int) {
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.GET("/", h.Root)

	e.POST("/items/", h.CreateItem)
	e.GET("/items/", h.ListItems)
	e.GET("/items/jobs/:job_id", h.GetJob)
	e.GET("/items/:item_id", h.GetItem)
	e.PATCH("/items/:item_id", h.UpdateItem)
	e.DELETE("/items/:item_id", h.DeleteItem)
}
