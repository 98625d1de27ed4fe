package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"task-viewer/internal/services"
)

func registerStatsAPI(g *echo.Group, svc services.ReportingService) {
	g.GET("/stats", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, svc.Statistics(ctx.Request().Context(), contextOwner(ctx)))
	})
}
