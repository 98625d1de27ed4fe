package api

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"task-viewer/internal/domain"
	"task-viewer/internal/services"
)

type disciplineApi struct {
	svc services.DisciplineService
}

func registerDisciplineAPI(g *echo.Group, svc services.DisciplineService) {
	api := disciplineApi{svc: svc}

	dg := g.Group("/disciplines")
	dg.GET("", api.query)
	dg.POST("", api.create)
	dg.PUT("/:name", api.rename)
	dg.DELETE("/:name", api.destroy)
}

func (api *disciplineApi) query(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.List(ctx.Request().Context(), contextOwner(ctx)))
}

func (api *disciplineApi) create(ctx echo.Context) error {
	var data domain.NewDiscipline
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDiscipline")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	if err := api.svc.Add(ctx.Request().Context(), contextOwner(ctx), data.Name); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *disciplineApi) rename(ctx echo.Context) error {
	var data domain.DisciplineRename
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to DisciplineRename")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	if err := api.svc.Rename(ctx.Request().Context(), contextOwner(ctx), nameParam(ctx), data.NewName); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *disciplineApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), contextOwner(ctx), nameParam(ctx)); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// nameParam returns the decoded :name path segment.
func nameParam(ctx echo.Context) string {
	raw := ctx.Param("name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
