package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"task-viewer/internal/codec"
	"task-viewer/internal/domain"
	apperrors "task-viewer/internal/errors"
	"task-viewer/internal/services"
)

// StatusRequest is the body of a status change.
type StatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

// TaskQuery holds the list filters read from the query string.
type TaskQuery struct {
	Text       string `query:"q"`
	DueOn      string `query:"due"`
	Discipline string `query:"discipline"`
	Status     string `query:"status"`
}

func (q TaskQuery) options() (domain.SearchOptions, error) {
	opts := domain.SearchOptions{Text: q.Text, DueOn: q.DueOn, Discipline: q.Discipline}
	if q.Status != "" {
		status, err := codec.ParseStatus(q.Status)
		if err != nil {
			return opts, apperrors.NewInvalidInputError("status", q.Status, "unknown status")
		}
		opts.Status = &status
	}
	return opts, nil
}

type taskApi struct {
	tasks  services.TaskService
	search services.SearchService
}

func registerTaskAPI(g *echo.Group, tasks services.TaskService, search services.SearchService) {
	api := taskApi{tasks: tasks, search: search}

	tg := g.Group("/tasks")
	tg.GET("", api.query)
	tg.POST("", api.create)
	tg.PATCH("/:id", api.update)
	tg.PUT("/:id/status", api.changeStatus)
	tg.DELETE("/:id", api.destroy)
}

func (api *taskApi) query(ctx echo.Context) error {
	var q TaskQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(ctx, &q); err != nil {
		return errors.Wrap(err, "binding to TaskQuery")
	}
	opts, err := q.options()
	if err != nil {
		return err
	}

	tasks, err := api.search.Search(ctx.Request().Context(), contextOwner(ctx), opts)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *taskApi) create(ctx echo.Context) error {
	var data domain.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	task, err := api.tasks.Add(ctx.Request().Context(), contextOwner(ctx), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, task)
}

func (api *taskApi) update(ctx echo.Context) error {
	var data domain.TaskPatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TaskPatch")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}

	if err := api.tasks.Update(ctx.Request().Context(), contextOwner(ctx), ctx.Param("id"), data); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) changeStatus(ctx echo.Context) error {
	var data StatusRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StatusRequest")
	}
	if err := ctx.Validate(data); err != nil {
		return err
	}
	status, _ := codec.ParseStatus(data.Status)

	if err := api.tasks.ChangeStatus(ctx.Request().Context(), contextOwner(ctx), ctx.Param("id"), status); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *taskApi) destroy(ctx echo.Context) error {
	if err := api.tasks.Delete(ctx.Request().Context(), contextOwner(ctx), ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
