package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"task-viewer/internal/repository"
	"task-viewer/internal/services"
)

// changeEvent is the payload of one server-sent "change" event.
type changeEvent struct {
	Resource repository.Resource `json:"resource"`
}

type eventsApi struct {
	tasks       services.TaskService
	disciplines services.DisciplineService
}

func registerEventsAPI(g *echo.Group, tasks services.TaskService, disciplines services.DisciplineService) {
	api := eventsApi{tasks: tasks, disciplines: disciplines}
	g.GET("/events", api.stream)
}

// stream writes one "change" event per notification concerning the caller's
// owner until the client goes away. Notifications arriving while the client
// is slow are dropped once the buffer is full.
func (api *eventsApi) stream(ctx echo.Context) error {
	flusher, ok := ctx.Response().Writer.(http.Flusher)
	if !ok {
		return errNoStreaming
	}

	events := make(chan repository.Resource, 16)
	send := func(resource repository.Resource) func() {
		return func() {
			select {
			case events <- resource:
			default:
			}
		}
	}
	owner := contextOwner(ctx)
	unsubscribeTasks := api.tasks.SubscribeOwner(owner, send(repository.ResourceTasks))
	defer unsubscribeTasks()
	unsubscribeDisciplines := api.disciplines.SubscribeOwner(owner, send(repository.ResourceDisciplines))
	defer unsubscribeDisciplines()

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	if _, err := fmt.Fprint(res, ": connected\n\n"); err != nil {
		return nil
	}
	flusher.Flush()

	slog.Debug("event stream opened", "owner", owner)
	defer slog.Debug("event stream closed", "owner", owner)

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case resource := <-events:
			data, _ := json.Marshal(changeEvent{Resource: resource})
			if _, err := fmt.Fprintf(res, "event: change\ndata: %s\n\n", data); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}
