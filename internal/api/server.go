// Package api serves the task and discipline stores over HTTP.
package api

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"task-viewer/internal/services"
)

type (
	// Options configures the HTTP server.
	Options struct {
		Address        string
		Debug          bool
		DisableReqLogs bool
		Services       *services.ServiceContainer
	}

	// Server is the HTTP API.
	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts       *Options
		app        *echo.Echo
		validate   *validator.Validate
		translator ut.Translator
	}
)

var _ Server = (*server)(nil)

// NewServer builds the echo application and registers every route
func NewServer(opts *Options) Server {
	validate, translator := NewValidator()
	s := &server{
		opts:       opts,
		app:        echo.New(),
		validate:   validate,
		translator: translator,
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in debug mode
	if !s.opts.Debug {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Validator = &appValidator{validate: s.validate}
	s.app.HTTPErrorHandler = NewAppHTTPErrorHandler(s.translator)
	s.app.Debug = s.opts.Debug

	s.app.GET("/health", health)

	v1 := s.app.Group("/v1", ownerMiddleware)
	svc := s.opts.Services

	registerTaskAPI(v1, svc.TaskService, svc.SearchService)
	registerDisciplineAPI(v1, svc.DisciplineService)
	registerStatsAPI(v1, svc.ReportingService)
	registerEventsAPI(v1, svc.TaskService, svc.DisciplineService)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
