package services

import (
	"fmt"

	"task-viewer/internal/config"
	"task-viewer/internal/notify"
	"task-viewer/internal/ratelimit"
	"task-viewer/internal/repository"
	"task-viewer/internal/validation"
)

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Backend           repository.Backend
	TaskService       TaskService
	DisciplineService DisciplineService
	SearchService     SearchService
	ReportingService  ReportingService
	Sync              *Sync
	Limiter           *ratelimit.Limiter
}

// NewServiceContainer wires the services around backend using cfg
func NewServiceContainer(backend repository.Backend, cfg *config.Config) (*ServiceContainer, error) {
	return NewServiceContainerWithValidator(backend, cfg, validation.NewValidatorWithConfig(cfg))
}

// NewServiceContainerWithValidator is NewServiceContainer with a prepared
// validator, letting tests fix the clock.
func NewServiceContainerWithValidator(backend repository.Backend, cfg *config.Config, v *validation.Validator) (*ServiceContainer, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	limiter, err := ratelimit.New(cfg.RateLimit.MaxKeys, ratelimit.WithClock(v.Dates().Now))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limiter: %w", err)
	}
	policy := ratelimit.Policy{Max: cfg.RateLimit.MaxAttempts, Window: cfg.RateLimit.Window}

	taskEvents := notify.NewRegistry()
	disciplineEvents := notify.NewRegistry()

	taskService := NewTaskService(backend, v, taskEvents)
	return &ServiceContainer{
		Backend:           backend,
		TaskService:       taskService,
		DisciplineService: NewDisciplineService(backend, v, limiter, policy, disciplineEvents, taskEvents),
		SearchService:     NewSearchService(taskService),
		ReportingService:  NewReportingService(taskService),
		Sync:              NewSync(backend, taskEvents, disciplineEvents),
		Limiter:           limiter,
	}, nil
}

// Close releases the backend
func (c *ServiceContainer) Close() error {
	return c.Backend.Close()
}
