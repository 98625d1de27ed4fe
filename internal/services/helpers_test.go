package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"task-viewer/internal/config"
	"task-viewer/internal/repository"
	"task-viewer/internal/repository/sqlite"
	"task-viewer/internal/validation"
)

// testNow keeps 2025 dates inside the accepted due date window.
var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func setupContainer(t *testing.T, backend repository.Backend) *ServiceContainer {
	t.Helper()
	return setupContainerWithClock(t, backend, testClock)
}

func setupContainerWithClock(t *testing.T, backend repository.Backend, now func() time.Time) *ServiceContainer {
	t.Helper()
	cfg := config.NewConfig()
	v := validation.NewValidatorWithConfig(cfg).WithClock(now)

	container, err := NewServiceContainerWithValidator(backend, cfg, v)
	require.NoError(t, err)
	return container
}

// setupLocalContainer wires the services to an in-memory local store.
func setupLocalContainer(t *testing.T) *ServiceContainer {
	t.Helper()
	store, err := sqlite.NewWithOptions(sqlite.Options{Path: sqlite.MemoryPath, Now: testClock})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return setupContainer(t, store)
}

// setupRemoteContainer wires the services to an ISO encoded in-process backend.
func setupRemoteContainer(t *testing.T) (*ServiceContainer, *memoryBackend) {
	t.Helper()
	backend := newMemoryBackend()
	return setupContainer(t, backend), backend
}

// steppingClock advances by a minute on every call.
func steppingClock() func() time.Time {
	current := testNow
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}
