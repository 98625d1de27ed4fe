package cli

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"task-viewer/internal/config"
	"task-viewer/internal/repository/sqlite"
	"task-viewer/internal/services"
	"task-viewer/internal/validation"
)

const owner = "u1"

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

type testEnv struct {
	cfg       *config.Config
	container *services.ServiceContainer
	store     *sqlite.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	color.NoColor = true

	store, err := sqlite.NewWithOptions(sqlite.Options{Path: sqlite.MemoryPath, Now: testClock})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := config.NewConfig()
	cfg.Commands.DefaultOwner = owner
	cfg.Server.ShutdownTimeout = time.Second
	v := validation.NewValidatorWithConfig(cfg).WithClock(testClock)
	container, err := services.NewServiceContainerWithValidator(store, cfg, v)
	require.NoError(t, err)

	return &testEnv{cfg: cfg, container: container, store: store}
}

// run executes tv with args against the shared store and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runContext(context.Background(), args...)
}

func (e *testEnv) runContext(ctx context.Context, args ...string) (string, error) {
	cfg := *e.cfg
	root := NewRootCommand(RootOptions{Config: &cfg, Services: e.container})

	var out, errOut bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&errOut)
	root.Command().SetArgs(args)

	err := root.ExecuteContext(ctx)
	return out.String(), err
}

func (e *testEnv) newApp(t *testing.T, out *syncBuffer) *App {
	t.Helper()
	app, err := NewApp(e.container, e.cfg, out)
	require.NoError(t, err)
	return app
}

// syncBuffer is a bytes.Buffer safe for a writer and a reader goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
