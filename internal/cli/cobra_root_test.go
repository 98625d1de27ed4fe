package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-viewer/internal/domain"
)

func listTasks(t *testing.T, env *testEnv, args ...string) []domain.Task {
	t.Helper()
	out, err := env.run(t, append([]string{"task", "list", "-o", "json"}, args...)...)
	require.NoError(t, err)
	var tasks []domain.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks), out)
	return tasks
}

func TestRootCommand_Scenario(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "discipline", "add", "Física")
	require.NoError(t, err)
	assert.Contains(t, out, "Added discipline Física")

	out, err = env.run(t, "task", "add", "--title", "Ler capítulo 3", "--discipline", "Física", "--due", "2025-04-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Ler capítulo 3 (Física, 10 de abril) pendente")

	tasks := listTasks(t, env)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, domain.StatusPending, task.Status)
	assert.Equal(t, "2025-04-10", task.DueOn)

	out, err = env.run(t, "task", "status", task.ID, "em-andamento")
	require.NoError(t, err)
	assert.Contains(t, out, "is now em-andamento")

	tasks = listTasks(t, env)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.StatusInProgress, tasks[0].Status)
	assert.Equal(t, "10 de abril", tasks[0].DueDate)

	out, err = env.run(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Ler capítulo 3")
	assert.Contains(t, out, "em-andamento")

	_, err = env.run(t, "task", "delete", task.ID)
	require.NoError(t, err)

	out, err = env.run(t, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found")
}

func TestRootCommand_TaskUpdate(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.run(t, "discipline", "add", "Física")
	require.NoError(t, err)
	_, err = env.run(t, "task", "add", "--title", "Lista", "--discipline", "Física", "--due", "2025-04-10")
	require.NoError(t, err)
	id := listTasks(t, env)[0].ID

	tests := []struct {
		name    string
		args    []string
		wantErr string
		check   func(t *testing.T, task domain.Task)
	}{
		{
			name: "title and status token",
			args: []string{"--title", "Lista 2", "--status", "concluida"},
			check: func(t *testing.T, task domain.Task) {
				assert.Equal(t, "Lista 2", task.Title)
				assert.Equal(t, domain.StatusCompleted, task.Status)
			},
		},
		{
			name: "clear description",
			args: []string{"--description", ""},
			check: func(t *testing.T, task domain.Task) {
				assert.Empty(t, task.Description)
			},
		},
		{
			name: "due date in display form",
			args: []string{"--due", "5 de maio"},
			check: func(t *testing.T, task domain.Task) {
				assert.Equal(t, "2025-05-05", task.DueOn)
			},
		},
		{name: "no flags", args: nil, wantErr: "nothing to update"},
		{name: "blank title", args: []string{"--title", " "}, wantErr: "failed to update task"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, append([]string{"task", "update", id}, tt.args...)...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, listTasks(t, env)[0])
		})
	}
}

func TestRootCommand_Errors(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.run(t, "discipline", "add", "Física")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown discipline", args: []string{"task", "add", "--title", "Lista", "--discipline", "Química", "--due", "2025-04-10"},
			wantErr: "discipline does not exist"},
		{name: "invalid due date", args: []string{"task", "add", "--title", "Lista", "--discipline", "Física", "--due", "ontem"},
			wantErr: "failed to add task"},
		{name: "unknown status", args: []string{"task", "status", "t1", "feita"}, wantErr: "status must be one of"},
		{name: "bad list status", args: []string{"task", "list", "--status", "feita"}, wantErr: "unknown status"},
		{name: "bad list due", args: []string{"task", "list", "--due", "10 de abril"}, wantErr: "failed to list tasks"},
		{name: "unsupported format", args: []string{"task", "list", "-o", "xml"}, wantErr: "format must be one of"},
		{name: "invalid discipline name", args: []string{"discipline", "add", "Física!"}, wantErr: "failed to add discipline"},
		{name: "missing args", args: []string{"discipline", "rename", "Física"}, wantErr: "accepts 2 arg(s)"},
		{name: "invalid log format", args: []string{"stats", "--log-format", "xml"}, wantErr: "failed to load configuration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRootCommand_Disciplines(t *testing.T) {
	env := setupTestEnv(t)
	for _, name := range []string{"Química", "Fisica", "Fisica"} {
		_, err := env.run(t, "discipline", "add", name)
		require.NoError(t, err)
	}
	_, err := env.run(t, "task", "add", "--title", "Lista", "--discipline", "Fisica", "--due", "2025-04-10")
	require.NoError(t, err)

	out, err := env.run(t, "discipline", "list")
	require.NoError(t, err)
	assert.Equal(t, "Fisica\nQuímica\n", out)

	_, err = env.run(t, "discipline", "rename", "Fisica", "Física")
	require.NoError(t, err)
	assert.Equal(t, "Física", listTasks(t, env)[0].Discipline)

	_, err = env.run(t, "discipline", "rename", "Física", "Química")
	assert.Error(t, err)

	_, err = env.run(t, "discipline", "delete", "Física")
	require.NoError(t, err)

	out, err = env.run(t, "discipline", "list", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `["Química"]`, out)
	assert.Equal(t, "Física", listTasks(t, env)[0].Discipline)
}

func TestRootCommand_RateLimit(t *testing.T) {
	env := setupTestEnv(t)

	var err error
	for i := 0; i < env.cfg.RateLimit.MaxAttempts; i++ {
		_, err = env.run(t, "discipline", "add", "Física")
		require.NoError(t, err)
	}

	_, err = env.run(t, "discipline", "add", "Química")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many attempts, try again later")
}

func TestRootCommand_OwnerFlag(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.run(t, "discipline", "add", "Física")
	require.NoError(t, err)

	out, err := env.run(t, "discipline", "list", "--owner", "u2", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestRootCommand_Stats(t *testing.T) {
	env := setupTestEnv(t)
	_, err := env.run(t, "discipline", "add", "Física")
	require.NoError(t, err)
	_, err = env.run(t, "task", "add", "--title", "Lista", "--discipline", "Física", "--due", "2025-04-10")
	require.NoError(t, err)

	out, err := env.run(t, "stats", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "total: 1")
	assert.Contains(t, out, "pending: 1")

	out, err = env.run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total")
	assert.Contains(t, out, "Física")
	assert.Contains(t, out, "Qui")
}

func TestRootCommand_Serve(t *testing.T) {
	env := setupTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err := env.runContext(ctx, "serve", "--addr", "127.0.0.1:0")
	assert.NoError(t, err)
}

func TestNeedsBackend(t *testing.T) {
	root := NewRootCommand(RootOptions{})
	find := func(args ...string) *cobra.Command {
		cmd, _, err := root.Command().Find(args)
		require.NoError(t, err)
		return cmd
	}

	assert.True(t, needsBackend(find("task", "list")))
	assert.True(t, needsBackend(find("serve")))
	assert.False(t, needsBackend(find("task")))
	assert.False(t, needsBackend(root.Command()))
}
