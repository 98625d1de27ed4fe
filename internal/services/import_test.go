package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-viewer/internal/domain"
)

func exported(id, title, discipline, status, due string) domain.ExportedTask {
	return domain.ExportedTask{ID: domain.ExportID(id), Title: title, Discipline: discipline, Status: status, DueDate: due}
}

func TestImportID(t *testing.T) {
	id := uuid.NewString()
	assert.Equal(t, id, ImportID(owner, id))

	legacy := ImportID(owner, "1712345678901")
	assert.Equal(t, legacy, ImportID(owner, "1712345678901"))
	assert.NotEqual(t, legacy, ImportID("u2", "1712345678901"))
	_, err := uuid.Parse(legacy)
	assert.NoError(t, err)
}

func TestTaskService_Import_ValidatesRows(t *testing.T) {
	c := setupLocalContainer(t)
	ctx := context.Background()
	addDiscipline(t, c, "Física")

	result, err := c.TaskService.Import(ctx, owner, []domain.ExportedTask{
		exported("1", "<script>alert(1)</script>", "Física", "", "2025-04-10"),
		exported("2", strings.Repeat("a", 300), "Física", "", "2025-04-10"),
		exported("3", "", "Física", "", "2025-04-10"),
		exported("4", "Lista", "Math!!", "", "2025-04-10"),
		exported("5", "Lista", "Física", "", "garbage"),
		exported("6", "Lista", "Química", "", "2025-04-10"),
		exported("7", "Lista", "Física", "arquivada", "2025-04-10"),
		exported("", "Sem id", "Física", "", "2025-04-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	reasons := map[string]string{}
	for _, skip := range result.Skipped {
		reasons[skip.ID] = skip.Reason
	}
	require.Len(t, reasons, 7)
	assert.Contains(t, reasons["2"], "title must be at most 255 characters long")
	assert.Contains(t, reasons["3"], "title is required")
	assert.Contains(t, reasons["4"], "discipline contains invalid characters")
	assert.Contains(t, reasons["5"], "dueDate has invalid format")
	assert.Equal(t, "discipline Química does not exist", reasons["6"])
	assert.Contains(t, reasons["7"], "status has invalid value")
	assert.Equal(t, "missing id", reasons[""])

	tasks := c.TaskService.List(ctx, owner)
	require.Len(t, tasks, 1)
	assert.Equal(t, "alert(1)", tasks[0].Title)
	assert.NotContains(t, tasks[0].Title, "<")
	assert.Equal(t, domain.StatusPending, tasks[0].Status)
}

func TestTaskService_Import_ReimportIsSkipped(t *testing.T) {
	c := setupLocalContainer(t)
	ctx := context.Background()
	addDiscipline(t, c, "Física")

	calls := 0
	c.TaskService.SubscribeOwner(owner, func() { calls++ })

	batch := []domain.ExportedTask{
		exported("1712345678901", "Prova", "Física", "em_andamento", "2024-11-05"),
		exported("1712345678902", "Lista", "Física", "concluída", "10 de abril"),
	}
	result, err := c.TaskService.Import(ctx, owner, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 1, calls)

	var task *domain.Task
	for _, candidate := range c.TaskService.List(ctx, owner) {
		if candidate.ID == ImportID(owner, "1712345678901") {
			task = candidate
		}
	}
	require.NotNil(t, task)
	assert.Equal(t, "2024-11-05", task.DueOn)
	assert.Equal(t, domain.StatusInProgress, task.Status)

	result, err = c.TaskService.Import(ctx, owner, batch)
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	require.Len(t, result.Skipped, 2)
	assert.Equal(t, "already imported", result.Skipped[0].Reason)
	assert.Equal(t, 1, calls)
	assert.Len(t, c.TaskService.List(ctx, owner), 2)
}

func TestTaskService_Import_DuplicateInBatch(t *testing.T) {
	c, backend := setupRemoteContainer(t)
	ctx := context.Background()
	addDiscipline(t, c, "Física")

	result, err := c.TaskService.Import(ctx, owner, []domain.ExportedTask{
		exported("a", "Prova", "Física", "", "2025-04-10"),
		exported("a", "Prova de novo", "Física", "", "2025-04-10"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "already imported", result.Skipped[0].Reason)

	records, err := backend.ListTasks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-04-10", records[0].DueDate)
	assert.Equal(t, "pendente", records[0].Status)
}

func TestTaskService_Import_BackendFailure(t *testing.T) {
	c, backend := setupRemoteContainer(t)
	addDiscipline(t, c, "Física")
	backend.fail(errBackendDown)

	_, err := c.TaskService.Import(context.Background(), owner, []domain.ExportedTask{
		exported("a", "Prova", "Física", "", "2025-04-10"),
	})
	assert.ErrorIs(t, err, errBackendDown)
}
