package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-viewer/internal/domain"
)

func TestDisciplineAPI_Create(t *testing.T) {
	tests := []httpTest{
		{name: "valid", body: `{"name":"Física"}`, wantCode: http.StatusCreated},
		{name: "blank", body: `{"name":" "}`, wantCode: http.StatusBadRequest, wantBody: `{"name":"name cannot be blank"}`},
		{name: "invalid characters", body: `{"name":"Física!"}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := setup(t)
			rec := do(t, srv, http.MethodPost, "/v1/disciplines", tt.body)
			checkCodeAndBody(t, tt, rec)
		})
	}
}

func TestDisciplineAPI_List(t *testing.T) {
	srv, _ := setup(t)
	createDiscipline(t, srv, "Química")
	createDiscipline(t, srv, "Física")
	createDiscipline(t, srv, "Física")

	rec := do(t, srv, http.MethodGet, "/v1/disciplines", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Física","Química"]`, rec.Body.String())
}

func TestDisciplineAPI_RateLimited(t *testing.T) {
	srv, _ := setup(t)
	for _, name := range []string{"Física", "Química", "História"} {
		createDiscipline(t, srv, name)
	}

	rec := do(t, srv, http.MethodPost, "/v1/disciplines", `{"name":"Biologia"}`)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"too many attempts, try again later"}`, rec.Body.String())
}

func TestDisciplineAPI_Rename(t *testing.T) {
	srv, _ := setup(t)
	createDiscipline(t, srv, "Fisica")
	createDiscipline(t, srv, "Química")
	createTask(t, srv, `{"title":"Lista","discipline":"Fisica","dueDate":"2025-04-10"}`)

	rec := do(t, srv, http.MethodPut, "/v1/disciplines/Fisica", `{"newName":"Física"}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/disciplines", "")
	assert.JSONEq(t, `["Física","Química"]`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/tasks", "")
	var tasks []domain.Task
	decode(t, rec, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Física", tasks[0].Discipline)

	rec = do(t, srv, http.MethodPut, "/v1/disciplines/"+url.PathEscape("Física"), `{"newName":"Química"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPut, "/v1/disciplines/Qu%C3%ADmica", `{"newName":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisciplineAPI_Delete(t *testing.T) {
	srv, _ := setup(t)
	createDiscipline(t, srv, "História")
	createTask(t, srv, `{"title":"Resumo","discipline":"História","dueDate":"2025-04-10"}`)

	rec := do(t, srv, http.MethodDelete, "/v1/disciplines/Hist%C3%B3ria", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/disciplines", "")
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, srv, http.MethodGet, "/v1/tasks", "")
	var tasks []domain.Task
	decode(t, rec, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, "História", tasks[0].Discipline)
}

func TestStatsAPI(t *testing.T) {
	srv, _ := setup(t)
	createDiscipline(t, srv, "Física")
	task := createTask(t, srv, `{"title":"Lista","discipline":"Física","dueDate":"2025-04-10"}`)
	createTask(t, srv, `{"title":"Resumo","discipline":"Física","dueDate":"2025-04-11"}`)
	rec := do(t, srv, http.MethodPut, "/v1/tasks/"+task.ID+"/status", `{"status":"concluída"}`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/v1/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.Statistics
	decode(t, rec, &stats)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 50, stats.CompletedPercent)
	assert.Equal(t, map[string]int{"Física": 2}, stats.ByDiscipline)
	assert.Equal(t, 1, stats.DueByWeekday["Qui"])
	assert.Equal(t, 1, stats.DueByWeekday["Sex"])
}
