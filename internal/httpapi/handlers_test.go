package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/internal/board"
	"github.com/mesh-intelligence/taskboard/internal/sqlite"
	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// apiClient drives a fully wired Echo instance over a fresh SQLite store.
type apiClient struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	logger := log.New()
	logger.SetOutput(io.Discard)

	backend := sqlite.NewBackend(logger)
	require.NoError(t, backend.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}))
	t.Cleanup(func() { backend.Detach() })

	e := echo.New()
	Register(e, board.NewService(backend, logger), NewHMACAuth(testSecret, "taskboard", "https://issuer/"), logger)
	return &apiClient{t: t, e: e}
}

// do sends a request as user and returns the recorder. An empty user sends
// no Authorization header.
func (a *apiClient) do(user, method, path, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if user != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(a.t, validClaims(user)))
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// must sends a request and decodes a response with the wanted status into v.
func (a *apiClient) must(user, method, path, body string, want int, v any) {
	a.t.Helper()
	rec := a.do(user, method, path, body)
	require.Equal(a.t, want, rec.Code, rec.Body.String())
	if v != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), v))
	}
}

// setup creates a project, board and one column for alice.
func (a *apiClient) setup() (types.Board, types.Column) {
	var p types.Project
	a.must("alice", http.MethodPost, "/api/projects", `{"name":"Roadmap"}`, http.StatusCreated, &p)
	var b types.Board
	a.must("alice", http.MethodPost, "/api/projects/"+p.ProjectID+"/boards", `{"name":"Q4"}`, http.StatusCreated, &b)
	var col types.Column
	a.must("alice", http.MethodPost, "/api/boards/"+b.BoardID+"/columns", `{"name":"Todo"}`, http.StatusCreated, &col)
	return b, col
}

func (a *apiClient) taskTitles(columnID string) []string {
	var tasks []types.Task
	a.must("alice", http.MethodGet, "/api/columns/"+columnID+"/tasks", "", http.StatusOK, &tasks)
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestHealthz(t *testing.T) {
	api := newAPI(t)
	rec := api.do("", http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresAuth(t *testing.T) {
	api := newAPI(t)
	rec := api.do("", http.MethodGet, "/api/projects", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not.a.token")
	rec = httptest.NewRecorder()
	api.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_TaskLifecycle(t *testing.T) {
	api := newAPI(t)
	b, todo := api.setup()

	for _, title := range []string{"t1", "t2", "t3", "t4"} {
		var task types.Task
		api.must("alice", http.MethodPost, "/api/columns/"+todo.ColumnID+"/tasks",
			fmt.Sprintf(`{"title":%q,"due_date":"2026-11-01"}`, title), http.StatusCreated, &task)
		assert.Equal(t, types.PriorityMedium, task.Priority)
		require.NotNil(t, task.DueDate)
	}
	var tasks []types.Task
	api.must("alice", http.MethodGet, "/api/columns/"+todo.ColumnID+"/tasks", "", http.StatusOK, &tasks)
	require.Len(t, tasks, 4)

	// Move t2 to the end.
	var moved types.Task
	api.must("alice", http.MethodPut, "/api/tasks/"+tasks[1].TaskID, `{"position":4}`, http.StatusOK, &moved)
	assert.Equal(t, 4, moved.Position)
	assert.Equal(t, []string{"t1", "t3", "t4", "t2"}, api.taskTitles(todo.ColumnID))

	// Edit fields and move to another column in one request.
	var done types.Column
	api.must("alice", http.MethodPost, "/api/boards/"+b.BoardID+"/columns", `{"name":"Done"}`, http.StatusCreated, &done)
	api.must("alice", http.MethodPut, "/api/tasks/"+tasks[0].TaskID,
		fmt.Sprintf(`{"completed":true,"column_id":%q,"position":9}`, done.ColumnID), http.StatusOK, &moved)
	assert.True(t, moved.Completed)
	assert.Equal(t, done.ColumnID, moved.ColumnID)
	assert.Equal(t, 1, moved.Position)
	assert.Equal(t, []string{"t3", "t4", "t2"}, api.taskTitles(todo.ColumnID))

	api.must("alice", http.MethodDelete, "/api/tasks/"+tasks[2].TaskID, "", http.StatusNoContent, nil)
	assert.Equal(t, []string{"t4", "t2"}, api.taskTitles(todo.ColumnID))
}

func TestAPI_ColumnUpdate(t *testing.T) {
	api := newAPI(t)
	b, todo := api.setup()
	var doing types.Column
	api.must("alice", http.MethodPost, "/api/boards/"+b.BoardID+"/columns", `{"name":"Doing"}`, http.StatusCreated, &doing)

	var col types.Column
	api.must("alice", http.MethodPut, "/api/columns/"+doing.ColumnID, `{"name":"In Progress","position":1}`, http.StatusOK, &col)
	assert.Equal(t, "In Progress", col.Name)
	assert.Equal(t, 1, col.Position)

	var cols []types.Column
	api.must("alice", http.MethodGet, "/api/boards/"+b.BoardID+"/columns", "", http.StatusOK, &cols)
	require.Len(t, cols, 2)
	assert.Equal(t, todo.ColumnID, cols[1].ColumnID)

	api.must("alice", http.MethodDelete, "/api/columns/"+doing.ColumnID, "", http.StatusNoContent, nil)
	api.must("alice", http.MethodGet, "/api/boards/"+b.BoardID+"/columns", "", http.StatusOK, &cols)
	require.Len(t, cols, 1)
	assert.Equal(t, 1, cols[0].Position)
}

func TestAPI_RejectedMoveDiscardsEdit(t *testing.T) {
	api := newAPI(t)
	b, todo := api.setup()
	var task types.Task
	api.must("alice", http.MethodPost, "/api/columns/"+todo.ColumnID+"/tasks", `{"title":"orig"}`, http.StatusCreated, &task)

	api.must("alice", http.MethodPut, "/api/tasks/"+task.TaskID, `{"title":"renamed","position":99}`, http.StatusUnprocessableEntity, nil)
	assert.Equal(t, []string{"orig"}, api.taskTitles(todo.ColumnID))

	api.must("alice", http.MethodPut, "/api/columns/"+todo.ColumnID, `{"name":"Renamed","position":5}`, http.StatusUnprocessableEntity, nil)
	var cols []types.Column
	api.must("alice", http.MethodGet, "/api/boards/"+b.BoardID+"/columns", "", http.StatusOK, &cols)
	require.Len(t, cols, 1)
	assert.Equal(t, "Todo", cols[0].Name)
}

func TestAPI_StatusMapping(t *testing.T) {
	api := newAPI(t)
	_, todo := api.setup()
	var task types.Task
	api.must("alice", http.MethodPost, "/api/columns/"+todo.ColumnID+"/tasks", `{"title":"a"}`, http.StatusCreated, &task)

	tests := []struct {
		name   string
		user   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing task", "alice", http.MethodDelete, "/api/tasks/nope", "", http.StatusNotFound},
		{"foreign task", "bob", http.MethodPut, "/api/tasks/" + task.TaskID, `{"position":1}`, http.StatusNotFound},
		{"foreign column list", "bob", http.MethodGet, "/api/columns/" + todo.ColumnID + "/tasks", "", http.StatusNotFound},
		{"position past end", "alice", http.MethodPut, "/api/tasks/" + task.TaskID, `{"position":2}`, http.StatusUnprocessableEntity},
		{"position zero", "alice", http.MethodPost, "/api/columns/" + todo.ColumnID + "/tasks", `{"title":"b","position":0}`, http.StatusUnprocessableEntity},
		{"empty title", "alice", http.MethodPost, "/api/columns/" + todo.ColumnID + "/tasks", `{"title":""}`, http.StatusBadRequest},
		{"bad priority", "alice", http.MethodPut, "/api/tasks/" + task.TaskID, `{"priority":"urgent"}`, http.StatusBadRequest},
		{"unknown field", "alice", http.MethodPost, "/api/projects", `{"name":"x","owner":"bob"}`, http.StatusBadRequest},
		{"malformed json", "alice", http.MethodPost, "/api/projects", `{"name":`, http.StatusBadRequest},
		{"bad due date", "alice", http.MethodPost, "/api/columns/" + todo.ColumnID + "/tasks", `{"title":"c","due_date":"soon"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(tt.user, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
	assert.Equal(t, []string{"a"}, api.taskTitles(todo.ColumnID))
}

func TestAPI_ProjectsAndBoards(t *testing.T) {
	api := newAPI(t)
	b, _ := api.setup()

	var projects []types.Project
	api.must("alice", http.MethodGet, "/api/projects", "", http.StatusOK, &projects)
	require.Len(t, projects, 1)
	assert.Equal(t, "alice", projects[0].OwnerID)

	api.must("bob", http.MethodGet, "/api/projects", "", http.StatusOK, &projects)
	assert.Empty(t, projects)

	var boards []types.Board
	api.must("alice", http.MethodGet, "/api/projects/"+b.ProjectID+"/boards", "", http.StatusOK, &boards)
	require.Len(t, boards, 1)

	var got types.Board
	api.must("alice", http.MethodGet, "/api/boards/"+b.BoardID, "", http.StatusOK, &got)
	assert.Equal(t, "Q4", got.Name)
	api.must("bob", http.MethodGet, "/api/boards/"+b.BoardID, "", http.StatusNotFound, nil)

	var p types.Project
	api.must("alice", http.MethodPut, "/api/projects/"+b.ProjectID, `{"color":"#f00","archived":true}`, http.StatusOK, &p)
	assert.Equal(t, "Roadmap", p.Name)
	assert.Equal(t, "#f00", p.Color)
	assert.True(t, p.Archived)
	api.must("alice", http.MethodPut, "/api/projects/"+b.ProjectID, `{"name":""}`, http.StatusBadRequest, nil)
	api.must("bob", http.MethodGet, "/api/projects/"+b.ProjectID, "", http.StatusNotFound, nil)
	api.must("alice", http.MethodGet, "/api/projects/"+b.ProjectID, "", http.StatusOK, &p)
	assert.True(t, p.Archived)

	api.must("bob", http.MethodDelete, "/api/boards/"+b.BoardID, "", http.StatusNotFound, nil)
	api.must("alice", http.MethodDelete, "/api/boards/"+b.BoardID, "", http.StatusNoContent, nil)
	api.must("alice", http.MethodDelete, "/api/projects/"+b.ProjectID, "", http.StatusNoContent, nil)
	api.must("alice", http.MethodGet, "/api/projects", "", http.StatusOK, &projects)
	assert.Empty(t, projects)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("task x: %w", types.ErrNotFound), http.StatusNotFound},
		{types.ErrInvalidPosition, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: busy", types.ErrConflict), http.StatusConflict},
		{types.ErrInvalidName, http.StatusBadRequest},
		{types.ErrInvalidPriority, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
		{context.Canceled, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
