package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// maxBodySize caps request bodies.
const maxBodySize = 64 << 10

// callerKey is the echo.Context key holding the authenticated caller id.
const callerKey = "caller"

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, svc Board, auth Authenticator, logger *log.Logger) {
	e.GET("/healthz", healthz())

	g := e.Group("/api", requireAuth(auth), logRequests(logger))

	g.POST("/projects", createProject(svc))
	g.GET("/projects", listProjects(svc))
	g.GET("/projects/:id", getProject(svc))
	g.PUT("/projects/:id", updateProject(svc))
	g.DELETE("/projects/:id", deleteProject(svc))

	g.POST("/projects/:id/boards", createBoard(svc))
	g.GET("/projects/:id/boards", listBoards(svc))
	g.GET("/boards/:id", getBoard(svc))
	g.DELETE("/boards/:id", deleteBoard(svc))

	g.POST("/boards/:id/columns", createColumn(svc))
	g.GET("/boards/:id/columns", listColumns(svc))
	g.PUT("/columns/:id", updateColumn(svc))
	g.DELETE("/columns/:id", deleteColumn(svc))

	g.POST("/columns/:id/tasks", createTask(svc))
	g.GET("/columns/:id/tasks", listTasks(svc))
	g.PUT("/tasks/:id", updateTask(svc))
	g.DELETE("/tasks/:id", deleteTask(svc))

	e.HTTPErrorHandler = errorHandler(e, logger)
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func createProject(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createProjectRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		p, err := svc.CreateProject(c.Request().Context(), caller(c), types.Project{
			Name: req.Name, Description: req.Description, Color: req.Color,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, p)
	}
}

func listProjects(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListProjects(c.Request().Context(), caller(c))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getProject(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := svc.GetProject(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func updateProject(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateProjectRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		p, err := svc.UpdateProject(c.Request().Context(), caller(c), c.Param("id"), types.ProjectEdit{
			Name: req.Name, Description: req.Description, Color: req.Color, Archived: req.Archived,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, p)
	}
}

func deleteProject(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.DeleteProject(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func createBoard(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createBoardRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		b, err := svc.CreateBoard(c.Request().Context(), caller(c), types.Board{
			ProjectID: c.Param("id"), Name: req.Name, Description: req.Description,
		})
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, b)
	}
}

func listBoards(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListBoards(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
}

func getBoard(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		b, err := svc.GetBoard(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, b)
	}
}

func deleteBoard(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.DeleteBoard(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func createColumn(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createColumnRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		col, err := svc.CreateColumn(c.Request().Context(), caller(c), c.Param("id"), req.Name, req.Position)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, col)
	}
}

func listColumns(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListColumns(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
}

func updateColumn(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateColumnRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		col, err := svc.UpdateColumn(c.Request().Context(), caller(c), c.Param("id"), req.Name, req.Position)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, col)
	}
}

func deleteColumn(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.DeleteColumn(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func createTask(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTaskRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return err
		}
		task, err := svc.CreateTask(c.Request().Context(), caller(c), types.Task{
			ColumnID:    c.Param("id"),
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			DueDate:     due,
		}, req.Position)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func listTasks(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		list, err := svc.ListTasks(c.Request().Context(), caller(c), c.Param("id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, list)
	}
}

func updateTask(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req updateTaskRequest
		if err := decode(c, &req); err != nil {
			return err
		}
		due, err := parseDueDate(req.DueDate)
		if err != nil {
			return err
		}
		task, err := svc.UpdateTask(c.Request().Context(), caller(c), c.Param("id"), types.TaskEdit{
			Title:       req.Title,
			Description: req.Description,
			Priority:    req.Priority,
			Completed:   req.Completed,
			DueDate:     due,
			ClearDue:    req.ClearDueDate,
		}, req.ColumnID, req.Position)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, task)
	}
}

func deleteTask(svc Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := svc.DeleteTask(c.Request().Context(), caller(c), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// decode reads a JSON body into v, rejecting unknown fields.
func decode(c echo.Context, v any) error {
	dec := sonic.ConfigStd.NewDecoder(io.LimitReader(c.Request().Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// parseDueDate accepts RFC 3339 timestamps and plain dates.
func parseDueDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, *v); err == nil {
			return &t, nil
		}
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid due_date %q", *v))
}

func caller(c echo.Context) string {
	id, _ := c.Get(callerKey).(string)
	return id
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidPosition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidData),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidPriority):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorHandler renders service errors as JSON and leaves Echo's own
// HTTPErrors to their status.
func errorHandler(e *echo.Echo, logger *log.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var status int
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			msg = fmt.Sprint(he.Message)
		} else {
			status = statusFor(err)
		}

		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithField("path", c.Path()).Error("request failed")
			msg = http.StatusText(status)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorResponse{Error: msg})
		}
		if err != nil {
			logger.WithError(err).Warn("writing error response")
		}
	}
}
