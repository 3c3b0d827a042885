// Package fakeapi is a local stand-in for the remote todo service. It speaks
// the same four routes so the client can run offline.
package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/idilsaglam/tada/internal/model"
)

type handler struct {
	db *DB
}

type createRequest struct {
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// New wires the routes onto a fresh echo instance.
func New(db *DB, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	if logger != nil {
		e.Use(requestLogger(logger))
	}

	h := &handler{db: db}
	e.GET("/todos", h.list)
	e.POST("/todos", h.create)
	e.PATCH("/todos/:id", h.update)
	e.DELETE("/todos/:id", h.remove)
	return e
}

func requestLogger(logger *log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"took", time.Since(start),
				"request_id", c.Request().Header.Get("X-Request-ID"))
			return nil
		}
	}
}

func (h *handler) list(c echo.Context) error {
	uid, err := strconv.Atoi(c.QueryParam("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "userId query parameter is required")
	}
	return c.JSON(http.StatusOK, h.db.List(uid))
}

func (h *handler) create(c echo.Context) error {
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Title) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	t, err := h.db.Create(req.UserID, req.Title, req.Completed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *handler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var p model.Patch
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if p.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	if p.Title != nil {
		trimmed := strings.TrimSpace(*p.Title)
		if trimmed == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "title must not be empty")
		}
		p.Title = &trimmed
	}
	t, err := h.db.Update(id, p)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (h *handler) remove(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	err = h.db.Delete(id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a number")
	}
	return id, nil
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
