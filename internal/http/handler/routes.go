package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"processapi/internal/auth"
	"processapi/internal/http/middleware"
	"processapi/internal/kv"
	"processapi/internal/resource"
	"processapi/internal/service"
)

// Dependencies are the collaborators the HTTP routes are built from.
type Dependencies struct {
	DB        *sql.DB
	KV        kv.Factory
	Processes service.ProcessService
	Duplicate *resource.DuplicateProcessResource
	Metrics   prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, deps Dependencies) {
	app.Get("/health", HealthCheck(deps.DB, deps.KV))
	app.Get("/healthz", LivenessProbe())

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/duplicate-process-resource/:processId", DuplicateProcess(deps.Duplicate))
	api.Get("/processes/:id", GetProcess(deps.Processes))
}

// HealthCheck checks DB and key-value backend connectivity.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB, kvf kv.Factory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		if kvf != nil {
			if err := kvf.Ping(ctx); err != nil {
				return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// DuplicateProcess clones an existing process.
//
// @Summary Duplicate a process
// @Description Creates a copy of the process identified by processId. The body holds field overrides for the copy.
// @Tags processes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param processId path string true "Source process ID"
// @Param overrides body map[string]interface{} false "Field overrides"
// @Success 201 {object} model.Process
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/duplicate-process-resource/{processId} [post]
func DuplicateProcess(res *resource.DuplicateProcessResource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		overrides, err := decodeOverrides(c.Body())
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "request body must be a JSON object")
		}

		created, err := res.Create(c.UserContext(), middleware.PrincipalFromCtx(c), c.Params("processId"), overrides)
		if err != nil {
			if errors.Is(err, resource.ErrAccessDenied) {
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		c.Location(created.Location)
		return c.Status(fiber.StatusCreated).JSON(created.Record)
	}
}

// GetProcess returns a process by ID.
//
// @Summary Get a process
// @Tags processes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Process ID"
// @Success 200 {object} model.Process
// @Failure 400 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/processes/{id} [get]
func GetProcess(svc service.ProcessService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !middleware.PrincipalFromCtx(c).HasPermission(auth.PermissionAccessContent) {
			return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		p, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "process not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(p)
	}
}

// decodeOverrides parses the request body. An empty body or JSON null yields an empty map.
func decodeOverrides(body []byte) (map[string]any, error) {
	overrides := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return overrides, nil
	}
	if err := json.Unmarshal(body, &overrides); err != nil {
		return nil, err
	}
	if overrides == nil {
		overrides = map[string]any{}
	}
	return overrides, nil
}
