package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/snapledger/internal/app/services"
)

// HeaderCycleID carries the id of the cycle a trigger ran.
const HeaderCycleID = "X-Cycle-ID"

// CycleRunner runs one migration cycle.
type CycleRunner interface {
	Run(ctx context.Context) services.Cycle
}

// MigrationRoutes registers the migration trigger.
type MigrationRoutes struct {
	runner  CycleRunner
	timeout time.Duration
}

// NewMigrationRoutes constructs migration routes. A zero timeout leaves the
// cycle bound to the request context only.
func NewMigrationRoutes(runner CycleRunner, timeout time.Duration) *MigrationRoutes {
	return &MigrationRoutes{runner: runner, timeout: timeout}
}

// RegisterRoutes registers migration endpoints.
func (m *MigrationRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/api/v1/migrations", m.handleRunMigration)
	s.POST("/migrate", m.handleRunMigration)
}

func (m *MigrationRoutes) handleRunMigration(c echo.Context) error {
	ctx := c.Request().Context()
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	cycle := m.runner.Run(ctx)
	c.Response().Header().Set(HeaderCycleID, cycle.ID)
	return c.JSON(http.StatusOK, cycle.Sources)
}
