package routes

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fr0stylo/snapledger/internal/app/domain"
	"github.com/fr0stylo/snapledger/internal/app/ports"
)

const (
	defaultCollectionLimit = 20
	maxCollectionLimit     = 200
)

// APIRoutes registers the read-only ledger endpoints.
type APIRoutes struct {
	reader ports.ContentReader
}

// NewAPIRoutes constructs API routes.
func NewAPIRoutes(reader ports.ContentReader) *APIRoutes {
	return &APIRoutes{reader: reader}
}

// RegisterRoutes registers API endpoints.
func (a *APIRoutes) RegisterRoutes(s *echo.Echo) {
	api := s.Group("/api/v1")

	api.GET("/sources", a.handleListSources)
	api.GET("/sources/:name/collections", a.handleListCollections)
}

func (a *APIRoutes) handleListSources(c echo.Context) error {
	sources, err := a.reader.ListSources(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list sources failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, mapSources(sources))
}

func (a *APIRoutes) handleListCollections(c echo.Context) error {
	ctx := c.Request().Context()
	name := strings.TrimSpace(c.Param("name"))

	limit := int64(defaultCollectionLimit)
	if err := echo.QueryParamsBinder(c).Int64("limit", &limit).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "limit must be an integer")
	}
	if limit <= 0 {
		limit = defaultCollectionLimit
	}
	limit = min(limit, maxCollectionLimit)

	source, err := a.reader.GetSourceByName(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "unknown source")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "load source failed").SetInternal(err)
	}

	collections, err := a.reader.ListCollections(ctx, source.ID, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "list collections failed").SetInternal(err)
	}
	return c.JSON(http.StatusOK, mapCollections(collections))
}
