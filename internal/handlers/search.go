package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/catalog"
	"github.com/Skotchmaster/green_homes/internal/logging"
	"github.com/Skotchmaster/green_homes/internal/models"
	"github.com/Skotchmaster/green_homes/internal/util"
)

type PlantSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.Plant, error)
}

// CatalogSearcher answers searches from the in-memory catalog.
type CatalogSearcher struct {
	Catalog *catalog.Catalog
}

func (s CatalogSearcher) Search(_ context.Context, query string, from, size int) (int64, []models.Plant, error) {
	matched := s.Catalog.Search(catalog.Criteria{Query: query})
	lo, hi := util.Window(len(matched), from, size)
	return int64(len(matched)), matched[lo:hi], nil
}

type SearchHandler struct {
	Searcher PlantSearcher
}

func NewSearchHandler(s PlantSearcher) *SearchHandler {
	return &SearchHandler{Searcher: s}
}

func (h *SearchHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, plants, err := h.Searcher.Search(ctx, q, from, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}
	return c.JSON(http.StatusOK, map[string]any{
		"data": viewsOf(plants),
		"meta": util.NewMeta(page, from, limit, total),
	})
}
