package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/catalog"
	"github.com/Skotchmaster/green_homes/internal/logging"
	"github.com/Skotchmaster/green_homes/internal/models"
	"github.com/Skotchmaster/green_homes/internal/util"
)

const (
	defaultRelatedCount = 4
	homeCategoryCount   = 3
)

type PlantHandler struct {
	Catalog *catalog.Catalog
}

func (h *PlantHandler) ListPlants(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "list.plants")

	criteria := catalog.ParseCriteria(c.QueryParams())
	matched := h.Catalog.Search(criteria)

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)
	lo, hi := util.Window(len(matched), offset, limit)

	l.Debug("plants listed", "matched", len(matched), "page", page)
	return c.JSON(http.StatusOK, map[string]any{
		"data": viewsOf(matched[lo:hi]),
		"meta": util.NewMeta(page, offset, limit, int64(len(matched))),
		"filters": map[string]any{
			"criteria": criteria,
			"active":   criteria.ActiveFilters(),
			"query":    criteria.Values().Encode(),
		},
	})
}

func (h *PlantHandler) GetPlant(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "get.plant")

	p, err := h.Catalog.ByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			l.Warn("get_plant_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "plant not found")
		}
		l.Error("get_plant_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, viewOf(p))
}

func (h *PlantHandler) Featured(c echo.Context) error {
	count := parseIntDefault(c.QueryParam("count"), catalog.DefaultFeaturedCount)
	return c.JSON(http.StatusOK, viewsOf(h.Catalog.Featured(count)))
}

func (h *PlantHandler) Related(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "related.plants")

	p, err := h.Catalog.ByID(c.Param("id"))
	if err != nil {
		l.Warn("related_plants_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}
	count := parseIntDefault(c.QueryParam("count"), defaultRelatedCount)
	return c.JSON(http.StatusOK, viewsOf(h.Catalog.Related(p, count)))
}

// Home returns the sections of the landing page.
func (h *PlantHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"featured": viewsOf(h.Catalog.Featured(catalog.DefaultFeaturedCount)),
		"indoor":   viewsOf(firstN(h.Catalog.ByCategory(models.CategoryIndoor), homeCategoryCount)),
		"outdoor":  viewsOf(firstN(h.Catalog.ByCategory(models.CategoryOutdoor), homeCategoryCount)),
	})
}

func firstN(plants []models.Plant, n int) []models.Plant {
	if len(plants) > n {
		return plants[:n]
	}
	return plants
}
