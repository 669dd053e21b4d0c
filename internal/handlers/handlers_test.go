package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/green_homes/internal/cart"
	"github.com/Skotchmaster/green_homes/internal/catalog"
	"github.com/Skotchmaster/green_homes/internal/logging"
	"github.com/Skotchmaster/green_homes/internal/models"
	"github.com/Skotchmaster/green_homes/internal/session"
	"github.com/Skotchmaster/green_homes/internal/storage"
)

const testSession = "6f1c2b9e-6f6e-4a43-9f0a-0d1e5e7c2a11"

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default()
	require.NoError(t, err)
	return c
}

func validPlant(id string, price float64, stock int) models.Plant {
	return models.Plant{
		ID:                id,
		Name:              id,
		Category:          models.CategoryIndoor,
		Price:             price,
		CareLevel:         models.CareBeginner,
		LightRequirement:  models.LightLow,
		WateringFrequency: models.WaterWeekly,
		Size:              models.SizeSmall,
		Stock:             stock,
		Rating:            4,
	}
}

func newCartHandler(t *testing.T, c *catalog.Catalog) *CartHandler {
	t.Helper()
	m := session.NewManager(storage.NewMemory())
	t.Cleanup(func() { _ = m.Close(context.Background()) })
	return &CartHandler{Catalog: c, Sessions: m}
}

func newContext(method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func withSession(c echo.Context) echo.Context {
	c.Set(session.ContextKey, testSession)
	return c
}

func httpCode(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	return he.Code
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) models.Cart {
	t.Helper()
	var out models.Cart
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestListPlants_FiltersAndPaginates(t *testing.T) {
	t.Parallel()

	h := &PlantHandler{Catalog: defaultCatalog(t)}
	c, rec := newContext(http.MethodGet, "/api/v1/plants?category=indoor&page=1&size=2", nil)
	require.NoError(t, h.ListPlants(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []PlantView `json:"data"`
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
			HasNext    bool  `json:"has_next"`
		} `json:"meta"`
		Filters struct {
			Active []string `json:"active"`
		} `json:"filters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	for _, p := range body.Data {
		assert.Equal(t, models.CategoryIndoor, p.Category)
	}
	assert.Equal(t, int64(5), body.Meta.Total)
	assert.Equal(t, int64(3), body.Meta.TotalPages)
	assert.True(t, body.Meta.HasNext)
	assert.NotEmpty(t, body.Filters.Active)
}

func TestGetPlant(t *testing.T) {
	t.Parallel()

	h := &PlantHandler{Catalog: defaultCatalog(t)}

	c, rec := newContext(http.MethodGet, "/api/v1/plants/indoor-001", nil)
	c.SetParamNames("id")
	c.SetParamValues("indoor-001")
	require.NoError(t, h.GetPlant(c))

	var view PlantView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Snake Plant (Sansevieria)", view.Name)
	assert.True(t, view.InStock)
	assert.Equal(t, 17, view.DiscountPercent)
	assert.Equal(t, 50.0, view.PotPrice)

	c, _ = newContext(http.MethodGet, "/api/v1/plants/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")
	assert.Equal(t, http.StatusNotFound, httpCode(t, h.GetPlant(c)))
}

func TestFeaturedAndHome(t *testing.T) {
	t.Parallel()

	h := &PlantHandler{Catalog: defaultCatalog(t)}

	c, rec := newContext(http.MethodGet, "/api/v1/plants/featured?count=2", nil)
	require.NoError(t, h.Featured(c))
	var featured []PlantView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &featured))
	require.Len(t, featured, 2)
	assert.Equal(t, "outdoor-002", featured[0].ID)

	c, rec = newContext(http.MethodGet, "/api/v1/home", nil)
	require.NoError(t, h.Home(c))
	var home map[string][]PlantView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &home))
	assert.Len(t, home["featured"], catalog.DefaultFeaturedCount)
	assert.Len(t, home["indoor"], 3)
	assert.Len(t, home["outdoor"], 3)
}

func TestRelated(t *testing.T) {
	t.Parallel()

	h := &PlantHandler{Catalog: defaultCatalog(t)}
	c, rec := newContext(http.MethodGet, "/api/v1/plants/indoor-001/related", nil)
	c.SetParamNames("id")
	c.SetParamValues("indoor-001")
	require.NoError(t, h.Related(c))

	var related []PlantView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &related))
	require.Len(t, related, 2)
	assert.Equal(t, "outdoor-002", related[0].ID)
	assert.Equal(t, "outdoor-004", related[1].ID)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	h := NewSearchHandler(CatalogSearcher{Catalog: defaultCatalog(t)})

	c, rec := newContext(http.MethodGet, "/api/v1/search?q=snake", nil)
	require.NoError(t, h.Search(c))
	var body struct {
		Data []PlantView `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)
	assert.Equal(t, "indoor-001", body.Data[0].ID)
	assert.Equal(t, int64(len(body.Data)), body.Meta.Total)

	c, _ = newContext(http.MethodGet, "/api/v1/search?q=%20", nil)
	assert.Equal(t, http.StatusBadRequest, httpCode(t, h.Search(c)))
}

func TestCart_AddItem(t *testing.T) {
	t.Parallel()

	h := newCartHandler(t, defaultCatalog(t))

	c, rec := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "indoor-001", Quantity: 2})
	require.NoError(t, h.AddItem(withSession(c)))
	require.Equal(t, http.StatusCreated, rec.Code)
	got := decodeCart(t, rec)
	assert.Equal(t, 2, got.ItemCount)
	assert.Equal(t, 998.0, got.Total)

	c, rec = newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "indoor-003", PotOption: true})
	require.NoError(t, h.AddItem(withSession(c)))
	got = decodeCart(t, rec)
	assert.Equal(t, 3, got.ItemCount)
	assert.InDelta(t, 1436.9, got.Total, 1e-9)

	c, rec = newContext(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(withSession(c)))
	assert.Len(t, decodeCart(t, rec).Items, 2)
}

func TestCart_AddItemRejects(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New([]models.Plant{validPlant("sold-out", 10, 0)})
	require.NoError(t, err)
	h := newCartHandler(t, cat)

	tests := []struct {
		name string
		body any
		want int
	}{
		{name: "missing plant id", body: AddItemRequest{Quantity: 1}, want: http.StatusBadRequest},
		{name: "unknown plant", body: AddItemRequest{PlantID: "nope"}, want: http.StatusNotFound},
		{name: "out of stock", body: AddItemRequest{PlantID: "sold-out"}, want: http.StatusConflict},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodPost, "/api/v1/cart/items", tt.body)
		assert.Equal(t, tt.want, httpCode(t, h.AddItem(withSession(c))), tt.name)
	}

	c, _ := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "sold-out"})
	assert.Equal(t, http.StatusUnauthorized, httpCode(t, h.AddItem(c)))
}

func TestCart_AddItemCapsToStock(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New([]models.Plant{validPlant("scarce", 10, 3)})
	require.NoError(t, err)
	h := newCartHandler(t, cat)

	var logs bytes.Buffer
	c, rec := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "scarce", Quantity: 5})
	c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), logging.NewWithWriter(&logs, "info"))))
	require.NoError(t, h.AddItem(withSession(c)))
	assert.Equal(t, 3, decodeCart(t, rec).ItemCount)

	var line map[string]any
	require.NoError(t, json.Unmarshal(logs.Bytes(), &line))
	assert.Equal(t, "item added to cart", line["msg"])
	assert.Equal(t, float64(3), line["quantity"])
	assert.Equal(t, float64(5), line["requested"])

	c, _ = newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "scarce"})
	assert.Equal(t, http.StatusConflict, httpCode(t, h.AddItem(withSession(c))))
}

func TestCart_UpdateItem(t *testing.T) {
	t.Parallel()

	h := newCartHandler(t, defaultCatalog(t))

	c, _ := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "indoor-004"})
	require.NoError(t, h.AddItem(withSession(c)))

	update := func(plantID string, body any) (*httptest.ResponseRecorder, error) {
		c, rec := newContext(http.MethodPatch, "/api/v1/cart/items/"+plantID, body)
		c.SetParamNames("plantId")
		c.SetParamValues(plantID)
		return rec, h.UpdateItem(withSession(c))
	}

	qty := 40
	rec, err := update("indoor-004", UpdateItemRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 12, decodeCart(t, rec).ItemCount)

	_, err = update("indoor-004", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, httpCode(t, err))

	one := 1
	_, err = update("indoor-001", UpdateItemRequest{Quantity: &one})
	assert.Equal(t, http.StatusNotFound, httpCode(t, err))

	zero := 0
	rec, err = update("indoor-004", UpdateItemRequest{Quantity: &zero})
	require.NoError(t, err)
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestCart_RemoveClearAndSummary(t *testing.T) {
	t.Parallel()

	h := newCartHandler(t, defaultCatalog(t))
	for _, id := range []string{"outdoor-005", "indoor-005"} {
		c, _ := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: id})
		require.NoError(t, h.AddItem(withSession(c)))
	}

	c, rec := newContext(http.MethodDelete, "/api/v1/cart/items/outdoor-005", nil)
	c.SetParamNames("plantId")
	c.SetParamValues("outdoor-005")
	require.NoError(t, h.RemoveItem(withSession(c)))
	got := decodeCart(t, rec)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "indoor-005", got.Items[0].Plant.ID)

	c, rec = newContext(http.MethodGet, "/api/v1/cart/summary", nil)
	require.NoError(t, h.GetSummary(withSession(c)))
	var summary map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "199", summary["subtotal"])
	assert.Equal(t, "0", summary["shipping"])

	c, rec = newContext(http.MethodDelete, "/api/v1/cart", nil)
	require.NoError(t, h.ClearCart(withSession(c)))
	got = decodeCart(t, rec)
	assert.Empty(t, got.Items)
	assert.Zero(t, got.Total)
}

func TestCart_EndSession(t *testing.T) {
	t.Parallel()

	h := newCartHandler(t, defaultCatalog(t))
	c, _ := newContext(http.MethodPost, "/api/v1/cart/items", AddItemRequest{PlantID: "indoor-001"})
	require.NoError(t, h.AddItem(withSession(c)))
	require.Equal(t, 1, h.Sessions.Len())

	c, rec := newContext(http.MethodDelete, "/api/v1/session", nil)
	require.NoError(t, h.EndSession(withSession(c)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, h.Sessions.Len())

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)

	c, rec = newContext(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(withSession(c)))
	assert.Empty(t, decodeCart(t, rec).Items)
}

func TestCart_UpdateItemSoldOut(t *testing.T) {
	t.Parallel()

	cat, err := catalog.New([]models.Plant{validPlant("sold-out", 10, 0)})
	require.NoError(t, err)
	h := newCartHandler(t, cat)

	// The line predates the stock running out.
	p, err := cat.ByID("sold-out")
	require.NoError(t, err)
	require.NoError(t, h.Sessions.Do(context.Background(), testSession, func(s *cart.Store) error {
		s.Add(p, 2, cart.Options{})
		return nil
	}))

	one := 1
	c, _ := newContext(http.MethodPatch, "/api/v1/cart/items/sold-out", UpdateItemRequest{Quantity: &one})
	c.SetParamNames("plantId")
	c.SetParamValues("sold-out")
	assert.Equal(t, http.StatusConflict, httpCode(t, h.UpdateItem(withSession(c))))

	c, rec := newContext(http.MethodGet, "/api/v1/cart", nil)
	require.NoError(t, h.GetCart(withSession(c)))
	assert.Equal(t, 2, decodeCart(t, rec).ItemCount)
}

func TestCart_AbandonedRequestFails(t *testing.T) {
	t.Parallel()

	h := newCartHandler(t, defaultCatalog(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		call func(echo.Context) error
	}{
		{name: "summary", call: h.GetSummary},
		{name: "remove", call: h.RemoveItem},
		{name: "clear", call: h.ClearCart},
	}
	for _, tt := range tests {
		c, _ := newContext(http.MethodGet, "/api/v1/cart", nil)
		c.SetRequest(c.Request().WithContext(ctx))
		assert.Equal(t, http.StatusInternalServerError, httpCode(t, tt.call(withSession(c))), tt.name)
	}
}
