package handlers

import (
	"errors"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/cart"
	"github.com/Skotchmaster/green_homes/internal/catalog"
	"github.com/Skotchmaster/green_homes/internal/logging"
	"github.com/Skotchmaster/green_homes/internal/models"
	"github.com/Skotchmaster/green_homes/internal/session"
)

var (
	errOutOfStock   = errors.New("plant is out of stock")
	errStockReached = errors.New("stock limit reached")
	errNotInCart    = errors.New("plant is not in the cart")
)

// CartHandler exposes the session cart. Stock rules live here, the cart
// store itself never checks stock.
type CartHandler struct {
	Catalog  *catalog.Catalog
	Sessions *session.Manager
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	id, err := session.ID(c)
	if err != nil {
		l.Error("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	var out models.Cart
	if err := h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		out = s.Cart()
		return nil
	}); err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) GetSummary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart.summary")

	id, err := session.ID(c)
	if err != nil {
		l.Error("get_cart_summary_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	var out cart.Summary
	if err := h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		out = cart.Summarize(s.Cart())
		return nil
	}); err != nil {
		l.Error("get_cart_summary_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart.item")

	id, err := session.ID(c)
	if err != nil {
		l.Error("add_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.PlantID == "" {
		l.Warn("add_cart_item_error", "status", 400)
		return echo.NewHTTPError(http.StatusBadRequest, "plantId required")
	}

	p, err := h.Catalog.ByID(req.PlantID)
	if err != nil {
		l.Warn("add_cart_item_error", "status", 404, "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "plant not found")
	}
	if !p.InStock() {
		l.Warn("add_cart_item_error", "status", 409, "error", errOutOfStock, "plant_id", p.ID)
		return echo.NewHTTPError(http.StatusConflict, errOutOfStock.Error())
	}

	qty := max(req.Quantity, 1)
	opts := cart.Options{Size: req.Size, PotOption: req.PotOption}

	var (
		out   models.Cart
		added int
	)
	err = h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		room := p.Stock - s.LineQuantity(p.ID, opts)
		if room <= 0 {
			return errStockReached
		}
		added = min(qty, room)
		out = s.Add(p, added, opts)
		return nil
	})
	if errors.Is(err, errStockReached) {
		l.Warn("add_cart_item_error", "status", 409, "error", err, "plant_id", p.ID)
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	if err != nil {
		l.Error("add_cart_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("item added to cart", "plant_id", p.ID, "quantity", added, "requested", qty)
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart.item")

	id, err := session.ID(c)
	if err != nil {
		l.Error("update_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	plantID := c.Param("plantId")
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "quantity required")
	}
	qty := *req.Quantity

	if qty > 0 {
		p, err := h.Catalog.ByID(plantID)
		if err != nil {
			l.Warn("update_cart_item_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "plant not found")
		}
		if !p.InStock() {
			l.Warn("update_cart_item_error", "status", 409, "error", errStockReached, "plant_id", plantID)
			return echo.NewHTTPError(http.StatusConflict, errStockReached.Error())
		}
		qty = min(qty, p.Stock)
	}

	var out models.Cart
	err = h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		if !slices.ContainsFunc(s.Cart().Items, func(it models.CartItem) bool { return it.Plant.ID == plantID }) {
			return errNotInCart
		}
		out = s.UpdateQuantity(plantID, qty)
		return nil
	})
	if errors.Is(err, errNotInCart) {
		l.Warn("update_cart_item_error", "status", 404, "error", err, "plant_id", plantID)
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		l.Error("update_cart_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("cart item updated", "plant_id", plantID, "quantity", qty)
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "remove.cart.item")

	id, err := session.ID(c)
	if err != nil {
		l.Error("remove_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	plantID := c.Param("plantId")
	var out models.Cart
	if err := h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		out = s.Remove(plantID)
		return nil
	}); err != nil {
		l.Error("remove_cart_item_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("cart item removed", "plant_id", plantID)
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "clear.cart")

	id, err := session.ID(c)
	if err != nil {
		l.Error("clear_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	var out models.Cart
	if err := h.Sessions.Do(ctx, id, func(s *cart.Store) error {
		out = s.Clear()
		return nil
	}); err != nil {
		l.Error("clear_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("cart successfully cleared")
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) EndSession(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "end.session")

	id, err := session.ID(c)
	if err != nil {
		l.Error("end_session_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}

	if err := h.Sessions.End(ctx, id); err != nil {
		l.Error("end_session_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	session.Forget(c)

	l.Info("session ended")
	return c.NoContent(http.StatusNoContent)
}
