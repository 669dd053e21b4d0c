package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/green_homes/internal/handlers"
	"github.com/Skotchmaster/green_homes/internal/middleware/csrf"
	"github.com/Skotchmaster/green_homes/internal/session"
)

type Deps struct {
	PlantHandler  *handlers.PlantHandler
	SearchHandler *handlers.SearchHandler
	CartHandler   *handlers.CartHandler
	Issuer        *session.Issuer
	CSRF          csrf.Config
	// Ready reports whether the backing services answer. Nil means always ready.
	Ready func(c echo.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c); err != nil {
				return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
			}
		}
		return c.NoContent(http.StatusOK)
	})

	v1 := e.Group("/api/v1")

	v1.GET("/home", d.PlantHandler.Home)
	v1.GET("/search", d.SearchHandler.Search)

	plants := v1.Group("/plants")
	plants.GET("", d.PlantHandler.ListPlants)
	plants.GET("/featured", d.PlantHandler.Featured)
	plants.GET("/:id", d.PlantHandler.GetPlant)
	plants.GET("/:id/related", d.PlantHandler.Related)

	sess := v1.Group("", session.Middleware(d.Issuer), csrf.Middleware(d.CSRF))

	cart := sess.Group("/cart")
	cart.GET("", d.CartHandler.GetCart)
	cart.GET("/summary", d.CartHandler.GetSummary)
	cart.POST("/items", d.CartHandler.AddItem)
	cart.PATCH("/items/:plantId", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:plantId", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.ClearCart)

	sess.DELETE("/session", d.CartHandler.EndSession)
}
