package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/openkicks/storefront/internal/handler/api"
	"github.com/openkicks/storefront/internal/middleware"
)

// Deps contains the handlers wired into the API surface.
type Deps struct {
	Products *api.ProductHandler
	Cart     *api.CartHandler
	Checkout *api.CheckoutHandler
	Orders   *api.OrderHandler
	Metrics  *middleware.Metrics
}

// Register mounts all routes on the echo instance.
func Register(e *echo.Echo, deps Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if deps.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	g := e.Group("/api")

	g.GET("/products", deps.Products.List)
	g.GET("/products/:productId", deps.Products.Get)

	g.POST("/cart", deps.Cart.Create)
	g.GET("/cart/:cartId", deps.Cart.Get)
	g.POST("/cart/:cartId/items", deps.Cart.AddItem)
	g.PATCH("/cart/:cartId/items/:itemId", deps.Cart.UpdateItem)
	g.DELETE("/cart/:cartId/items/:itemId", deps.Cart.RemoveItem)
	g.DELETE("/cart/:cartId", deps.Cart.Clear)

	g.POST("/checkout", deps.Checkout.Create)

	g.GET("/orders", deps.Orders.List)
	g.GET("/orders/:orderId", deps.Orders.Get)
}
