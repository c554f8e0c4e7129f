package router

import (
	"kenyaMart/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.GetLatestProducts)
	products.GET("/:id", handler.GetProductByID)
}

// SetCartRoutes registers the cart. streamAuth differs from authRequired
// only in also accepting the token as a query parameter.
func SetCartRoutes(api *echo.Group, handler *rest.CartHandler, authRequired, streamAuth echo.MiddlewareFunc) {
	cart := api.Group("/cart")

	cart.GET("", handler.GetCart, authRequired)
	cart.GET("/stream", handler.Stream, streamAuth)
	cart.POST("/items", handler.AddItem, authRequired)
	cart.PUT("/items/:id", handler.UpdateItem, authRequired)
	cart.DELETE("/items/:id", handler.RemoveItem, authRequired)
}

func SetCheckoutRoutes(api *echo.Group, handler *rest.CheckoutHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/checkout", handler.PlaceOrder, authRequired)
}

func SetOrdersRoutes(api *echo.Group, ordersHandler *rest.OrdersHandler, authRequired echo.MiddlewareFunc) {
	orders := api.Group("/orders", authRequired)
	orders.GET("", ordersHandler.GetAllOrders)
	orders.GET("/:id", ordersHandler.GetOrderByID)
}
