package main

import (
	"kenyaMart/app/echo-server/metrics"
	"kenyaMart/app/echo-server/router"
	"kenyaMart/business/cart"
	"kenyaMart/business/cartsync"
	"kenyaMart/business/checkout"
	"kenyaMart/business/orders"
	"kenyaMart/business/product"
	"kenyaMart/internal/middleware"
	"kenyaMart/internal/rest"
	"kenyaMart/pkg/config"
	"kenyaMart/pkg/eventbus"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type ordersRepository interface {
	checkout.OrdersRepository
	orders.OrdersRepository
}

type orderItemsRepository interface {
	checkout.OrderItemsRepository
	orders.OrderItemsRepository
}

// backend is one store implementation with its change feed.
type backend struct {
	cartItems  cart.CartItemRepository
	products   product.ProductRepository
	orders     ordersRepository
	orderItems orderItemsRepository
	feed       cartsync.ChangeFeed
	close      func()
}

func newServer(cfg *config.Config, b backend, confirmer rest.OrderConfirmer) *echo.Echo {
	// Init validate
	validate := validator.New()

	// One bus for the process. Topics are per owner, so a mutation only
	// wakes that owner's streams on this instance.
	bus := eventbus.New()

	// Init service
	var cartOpts []cart.Option
	if cfg.Cart.SerializeWrites {
		cartOpts = append(cartOpts, cart.WithSerializedWrites())
	}
	cartService := cart.NewCartService(b.cartItems, bus, cartOpts...)
	aggregator := cart.NewAggregator(b.cartItems, b.products, cfg.Cart.AggregateConcurrency)
	productService := product.NewProductService(b.products)
	ordersService := orders.NewOrdersService(b.orders, b.orderItems)
	checkoutService := checkout.NewCheckoutService(aggregator, b.orders, b.orderItems, b.cartItems, bus)

	newSync := func(opts ...cartsync.Option) *cartsync.SyncClient {
		return cartsync.NewSyncClient(aggregator, bus, b.feed, opts...)
	}

	// Init handler
	productHandler := rest.NewProductHandler(productService)
	cartHandler := rest.NewCartHandler(cartService, aggregator, productService, newSync, validate)
	checkoutHandler := rest.NewCheckoutHandler(checkoutService, ordersService, confirmer)
	ordersHandler := rest.NewOrdersHandler(ordersService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.RegisterOnShutdown(cartHandler.CloseStreams)

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "version": cfg.App.Version})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(false)
	streamAuth := middleware.AuthMiddleware(true)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupProductRoutes(api, productHandler)
	router.SetCartRoutes(api, cartHandler, authRequired, streamAuth)
	router.SetCheckoutRoutes(api, checkoutHandler, authRequired)
	router.SetOrdersRoutes(api, ordersHandler, authRequired)

	return e
}
