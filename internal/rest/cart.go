package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"kenyaMart/business/cart"
	"kenyaMart/business/cartsync"
	"kenyaMart/domain"
	"kenyaMart/internal/middleware"
	"kenyaMart/pkg/logger"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	CartService interface {
		AddToCart(ctx context.Context, owner, productID string, quantity int) (domain.CartItem, error)
		SetQuantity(ctx context.Context, owner, itemID string, quantity int) error
		RemoveItem(ctx context.Context, owner, itemID string) error
		FindItem(ctx context.Context, owner, itemID string) (domain.CartItem, error)
	}

	CartSummarizer interface {
		ComputeSummary(ctx context.Context, owner string) (domain.CartSummary, error)
	}

	ProductFinder interface {
		GetProduct(ctx context.Context, id string) (domain.Product, error)
	}

	// SyncClientFactory builds the per connection client behind the cart
	// stream.
	SyncClientFactory func(opts ...cartsync.Option) *cartsync.SyncClient

	CartHandler struct {
		validate    *validator.Validate
		cartService CartService
		summarizer  CartSummarizer
		products    ProductFinder
		newSync     SyncClientFactory
		timeout     time.Duration
		heartbeat   time.Duration
		closing     chan struct{}
		closeOnce   sync.Once
	}

	AddItemInput struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"omitempty,gte=1"`
	}

	UpdateItemInput struct {
		Quantity int `json:"quantity"`
	}
)

func NewCartHandler(cartService CartService, summarizer CartSummarizer, products ProductFinder, newSync SyncClientFactory, validate *validator.Validate) *CartHandler {
	return &CartHandler{
		validate:    validate,
		cartService: cartService,
		summarizer:  summarizer,
		products:    products,
		newSync:     newSync,
		timeout:     10 * time.Second,
		heartbeat:   25 * time.Second,
		closing:     make(chan struct{}),
	}
}

// CloseStreams ends every open cart stream. Request contexts outlive a
// graceful shutdown, so the server calls this when it starts one.
func (h *CartHandler) CloseStreams() {
	h.closeOnce.Do(func() { close(h.closing) })
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.summarizer.ComputeSummary(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}

// AddItem merges quantity (default 1) of a product into the cart. The
// requested quantity may not exceed the product's stock.
func (h *CartHandler) AddItem(c echo.Context) error {
	owner := middleware.UserID(c)

	var request AddItemInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate cart item", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if request.Quantity == 0 {
		request.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	product, err := h.products.GetProduct(ctx, request.ProductID)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}
	if err := cart.ValidateQuantityChange(h.validate, request.Quantity, product.Stock); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	item, err := h.cartService.AddToCart(ctx, owner, product.ID, request.Quantity)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(item))
}

// UpdateItem sets the quantity of one of the owner's lines. The new value
// must lie between 1 and the product's current stock.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	owner := middleware.UserID(c)
	itemID := c.Param("id")

	var request UpdateItemInput
	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.cartService.FindItem(ctx, owner, itemID)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}
	product, err := h.products.GetProduct(ctx, item.ProductID)
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}
	if err := cart.ValidateQuantityChange(h.validate, request.Quantity, product.Stock); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	if err := h.cartService.SetQuantity(ctx, owner, item.ID, request.Quantity); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Cart item updated successfully"))
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	owner := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	item, err := h.cartService.FindItem(ctx, owner, c.Param("id"))
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}
	if err := h.cartService.RemoveItem(ctx, owner, item.ID); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("Cart item removed successfully"))
}

type streamEvent struct {
	Count int    `json:"count"`
	Total string `json:"total"`
}

// Stream pushes the cart count as server sent events for as long as the
// client stays connected. A new event is written whenever the count is
// recomputed, whether the change came from this instance or the feed.
func (h *CartHandler) Stream(c echo.Context) error {
	owner := middleware.UserID(c)
	ctx := c.Request().Context()

	updates := make(chan struct{}, 1)
	client := h.newSync(cartsync.WithOnChange(func(int) {
		select {
		case updates <- struct{}{}:
		default:
		}
	}))
	defer client.Close()

	if err := client.SetSession(ctx, owner); err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	heartbeat := time.NewTicker(h.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.closing:
			return nil
		case <-heartbeat.C:
			if _, err := fmt.Fprint(res, ": ping\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case <-updates:
			summary := client.Summary()
			if summary.Owner != owner {
				continue
			}
			payload, _ := json.Marshal(streamEvent{Count: summary.Count, Total: summary.Total.StringFixed(2)})
			if _, err := fmt.Fprintf(res, "event: cart\ndata: %s\n\n", payload); err != nil {
				logger.Debug("Cart stream closed", slog.String("owner", owner), slog.Any("error", err))
				return nil
			}
			res.Flush()
		}
	}
}
