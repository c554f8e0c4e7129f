package rest

import (
	"context"
	"errors"
	"kenyaMart/business/checkout"
	"kenyaMart/domain"
	"kenyaMart/internal/middleware"
	"kenyaMart/pkg/logger"
	"log/slog"
	"net/http"
	"time"

	jsonres "kenyaMart/pkg/response"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	CheckoutService interface {
		PlaceOrder(ctx context.Context, owner string) (checkout.Result, error)
	}

	OrderConfirmer interface {
		SendOrderConfirmation(ctx context.Context, toEmail string, order domain.Order) error
	}

	CheckoutHandler struct {
		checkoutService CheckoutService
		ordersService   OrdersService
		confirmer       OrderConfirmer
		timeout         time.Duration
	}

	CheckoutResponse struct {
		OrderID string `json:"order_id"`
	}

	checkoutFailure struct {
		State   checkout.State `json:"state"`
		OrderID string         `json:"order_id,omitempty"`
	}
)

// NewCheckoutHandler wires checkout. confirmer may be nil, in which case no
// confirmation mail is sent.
func NewCheckoutHandler(checkoutService CheckoutService, ordersService OrdersService, confirmer OrderConfirmer) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		ordersService:   ordersService,
		confirmer:       confirmer,
		timeout:         15 * time.Second,
	}
}

// PlaceOrder runs checkout for the signed in user. A failure part way
// reports which step failed and, once created, the order id left behind.
func (h *CheckoutHandler) PlaceOrder(c echo.Context) error {
	owner := middleware.UserID(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	res, err := h.checkoutService.PlaceOrder(ctx, owner)
	if err != nil {
		details := checkoutFailure{State: res.Reached, OrderID: res.OrderID}
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			return c.JSON(http.StatusConflict, jsonres.Error("EMPTY_CART", err.Error(), nil))
		case errors.Is(err, checkout.ErrCreateOrder):
			return c.JSON(http.StatusBadGateway, jsonres.Error("CREATE_ORDER_FAILED", err.Error(), details))
		case errors.Is(err, checkout.ErrWriteOrderItems):
			return c.JSON(http.StatusBadGateway, jsonres.Error("ORDER_ITEMS_FAILED", err.Error(), details))
		case errors.Is(err, checkout.ErrClearCart):
			return c.JSON(http.StatusBadGateway, jsonres.Error("CLEAR_CART_FAILED", err.Error(), details))
		default:
			return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
		}
	}

	if email := middleware.Email(c); email != "" && h.confirmer != nil {
		go h.sendConfirmation(context.WithoutCancel(ctx), owner, email, res.OrderID)
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(CheckoutResponse{OrderID: res.OrderID}))
}

func (h *CheckoutHandler) sendConfirmation(ctx context.Context, owner, email, orderID string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, orderID, owner)
	if err != nil {
		logger.Error("Failed to load order for confirmation", slog.String("order_id", orderID), slog.Any("error", err))
		return
	}
	if err := h.confirmer.SendOrderConfirmation(ctx, email, order); err != nil {
		logger.Error("Failed to send order confirmation", slog.String("order_id", orderID), slog.Any("error", err))
		return
	}
	logger.Info("Order confirmation sent", slog.String("order_id", orderID))
}
