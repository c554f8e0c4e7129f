package rest

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/internal/middleware"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	OrdersHandler struct {
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		ListOrders(ctx context.Context, owner string) ([]domain.Order, error)
		GetOrder(ctx context.Context, id, owner string) (domain.Order, error)
	}
)

func NewOrdersHandler(ordersService OrdersService) *OrdersHandler {
	return &OrdersHandler{
		ordersService: ordersService,
		timeout:       10 * time.Second,
	}
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	orders, err := h.ordersService.ListOrders(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(orders))
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, c.Param("id"), middleware.UserID(c))
	if err != nil {
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(order))
}
