package rest

import (
	"context"
	"errors"
	"kenyaMart/business/product"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type ProductService interface {
	ListLatest(ctx context.Context, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
}

type ProductHandler struct {
	productService ProductService
	timeout        time.Duration
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		timeout:        10 * time.Second,
	}
}

func (h *ProductHandler) GetLatestProducts(c echo.Context) error {
	limit := product.DefaultLatestLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			logger.Error("Invalid limit", err)
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be a number"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	products, err := h.productService.ListLatest(ctx, limit)
	if err != nil {
		logger.Error("Failed to list products", err)
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":  "successfully get latest products",
		"products": products,
	})
}

func (h *ProductHandler) GetProductByID(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	p, err := h.productService.GetProduct(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, product.ErrInvalidProductID) {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		}
		return c.JSON(statusFor(err), ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "successfully find product by id",
		"product": p,
	})
}
