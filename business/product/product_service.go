package product

import (
	"context"
	"errors"
	"fmt"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"log/slog"
)

const (
	DefaultLatestLimit = 4
	maxLatestLimit     = 50
)

var ErrInvalidProductID = errors.New("invalid product id")

// ProductRepository contract interface
type ProductRepository interface {
	FindByID(ctx context.Context, id string) (domain.Product, bool, error)
	FindLatest(ctx context.Context, limit int) ([]domain.Product, error)
}

// ProductService reads the catalog. Products are maintained elsewhere.
type ProductService struct {
	productRepo ProductRepository
}

func NewProductService(productRepo ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// ListLatest returns the newest products. A limit outside 1..50 falls back
// to the home page default of four.
func (s *ProductService) ListLatest(ctx context.Context, limit int) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when listing products")
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit < 1 || limit > maxLatestLimit {
		limit = DefaultLatestLimit
	}

	products, err := s.productRepo.FindLatest(ctx, limit)
	if err != nil {
		logger.Error("Failed to list latest products", slog.Any("error", err))
		return nil, domain.ReadFailure("list products", err)
	}

	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		logger.Error("invalid product id")
		return domain.Product{}, ErrInvalidProductID
	}

	product, found, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find product by id", slog.String("product_id", id), slog.Any("error", err))
		return domain.Product{}, domain.ReadFailure("find product", err)
	}
	if !found {
		return domain.Product{}, domain.ErrNotFound
	}

	return product, nil
}
