package cart

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/pkg/logger"
	"kenyaMart/pkg/metrics"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const defaultAggregateConcurrency = 8

// Aggregator derives the cart view of an owner from the store. Nothing is
// cached: every call reads the current rows.
type Aggregator struct {
	cartRepo      CartItemRepository
	productRepo   ProductRepository
	maxConcurrent int
}

func NewAggregator(cartRepo CartItemRepository, productRepo ProductRepository, maxConcurrent int) *Aggregator {
	if maxConcurrent <= 0 {
		maxConcurrent = defaultAggregateConcurrency
	}

	return &Aggregator{
		cartRepo:      cartRepo,
		productRepo:   productRepo,
		maxConcurrent: maxConcurrent,
	}
}

// ComputeSummary joins the owner's cart rows with their products. An empty
// cart yields an empty summary with zero total and count. Rows whose
// product no longer exists are left out of the summary, Count included,
// so the count can be lower than the sum of stored quantities.
func (a *Aggregator) ComputeSummary(ctx context.Context, owner string) (domain.CartSummary, error) {
	if owner == "" {
		return domain.CartSummary{}, domain.ErrUnauthenticated
	}

	start := time.Now()
	defer func() {
		metrics.CartAggregateLatency.Observe(time.Since(start).Seconds())
	}()

	items, err := a.cartRepo.FindByOwner(ctx, owner)
	if err != nil {
		logger.Error("Failed to fetch cart", slog.String("owner", owner), slog.Any("error", err))
		return domain.CartSummary{}, domain.ReadFailure("list cart items", err)
	}

	summary := domain.CartSummary{
		Owner: owner,
		Lines: []domain.CartLine{},
		Total: decimal.Zero,
	}
	if len(items) == 0 {
		return summary, nil
	}

	lines := make([]domain.CartLine, len(items))
	present := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrent)

	for idx := range items {
		g.Go(func() error {
			it := items[idx]

			product, found, err := a.productRepo.FindByID(gctx, it.ProductID)
			if err != nil {
				return domain.ReadFailure("find product "+it.ProductID, err)
			}
			if !found {
				logger.Warn("Cart item references a missing product", slog.String("item_id", it.ID), slog.String("product_id", it.ProductID))
				return nil
			}

			lines[idx] = domain.CartLine{
				ItemID:    it.ID,
				ProductID: product.ID,
				Name:      product.Name,
				ImageURL:  product.ImageURL,
				Price:     product.Price,
				Stock:     product.Stock,
				Quantity:  it.Quantity,
			}
			present[idx] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Failed to join cart products", slog.String("owner", owner), slog.Any("error", err))
		return domain.CartSummary{}, err
	}

	for idx, line := range lines {
		if !present[idx] {
			continue
		}
		summary.Lines = append(summary.Lines, line)
		summary.Total = summary.Total.Add(line.LineTotal())
		summary.Count += line.Quantity
	}

	return summary, nil
}
