//go:build !integration

package cart_test

import (
	"context"
	"errors"
	"kenyaMart/business/cart"
	"kenyaMart/domain"
	"kenyaMart/internal/repository/memory"
	"testing"

	"github.com/shopspring/decimal"
)

func seedProduct(store *memory.Store, name, price string, stock int) domain.Product {
	return store.Products().Save(domain.Product{
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	})
}

func TestComputeSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		store := memory.New()
		agg := cart.NewAggregator(store.CartItems(), store.Products(), 0)

		summary, err := agg.ComputeSummary(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !summary.IsEmpty() || summary.Count != 0 || !summary.Total.IsZero() {
			t.Fatalf("unexpected summary: %+v", summary)
		}
	})

	t.Run("joins products and sums", func(t *testing.T) {
		store := memory.New()
		svc := cart.NewCartService(store.CartItems(), nil)
		agg := cart.NewAggregator(store.CartItems(), store.Products(), 2)

		milk := seedProduct(store, "Milk", "65.50", 10)
		bread := seedProduct(store, "Bread", "60", 4)
		eggs := seedProduct(store, "Eggs", "18.25", 30)

		_, _ = svc.AddToCart(ctx, "u1", milk.ID, 2)
		_, _ = svc.AddToCart(ctx, "u1", bread.ID, 1)
		_, _ = svc.AddToCart(ctx, "u1", eggs.ID, 4)
		_, _ = svc.AddToCart(ctx, "u2", milk.ID, 7)

		summary, err := agg.ComputeSummary(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(summary.Lines) != 3 {
			t.Fatalf("lines = %d, want 3", len(summary.Lines))
		}
		if summary.Count != 7 {
			t.Fatalf("count = %d, want 7", summary.Count)
		}
		// 2*65.50 + 60 + 4*18.25
		if want := decimal.RequireFromString("264"); !summary.Total.Equal(want) {
			t.Fatalf("total = %s, want %s", summary.Total, want)
		}
		for _, l := range summary.Lines {
			if l.ProductID == bread.ID && (l.Stock != 4 || l.Name != "Bread") {
				t.Fatalf("unexpected bread line: %+v", l)
			}
		}
	})

	t.Run("missing product is skipped", func(t *testing.T) {
		store := memory.New()
		svc := cart.NewCartService(store.CartItems(), nil)
		agg := cart.NewAggregator(store.CartItems(), store.Products(), 0)

		milk := seedProduct(store, "Milk", "50", 10)
		_, _ = svc.AddToCart(ctx, "u1", milk.ID, 1)
		_, _ = svc.AddToCart(ctx, "u1", "deleted-product", 3)

		summary, err := agg.ComputeSummary(ctx, "u1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(summary.Lines) != 1 || summary.Count != 1 {
			t.Fatalf("unexpected summary: %+v", summary)
		}
		if !summary.Total.Equal(decimal.NewFromInt(50)) {
			t.Fatalf("total = %s", summary.Total)
		}
	})

	t.Run("signed out", func(t *testing.T) {
		agg := cart.NewAggregator(memory.New().CartItems(), memory.New().Products(), 0)

		if _, err := agg.ComputeSummary(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("read failures", func(t *testing.T) {
		for _, op := range []string{memory.OpCartSelectByOwner, memory.OpProductSelectOne} {
			t.Run(op, func(t *testing.T) {
				store := memory.New()
				svc := cart.NewCartService(store.CartItems(), nil)
				agg := cart.NewAggregator(store.CartItems(), store.Products(), 0)

				milk := seedProduct(store, "Milk", "50", 10)
				_, _ = svc.AddOne(ctx, "u1", milk.ID)

				store.SetHook(failOn(op))
				if _, err := agg.ComputeSummary(ctx, "u1"); !errors.Is(err, domain.ErrRemoteRead) {
					t.Fatalf("expected ErrRemoteRead, got %v", err)
				}
			})
		}
	})
}
