//go:build integration

package postgres

import (
	"context"
	"os"
	"sync"
	"testing"

	"kenyaMart/domain"
	"kenyaMart/pkg/database"

	"github.com/google/uuid"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, ev domain.ChangeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}
	db, err := gorm.Open(pgdriver.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestCartItemRepository(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	pub := &recordingPublisher{}
	repo := NewCartItemRepository(db, pub)

	owner := uuid.NewString()
	productID := uuid.NewString()
	t.Cleanup(func() { db.Where("user_id = ?", owner).Delete(&domain.CartItem{}) })

	item := domain.CartItem{Owner: owner, ProductID: productID, Quantity: 1}
	if err := repo.Create(ctx, &item); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Create(ctx, &domain.CartItem{Owner: owner, ProductID: productID, Quantity: 1}); err == nil {
		t.Fatal("expected unique violation")
	}

	if err := repo.UpdateQuantity(ctx, item.ID, 3); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, found, err := repo.FindByOwnerAndProduct(ctx, owner, productID)
	if err != nil || !found || got.Quantity != 3 {
		t.Fatalf("got %+v found=%v err=%v", got, found, err)
	}

	if err := repo.DeleteByOwner(ctx, owner); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if items, _ := repo.FindByOwner(ctx, owner); len(items) != 0 {
		t.Fatalf("rows left: %d", len(items))
	}

	if len(pub.events) != 3 {
		t.Fatalf("events = %d, want 3", len(pub.events))
	}
	for _, ev := range pub.events {
		if ev.Owner != owner || ev.RowID != item.ID {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
}
