//go:build !integration

package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"kenyaMart/domain"
)

func TestCartItems_PublishesChanges(t *testing.T) {
	ctx := context.Background()
	s := New(WithFeedBuffer(8))
	repo := s.CartItems()

	sub, err := s.Feed().Subscribe(ctx, domain.ChangeFilter{Table: domain.TableCartItems, Owner: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	item := domain.CartItem{Owner: "u1", ProductID: "p1", Quantity: 1}
	if err := repo.Create(ctx, &item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = repo.UpdateQuantity(ctx, item.ID, 4)
	_ = repo.Create(ctx, &domain.CartItem{Owner: "u2", ProductID: "p1", Quantity: 1})
	_ = repo.UpdateQuantity(ctx, "missing", 2)
	_ = repo.DeleteByOwner(ctx, "u1")

	want := []domain.ChangeOp{domain.ChangeInsert, domain.ChangeUpdate, domain.ChangeDelete}
	for _, op := range want {
		select {
		case ev := <-sub.Events():
			if ev.Op != op || ev.RowID != item.ID || ev.At.IsZero() {
				t.Fatalf("got %+v, want op %s", ev, op)
			}
		case <-time.After(time.Second):
			t.Fatalf("missing %s event", op)
		}
	}
	select {
	case ev := <-sub.Events():
		t.Fatalf("unexpected event %+v", ev)
	default:
	}
}

func TestCartItems_UniquePerOwnerAndProduct(t *testing.T) {
	ctx := context.Background()
	repo := New().CartItems()

	if err := repo.Create(ctx, &domain.CartItem{Owner: "u1", ProductID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Create(ctx, &domain.CartItem{Owner: "u1", ProductID: "p1", Quantity: 1}); !errors.Is(err, ErrDuplicateCartItem) {
		t.Fatalf("expected ErrDuplicateCartItem, got %v", err)
	}
}

func TestHookAndCancellation(t *testing.T) {
	errDown := errors.New("down")
	s := New(WithHook(func(_ context.Context, op string) error {
		if op == OpOrderInsert {
			return errDown
		}
		return nil
	}))

	if err := s.Orders().Create(context.Background(), &domain.Order{Owner: "u1"}); !errors.Is(err, errDown) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if orders, _ := s.Orders().FindByOwner(context.Background(), "u1"); len(orders) != 0 {
		t.Fatal("failed insert must not store the order")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.CartItems().FindByOwner(ctx, "u1"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
