//go:build !integration

package redis_test

import (
	"context"
	"kenyaMart/domain"
	feed "kenyaMart/internal/repository/redis"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newClient(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestChangeFeed_DeliversOwnerEvents(t *testing.T) {
	ctx := context.Background()
	f := feed.NewChangeFeed(newClient(t), 4)

	sub, err := f.Subscribe(ctx, domain.ChangeFilter{Table: domain.TableCartItems, Owner: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	if err := f.Publish(ctx, domain.ChangeEvent{Table: domain.TableCartItems, Owner: "u2", Op: domain.ChangeInsert, RowID: "other"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.Publish(ctx, domain.ChangeEvent{Table: domain.TableCartItems, Owner: "u1", Op: domain.ChangeUpdate, RowID: "mine"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case ev := <-sub.Events():
		if ev.RowID != "mine" || ev.Op != domain.ChangeUpdate {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestChangeFeed_CloseUnsubscribes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := feed.NewChangeFeed(newClient(t), 4)

	sub, err := f.Subscribe(ctx, domain.ChangeFilter{Table: domain.TableCartItems, Owner: "u1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Subscribers() != 1 {
		t.Fatalf("subscribers = %d", f.Subscribers())
	}

	cancel()

	select {
	case _, ok := <-sub.Events():
		if ok {
			t.Fatal("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("subscription not closed after cancel")
	}
	deadline := time.Now().Add(2 * time.Second)
	for f.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers = %d after close", f.Subscribers())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestChangeFeed_RejectsUnscopedFilter(t *testing.T) {
	f := feed.NewChangeFeed(newClient(t), 4)

	if _, err := f.Subscribe(context.Background(), domain.ChangeFilter{Table: domain.TableCartItems}); err == nil {
		t.Fatal("expected error for filter without owner")
	}
}
