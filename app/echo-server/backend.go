package main

import (
	"context"
	"kenyaMart/domain"
	"kenyaMart/internal/repository/memory"
	psqlRepo "kenyaMart/internal/repository/postgres"
	redisRepo "kenyaMart/internal/repository/redis"
	"kenyaMart/pkg/changefeed"
	"kenyaMart/pkg/config"
	"kenyaMart/pkg/database"
	redisClient "kenyaMart/pkg/database/redis"
	"kenyaMart/pkg/logger"
	"time"

	"github.com/shopspring/decimal"
)

// changeFeed is both ends of a feed: repositories publish, sync clients
// subscribe.
type changeFeed interface {
	psqlRepo.ChangePublisher
	Subscribe(ctx context.Context, filter domain.ChangeFilter) (*changefeed.Subscription, error)
}

func newMemoryBackend(cfg *config.Config) backend {
	store := memory.New(memory.WithFeedBuffer(cfg.Cart.FeedBuffer))
	seedCatalog(store.Products())

	logger.Info("Using in-memory store")

	return backend{
		cartItems:  store.CartItems(),
		products:   store.Products(),
		orders:     store.Orders(),
		orderItems: store.OrderItems(),
		feed:       store.Feed(),
		close:      func() {},
	}
}

func newPostgresBackend(cfg *config.Config) (backend, error) {
	db, err := database.InitPostgres(cfg)
	if err != nil {
		return backend{}, err
	}
	logger.Info("Database connected successfully")

	if err := database.Migrate(db); err != nil {
		return backend{}, err
	}

	closers := []func(){func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}}

	// Redis carries changes between instances. Without it changes still
	// reach streams on this instance.
	var feed changeFeed
	rdb, err := redisClient.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, change feed limited to this instance", "error", err)
		feed = changefeed.NewHub(cfg.Cart.FeedBuffer)
	} else {
		logger.Info("Redis connected successfully")
		feed = redisRepo.NewChangeFeed(rdb, cfg.Cart.FeedBuffer)
		closers = append(closers, func() { _ = redisClient.CloseRedisClient(rdb) })
	}

	return backend{
		cartItems:  psqlRepo.NewCartItemRepository(db, feed),
		products:   psqlRepo.NewProductRepository(db),
		orders:     psqlRepo.NewOrdersRepository(db),
		orderItems: psqlRepo.NewOrderItemsRepository(db),
		feed:       feed,
		close: func() {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		},
	}, nil
}

type productSaver interface {
	Save(p domain.Product) domain.Product
}

// seedCatalog gives the in-memory store something to sell.
func seedCatalog(products productSaver) {
	now := time.Now()
	catalog := []domain.Product{
		{Name: "Fresh Milk 500ml", Price: decimal.RequireFromString("65"), Stock: 40, Category: "Dairy", Description: "Pasteurised whole milk"},
		{Name: "Maize Flour 2kg", Price: decimal.RequireFromString("189.50"), Stock: 25, Category: "Pantry", Description: "Sifted maize meal"},
		{Name: "Sukuma Wiki Bunch", Price: decimal.RequireFromString("30"), Stock: 60, Category: "Vegetables", Description: "Locally grown kale"},
		{Name: "Brown Bread 400g", Price: decimal.RequireFromString("62"), Stock: 15, Category: "Bakery", Description: "Whole wheat loaf"},
		{Name: "Eggs Tray", Price: decimal.RequireFromString("450"), Stock: 8, Category: "Dairy", Description: "Thirty farm eggs"},
	}
	for i, p := range catalog {
		p.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		products.Save(p)
	}
}
