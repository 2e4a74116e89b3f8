// Package app wires the shared storefront components for one application
// session. Views receive the same App instance for the process lifetime; all
// cart mutation goes through App.Cart, never around it.
package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/SamadheeSadeesha/ShopEase/internal/cart"
	"github.com/SamadheeSadeesha/ShopEase/internal/catalog"
	"github.com/SamadheeSadeesha/ShopEase/internal/catalog/cache"
	"github.com/SamadheeSadeesha/ShopEase/internal/checkout"
	"github.com/SamadheeSadeesha/ShopEase/internal/config"
	"github.com/SamadheeSadeesha/ShopEase/internal/order"
)

type App struct {
	Cart     *cart.Store
	Catalog  *catalog.Client
	Checkout *checkout.Orchestrator
}

// New builds the session-scoped object graph. The presenter and navigator are
// platform-specific and injected by the caller.
func New(cfg *config.ClientConfig, presenter checkout.Presenter, nav order.Navigator) (*App, error) {
	store := cart.NewStore()

	catalogOpts := []catalog.ClientOption{catalog.WithBaseURL(cfg.CatalogBaseURL)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		catalogOpts = append(catalogOpts, catalog.WithCache(cache.NewRedisCache(rdb)))
	}

	relayClient, err := checkout.NewHTTPRelayClient(cfg.RelayBaseURL)
	if err != nil {
		return nil, fmt.Errorf("payment relay client: %w", err)
	}

	finalizer := order.NewFinalizer(store, nav)

	return &App{
		Cart:     store,
		Catalog:  catalog.NewClient(catalogOpts...),
		Checkout: checkout.NewOrchestrator(store, relayClient, presenter, finalizer),
	}, nil
}
