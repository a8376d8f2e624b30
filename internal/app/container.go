// Package app wires one client's stores, session and flows over a single
// key-value namespace.
package app

import (
	"context"
	"math/rand/v2"

	"farmer-market-web/internal/account"
	"farmer-market-web/internal/apiclient"
	"farmer-market-web/internal/cart"
	"farmer-market-web/internal/delivery"
	"farmer-market-web/internal/directorder"
	"farmer-market-web/internal/payment"
	"farmer-market-web/internal/produce"
	"farmer-market-web/internal/session"
	"farmer-market-web/internal/storage"
	"farmer-market-web/internal/system"
	"farmer-market-web/internal/trackorder"
)

// FeatureKeys are the persisted collections dropped on a schema reset.
var FeatureKeys = []string{
	produce.StorageKey,
	delivery.StorageKey,
	delivery.LegacyStorageKey,
	directorder.StorageKey,
	trackorder.StorageKey,
}

type Container struct {
	Store   storage.Store
	Session *session.Context

	Produce      produce.Service
	Deliveries   delivery.Service
	DirectOrders directorder.Service
	TrackOrders  trackorder.Service

	// Cart and Payment live in memory only, like the page state they mirror.
	Cart    *cart.Store
	Payment *payment.Context

	Account *account.Service
	System  *system.Service
}

// New checks the stored schema, hydrates the session and builds every
// service over store.
func New(ctx context.Context, store storage.Store, api apiclient.API) (*Container, error) {
	if _, err := storage.EnsureSchema(ctx, store, storage.CurrentSchema, FeatureKeys); err != nil {
		return nil, err
	}

	sess := session.New(ctx, store)

	return &Container{
		Store:        store,
		Session:      sess,
		Produce:      produce.NewService(store),
		Deliveries:   delivery.NewService(store),
		DirectOrders: directorder.NewService(store),
		TrackOrders:  trackorder.NewService(store),
		Cart:         cart.NewStore(),
		Payment:      &payment.Context{},
		Account:      account.NewService(api, sess),
		System:       system.NewService(api, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))),
	}, nil
}
