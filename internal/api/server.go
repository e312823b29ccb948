// Package api implements the HTTP surface of the route optimization
// service: solve submission, solve history, event streaming and health.
package api

import (
	"context"

	"logiroute/internal/config"
	"logiroute/internal/routing"
	"logiroute/internal/store"
)

type Server struct {
	Cfg       config.Config
	Optimizer *routing.Optimizer
	Store     store.Store
	Broker    EventBroker
}

// NewServer wires a Server from configuration. Without a DATABASE_URL the
// in-memory store is used; without a REDIS_URL events stay in-process.
func NewServer(cfg config.Config) (*Server, error) {
	var s store.Store
	if cfg.DatabaseURL == "" {
		s = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(context.Background()); err != nil {
			return nil, err
		}
		s = pg
	}
	var broker EventBroker
	if cfg.RedisURL != "" {
		if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
			broker = rb
		} else {
			broker = NewBroker()
		}
	} else {
		broker = NewBroker()
	}
	return &Server{
		Cfg:       cfg,
		Optimizer: routing.NewOptimizer(cfg.RoutingConfig()),
		Store:     s,
		Broker:    broker,
	}, nil
}
