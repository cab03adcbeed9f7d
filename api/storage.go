package main

import (
	"context"
	"fmt"

	"github.com/rogerio-castellano/stockly/internal/config"
	"github.com/rogerio-castellano/stockly/internal/db"
	"github.com/rogerio-castellano/stockly/internal/repo"
)

type productStore interface {
	repo.ProductRepository
	repo.Pinger
}

type storage struct {
	products   productStore
	categories repo.NamedRepository
	suppliers  repo.NamedRepository
	users      repo.UserRepository
	close      func()
}

func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	repo.SetCallTimeout(cfg.Timeout)

	switch cfg.Driver {
	case "postgres":
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &storage{
			products:   repo.NewPostgresProductRepository(database),
			categories: repo.NewPostgresNamedRepository(database, repo.CategoriesTable),
			suppliers:  repo.NewPostgresNamedRepository(database, repo.SuppliersTable),
			users:      repo.NewPostgresUserRepository(database),
			close:      func() { database.Close() },
		}, nil

	case "sqlite":
		gdb, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := repo.MigrateGorm(gdb); err != nil {
			return nil, err
		}
		return &storage{
			products:   repo.NewGormProductRepository(gdb),
			categories: repo.NewGormNamedRepository(gdb, repo.CategoriesTable),
			suppliers:  repo.NewGormNamedRepository(gdb, repo.SuppliersTable),
			users:      repo.NewGormUserRepository(gdb),
			close: func() {
				if sqlDB, err := gdb.DB(); err == nil {
					sqlDB.Close()
				}
			},
		}, nil

	case "memory":
		return &storage{
			products:   repo.NewInMemoryProductRepository(),
			categories: repo.NewInMemoryNamedRepository(),
			suppliers:  repo.NewInMemoryNamedRepository(),
			users:      repo.NewInMemoryUserRepository(),
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
