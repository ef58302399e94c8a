package main

import (
	"context"
	"fmt"

	"github.com/iliyamo/venues-api/internal/config"
	"github.com/iliyamo/venues-api/internal/database"
	"github.com/iliyamo/venues-api/internal/repository"
)

// store is the opened backend: its repositories and a func releasing the
// underlying client.
type store struct {
	venues repository.VenueRepository
	users  repository.UserRepository
	close  func()
}

// openStore connects to the backend selected by cfg.Store.Driver.
func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.Store.Driver {
	case "mysql":
		db, err := database.OpenMySQL(ctx, cfg.MySQL)
		if err != nil {
			return nil, fmt.Errorf("mysql: %w", err)
		}
		return &store{
			venues: repository.NewMySQLVenueRepo(db),
			users:  repository.NewMySQLUserRepo(db),
			close:  func() { _ = db.Close() },
		}, nil

	case "mongo":
		client, err := database.OpenMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)
		users := repository.NewMongoUserRepo(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		return &store{
			venues: repository.NewMongoVenueRepo(db),
			users:  users,
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
