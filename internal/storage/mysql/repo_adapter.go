package mysql

import (
	"context"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/storage"
)

// newRepository is a test hook.
var newRepository = NewRepository

func init() {
	storage.RegisterBackend[*Repository]("mysql", Dialect, func(ctx context.Context, cfg storage.Config) (*Repository, func(), error) {
		return newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
	})
}
