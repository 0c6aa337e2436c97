package store

import (
	"context"
	"fmt"

	"github.com/pressly/goose/v3"

	"encrypto-chat/internal/store/migrations"
)

// Migrate applies the embedded SQL migrations to a postgres database.
func (s *Store) Migrate(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return fmt.Errorf("sql handle: %w", err)
	}
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
