package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

const defaultPingTimeout = 2 * time.Second

// Ping checks that the database answers within timeout (2s when zero).
func Ping(ctx context.Context, database *gorm.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sqlDB, err := database.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	return nil
}
