// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WithTransaction runs fn inside a single database transaction. The opened
// transaction is placed in the context under TxContextKey so that every
// repository call made by fn joins it instead of committing independently.
// Lifecycle hooks fired by those calls therefore observe their row changes
// before anything becomes visible outside the transaction.
func WithTransaction(ctx context.Context, db *gorm.DB, fn func(ctx context.Context) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	txCtx := context.WithValue(ctx, TxContextKey, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
