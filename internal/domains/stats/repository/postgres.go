package repository

import (
	"context"
	"fmt"

	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CountBooks(ctx context.Context, sellerID *uuid.UUID) (int64, error) {
	return r.count(ctx, "books", sellerID)
}

func (r *postgresRepository) CountOrders(ctx context.Context, sellerID *uuid.UUID) (int64, error) {
	return r.count(ctx, "orders", sellerID)
}

func (r *postgresRepository) CountUsersByRole(ctx context.Context, role authz.Role) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return n, nil
}

// count - table là hằng số nội bộ, không bao giờ từ input
func (r *postgresRepository) count(ctx context.Context, table string, sellerID *uuid.UUID) (int64, error) {
	b := catalog.NewBuilder()
	if sellerID != nil {
		b.Equal("seller_id", *sellerID)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table+b.Where(), b.Args()...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}
