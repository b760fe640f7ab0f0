package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore-marketplace/internal/domains/order/model"
	"bookstore-marketplace/internal/shared"
	"bookstore-marketplace/internal/shared/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	orderColumns = `id, user_id, seller_id, book_id, total_price, status, payment_status, created_at, updated_at`

	detailSelect = `
		SELECT o.id, o.user_id, o.seller_id, o.book_id, o.total_price, o.status, o.payment_status,
		       o.created_at, o.updated_at,
		       bu.id, bu.email, bu.username,
		       se.id, se.email, se.username,
		       b.id, b.title, b.author, b.price, b.image_url
		FROM orders o
		LEFT JOIN users bu ON bu.id = o.user_id
		LEFT JOIN users se ON se.id = o.seller_id
		LEFT JOIN books b ON b.id = o.book_id`

	orderBy = ` ORDER BY o.created_at DESC, o.id DESC`
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.SellerID,
		&o.BookID,
		&o.TotalPrice,
		&o.Status,
		&o.PaymentStatus,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// joinedUser - các cột LEFT JOIN users, NULL khi user đã bị xoá
type joinedUser struct {
	id       *uuid.UUID
	email    *string
	username *string
}

func (u joinedUser) toInfo() *shared.UserBasicInfo {
	if u.id == nil {
		return nil
	}
	info := &shared.UserBasicInfo{ID: u.id.String()}
	if u.email != nil {
		info.Email = *u.email
	}
	if u.username != nil {
		info.Username = *u.username
	}
	return info
}

func scanDetail(row pgx.Row) (*model.OrderDetail, error) {
	var (
		d      model.OrderDetail
		buyer  joinedUser
		seller joinedUser

		bookID     *uuid.UUID
		bookTitle  *string
		bookAuthor *string
		bookPrice  decimal.NullDecimal
		bookImage  *string
	)

	err := row.Scan(
		&d.ID, &d.UserID, &d.SellerID, &d.BookID, &d.TotalPrice, &d.Status, &d.PaymentStatus,
		&d.CreatedAt, &d.UpdatedAt,
		&buyer.id, &buyer.email, &buyer.username,
		&seller.id, &seller.email, &seller.username,
		&bookID, &bookTitle, &bookAuthor, &bookPrice, &bookImage,
	)
	if err != nil {
		return nil, err
	}

	d.Buyer = buyer.toInfo()
	d.Seller = seller.toInfo()
	if bookID != nil {
		d.Book = &model.BookSummary{ID: *bookID, ImageURL: bookImage}
		if bookTitle != nil {
			d.Book.Title = *bookTitle
		}
		if bookAuthor != nil {
			d.Book.Author = *bookAuthor
		}
		if bookPrice.Valid {
			d.Book.Price = bookPrice.Decimal
		}
	}
	return &d, nil
}

func collectDetails(rows pgx.Rows) ([]model.OrderDetail, error) {
	defer rows.Close()

	orders := make([]model.OrderDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	return orders, nil
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, o *model.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.pool.Exec(ctx, query,
		o.ID, o.UserID, o.SellerID, o.BookID, o.TotalPrice,
		o.Status, o.PaymentStatus, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order by id: %w", err)
	}
	return o, nil
}

func (r *postgresRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error) {
	d, err := scanDetail(r.pool.QueryRow(ctx, detailSelect+` WHERE o.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order detail: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, patch model.OrderPatch) (*model.Order, error) {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.TotalPrice != nil {
		add("total_price", *patch.TotalPrice)
	}
	if len(sets) == 0 {
		return nil, model.ErrEmptyUpdate
	}
	add("updated_at", time.Now())

	args = append(args, id)
	where := fmt.Sprintf("id = $%d", len(args))
	if patch.ExpectedStatus != nil {
		args = append(args, *patch.ExpectedStatus)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE %s RETURNING %s`,
		strings.Join(sets, ", "), where, orderColumns)

	o, err := scanOrder(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.missingOrStale(ctx, id, patch)
		}
		return nil, fmt.Errorf("update order: %w", err)
	}
	return o, nil
}

// missingOrStale phân biệt order đã bị xoá với status đã bị đổi
func (r *postgresRepository) missingOrStale(ctx context.Context, id uuid.UUID, patch model.OrderPatch) error {
	if patch.ExpectedStatus == nil {
		return model.ErrOrderNotFound
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check order exists: %w", err)
	}
	if !exists {
		return model.ErrOrderNotFound
	}
	return model.ErrStatusChanged
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

// ========================================
// LISTING
// ========================================

func filterBuilder(filter model.OrderFilter) *catalog.Builder {
	b := catalog.NewBuilder()
	if filter.UserID != nil {
		b.Equal("o.user_id", *filter.UserID)
	}
	if filter.SellerID != nil {
		b.Equal("o.seller_id", *filter.SellerID)
	}
	if filter.BookID != nil {
		b.Equal("o.book_id", *filter.BookID)
	}
	if filter.Status != nil {
		b.Equal("o.status", *filter.Status)
	}
	return b
}

func (r *postgresRepository) List(ctx context.Context, filter model.OrderFilter, p catalog.Params) ([]model.OrderDetail, int64, error) {
	b := filterBuilder(filter)

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders o`+b.Where(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	limitClause, args := b.Paginate(p)
	rows, err := r.pool.Query(ctx, detailSelect+b.Where()+orderBy+limitClause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	orders, err := collectDetails(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *postgresRepository) ListAllBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.OrderDetail, error) {
	rows, err := r.pool.Query(ctx, detailSelect+` WHERE o.seller_id = $1`+orderBy, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list seller orders: %w", err)
	}
	return collectDetails(rows)
}
