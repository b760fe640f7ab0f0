package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	user "bookstore-marketplace/internal/domains/user"
	"bookstore-marketplace/internal/shared/authz"
	"bookstore-marketplace/internal/shared/catalog"
	"bookstore-marketplace/pkg/cache"
	"bookstore-marketplace/pkg/logger"
)

const (
	userColumns  = `id, username, email, password_hash, role, wishlist, created_at, updated_at`
	userCacheTTL = 15 * time.Minute

	uniqueViolation = "23505"
)

// postgresRepository là implementation của user.Repository
type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) user.Repository {
	return &postgresRepository{
		pool:  pool,
		cache: cache,
	}
}

func cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

func scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	var wishlist []uuid.UUID
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&wishlist,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		wishlist = []uuid.UUID{}
	}
	u.Wishlist = wishlist
	return &u, nil
}

// isEmailConflict: unique_violation trên idx_users_email
func isEmailConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName == "" || strings.Contains(pgErr.ConstraintName, "email")
	}
	return false
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *user.User) error {
	// wishlist lấy default '{}' của bảng
	query := `
		INSERT INTO users (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if u.Wishlist == nil {
		u.Wishlist = []uuid.UUID{}
	}

	_, err := r.pool.Exec(ctx, query,
		u.ID,
		u.Username,
		u.Email,
		u.PasswordHash,
		u.Role,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if isEmailConflict(err) {
			return user.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByID - Cache-Aside: cache trước, miss thì query DB rồi set cache
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	// STEP 1: CHECK CACHE FIRST
	var cached user.User
	if found, err := r.cache.Get(ctx, cacheKey(id), &cached); err == nil && found {
		return &cached, nil
	}

	// STEP 2: CACHE MISS - QUERY DATABASE
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}

	// STEP 3: SET CACHE, lỗi cache không làm fail request
	if err := r.cache.Set(ctx, cacheKey(id), u, userCacheTTL); err != nil {
		logger.Warn("Failed to cache user", map[string]interface{}{"user_id": id.String(), "error": err.Error()})
	}
	return u, nil
}

// FindByEmail không cache vì cần password_hash
func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, patch user.UserPatch) (*user.User, error) {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Role != nil {
		add("role", *patch.Role)
	}
	if len(sets) == 0 {
		return nil, user.ErrEmptyUpdate
	}
	add("updated_at", time.Now())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), userColumns)

	u, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		if isEmailConflict(err) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	// INVALIDATE CACHE
	r.invalidate(ctx, id)
	return u, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}

	r.invalidate(ctx, id)
	return nil
}

// ========================================
// ADMIN
// ========================================

func (r *postgresRepository) List(ctx context.Context, filter user.UserFilter, p catalog.Params) ([]user.User, int64, error) {
	b := catalog.NewBuilder().ContainsFold("username", filter.Username)
	if filter.Role != nil {
		b.Equal("role", *filter.Role)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+b.Where(), b.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	limitClause, args := b.Paginate(p)
	query := `SELECT ` + userColumns + ` FROM users` + b.Where() +
		` ORDER BY created_at ASC, id ASC` + limitClause

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, total, nil
}

// ========================================
// WISHLIST
// ========================================

func (r *postgresRepository) ToggleWishlist(ctx context.Context, userID, bookID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE users
		SET wishlist = CASE
				WHEN $2::uuid = ANY(wishlist) THEN array_remove(wishlist, $2::uuid)
				ELSE array_append(wishlist, $2::uuid)
			END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING wishlist
	`

	var wishlist []uuid.UUID
	if err := r.pool.QueryRow(ctx, query, userID, bookID).Scan(&wishlist); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("toggle wishlist: %w", err)
	}
	if wishlist == nil {
		wishlist = []uuid.UUID{}
	}

	r.invalidate(ctx, userID)
	return wishlist, nil
}

// ========================================
// UTILITY
// ========================================

func (r *postgresRepository) CountByRole(ctx context.Context, role authz.Role) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count); err != nil {
		return 0, fmt.Errorf("count users by role: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, cacheKey(id)); err != nil {
		logger.Warn("Failed to invalidate user cache", map[string]interface{}{"user_id": id.String(), "error": err.Error()})
	}
}
