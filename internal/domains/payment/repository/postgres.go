package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bookstore-marketplace/internal/domains/payment/model"
	"bookstore-marketplace/pkg/database"
)

const (
	intentColumns = `id, provider_order_id, order_id, user_id, amount, currency, receipt, status,
		provider_payment_id, failure_reason, expires_at, created_at, updated_at`

	// giá trị orders.payment_status
	orderIntentCreated = "intent_created"
	orderPaid          = "paid"
	orderFailed        = "failed"

	uniqueViolation  = "23505"
	openIntentIndex  = "uq_payment_intents_open_order"
	supersededReason = "superseded by a newer intent"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func scanIntent(row pgx.Row) (*model.PaymentIntent, error) {
	var p model.PaymentIntent
	err := row.Scan(
		&p.ID,
		&p.ProviderOrderID,
		&p.OrderID,
		&p.UserID,
		&p.Amount,
		&p.Currency,
		&p.Receipt,
		&p.Status,
		&p.ProviderPaymentID,
		&p.FailureReason,
		&p.ExpiresAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepository) NextReceiptNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('payment_receipt_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next receipt number: %w", err)
	}
	return n, nil
}

// ============================================
// CREATE
// ============================================

func (r *postgresRepository) CreateIntent(ctx context.Context, p *model.PaymentIntent) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if p.OrderID != nil {
			if err := supersedeOpenIntentsTx(ctx, tx, p); err != nil {
				return err
			}
		}

		query := `
			INSERT INTO payment_intents (` + intentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		_, err := tx.Exec(ctx, query,
			p.ID, p.ProviderOrderID, p.OrderID, p.UserID, p.Amount, p.Currency, p.Receipt, p.Status,
			p.ProviderPaymentID, p.FailureReason, p.ExpiresAt, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == openIntentIndex {
				return model.ErrIntentInProgress
			}
			return fmt.Errorf("insert payment intent: %w", err)
		}

		if p.OrderID == nil {
			return nil
		}
		// order đã paid thì không kéo về intent_created
		_, err = tx.Exec(ctx, `
			UPDATE orders SET payment_status = $1, updated_at = NOW()
			WHERE id = $2 AND payment_status <> $3
		`, orderIntentCreated, *p.OrderID, orderPaid)
		if err != nil {
			return fmt.Errorf("mark order intent_created: %w", err)
		}
		return nil
	})
}

func (r *postgresRepository) FindByProviderOrderID(ctx context.Context, providerOrderID string) (*model.PaymentIntent, error) {
	p, err := scanIntent(r.pool.QueryRow(ctx,
		`SELECT `+intentColumns+` FROM payment_intents WHERE provider_order_id = $1`, providerOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrIntentNotFound
		}
		return nil, fmt.Errorf("find payment intent: %w", err)
	}
	return p, nil
}

func (r *postgresRepository) FindOpenByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentIntent, error) {
	p, err := scanIntent(r.pool.QueryRow(ctx, `
		SELECT `+intentColumns+` FROM payment_intents
		WHERE order_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, orderID, model.IntentCreated))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrIntentNotFound
		}
		return nil, fmt.Errorf("find open payment intent: %w", err)
	}
	return p, nil
}

// ============================================
// STATE TRANSITIONS (TRANSACTION-AWARE)
// ============================================

func (r *postgresRepository) MarkVerified(ctx context.Context, providerOrderID, paymentID string) (*model.Transition, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transition, error) {
		current, err := lockByProviderOrderID(ctx, tx, providerOrderID)
		if err != nil {
			return nil, err
		}
		if current.Status == model.IntentVerified {
			return &model.Transition{Intent: current}, nil
		}
		if current.Status.IsTerminal() {
			return nil, model.ErrIntentClosed
		}

		updated, err := scanIntent(tx.QueryRow(ctx, `
			UPDATE payment_intents
			SET status = $1, provider_payment_id = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING `+intentColumns,
			model.IntentVerified, paymentID, current.ID))
		if err != nil {
			return nil, fmt.Errorf("mark intent verified: %w", err)
		}

		if err := setOrderPaymentStatusTx(ctx, tx, updated.OrderID, orderPaid); err != nil {
			return nil, err
		}
		return &model.Transition{Intent: updated, Changed: true}, nil
	})
}

func (r *postgresRepository) MarkFailed(ctx context.Context, providerOrderID, reason string) (*model.Transition, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transition, error) {
		current, err := lockByProviderOrderID(ctx, tx, providerOrderID)
		if err != nil {
			return nil, err
		}
		return closeIntentTx(ctx, tx, current, model.IntentFailed, reason)
	})
}

func (r *postgresRepository) Expire(ctx context.Context, id uuid.UUID) (*model.Transition, error) {
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Transition, error) {
		current, err := scanIntent(tx.QueryRow(ctx,
			`SELECT `+intentColumns+` FROM payment_intents WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, model.ErrIntentNotFound
			}
			return nil, fmt.Errorf("lock payment intent: %w", err)
		}
		return closeIntentTx(ctx, tx, current, model.IntentExpired, "intent expired before verification")
	})
}

func (r *postgresRepository) ListStale(ctx context.Context, before time.Time, limit int) ([]model.PaymentIntent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+intentColumns+` FROM payment_intents
		WHERE status = $1 AND expires_at < $2
		ORDER BY expires_at ASC
		LIMIT $3
	`, model.IntentCreated, before, limit)
	if err != nil {
		return nil, fmt.Errorf("list stale intents: %w", err)
	}
	defer rows.Close()

	intents := make([]model.PaymentIntent, 0)
	for rows.Next() {
		p, err := scanIntent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment intent: %w", err)
		}
		intents = append(intents, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment intents: %w", err)
	}
	return intents, nil
}

// ============================================
// TX HELPERS
// ============================================

func lockByProviderOrderID(ctx context.Context, tx pgx.Tx, providerOrderID string) (*model.PaymentIntent, error) {
	p, err := scanIntent(tx.QueryRow(ctx,
		`SELECT `+intentColumns+` FROM payment_intents WHERE provider_order_id = $1 FOR UPDATE`, providerOrderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrIntentNotFound
		}
		return nil, fmt.Errorf("lock payment intent: %w", err)
	}
	return p, nil
}

// supersedeOpenIntentsTx khoá order rồi dọn các intent created cũ của nó.
// Intent cũ còn dùng được → ErrIntentInProgress, không insert intent mới.
func supersedeOpenIntentsTx(ctx context.Context, tx pgx.Tx, p *model.PaymentIntent) error {
	if _, err := tx.Exec(ctx, `SELECT 1 FROM orders WHERE id = $1 FOR UPDATE`, *p.OrderID); err != nil {
		return fmt.Errorf("lock order: %w", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+intentColumns+` FROM payment_intents
		WHERE order_id = $1 AND status = $2
		FOR UPDATE
	`, *p.OrderID, model.IntentCreated)
	if err != nil {
		return fmt.Errorf("lock open intents: %w", err)
	}
	open := make([]*model.PaymentIntent, 0, 1)
	for rows.Next() {
		intent, err := scanIntent(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan open intent: %w", err)
		}
		open = append(open, intent)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate open intents: %w", err)
	}

	for _, intent := range open {
		if intent.ReusableFor(p.Amount, p.CreatedAt) {
			return model.ErrIntentInProgress
		}
	}
	for _, intent := range open {
		_, err := tx.Exec(ctx, `
			UPDATE payment_intents
			SET status = $1, failure_reason = $2, updated_at = NOW()
			WHERE id = $3
		`, model.IntentExpired, supersededReason, intent.ID)
		if err != nil {
			return fmt.Errorf("supersede intent: %w", err)
		}
	}
	return nil
}

// closeIntentTx: chỉ intent created mới được chuyển sang failed/expired
func closeIntentTx(ctx context.Context, tx pgx.Tx, current *model.PaymentIntent, status model.IntentStatus, reason string) (*model.Transition, error) {
	if current.Status.IsTerminal() {
		return &model.Transition{Intent: current}, nil
	}

	updated, err := scanIntent(tx.QueryRow(ctx, `
		UPDATE payment_intents
		SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+intentColumns,
		status, reason, current.ID))
	if err != nil {
		return nil, fmt.Errorf("mark intent %s: %w", status, err)
	}

	if err := setOrderPaymentFailedTx(ctx, tx, updated); err != nil {
		return nil, err
	}
	return &model.Transition{Intent: updated, Changed: true}, nil
}

// setOrderPaymentFailedTx - order còn intent created khác thì vẫn là intent_created
func setOrderPaymentFailedTx(ctx context.Context, tx pgx.Tx, closed *model.PaymentIntent) error {
	if closed.OrderID == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status <> $3
		  AND NOT EXISTS (
			SELECT 1 FROM payment_intents
			WHERE order_id = $2 AND status = $4 AND id <> $5
		  )
	`, orderFailed, *closed.OrderID, orderPaid, model.IntentCreated, closed.ID)
	if err != nil {
		return fmt.Errorf("update order payment status: %w", err)
	}
	return nil
}

// setOrderPaymentStatusTx - order đã paid thì giữ nguyên
func setOrderPaymentStatusTx(ctx context.Context, tx pgx.Tx, orderID *uuid.UUID, status string) error {
	if orderID == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE orders SET payment_status = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status <> $3
	`, status, *orderID, orderPaid)
	if err != nil {
		return fmt.Errorf("update order payment status: %w", err)
	}
	return nil
}
