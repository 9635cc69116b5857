package repositories

import (
	"context"
	"errors"
	"fmt"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PaymentRepository interface {
	WithTx(tx pgx.Tx) PaymentRepository
	Create(ctx context.Context, payment *models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Payment, error)
	LatestByTenancy(ctx context.Context, tenancyID uuid.UUID) (*models.Payment, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type paymentRepo struct {
	db DB
}

func NewPaymentRepo(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) WithTx(tx pgx.Tx) PaymentRepository {
	return &paymentRepo{db: tx}
}

const paymentColumns = `id, tenancy_id, amount, payment_date, payment_type, method, notes, created_at, updated_at, deleted_at`

func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (id, tenancy_id, amount, payment_date, payment_type, method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, payment.ID, payment.TenancyID, payment.Amount, payment.PaymentDate, payment.PaymentType, payment.Method, payment.Notes)
	return err
}

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE id = $1 AND deleted_at IS NULL
	`, paymentColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *paymentRepo) ListByTenancy(ctx context.Context, tenancyID uuid.UUID) ([]*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE tenancy_id = $1 AND deleted_at IS NULL
		ORDER BY payment_date DESC
	`, paymentColumns)
	rows, err := r.db.Query(ctx, query, tenancyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		if err := rows.Scan(&payment.ID, &payment.TenancyID, &payment.Amount, &payment.PaymentDate, &payment.PaymentType, &payment.Method, &payment.Notes, &payment.CreatedAt, &payment.UpdatedAt, &payment.DeletedAt); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// LatestByTenancy returns the payment with the most recent payment_date, or
// nil when the tenancy has no payments. Ties on payment_date are broken
// arbitrarily; only the date feeds the overdue rule.
func (r *paymentRepo) LatestByTenancy(ctx context.Context, tenancyID uuid.UUID) (*models.Payment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM payments
		WHERE tenancy_id = $1 AND deleted_at IS NULL
		ORDER BY payment_date DESC
		LIMIT 1
	`, paymentColumns)
	payment, err := r.scanOne(r.db.QueryRow(ctx, query, tenancyID))
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	return payment, err
}

func (r *paymentRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE payments
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *paymentRepo) scanOne(row pgx.Row) (*models.Payment, error) {
	payment := &models.Payment{}
	err := row.Scan(&payment.ID, &payment.TenancyID, &payment.Amount, &payment.PaymentDate, &payment.PaymentType, &payment.Method, &payment.Notes, &payment.CreatedAt, &payment.UpdatedAt, &payment.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return payment, nil
}
