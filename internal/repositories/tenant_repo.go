package repositories

import (
	"context"
	"errors"
	"fmt"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	WithTx(tx pgx.Tx) TenantRepository
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.TenantSearchFilter) ([]*models.Tenant, error)
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) WithTx(tx pgx.Tx) TenantRepository {
	return &tenantRepo{db: tx}
}

const tenantColumns = `id, full_name, gender, date_of_birth, origin_city, occupation, workplace_name, phone_number, created_at, updated_at, deleted_at`

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, full_name, gender, date_of_birth, origin_city, occupation, workplace_name, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenant.ID, tenant.FullName, tenant.Gender, tenant.DateOfBirth, tenant.OriginCity, tenant.Occupation, tenant.WorkplaceName, tenant.PhoneNumber)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
	`, tenantColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the tenant row for the rest of the current
// transaction, serializing check-in against the deletion guard.
func (r *tenantRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tenants
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, tenantColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET full_name = $1, gender = $2, date_of_birth = $3, origin_city = $4, occupation = $5, workplace_name = $6, phone_number = $7, updated_at = NOW()
		WHERE id = $8 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, tenant.FullName, tenant.Gender, tenant.DateOfBirth, tenant.OriginCity, tenant.Occupation, tenant.WorkplaceName, tenant.PhoneNumber, tenant.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *tenantRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tenants
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

// Search performs full-name search with pagination. AvailableOnly restricts
// the result to tenants with no active tenancy, which feeds the check-in
// tenant picker.
func (r *tenantRepo) Search(ctx context.Context, filter *models.TenantSearchFilter) ([]*models.Tenant, error) {
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	sortBy := filter.SortBy
	switch sortBy {
	case "full_name", "created_at", "updated_at":
	default:
		sortBy = "full_name"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	availability := ""
	if filter.AvailableOnly {
		availability = `AND NOT EXISTS (
			SELECT 1 FROM tenancies tc
			WHERE tc.tenant_id = t.id AND tc.status = 'active' AND tc.deleted_at IS NULL
		)`
	}

	query := fmt.Sprintf(`
		SELECT t.id, t.full_name, t.gender, t.date_of_birth, t.origin_city, t.occupation, t.workplace_name, t.phone_number, t.created_at, t.updated_at, t.deleted_at
		FROM tenants t
		WHERE t.deleted_at IS NULL AND ($1 = '' OR t.full_name ILIKE '%%' || $1 || '%%') %s
		ORDER BY t.%s %s
		LIMIT $2 OFFSET $3
	`, availability, sortBy, sortOrder)

	rows, err := r.db.Query(ctx, query, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(&tenant.ID, &tenant.FullName, &tenant.Gender, &tenant.DateOfBirth, &tenant.OriginCity, &tenant.Occupation, &tenant.WorkplaceName, &tenant.PhoneNumber, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.DeletedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}

func (r *tenantRepo) scanOne(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(&tenant.ID, &tenant.FullName, &tenant.Gender, &tenant.DateOfBirth, &tenant.OriginCity, &tenant.Occupation, &tenant.WorkplaceName, &tenant.PhoneNumber, &tenant.CreatedAt, &tenant.UpdatedAt, &tenant.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return tenant, nil
}
