package repositories

import (
	"context"
	"errors"
	"fmt"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenancyRepository interface {
	WithTx(tx pgx.Tx) TenancyRepository
	Create(ctx context.Context, tenancy *models.Tenancy) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error)
	GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Tenancy, error)
	Update(ctx context.Context, tenancy *models.Tenancy) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.TenancySearchFilter) ([]*models.Tenancy, error)
	ExistsActiveForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error)
	ExistsActiveForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error)
}

type tenancyRepo struct {
	db DB
}

func NewTenancyRepo(db DB) TenancyRepository {
	return &tenancyRepo{db: db}
}

func (r *tenancyRepo) WithTx(tx pgx.Tx) TenancyRepository {
	return &tenancyRepo{db: tx}
}

const tenancyColumns = `id, tenant_id, property_id, room_number, start_date, end_date, rent_price, status, leaving_reason, created_at, updated_at, deleted_at`

func (r *tenancyRepo) Create(ctx context.Context, tenancy *models.Tenancy) error {
	query := `
		INSERT INTO tenancies (id, tenant_id, property_id, room_number, start_date, end_date, rent_price, status, leaving_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, tenancy.ID, tenancy.TenantID, tenancy.PropertyID, tenancy.RoomNumber, tenancy.StartDate, tenancy.EndDate, tenancy.RentPrice, tenancy.Status, tenancy.LeavingReason)
	return err
}

func (r *tenancyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM tenancies
		WHERE id = $1 AND deleted_at IS NULL
	`, tenancyColumns)
	tenancy := &models.Tenancy{}
	err := r.db.QueryRow(ctx, query, id).Scan(&tenancy.ID, &tenancy.TenantID, &tenancy.PropertyID, &tenancy.RoomNumber, &tenancy.StartDate, &tenancy.EndDate, &tenancy.RentPrice, &tenancy.Status, &tenancy.LeavingReason, &tenancy.CreatedAt, &tenancy.UpdatedAt, &tenancy.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return tenancy, nil
}

// GetWithRelations loads a tenancy together with its tenant and property rows.
// Soft-deleted tenants/properties are still joined so historical tenancies
// stay readable.
func (r *tenancyRepo) GetWithRelations(ctx context.Context, id uuid.UUID) (*models.Tenancy, error) {
	query := `
		SELECT tc.id, tc.tenant_id, tc.property_id, tc.room_number, tc.start_date, tc.end_date, tc.rent_price, tc.status, tc.leaving_reason, tc.created_at, tc.updated_at, tc.deleted_at,
		       t.id, t.full_name, t.gender, t.date_of_birth, t.origin_city, t.occupation, t.workplace_name, t.phone_number, t.created_at, t.updated_at, t.deleted_at,
		       p.id, p.name, p.address, p.total_capacity, p.standard_monthly_rate, p.facility_description, p.created_at, p.updated_at, p.deleted_at
		FROM tenancies tc
		JOIN tenants t ON t.id = tc.tenant_id
		JOIN properties p ON p.id = tc.property_id
		WHERE tc.id = $1 AND tc.deleted_at IS NULL
	`
	tenancy := &models.Tenancy{Tenant: &models.Tenant{}, Property: &models.Property{}}
	t, p := tenancy.Tenant, tenancy.Property
	err := r.db.QueryRow(ctx, query, id).Scan(
		&tenancy.ID, &tenancy.TenantID, &tenancy.PropertyID, &tenancy.RoomNumber, &tenancy.StartDate, &tenancy.EndDate, &tenancy.RentPrice, &tenancy.Status, &tenancy.LeavingReason, &tenancy.CreatedAt, &tenancy.UpdatedAt, &tenancy.DeletedAt,
		&t.ID, &t.FullName, &t.Gender, &t.DateOfBirth, &t.OriginCity, &t.Occupation, &t.WorkplaceName, &t.PhoneNumber, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
		&p.ID, &p.Name, &p.Address, &p.TotalCapacity, &p.StandardMonthlyRate, &p.FacilityDescription, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return tenancy, nil
}

func (r *tenancyRepo) Update(ctx context.Context, tenancy *models.Tenancy) error {
	query := `
		UPDATE tenancies
		SET tenant_id = $1, property_id = $2, room_number = $3, start_date = $4, end_date = $5, rent_price = $6, status = $7, leaving_reason = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, tenancy.TenantID, tenancy.PropertyID, tenancy.RoomNumber, tenancy.StartDate, tenancy.EndDate, tenancy.RentPrice, tenancy.Status, tenancy.LeavingReason, tenancy.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *tenancyRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE tenancies
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

// Search filters tenancies by tenant/property name, property, tenant and
// status, with the listing page's sort whitelist.
func (r *tenancyRepo) Search(ctx context.Context, filter *models.TenancySearchFilter) ([]*models.Tenancy, error) {
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	sortBy := filter.SortBy
	switch sortBy {
	case "start_date", "rent_price", "status", "created_at":
	default:
		sortBy = "start_date"
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	queryBase := `
		SELECT tc.id, tc.tenant_id, tc.property_id, tc.room_number, tc.start_date, tc.end_date, tc.rent_price, tc.status, tc.leaving_reason, tc.created_at, tc.updated_at, tc.deleted_at,
		       t.id, t.full_name, t.gender, t.date_of_birth, t.origin_city, t.occupation, t.workplace_name, t.phone_number, t.created_at, t.updated_at, t.deleted_at,
		       p.id, p.name, p.address, p.total_capacity, p.standard_monthly_rate, p.facility_description, p.created_at, p.updated_at, p.deleted_at
		FROM tenancies tc
		JOIN tenants t ON t.id = tc.tenant_id
		JOIN properties p ON p.id = tc.property_id
		WHERE tc.deleted_at IS NULL
	`
	args := []any{}
	argc := 0

	if filter.Query != "" {
		argc++
		queryBase += fmt.Sprintf(` AND (t.full_name ILIKE '%%' || $%d || '%%' OR p.name ILIKE '%%' || $%d || '%%')`, argc, argc)
		args = append(args, filter.Query)
	}
	if filter.PropertyID != nil {
		argc++
		queryBase += fmt.Sprintf(` AND tc.property_id = $%d`, argc)
		args = append(args, *filter.PropertyID)
	}
	if filter.TenantID != nil {
		argc++
		queryBase += fmt.Sprintf(` AND tc.tenant_id = $%d`, argc)
		args = append(args, *filter.TenantID)
	}
	if filter.Status != nil {
		argc++
		queryBase += fmt.Sprintf(` AND tc.status = $%d`, argc)
		args = append(args, *filter.Status)
	}

	queryBase += fmt.Sprintf(` ORDER BY tc.%s %s LIMIT $%d OFFSET $%d`, sortBy, sortOrder, argc+1, argc+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenancies []*models.Tenancy
	for rows.Next() {
		tenancy := &models.Tenancy{Tenant: &models.Tenant{}, Property: &models.Property{}}
		t, p := tenancy.Tenant, tenancy.Property
		if err := rows.Scan(
			&tenancy.ID, &tenancy.TenantID, &tenancy.PropertyID, &tenancy.RoomNumber, &tenancy.StartDate, &tenancy.EndDate, &tenancy.RentPrice, &tenancy.Status, &tenancy.LeavingReason, &tenancy.CreatedAt, &tenancy.UpdatedAt, &tenancy.DeletedAt,
			&t.ID, &t.FullName, &t.Gender, &t.DateOfBirth, &t.OriginCity, &t.Occupation, &t.WorkplaceName, &t.PhoneNumber, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
			&p.ID, &p.Name, &p.Address, &p.TotalCapacity, &p.StandardMonthlyRate, &p.FacilityDescription, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
		); err != nil {
			return nil, err
		}
		tenancies = append(tenancies, tenancy)
	}
	return tenancies, rows.Err()
}

func (r *tenancyRepo) ExistsActiveForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tenancies
			WHERE property_id = $1 AND status = 'active' AND deleted_at IS NULL
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, propertyID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *tenancyRepo) ExistsActiveForTenant(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tenancies
			WHERE tenant_id = $1 AND status = 'active' AND deleted_at IS NULL
		)
	`
	var exists bool
	if err := r.db.QueryRow(ctx, query, tenantID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
