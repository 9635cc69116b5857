package repositories

import (
	"context"
	"errors"
	"fmt"

	"kosmart/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PropertyRepository interface {
	WithTx(tx pgx.Tx) PropertyRepository
	Create(ctx context.Context, property *models.Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Update(ctx context.Context, property *models.Property) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error)
}

type propertyRepo struct {
	db DB
}

func NewPropertyRepo(db DB) PropertyRepository {
	return &propertyRepo{db: db}
}

func (r *propertyRepo) WithTx(tx pgx.Tx) PropertyRepository {
	return &propertyRepo{db: tx}
}

const propertyColumns = `id, name, address, total_capacity, standard_monthly_rate, facility_description, created_at, updated_at, deleted_at`

func (r *propertyRepo) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, name, address, total_capacity, standard_monthly_rate, facility_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, property.ID, property.Name, property.Address, property.TotalCapacity, property.StandardMonthlyRate, property.FacilityDescription)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE id = $1 AND deleted_at IS NULL
	`, propertyColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByIDForUpdate locks the property row for the rest of the current
// transaction. Check-in and the deletion guard both take this lock so the
// active-tenancy check cannot race a concurrent delete.
func (r *propertyRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE
	`, propertyColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepo) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties
		SET name = $1, address = $2, total_capacity = $3, standard_monthly_rate = $4, facility_description = $5, updated_at = NOW()
		WHERE id = $6 AND deleted_at IS NULL
	`
	tag, err := r.db.Exec(ctx, query, property.Name, property.Address, property.TotalCapacity, property.StandardMonthlyRate, property.FacilityDescription, property.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *propertyRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE properties
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

// Search performs name search with pagination. The sort column whitelist
// mirrors the listing page.
func (r *propertyRepo) Search(ctx context.Context, filter *models.PropertySearchFilter) ([]*models.Property, error) {
	if filter.Limit == 0 {
		filter.Limit = 10
	}
	sortBy := filter.SortBy
	switch sortBy {
	case "name", "created_at", "updated_at":
	default:
		sortBy = "name"
	}
	sortOrder := "ASC"
	if filter.SortOrder == "desc" {
		sortOrder = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM properties
		WHERE deleted_at IS NULL AND ($1 = '' OR name ILIKE '%%' || $1 || '%%')
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`, propertyColumns, sortBy, sortOrder)

	rows, err := r.db.Query(ctx, query, filter.Query, filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		property := &models.Property{}
		if err := rows.Scan(&property.ID, &property.Name, &property.Address, &property.TotalCapacity, &property.StandardMonthlyRate, &property.FacilityDescription, &property.CreatedAt, &property.UpdatedAt, &property.DeletedAt); err != nil {
			return nil, err
		}
		properties = append(properties, property)
	}
	return properties, rows.Err()
}

func (r *propertyRepo) scanOne(row pgx.Row) (*models.Property, error) {
	property := &models.Property{}
	err := row.Scan(&property.ID, &property.Name, &property.Address, &property.TotalCapacity, &property.StandardMonthlyRate, &property.FacilityDescription, &property.CreatedAt, &property.UpdatedAt, &property.DeletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return property, nil
}
