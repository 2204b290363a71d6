package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var tenantColumns = NewSQLBuilder(map[string]string{
	FieldID:        "id",
	FieldUnitID:    "unit_id",
	FieldStatus:    "status",
	FieldName:      "name",
	FieldCreatedAt: "created_at",
})

const tenantSelect = `
	SELECT id, name, phone, email, status, unit_id, aadhar, address, extra_details,
		   emergency_contact, dob, work_details, gender, id_image_url, created_at, updated_at
	FROM tenants`

// TenantRepo provides data access for tenants.
type TenantRepo struct {
	BaseRepository
}

// NewTenantRepo creates a new tenant repository.
func NewTenantRepo(db *DB) *TenantRepo {
	return &TenantRepo{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new tenant.
func (r *TenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	t.ID = GenerateID()
	t.CreatedAt = r.Now()
	t.UpdatedAt = t.CreatedAt
	t.DOB = utcPtr(t.DOB)

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO tenants (
			id, name, phone, email, status, unit_id, aadhar, address, extra_details,
			emergency_contact, dob, work_details, gender, id_image_url, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.Name, t.Phone, t.Email, t.Status, t.UnitID, t.Aadhar, t.Address, t.ExtraDetails,
		t.EmergencyContact, t.DOB, t.WorkDetails, t.Gender, t.IDImageURL, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("inserting tenant", err)
	}

	return nil
}

// GetByID retrieves a tenant by its ID. It returns nil when none exists.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	t, err := scanTenant(r.DB().QueryRowContext(ctx, tenantSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying tenant: %w", err)
	}
	return t, nil
}

// List retrieves tenants matching q, oldest first unless q orders otherwise.
func (r *TenantRepo) List(ctx context.Context, q Query) ([]models.Tenant, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(FieldCreatedAt)
	}
	clause, args, err := tenantColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx, tenantSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tenants: %w", err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning tenant: %w", err)
		}
		tenants = append(tenants, *t)
	}

	return tenants, rows.Err()
}

// Update replaces the editable fields of a tenant and refreshes UpdatedAt.
func (r *TenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	t.UpdatedAt = r.Now()
	t.DOB = utcPtr(t.DOB)

	result, err := r.DB().ExecContext(ctx, `
		UPDATE tenants SET
			name = ?, phone = ?, email = ?, status = ?, unit_id = ?, aadhar = ?, address = ?,
			extra_details = ?, emergency_contact = ?, dob = ?, work_details = ?, gender = ?,
			id_image_url = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Name, t.Phone, t.Email, t.Status, t.UnitID, t.Aadhar, t.Address,
		t.ExtraDetails, t.EmergencyContact, t.DOB, t.WorkDetails, t.Gender,
		t.IDImageURL, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return wrapWriteError("updating tenant", err)
	}
	return checkAffected(result, "tenant", t.ID)
}

// Delete removes a tenant.
func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM tenants WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting tenant: %w", err)
	}
	return checkAffected(result, "tenant", id)
}

func scanTenant(row rowScanner) (*models.Tenant, error) {
	t := &models.Tenant{}
	if err := row.Scan(
		&t.ID, &t.Name, &t.Phone, &t.Email, &t.Status, &t.UnitID, &t.Aadhar, &t.Address,
		&t.ExtraDetails, &t.EmergencyContact, &t.DOB, &t.WorkDetails, &t.Gender,
		&t.IDImageURL, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}
