package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var unitColumns = NewSQLBuilder(map[string]string{
	FieldID:          "id",
	FieldPropertyID:  "property_id",
	FieldName:        "name",
	FieldContractEnd: "contract_end",
	FieldCreatedAt:   "created_at",
})

const unitSelect = `
	SELECT id, property_id, name, rent, deposit, maintenance, floor,
		   contract_start, contract_end, created_at, updated_at
	FROM units`

// UnitRepo provides data access for units.
type UnitRepo struct {
	BaseRepository
}

// NewUnitRepo creates a new unit repository.
func NewUnitRepo(db *DB) *UnitRepo {
	return &UnitRepo{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new unit. The owning property must exist.
func (r *UnitRepo) Create(ctx context.Context, u *models.Unit) error {
	u.ID = GenerateID()
	u.CreatedAt = r.Now()
	u.UpdatedAt = u.CreatedAt
	u.ContractStart = utcPtr(u.ContractStart)
	u.ContractEnd = utcPtr(u.ContractEnd)

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO units (
			id, property_id, name, rent, deposit, maintenance, floor,
			contract_start, contract_end, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		u.ID, u.PropertyID, u.Name, u.Rent, u.Deposit, u.Maintenance, u.Floor,
		u.ContractStart, u.ContractEnd, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("inserting unit", err)
	}

	return nil
}

// GetByID retrieves a unit by its ID. It returns nil when none exists.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	u, err := scanUnit(r.DB().QueryRowContext(ctx, unitSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying unit: %w", err)
	}
	return u, nil
}

// List retrieves units matching q, oldest first unless q orders otherwise.
func (r *UnitRepo) List(ctx context.Context, q Query) ([]models.Unit, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(FieldCreatedAt)
	}
	clause, args, err := unitColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx, unitSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning unit: %w", err)
		}
		units = append(units, *u)
	}

	return units, rows.Err()
}

// Update replaces the editable fields of a unit and refreshes UpdatedAt.
func (r *UnitRepo) Update(ctx context.Context, u *models.Unit) error {
	u.UpdatedAt = r.Now()
	u.ContractStart = utcPtr(u.ContractStart)
	u.ContractEnd = utcPtr(u.ContractEnd)

	result, err := r.DB().ExecContext(ctx, `
		UPDATE units SET
			property_id = ?, name = ?, rent = ?, deposit = ?, maintenance = ?, floor = ?,
			contract_start = ?, contract_end = ?, updated_at = ?
		WHERE id = ?
	`,
		u.PropertyID, u.Name, u.Rent, u.Deposit, u.Maintenance, u.Floor,
		u.ContractStart, u.ContractEnd, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return wrapWriteError("updating unit", err)
	}
	return checkAffected(result, "unit", u.ID)
}

// Delete removes a unit along with its transactions and reminders.
// Tenants of the unit become unassigned.
func (r *UnitRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM units WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting unit: %w", err)
	}
	return checkAffected(result, "unit", id)
}

func scanUnit(row rowScanner) (*models.Unit, error) {
	u := &models.Unit{}
	if err := row.Scan(
		&u.ID, &u.PropertyID, &u.Name, &u.Rent, &u.Deposit, &u.Maintenance, &u.Floor,
		&u.ContractStart, &u.ContractEnd, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return u, nil
}
