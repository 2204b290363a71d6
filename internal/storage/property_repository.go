package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var propertyColumns = NewSQLBuilder(map[string]string{
	FieldID:        "id",
	FieldName:      "name",
	FieldCreatedAt: "created_at",
})

const propertySelect = `SELECT id, name, address, created_at FROM properties`

// PropertyRepo provides data access for properties.
type PropertyRepo struct {
	BaseRepository
}

// NewPropertyRepo creates a new property repository.
func NewPropertyRepo(db *DB) *PropertyRepo {
	return &PropertyRepo{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new property.
func (r *PropertyRepo) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx,
		`INSERT INTO properties (id, name, address, created_at) VALUES (?, ?, ?, ?)`,
		p.ID, p.Name, p.Address, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID. It returns nil when none exists.
func (r *PropertyRepo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	p, err := scanProperty(r.DB().QueryRowContext(ctx, propertySelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}
	return p, nil
}

// List retrieves properties matching q, oldest first unless q orders otherwise.
func (r *PropertyRepo) List(ctx context.Context, q Query) ([]models.Property, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(FieldCreatedAt)
	}
	clause, args, err := propertyColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx, propertySelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	properties := []models.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, *p)
	}

	return properties, rows.Err()
}

// Update replaces the editable fields of a property.
func (r *PropertyRepo) Update(ctx context.Context, p *models.Property) error {
	result, err := r.DB().ExecContext(ctx,
		`UPDATE properties SET name = ?, address = ? WHERE id = ?`,
		p.Name, p.Address, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}
	return checkAffected(result, "property", p.ID)
}

// Delete removes a property. Units and their transactions go with it.
func (r *PropertyRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	return checkAffected(result, "property", id)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (*models.Property, error) {
	p := &models.Property{}
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}
