package document

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "github.com/boltdb/bolt"

	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

func propertyFields(p *models.Property) storage.Fields {
	return storage.Fields{
		storage.FieldID:        p.ID,
		storage.FieldName:      p.Name,
		storage.FieldCreatedAt: p.CreatedAt,
	}
}

func unitFields(u *models.Unit) storage.Fields {
	return storage.Fields{
		storage.FieldID:          u.ID,
		storage.FieldPropertyID:  u.PropertyID,
		storage.FieldName:        u.Name,
		storage.FieldContractEnd: u.ContractEnd,
		storage.FieldCreatedAt:   u.CreatedAt,
	}
}

func tenantFields(t *models.Tenant) storage.Fields {
	return storage.Fields{
		storage.FieldID:        t.ID,
		storage.FieldUnitID:    t.UnitID,
		storage.FieldStatus:    t.Status,
		storage.FieldName:      t.Name,
		storage.FieldCreatedAt: t.CreatedAt,
	}
}

func transactionFields(t *models.Transaction) storage.Fields {
	return storage.Fields{
		storage.FieldID:        t.ID,
		storage.FieldUnitID:    t.UnitID,
		storage.FieldIsIncome:  t.IsIncome,
		storage.FieldDate:      t.Date,
		storage.FieldName:      t.Name,
		storage.FieldCreatedAt: t.CreatedAt,
	}
}

func reminderFields(r *models.Reminder) storage.Fields {
	return storage.Fields{
		storage.FieldID:        r.ID,
		storage.FieldUnitID:    r.UnitID,
		storage.FieldCreatedAt: r.CreatedAt,
	}
}

func activityFields(l *models.ActivityLog) storage.Fields {
	return storage.Fields{
		storage.FieldID:         l.ID,
		storage.FieldEntityType: l.EntityType,
		storage.FieldEntityID:   l.EntityID,
		storage.FieldCreatedAt:  l.CreatedAt,
	}
}

// Properties

type propertyRepo struct {
	db *bolt.DB
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	p.ID = storage.GenerateID()
	p.CreatedAt = now()
	return r.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketProperties), p.ID, p)
	})
}

func (r *propertyRepo) GetByID(ctx context.Context, id string) (*models.Property, error) {
	return getByID[models.Property](r.db, bucketProperties, id)
}

func (r *propertyRepo) List(ctx context.Context, q storage.Query) ([]models.Property, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(storage.FieldCreatedAt)
	}
	return list(r.db, bucketProperties, q, propertyFields)
}

func (r *propertyRepo) Update(ctx context.Context, p *models.Property) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketProperties)
		var existing models.Property
		found, err := get(b, p.ID, &existing)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("property %s: %w", p.ID, storage.ErrNotFound)
		}
		p.CreatedAt = existing.CreatedAt
		return put(b, p.ID, p)
	})
}

// Delete removes the property and, in the same transaction, every unit it owns.
func (r *propertyRepo) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if !exists(tx, bucketProperties, id) {
			return fmt.Errorf("property %s: %w", id, storage.ErrNotFound)
		}
		units, err := all[models.Unit](tx.Bucket(bucketUnits))
		if err != nil {
			return err
		}
		for _, u := range units {
			if u.PropertyID != id {
				continue
			}
			if err := deleteUnit(tx, u.ID); err != nil {
				return err
			}
		}
		return tx.Bucket(bucketProperties).Delete([]byte(id))
	})
}

// Units

type unitRepo struct {
	db *bolt.DB
}

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if !exists(tx, bucketProperties, u.PropertyID) {
			return fmt.Errorf("property %s: %w", u.PropertyID, storage.ErrInvalidReference)
		}
		u.ID = storage.GenerateID()
		u.CreatedAt = now()
		u.UpdatedAt = u.CreatedAt
		return put(tx.Bucket(bucketUnits), u.ID, u)
	})
}

func (r *unitRepo) GetByID(ctx context.Context, id string) (*models.Unit, error) {
	return getByID[models.Unit](r.db, bucketUnits, id)
}

func (r *unitRepo) List(ctx context.Context, q storage.Query) ([]models.Unit, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(storage.FieldCreatedAt)
	}
	return list(r.db, bucketUnits, q, unitFields)
}

func (r *unitRepo) Update(ctx context.Context, u *models.Unit) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUnits)
		var existing models.Unit
		found, err := get(b, u.ID, &existing)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("unit %s: %w", u.ID, storage.ErrNotFound)
		}
		if !exists(tx, bucketProperties, u.PropertyID) {
			return fmt.Errorf("property %s: %w", u.PropertyID, storage.ErrInvalidReference)
		}
		u.CreatedAt = existing.CreatedAt
		u.UpdatedAt = now()
		return put(b, u.ID, u)
	})
}

func (r *unitRepo) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if !exists(tx, bucketUnits, id) {
			return fmt.Errorf("unit %s: %w", id, storage.ErrNotFound)
		}
		return deleteUnit(tx, id)
	})
}

// deleteUnit removes a unit with its transactions and reminder and
// unassigns its tenants.
func deleteUnit(tx *bolt.Tx, id string) error {
	err := deleteWhere(tx.Bucket(bucketTransactions), func(t *models.Transaction) bool {
		return t.UnitID == id
	})
	if err != nil {
		return fmt.Errorf("deleting transactions of unit %s: %w", id, err)
	}

	idx := tx.Bucket(bucketRemindersByUnit)
	if reminderID := idx.Get([]byte(id)); reminderID != nil {
		if err := tx.Bucket(bucketReminders).Delete(reminderID); err != nil {
			return err
		}
		if err := idx.Delete([]byte(id)); err != nil {
			return err
		}
	}

	tenants := tx.Bucket(bucketTenants)
	assigned, err := all[models.Tenant](tenants)
	if err != nil {
		return err
	}
	for i := range assigned {
		t := &assigned[i]
		if t.UnitID == nil || *t.UnitID != id {
			continue
		}
		t.UnitID = nil
		if err := put(tenants, t.ID, t); err != nil {
			return err
		}
	}

	return tx.Bucket(bucketUnits).Delete([]byte(id))
}

// Tenants

type tenantRepo struct {
	db *bolt.DB
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if t.UnitID != nil && !exists(tx, bucketUnits, *t.UnitID) {
			return fmt.Errorf("unit %s: %w", *t.UnitID, storage.ErrInvalidReference)
		}
		t.ID = storage.GenerateID()
		t.CreatedAt = now()
		t.UpdatedAt = t.CreatedAt
		return put(tx.Bucket(bucketTenants), t.ID, t)
	})
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	return getByID[models.Tenant](r.db, bucketTenants, id)
}

func (r *tenantRepo) List(ctx context.Context, q storage.Query) ([]models.Tenant, error) {
	if q.OrderBy == "" {
		q = q.OrderByAsc(storage.FieldCreatedAt)
	}
	return list(r.db, bucketTenants, q, tenantFields)
}

func (r *tenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTenants)
		var existing models.Tenant
		found, err := get(b, t.ID, &existing)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("tenant %s: %w", t.ID, storage.ErrNotFound)
		}
		if t.UnitID != nil && !exists(tx, bucketUnits, *t.UnitID) {
			return fmt.Errorf("unit %s: %w", *t.UnitID, storage.ErrInvalidReference)
		}
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = now()
		return put(b, t.ID, t)
	})
}

func (r *tenantRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(r.db, bucketTenants, "tenant", id)
}

// Transactions

type transactionRepo struct {
	db *bolt.DB
}

func (r *transactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		if !exists(tx, bucketUnits, t.UnitID) {
			return fmt.Errorf("unit %s: %w", t.UnitID, storage.ErrInvalidReference)
		}
		t.ID = storage.GenerateID()
		t.CreatedAt = now()
		t.UpdatedAt = t.CreatedAt
		t.Date = t.Date.UTC()
		t.ApplyIncomePolicy()
		return put(tx.Bucket(bucketTransactions), t.ID, t)
	})
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	return getByID[models.Transaction](r.db, bucketTransactions, id)
}

func (r *transactionRepo) List(ctx context.Context, q storage.Query) ([]models.Transaction, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(storage.FieldDate)
	}
	return list(r.db, bucketTransactions, q, transactionFields)
}

func (r *transactionRepo) Update(ctx context.Context, t *models.Transaction) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTransactions)
		var existing models.Transaction
		found, err := get(b, t.ID, &existing)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("transaction %s: %w", t.ID, storage.ErrNotFound)
		}
		if !exists(tx, bucketUnits, t.UnitID) {
			return fmt.Errorf("unit %s: %w", t.UnitID, storage.ErrInvalidReference)
		}
		t.CreatedAt = existing.CreatedAt
		t.UpdatedAt = now()
		t.Date = t.Date.UTC()
		t.ApplyIncomePolicy()
		return put(b, t.ID, t)
	})
}

func (r *transactionRepo) Delete(ctx context.Context, id string) error {
	return deleteDoc(r.db, bucketTransactions, "transaction", id)
}

// Reminders

type reminderRepo struct {
	db *bolt.DB
}

// CreateIfAbsent consults the unit index and writes the reminder in one
// transaction, so concurrent runs cannot both insert.
func (r *reminderRepo) CreateIfAbsent(ctx context.Context, rem *models.Reminder) (bool, error) {
	created := false
	err := r.db.Update(func(tx *bolt.Tx) error {
		if !exists(tx, bucketUnits, rem.UnitID) {
			return fmt.Errorf("unit %s: %w", rem.UnitID, storage.ErrInvalidReference)
		}
		idx := tx.Bucket(bucketRemindersByUnit)
		if idx.Get([]byte(rem.UnitID)) != nil {
			return nil
		}

		rem.ID = storage.GenerateID()
		rem.CreatedAt = now()
		if rem.ContractEnd != nil {
			end := rem.ContractEnd.UTC()
			rem.ContractEnd = &end
		}
		if err := put(tx.Bucket(bucketReminders), rem.ID, rem); err != nil {
			return err
		}
		created = true
		return idx.Put([]byte(rem.UnitID), []byte(rem.ID))
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *reminderRepo) List(ctx context.Context, q storage.Query) ([]models.Reminder, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(storage.FieldCreatedAt)
	}
	return list(r.db, bucketReminders, q, reminderFields)
}

// Activity logs

type activityLogRepo struct {
	db *bolt.DB
}

func (r *activityLogRepo) Create(ctx context.Context, l *models.ActivityLog) error {
	l.ID = storage.GenerateID()
	l.CreatedAt = now()
	data, err := json.Marshal(l)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketActivityLogs).Put([]byte(l.ID), data)
	})
}

func (r *activityLogRepo) List(ctx context.Context, q storage.Query) ([]models.ActivityLog, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(storage.FieldCreatedAt)
	}
	return list(r.db, bucketActivityLogs, q, activityFields)
}

func deleteDoc(db *bolt.DB, bucket []byte, what, id string) error {
	return db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}
