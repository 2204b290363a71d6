package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
)

var transactionColumns = NewSQLBuilder(map[string]string{
	FieldID:        "id",
	FieldUnitID:    "unit_id",
	FieldIsIncome:  "is_income",
	FieldDate:      "date",
	FieldName:      "name",
	FieldCreatedAt: "created_at",
})

const transactionSelect = `
	SELECT id, name, transaction_type, is_income, amount, date, paid_by, receipt_url,
		   unit_id, created_at, updated_at
	FROM transactions`

// TransactionRepo provides data access for transactions.
type TransactionRepo struct {
	BaseRepository
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{BaseRepository: NewBaseRepository(db)}
}

// Create inserts a new transaction. The unit must exist.
func (r *TransactionRepo) Create(ctx context.Context, t *models.Transaction) error {
	t.ID = GenerateID()
	t.CreatedAt = r.Now()
	t.UpdatedAt = t.CreatedAt
	t.Date = t.Date.UTC()
	t.ApplyIncomePolicy()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO transactions (
			id, name, transaction_type, is_income, amount, date, paid_by, receipt_url,
			unit_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, t.Name, t.TransactionType, t.IsIncome, t.Amount, t.Date, t.PaidBy, t.ReceiptURL,
		t.UnitID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return wrapWriteError("inserting transaction", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID. It returns nil when none exists.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	t, err := scanTransaction(r.DB().QueryRowContext(ctx, transactionSelect+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying transaction: %w", err)
	}
	return t, nil
}

// List retrieves transactions matching q, newest first unless q orders otherwise.
func (r *TransactionRepo) List(ctx context.Context, q Query) ([]models.Transaction, error) {
	if q.OrderBy == "" {
		q = q.OrderByDesc(FieldDate)
	}
	clause, args, err := transactionColumns.Build(q)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB().QueryContext(ctx, transactionSelect+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		transactions = append(transactions, *t)
	}

	return transactions, rows.Err()
}

// Update replaces the editable fields of a transaction and refreshes UpdatedAt.
func (r *TransactionRepo) Update(ctx context.Context, t *models.Transaction) error {
	t.UpdatedAt = r.Now()
	t.Date = t.Date.UTC()
	t.ApplyIncomePolicy()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE transactions SET
			name = ?, transaction_type = ?, is_income = ?, amount = ?, date = ?,
			paid_by = ?, receipt_url = ?, unit_id = ?, updated_at = ?
		WHERE id = ?
	`,
		t.Name, t.TransactionType, t.IsIncome, t.Amount, t.Date,
		t.PaidBy, t.ReceiptURL, t.UnitID, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return wrapWriteError("updating transaction", err)
	}
	return checkAffected(result, "transaction", t.ID)
}

// Delete removes a transaction.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return checkAffected(result, "transaction", id)
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	if err := row.Scan(
		&t.ID, &t.Name, &t.TransactionType, &t.IsIncome, &t.Amount, &t.Date, &t.PaidBy, &t.ReceiptURL,
		&t.UnitID, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return t, nil
}
