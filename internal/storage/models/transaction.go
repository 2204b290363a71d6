package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. The set is open: any non-empty type is accepted.
const (
	TransactionTypeRent        = "Rent"
	TransactionTypeDeposit     = "Deposit"
	TransactionTypeMaintenance = "Maintenance"
	TransactionTypeRepair      = "Repair"
	TransactionTypeUtility     = "Utility"
	TransactionTypeOther       = "Other"
)

// Transaction is a dated monetary event tied to exactly one unit.
type Transaction struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	TransactionType string          `json:"transactionType"`
	IsIncome        bool            `json:"isIncome"`
	Amount          decimal.Decimal `json:"amount"`
	Date            time.Time       `json:"date"`
	PaidBy          *string         `json:"paidBy"`
	ReceiptURL      *string         `json:"receiptUrl"`
	UnitID          string          `json:"unitId"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ForcesIncome reports whether transactions of the given type are always income.
func ForcesIncome(transactionType string) bool {
	return transactionType == TransactionTypeRent || transactionType == TransactionTypeDeposit
}

// ApplyIncomePolicy sets IsIncome for Rent and Deposit regardless of client input.
func (t *Transaction) ApplyIncomePolicy() {
	if ForcesIncome(t.TransactionType) {
		t.IsIncome = true
	}
}
