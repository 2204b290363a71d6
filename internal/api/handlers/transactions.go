package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// TransactionRequest is the body of transaction create and update.
// Amount accepts a JSON number or a decimal string.
type TransactionRequest struct {
	Name            string           `json:"name" validate:"required"`
	TransactionType string           `json:"transactionType" validate:"required"`
	IsIncome        bool             `json:"isIncome"`
	Amount          *decimal.Decimal `json:"amount" validate:"required"`
	Date            string           `json:"date" validate:"required"`
	PaidBy          *string          `json:"paidBy"`
	ReceiptURL      *string          `json:"receiptUrl"`
	UnitID          string           `json:"unitId" validate:"required"`
}

func (req *TransactionRequest) toModel(id string, loc *time.Location) (*models.Transaction, error) {
	if req.Amount.IsNegative() {
		return nil, invalid("amount", "min", "amount must not be negative")
	}
	if !req.Amount.Equal(req.Amount.Round(2)) {
		return nil, invalid("amount", "decimal", "amount must have at most 2 decimal places")
	}
	date, err := parseTime(req.Date, loc)
	if err != nil {
		return nil, invalid("date", "date", "date must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
	}

	t := &models.Transaction{
		ID:              id,
		Name:            req.Name,
		TransactionType: req.TransactionType,
		IsIncome:        req.IsIncome,
		Amount:          *req.Amount,
		Date:            date,
		PaidBy:          nullable(req.PaidBy),
		ReceiptURL:      nullable(req.ReceiptURL),
		UnitID:          req.UnitID,
	}
	t.ApplyIncomePolicy()
	return t, nil
}

// transactionQuery builds the filter shared by the list and export endpoints.
// Results are newest first.
func transactionQuery(v url.Values, loc *time.Location) (storage.Query, error) {
	q := storage.NewQuery().OrderByDesc(storage.FieldDate)
	if unitID := v.Get("unitId"); unitID != "" {
		q = q.Eq(storage.FieldUnitID, unitID)
	}

	isIncome, err := queryBool(v, "isIncome")
	if err != nil {
		return q, err
	}
	if isIncome != nil {
		q = q.Eq(storage.FieldIsIncome, *isIncome)
	}

	start, err := queryTime(v, "startDate", loc)
	if err != nil {
		return q, err
	}
	if start != nil {
		q = q.Gte(storage.FieldDate, *start)
	}

	end, err := queryTime(v, "endDate", loc)
	if err != nil {
		return q, err
	}
	if end != nil {
		q = q.Lte(storage.FieldDate, *end)
	}

	return q, nil
}

// ListTransactions returns transactions filtered by ?unitId, ?isIncome,
// ?startDate and ?endDate.
func ListTransactions(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := transactionQuery(r.URL.Query(), d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		transactions, err := d.Store.Transactions().List(r.Context(), q)
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch transactions", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, transactions)
	}
}

// GetTransaction returns a single transaction by ID.
func GetTransaction(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.Transactions().GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch transaction", err)
			return
		}
		if t == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Transaction not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, t)
	}
}

// CreateTransaction records a transaction against an existing unit.
// Rent and Deposit are always income.
func CreateTransaction(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransactionRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}
		t, err := req.toModel("", d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		if err := d.Store.Transactions().Create(r.Context(), t); err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		kind := "Expense"
		if t.IsIncome {
			kind = "Income"
		}
		d.audit(r.Context(), models.EntityUnit, t.UnitID, models.ActionTransactionAdded,
			fmt.Sprintf("%s of ₹%s - %s", kind, t.Amount.String(), t.Name))
		d.changed(models.EntityTransaction, websocket.ActionCreated, t.ID)

		middleware.WriteJSON(w, http.StatusCreated, t)
	}
}

// UpdateTransaction replaces the editable fields of a transaction.
func UpdateTransaction(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransactionRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}
		t, err := req.toModel(mux.Vars(r)["id"], d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		if err := d.Store.Transactions().Update(r.Context(), t); err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		updated, err := d.Store.Transactions().GetByID(r.Context(), t.ID)
		if err != nil || updated == nil {
			if err != nil {
				d.Log.WithError(err).WithField("id", t.ID).Warn("Failed to re-read updated transaction")
			}
			updated = t
		}

		d.changed(models.EntityTransaction, websocket.ActionUpdated, t.ID)
		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteTransaction deletes a transaction.
func DeleteTransaction(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := d.Store.Transactions().Delete(r.Context(), id); err != nil {
			writeRequestError(w, d.Log, err, "Transaction")
			return
		}

		d.changed(models.EntityTransaction, websocket.ActionDeleted, id)
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
