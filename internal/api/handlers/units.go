package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// UnitRequest is the body of unit create and update.
// Contract dates may be null, empty, a date or an RFC 3339 timestamp.
type UnitRequest struct {
	PropertyID    string  `json:"propertyId" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Rent          *int64  `json:"rent" validate:"required,min=0"`
	Deposit       *int64  `json:"deposit" validate:"required,min=0"`
	Maintenance   *int64  `json:"maintenance" validate:"omitempty,min=0"`
	Floor         *int    `json:"floor"`
	ContractStart *string `json:"contractStart"`
	ContractEnd   *string `json:"contractEnd"`
}

func (req *UnitRequest) toModel(id string, loc *time.Location) (*models.Unit, error) {
	start, err := optionalTime("contractStart", req.ContractStart, loc)
	if err != nil {
		return nil, err
	}
	end, err := optionalTime("contractEnd", req.ContractEnd, loc)
	if err != nil {
		return nil, err
	}

	u := &models.Unit{
		ID:            id,
		PropertyID:    req.PropertyID,
		Name:          req.Name,
		Rent:          *req.Rent,
		Deposit:       *req.Deposit,
		ContractStart: start,
		ContractEnd:   end,
	}
	if req.Maintenance != nil {
		u.Maintenance = *req.Maintenance
	}
	if req.Floor != nil {
		u.Floor = *req.Floor
	}
	return u, nil
}

// ListUnits returns units, optionally scoped to ?propertyId.
func ListUnits(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := storage.NewQuery()
		if propertyID := r.URL.Query().Get("propertyId"); propertyID != "" {
			q = q.Eq(storage.FieldPropertyID, propertyID)
		}

		units, err := d.Store.Units().List(r.Context(), q)
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch units", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, units)
	}
}

// GetUnit returns a single unit by ID.
func GetUnit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.Store.Units().GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch unit", err)
			return
		}
		if u == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Unit not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, u)
	}
}

// CreateUnit creates a unit in an existing property.
func CreateUnit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnitRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}
		u, err := req.toModel("", d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}

		if err := d.Store.Units().Create(r.Context(), u); err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}

		d.audit(r.Context(), models.EntityUnit, u.ID, models.ActionUnitCreated,
			fmt.Sprintf("Unit \"%s\" created", u.Name))
		d.audit(r.Context(), models.EntityProperty, u.PropertyID, models.ActionUnitAdded,
			fmt.Sprintf("Unit \"%s\" added to property", u.Name))
		d.changed(models.EntityUnit, websocket.ActionCreated, u.ID)

		middleware.WriteJSON(w, http.StatusCreated, u)
	}
}

// UpdateUnit replaces the editable fields of a unit.
func UpdateUnit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UnitRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}
		u, err := req.toModel(mux.Vars(r)["id"], d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}

		if err := d.Store.Units().Update(r.Context(), u); err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}

		updated, err := d.Store.Units().GetByID(r.Context(), u.ID)
		if err != nil || updated == nil {
			if err != nil {
				d.Log.WithError(err).WithField("id", u.ID).Warn("Failed to re-read updated unit")
			}
			updated = u
		}

		d.audit(r.Context(), models.EntityUnit, u.ID, models.ActionUnitUpdated,
			fmt.Sprintf("Unit \"%s\" updated", u.Name))
		d.changed(models.EntityUnit, websocket.ActionUpdated, u.ID)

		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteUnit deletes a unit with its transactions and reminders.
func DeleteUnit(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := d.Store.Units().Delete(r.Context(), id); err != nil {
			writeRequestError(w, d.Log, err, "Unit")
			return
		}

		d.changed(models.EntityUnit, websocket.ActionDeleted, id)
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
