package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// TenantRequest is the body of tenant create and update.
// Blank optional strings are stored as null.
type TenantRequest struct {
	Name             string  `json:"name" validate:"required"`
	Phone            string  `json:"phone" validate:"required"`
	Email            *string `json:"email"`
	Status           string  `json:"status" validate:"omitempty,oneof=Active Inactive"`
	UnitID           *string `json:"unitId"`
	Aadhar           *string `json:"aadhar"`
	Address          *string `json:"address"`
	ExtraDetails     *string `json:"extraDetails"`
	EmergencyContact *string `json:"emergencyContact"`
	DOB              *string `json:"dob"`
	WorkDetails      *string `json:"workDetails"`
	Gender           *string `json:"gender"`
	IDImageURL       *string `json:"idImageUrl"`
}

func (req *TenantRequest) toModel(id string, loc *time.Location) (*models.Tenant, error) {
	dob, err := optionalTime("dob", req.DOB, loc)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.TenantStatusActive
	}

	return &models.Tenant{
		ID:               id,
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            nullable(req.Email),
		Status:           status,
		UnitID:           nullable(req.UnitID),
		Aadhar:           nullable(req.Aadhar),
		Address:          nullable(req.Address),
		ExtraDetails:     nullable(req.ExtraDetails),
		EmergencyContact: nullable(req.EmergencyContact),
		DOB:              dob,
		WorkDetails:      nullable(req.WorkDetails),
		Gender:           nullable(req.Gender),
		IDImageURL:       nullable(req.IDImageURL),
	}, nil
}

// tenantQuery builds the filter shared by the list and export endpoints.
func tenantQuery(v url.Values) storage.Query {
	q := storage.NewQuery()
	if status := v.Get("status"); status != "" {
		q = q.Eq(storage.FieldStatus, status)
	}
	if unitID := v.Get("unitId"); unitID != "" {
		q = q.Eq(storage.FieldUnitID, unitID)
	}
	return q
}

// ListTenants returns tenants filtered by ?status and ?unitId.
func ListTenants(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenants, err := d.Store.Tenants().List(r.Context(), tenantQuery(r.URL.Query()))
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch tenants", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, tenants)
	}
}

// GetTenant returns a single tenant by ID.
func GetTenant(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := d.Store.Tenants().GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch tenant", err)
			return
		}
		if t == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Tenant not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, t)
	}
}

// CreateTenant creates a tenant, optionally assigned to a unit.
func CreateTenant(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TenantRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}
		t, err := req.toModel("", d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}

		if err := d.Store.Tenants().Create(r.Context(), t); err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}

		if t.UnitID != nil {
			d.audit(r.Context(), models.EntityUnit, *t.UnitID, models.ActionTenantAdded,
				fmt.Sprintf("Tenant \"%s\" added to unit %s", t.Name, d.unitName(r.Context(), *t.UnitID)))
		}
		d.changed(models.EntityTenant, websocket.ActionCreated, t.ID)

		middleware.WriteJSON(w, http.StatusCreated, t)
	}
}

// UpdateTenant replaces the editable fields of a tenant. Moving the tenant
// to a different unit is recorded in the activity log.
func UpdateTenant(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TenantRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}
		t, err := req.toModel(mux.Vars(r)["id"], d.location())
		if err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}

		previous, err := d.Store.Tenants().GetByID(r.Context(), t.ID)
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch tenant", err)
			return
		}
		if previous == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Tenant not found")
			return
		}

		if err := d.Store.Tenants().Update(r.Context(), t); err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}

		updated, err := d.Store.Tenants().GetByID(r.Context(), t.ID)
		if err != nil || updated == nil {
			if err != nil {
				d.Log.WithError(err).WithField("id", t.ID).Warn("Failed to re-read updated tenant")
			}
			updated = t
		}

		if t.UnitID != nil && (previous.UnitID == nil || *previous.UnitID != *t.UnitID) {
			d.audit(r.Context(), models.EntityUnit, *t.UnitID, models.ActionTenantMoved,
				fmt.Sprintf("Tenant \"%s\" moved to unit %s", t.Name, d.unitName(r.Context(), *t.UnitID)))
		}
		d.changed(models.EntityTenant, websocket.ActionUpdated, t.ID)

		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteTenant deletes a tenant.
func DeleteTenant(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := d.Store.Tenants().Delete(r.Context(), id); err != nil {
			writeRequestError(w, d.Log, err, "Tenant")
			return
		}

		d.changed(models.EntityTenant, websocket.ActionDeleted, id)
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// unitName resolves a unit for activity messages, falling back to its ID.
func (d Deps) unitName(ctx context.Context, id string) string {
	u, err := d.Store.Units().GetByID(ctx, id)
	if err != nil || u == nil {
		return id
	}
	return u.Name
}
