package handlers

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shanteshgogi/Property-Manager/internal/api/middleware"
	"github.com/shanteshgogi/Property-Manager/internal/storage"
	"github.com/shanteshgogi/Property-Manager/internal/storage/models"
	"github.com/shanteshgogi/Property-Manager/internal/websocket"
)

// PropertyRequest is the body of property create and update.
type PropertyRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// ListProperties returns all properties, oldest first.
func ListProperties(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		properties, err := d.Store.Properties().List(r.Context(), storage.NewQuery())
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch properties", err)
			return
		}
		middleware.WriteJSON(w, http.StatusOK, properties)
	}
}

// GetProperty returns a single property by ID.
func GetProperty(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Store.Properties().GetByID(r.Context(), mux.Vars(r)["id"])
		if err != nil {
			middleware.WriteInternalError(w, d.Log, "Failed to fetch property", err)
			return
		}
		if p == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}
		middleware.WriteJSON(w, http.StatusOK, p)
	}
}

// CreateProperty creates a property.
func CreateProperty(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Property")
			return
		}

		p := &models.Property{Name: req.Name, Address: req.Address}
		if err := d.Store.Properties().Create(r.Context(), p); err != nil {
			writeRequestError(w, d.Log, err, "Property")
			return
		}

		d.audit(r.Context(), models.EntityProperty, p.ID, models.ActionPropertyCreated,
			fmt.Sprintf("Property \"%s\" created", p.Name))
		d.changed(models.EntityProperty, websocket.ActionCreated, p.ID)

		middleware.WriteJSON(w, http.StatusCreated, p)
	}
}

// UpdateProperty replaces the editable fields of a property.
func UpdateProperty(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := decodeBody(r, &req); err != nil {
			writeRequestError(w, d.Log, err, "Property")
			return
		}

		p := &models.Property{ID: mux.Vars(r)["id"], Name: req.Name, Address: req.Address}
		if err := d.Store.Properties().Update(r.Context(), p); err != nil {
			writeRequestError(w, d.Log, err, "Property")
			return
		}

		updated, err := d.Store.Properties().GetByID(r.Context(), p.ID)
		if err != nil || updated == nil {
			if err != nil {
				d.Log.WithError(err).WithField("id", p.ID).Warn("Failed to re-read updated property")
			}
			updated = p
		}

		d.audit(r.Context(), models.EntityProperty, p.ID, models.ActionPropertyUpdated,
			fmt.Sprintf("Property \"%s\" updated", p.Name))
		d.changed(models.EntityProperty, websocket.ActionUpdated, p.ID)

		middleware.WriteJSON(w, http.StatusOK, updated)
	}
}

// DeleteProperty deletes a property together with its units and their transactions.
func DeleteProperty(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		if err := d.Store.Properties().Delete(r.Context(), id); err != nil {
			writeRequestError(w, d.Log, err, "Property")
			return
		}

		d.changed(models.EntityProperty, websocket.ActionDeleted, id)
		middleware.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}
