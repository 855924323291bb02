package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matrknhash/marketplace-backend/api/middleware"
	"github.com/matrknhash/marketplace-backend/api/responses"
	"github.com/matrknhash/marketplace-backend/api/validators"
	"github.com/matrknhash/marketplace-backend/internal/users"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type createAddressBody struct {
	Label     string `json:"label" validate:"required,max=60"`
	Details   string `json:"details" validate:"required,max=500"`
	IsDefault bool   `json:"isDefault"`
}

// ListAddresses returns the caller's address book.
func ListAddresses(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListAddresses(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateAddress adds an address book entry.
func CreateAddress(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createAddressBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		address, err := svc.CreateAddress(r.Context(), middleware.UserIDFromContext(r.Context()), users.CreateAddressInput{
			Label:     body.Label,
			Details:   body.Details,
			IsDefault: body.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, address)
	}
}

// DeleteAddress removes an address book entry.
func DeleteAddress(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addressID, err := validators.ParsePathUUID(chi.URLParam(r, "addressID"), "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteAddress(r.Context(), middleware.UserIDFromContext(r.Context()), addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
