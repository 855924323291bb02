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

type createVehicleBody struct {
	Make   string  `json:"make" validate:"required,max=40"`
	Model  string  `json:"model" validate:"required,max=60"`
	Year   int     `json:"year" validate:"required"`
	Engine *string `json:"engine,omitempty" validate:"omitempty,max=40"`
}

// ListGarage returns the caller's vehicles.
func ListGarage(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := svc.ListVehicles(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CreateVehicle adds a garage entry; the first one becomes primary.
func CreateVehicle(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createVehicleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.CreateVehicle(r.Context(), middleware.UserIDFromContext(r.Context()), users.CreateVehicleInput{
			Make:   body.Make,
			Model:  body.Model,
			Year:   body.Year,
			Engine: body.Engine,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vehicle)
	}
}

// SetPrimaryVehicle moves the primary flag to the target vehicle.
func SetPrimaryVehicle(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParsePathUUID(chi.URLParam(r, "vehicleID"), "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		vehicle, err := svc.SetPrimaryVehicle(r.Context(), middleware.UserIDFromContext(r.Context()), vehicleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vehicle)
	}
}

// DeleteVehicle removes a garage entry.
func DeleteVehicle(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vehicleID, err := validators.ParsePathUUID(chi.URLParam(r, "vehicleID"), "vehicleID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteVehicle(r.Context(), middleware.UserIDFromContext(r.Context()), vehicleID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
