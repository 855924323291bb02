package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matrknhash/marketplace-backend/api/responses"
	"github.com/matrknhash/marketplace-backend/api/validators"
	"github.com/matrknhash/marketplace-backend/internal/orders"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type confirmShipBody struct {
	Carrier string `json:"carrier,omitempty"`
}

// ListAllOrders returns every order for the admin console.
func ListAllOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := orderListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListAllOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminOverrideStatus sets an order status without transition checks.
func AdminOverrideStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body statusUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		order, err := svc.AdminOverrideStatus(r.Context(), orders.AdminStatusInput{
			OrderID: orderID,
			Status:  status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ConfirmAndShip books the carrier and moves a pending order to Shipped.
func ConfirmAndShip(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderID"), "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body confirmShipBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input := orders.ConfirmShipInput{OrderID: orderID}
		if body.Carrier != "" {
			carrier, err := enums.ParseShippingCarrier(body.Carrier)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid carrier"))
				return
			}
			input.Carrier = carrier
		}
		order, err := svc.ConfirmAndShip(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}
