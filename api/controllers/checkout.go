package controllers

import (
	"net/http"

	"github.com/matrknhash/marketplace-backend/api/middleware"
	"github.com/matrknhash/marketplace-backend/api/responses"
	"github.com/matrknhash/marketplace-backend/api/validators"
	"github.com/matrknhash/marketplace-backend/internal/checkout"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

// Checkout turns the caller's cart into an order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var input checkout.CheckoutInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Execute(r.Context(), middleware.UserIDFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
