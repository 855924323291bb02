package controllers

import (
	"net/http"

	"github.com/matrknhash/marketplace-backend/api/middleware"
	"github.com/matrknhash/marketplace-backend/api/responses"
	"github.com/matrknhash/marketplace-backend/api/validators"
	"github.com/matrknhash/marketplace-backend/internal/fitment"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type fitmentChatBody struct {
	Question string `json:"question" validate:"required,min=2,max=2000"`
}

// FitmentChat answers a part-compatibility question, grounded on the
// caller's primary garage vehicle when one exists.
func FitmentChat(svc fitment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body fitmentChatBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		answer, err := svc.Chat(r.Context(), middleware.UserIDFromContext(r.Context()), body.Question)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, answer)
	}
}
