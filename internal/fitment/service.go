package fitment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

const systemPrompt = "You are an auto-parts fitment assistant for an online " +
	"marketplace. Answer briefly and concretely whether a part fits the " +
	"customer's vehicle and what to check before buying. If you are not sure, " +
	"say so instead of guessing."

const maxQuestionLen = 2000

type garage interface {
	PrimaryVehicle(ctx context.Context, userID uuid.UUID) (*models.Vehicle, error)
}

// Answer is one fitment chat reply.
type Answer struct {
	Reply   string          `json:"reply"`
	Vehicle *models.Vehicle `json:"vehicle,omitempty"`
}

// Service proxies customer fitment questions to the LLM provider, templated
// over the customer's primary vehicle.
type Service interface {
	Chat(ctx context.Context, userID uuid.UUID, question string) (*Answer, error)
}

type service struct {
	client *client
	garage garage
	logg   *logger.Logger
}

// NewService wires the fitment chat proxy.
func NewService(cfg config.FitmentConfig, gar garage, logg *logger.Logger) (Service, error) {
	if gar == nil {
		return nil, fmt.Errorf("garage service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: newClient(cfg), garage: gar, logg: logg}, nil
}

// Chat answers one question. A customer without a primary vehicle still gets
// an answer, just without vehicle context. Provider failures change no state.
func (s *service) Chat(ctx context.Context, userID uuid.UUID, question string) (*Answer, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "question required")
	}
	if len(question) > maxQuestionLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("question exceeds %d characters", maxQuestionLen))
	}

	var vehicle *models.Vehicle
	found, err := s.garage.PrimaryVehicle(ctx, userID)
	switch {
	case err == nil:
		vehicle = found
	case pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeNotFound:
		// no garage entry, answer without vehicle context
	default:
		return nil, err
	}

	reply, err := s.client.complete(ctx, buildMessages(vehicle, question))
	if err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, userID.String()), "fitment provider call failed", err)
		return nil, err
	}
	return &Answer{Reply: reply, Vehicle: vehicle}, nil
}

func buildMessages(vehicle *models.Vehicle, question string) []chatMessage {
	messages := []chatMessage{{Role: "system", Content: systemPrompt}}
	if vehicle != nil {
		context := fmt.Sprintf("The customer's vehicle is a %d %s %s.", vehicle.Year, vehicle.Make, vehicle.Model)
		if vehicle.Engine != nil && *vehicle.Engine != "" {
			context += fmt.Sprintf(" Engine: %s.", *vehicle.Engine)
		}
		messages = append(messages, chatMessage{Role: "system", Content: context})
	}
	messages = append(messages, chatMessage{Role: "user", Content: question})
	return messages
}
