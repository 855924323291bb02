package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matrknhash/marketplace-backend/internal/fitment"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
)

type stubFitmentService struct {
	answer *fitment.Answer
	err    error

	gotUser     uuid.UUID
	gotQuestion string
}

func (s *stubFitmentService) Chat(ctx context.Context, userID uuid.UUID, question string) (*fitment.Answer, error) {
	s.gotUser = userID
	s.gotQuestion = question
	return s.answer, s.err
}

func TestFitmentChat(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc := &stubFitmentService{
		answer: &fitment.Answer{
			Reply:   "Yes, that filter fits your Corolla.",
			Vehicle: &models.Vehicle{Make: "Toyota", Model: "Corolla", Year: 2019},
		},
	}
	handler := FitmentChat(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fitment/chat",
		strings.NewReader(`{"question":"Does the PH4967 oil filter fit my car?"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asIdentity(req, userID, enums.UserRoleCustomer)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if svc.gotUser != userID {
		t.Fatalf("expected user %s, got %s", userID, svc.gotUser)
	}
	if !strings.Contains(svc.gotQuestion, "PH4967") {
		t.Fatalf("unexpected question: %q", svc.gotQuestion)
	}

	var envelope struct {
		Data fitment.Answer `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Reply == "" || envelope.Data.Vehicle == nil {
		t.Fatalf("unexpected answer: %+v", envelope.Data)
	}
}

func TestFitmentChatRequiresQuestion(t *testing.T) {
	t.Parallel()

	handler := FitmentChat(&stubFitmentService{}, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fitment/chat", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req = asIdentity(req, uuid.New(), enums.UserRoleCustomer)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestFitmentChatProviderOutage(t *testing.T) {
	t.Parallel()

	svc := &stubFitmentService{err: pkgerrors.New(pkgerrors.CodeDependency, "assistant unavailable")}
	handler := FitmentChat(svc, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/fitment/chat",
		strings.NewReader(`{"question":"Will these pads fit?"}`))
	req.Header.Set("Content-Type", "application/json")
	req = asIdentity(req, uuid.New(), enums.UserRoleCustomer)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	requireStatus(t, resp.Code, http.StatusServiceUnavailable)
}
