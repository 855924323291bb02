package shipping

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
	"github.com/matrknhash/marketplace-backend/pkg/types"
)

func testOrder() *models.Order {
	return &models.Order{
		ID:            uuid.New(),
		CustomerID:    uuid.New(),
		TotalPrice:    decimal.NewFromInt(250),
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		Status:        enums.OrderStatusPending,
		ShippingAddress: types.AddressSnapshot{
			Label:   "Home",
			Details: "12 Tahrir St, Cairo",
		},
	}
}

func testCustomer() *models.User {
	phone := "+201001234567"
	return &models.User{
		ID:    uuid.New(),
		Name:  "Omar",
		Phone: &phone,
	}
}

func TestRegistryResolve(t *testing.T) {
	registry, err := NewRegistry(config.CarriersConfig{Simulate: true}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	tests := []struct {
		name    enums.ShippingCarrier
		want    enums.ShippingCarrier
		wantErr bool
	}{
		{name: enums.ShippingCarrierBosta, want: enums.ShippingCarrierBosta},
		{name: enums.ShippingCarrierAramex, want: enums.ShippingCarrierAramex},
		{name: enums.ShippingCarrierNone, want: enums.ShippingCarrierBosta},
		{name: "", want: enums.ShippingCarrierBosta},
		{name: "DHL", wantErr: true},
	}
	for _, tt := range tests {
		carrier, err := registry.Resolve(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q) expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q): %v", tt.name, err)
			continue
		}
		if carrier.Name() != tt.want {
			t.Errorf("Resolve(%q) = %s, want %s", tt.name, carrier.Name(), tt.want)
		}
	}
}

func TestSimulatedBookings(t *testing.T) {
	registry, err := NewRegistry(config.CarriersConfig{Simulate: true}, logger.New(logger.Options{ServiceName: "test"}))
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	tests := []struct {
		carrier enums.ShippingCarrier
		prefix  string
	}{
		{enums.ShippingCarrierBosta, "BST-"},
		{enums.ShippingCarrierAramex, "ARX-"},
	}
	for _, tt := range tests {
		carrier, err := registry.Resolve(tt.carrier)
		if err != nil {
			t.Fatalf("resolve %s: %v", tt.carrier, err)
		}
		shipment, err := carrier.CreateShipment(context.Background(), testOrder(), testCustomer())
		if err != nil {
			t.Fatalf("%s booking: %v", tt.carrier, err)
		}
		if !strings.HasPrefix(shipment.TrackingNumber, tt.prefix) {
			t.Errorf("%s tracking = %q, want prefix %s", tt.carrier, shipment.TrackingNumber, tt.prefix)
		}
		if len(shipment.TrackingNumber) != len(tt.prefix)+7 {
			t.Errorf("%s tracking %q should carry 7 digits", tt.carrier, shipment.TrackingNumber)
		}
		if shipment.LabelURL == "" || shipment.BookingID == "" {
			t.Errorf("%s booking missing label or booking id: %+v", tt.carrier, shipment)
		}
	}
}

func TestBostaRealBooking(t *testing.T) {
	var gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		var req bookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode booking: %v", err)
		}
		if req.CODAmount != "250.00" {
			t.Errorf("cod amount = %q, want 250.00", req.CODAmount)
		}
		json.NewEncoder(w).Encode(bookingResponse{
			TrackingNumber: "BST-0001234",
			LabelURL:       "https://cdn.bosta.co/labels/awb-0001234.pdf",
			BookingID:      "bk-1",
		})
	}))
	defer server.Close()

	cfg := config.CarriersConfig{
		BostaBaseURL: server.URL,
		BostaAPIKey:  "key-123",
		Timeout:      2 * time.Second,
	}
	carrier := newBosta(cfg, server.Client(), logger.New(logger.Options{ServiceName: "test"}))

	shipment, err := carrier.CreateShipment(context.Background(), testOrder(), testCustomer())
	if err != nil {
		t.Fatalf("booking: %v", err)
	}
	if shipment.TrackingNumber != "BST-0001234" {
		t.Errorf("tracking = %q", shipment.TrackingNumber)
	}
	if gotAuth.Load() != "key-123" {
		t.Errorf("authorization header = %v", gotAuth.Load())
	}
}

func TestBookingRetriesOnServerError(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(bookingResponse{TrackingNumber: "BST-0009999", LabelURL: "l", BookingID: "b"})
	}))
	defer server.Close()

	cfg := config.CarriersConfig{BostaBaseURL: server.URL, MaxRetries: 2}
	carrier := newBosta(cfg, server.Client(), logger.New(logger.Options{ServiceName: "test"}))

	shipment, err := carrier.CreateShipment(context.Background(), testOrder(), testCustomer())
	if err != nil {
		t.Fatalf("booking should succeed after retry: %v", err)
	}
	if shipment.TrackingNumber != "BST-0009999" {
		t.Errorf("tracking = %q", shipment.TrackingNumber)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestBookingClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	cfg := config.CarriersConfig{AramexBaseURL: server.URL, MaxRetries: 3}
	carrier := newAramex(cfg, server.Client(), logger.New(logger.Options{ServiceName: "test"}))

	_, err := carrier.CreateShipment(context.Background(), testOrder(), testCustomer())
	if err == nil {
		t.Fatal("expected booking failure")
	}
	domainErr := pkgerrors.As(err)
	if domainErr == nil || domainErr.Code() != pkgerrors.CodeCarrier {
		t.Fatalf("expected carrier error code, got %v", err)
	}
	if !strings.Contains(domainErr.Message(), "carrier rejected booking with 422") {
		t.Errorf("message should carry the carrier's text, got %q", domainErr.Message())
	}
	if calls.Load() != 1 {
		t.Errorf("4xx should not retry, got %d attempts", calls.Load())
	}
}
