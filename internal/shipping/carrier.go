package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	pkgerrors "github.com/matrknhash/marketplace-backend/pkg/errors"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

// Shipment is the booking confirmation returned by a carrier.
type Shipment struct {
	TrackingNumber string
	LabelURL       string
	BookingID      string
}

// Carrier books shipments with an external courier. Implementations must not
// mutate the order; the caller owns persistence.
type Carrier interface {
	Name() enums.ShippingCarrier
	CreateShipment(ctx context.Context, order *models.Order, customer *models.User) (*Shipment, error)
}

// Registry resolves a carrier adapter by name.
type Registry struct {
	carriers map[enums.ShippingCarrier]Carrier
}

// NewRegistry builds the registry with every supported carrier adapter.
func NewRegistry(cfg config.CarriersConfig, logg *logger.Logger) (*Registry, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	client := &http.Client{Timeout: cfg.Timeout}
	bosta := newBosta(cfg, client, logg)
	aramex := newAramex(cfg, client, logg)
	return &Registry{
		carriers: map[enums.ShippingCarrier]Carrier{
			bosta.Name():  bosta,
			aramex.Name(): aramex,
		},
	}, nil
}

// Resolve returns the adapter for the named carrier. An empty or None name
// falls back to the default carrier.
func (r *Registry) Resolve(name enums.ShippingCarrier) (Carrier, error) {
	if name == "" || name == enums.ShippingCarrierNone {
		name = enums.ShippingCarrierBosta
	}
	carrier, ok := r.carriers[name]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported carrier %q", name))
	}
	return carrier, nil
}

// bookingRequest is the minimal payload both courier APIs accept.
type bookingRequest struct {
	OrderID       string `json:"orderId"`
	ReceiverName  string `json:"receiverName"`
	ReceiverPhone string `json:"receiverPhone,omitempty"`
	AddressLabel  string `json:"addressLabel"`
	AddressLine   string `json:"addressLine"`
	CODAmount     string `json:"codAmount,omitempty"`
}

type bookingResponse struct {
	TrackingNumber string `json:"trackingNumber"`
	LabelURL       string `json:"labelUrl"`
	BookingID      string `json:"bookingId"`
}

func buildBookingRequest(order *models.Order, customer *models.User) bookingRequest {
	req := bookingRequest{
		OrderID:      order.ID.String(),
		ReceiverName: customer.Name,
		AddressLabel: order.ShippingAddress.Label,
		AddressLine:  order.ShippingAddress.Details,
	}
	if customer.Phone != nil {
		req.ReceiverPhone = *customer.Phone
	}
	if order.PaymentMethod == enums.PaymentMethodCashOnDelivery {
		req.CODAmount = order.TotalPrice.StringFixed(2)
	}
	return req
}

// postBooking sends the booking with bounded retries. 5xx responses and
// transport errors retry; 4xx responses fail immediately.
func postBooking(ctx context.Context, client *http.Client, url, apiKey string, maxRetries uint64, payload bookingRequest) (*bookingResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeCarrier, err, "encode booking request")
	}

	var booked bookingResponse
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("Authorization", apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			return retry.RetryableError(fmt.Errorf("carrier returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("carrier rejected booking with %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(&booked)
	})
	if err != nil {
		// The message travels to the admin caller, so keep the carrier's text.
		return nil, pkgerrors.Wrap(pkgerrors.CodeCarrier, err, fmt.Sprintf("carrier booking failed: %v", err))
	}
	if booked.TrackingNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeCarrier, "carrier response missing tracking number")
	}
	return &booked, nil
}
