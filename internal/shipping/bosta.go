package shipping

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/matrknhash/marketplace-backend/pkg/config"
	"github.com/matrknhash/marketplace-backend/pkg/db/models"
	"github.com/matrknhash/marketplace-backend/pkg/enums"
	"github.com/matrknhash/marketplace-backend/pkg/logger"
)

type bostaCarrier struct {
	baseURL  string
	apiKey   string
	simulate bool
	retries  uint64
	client   *http.Client
	logg     *logger.Logger
}

func newBosta(cfg config.CarriersConfig, client *http.Client, logg *logger.Logger) *bostaCarrier {
	return &bostaCarrier{
		baseURL:  cfg.BostaBaseURL,
		apiKey:   cfg.BostaAPIKey,
		simulate: cfg.Simulate,
		retries:  cfg.MaxRetries,
		client:   client,
		logg:     logg,
	}
}

func (c *bostaCarrier) Name() enums.ShippingCarrier {
	return enums.ShippingCarrierBosta
}

func (c *bostaCarrier) CreateShipment(ctx context.Context, order *models.Order, customer *models.User) (*Shipment, error) {
	if c.simulate {
		shipment := &Shipment{
			TrackingNumber: fmt.Sprintf("BST-%07d", rand.Intn(10_000_000)),
			LabelURL:       "https://cdn.bosta.co/labels/sample-awb.pdf",
			BookingID:      fmt.Sprintf("bosta-%s", order.ID),
		}
		c.logg.Info(c.logg.WithOrderID(ctx, order.ID.String()), "simulated bosta booking")
		return shipment, nil
	}

	resp, err := postBooking(ctx, c.client, c.baseURL+"/deliveries", c.apiKey, c.retries, buildBookingRequest(order, customer))
	if err != nil {
		return nil, err
	}
	return &Shipment{
		TrackingNumber: resp.TrackingNumber,
		LabelURL:       resp.LabelURL,
		BookingID:      resp.BookingID,
	}, nil
}
