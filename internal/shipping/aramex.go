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

type aramexCarrier struct {
	baseURL  string
	apiKey   string
	simulate bool
	retries  uint64
	client   *http.Client
	logg     *logger.Logger
}

func newAramex(cfg config.CarriersConfig, client *http.Client, logg *logger.Logger) *aramexCarrier {
	return &aramexCarrier{
		baseURL:  cfg.AramexBaseURL,
		apiKey:   cfg.AramexAPIKey,
		simulate: cfg.Simulate,
		retries:  cfg.MaxRetries,
		client:   client,
		logg:     logg,
	}
}

func (c *aramexCarrier) Name() enums.ShippingCarrier {
	return enums.ShippingCarrierAramex
}

func (c *aramexCarrier) CreateShipment(ctx context.Context, order *models.Order, customer *models.User) (*Shipment, error) {
	if c.simulate {
		shipment := &Shipment{
			TrackingNumber: fmt.Sprintf("ARX-%07d", rand.Intn(10_000_000)),
			LabelURL:       "https://www.aramex.com/labels/sample-awb.pdf",
			BookingID:      fmt.Sprintf("aramex-%s", order.ID),
		}
		c.logg.Info(c.logg.WithOrderID(ctx, order.ID.String()), "simulated aramex booking")
		return shipment, nil
	}

	resp, err := postBooking(ctx, c.client, c.baseURL+"/shipments", c.apiKey, c.retries, buildBookingRequest(order, customer))
	if err != nil {
		return nil, err
	}
	return &Shipment{
		TrackingNumber: resp.TrackingNumber,
		LabelURL:       resp.LabelURL,
		BookingID:      resp.BookingID,
	}, nil
}
