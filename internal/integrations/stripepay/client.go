package stripepay

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const (
	bookingIDPlaceholder = "{BOOKING_ID}"
	metadataBookingID    = "booking_id"
	defaultCurrency      = "usd"
)

// Client инициирует оплату через Stripe Checkout
type Client struct {
	sessions SessionCreator
	cfg      Config
	log      Logger
}

// NewClient создает клиент на реальном Stripe API
func NewClient(cfg Config, log Logger) *Client {
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return NewClientWithSessions(sc.CheckoutSessions, cfg, log)
}

// NewClientWithSessions создает клиент поверх переданного создателя сессий
func NewClientWithSessions(sessions SessionCreator, cfg Config, log Logger) *Client {
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}
	return &Client{sessions: sessions, cfg: cfg, log: log}
}

// CreateCheckout создает checkout-сессию на сумму бронирования
// booking_id передается в metadata и client_reference_id и возвращается в webhook
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if req.BookingID <= 0 || req.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: booking=%d amount=%d", ErrInvalidRequest, req.BookingID, req.AmountCents)
	}

	bookingID := strconv.FormatInt(req.BookingID, 10)

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(strings.ReplaceAll(c.cfg.SuccessURL, bookingIDPlaceholder, bookingID)),
		CancelURL:         stripe.String(strings.ReplaceAll(c.cfg.CancelURL, bookingIDPlaceholder, bookingID)),
		ClientReferenceID: stripe.String(bookingID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(c.cfg.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.LessonName),
						Description: stripe.String(req.Description),
					},
					UnitAmount: stripe.Int64(req.AmountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata(metadataBookingID, bookingID)
	params.SetIdempotencyKey("checkout-booking-" + bookingID)
	params.Context = ctx

	session, err := c.sessions.New(params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) {
			c.log.Error("Stripe rejected checkout for booking=%d: code=%s msg=%s", req.BookingID, stripeErr.Code, stripeErr.Msg)
		} else {
			c.log.Error("Stripe checkout failed for booking=%d: %v", req.BookingID, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCheckoutFailed, err)
	}

	c.log.Info("Checkout session %s created for booking=%d", session.ID, req.BookingID)
	return &Checkout{SessionID: session.ID, URL: session.URL}, nil
}
