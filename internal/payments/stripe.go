// Package payments wraps the Stripe hosted-checkout API behind a small
// interface so handlers can be tested without talking to Stripe
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

var (
	ErrSessionNotFound = errors.New("payment session not found")
	ErrBadSignature    = errors.New("webhook signature verification failed")
)

// Session is the slice of a Stripe checkout session the credit flow needs
type Session struct {
	ID          string
	URL         string
	Paid        bool
	AmountTotal int64
	Created     int64
	Currency    string
	Metadata    map[string]string
}

type Checkout interface {
	CreateSession(ctx context.Context, userID string, points int, amount int64, frontendURL string) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
	ListUserSessions(ctx context.Context, userID string) ([]*Session, error)
}

type StripeCheckout struct{}

func NewStripe(secretKey string) *StripeCheckout {
	stripe.Key = secretKey
	return &StripeCheckout{}
}

// CreateSession opens a hosted checkout for one point pack. The user id
// and point quantity travel as opaque metadata and come back on the
// webhook, so crediting never trusts anything client-side
func (s *StripeCheckout) CreateSession(ctx context.Context, userID string, points int, amount int64, frontendURL string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("usd"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String("VIG Credits"),
						Description: stripe.String(fmt.Sprintf("%d credits pack", points)),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(frontendURL + "/credits?status=success&session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontendURL + "/credits?status=cancelled"),
	}
	params.Context = ctx
	params.AddMetadata("userId", userID)
	params.AddMetadata("points", fmt.Sprint(points))

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return fromStripe(sess), nil
}

func (s *StripeCheckout) GetSession(ctx context.Context, id string) (*Session, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := session.Get(id, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return nil, ErrSessionNotFound
		}

		return nil, err
	}

	return fromStripe(sess), nil
}

// ListUserSessions walks recent checkout sessions and keeps the ones whose
// metadata belongs to the user. Used by the payment history endpoint as a
// fallback for sessions created before the local table existed
func (s *StripeCheckout) ListUserSessions(ctx context.Context, userID string) ([]*Session, error) {
	params := &stripe.CheckoutSessionListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	var out []*Session

	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess.Metadata["userId"] == userID {
			out = append(out, fromStripe(sess))
		}
	}
	if err := it.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func fromStripe(sess *stripe.CheckoutSession) *Session {
	return &Session{
		ID:          sess.ID,
		URL:         sess.URL,
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: sess.AmountTotal,
		Created:     sess.Created,
		Currency:    string(sess.Currency),
		Metadata:    sess.Metadata,
	}
}

// ParseWebhook verifies the Stripe signature over the raw body and, for
// checkout.session.completed events, returns the embedded session. Any
// signature problem fails closed
func ParseWebhook(payload []byte, sigHeader, secret string) (*Session, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, ErrBadSignature
	}

	if event.Type != "checkout.session.completed" {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("malformed checkout session payload, %w", err)
	}

	return fromStripe(&sess), nil
}
