// Package checkout runs the three-step checkout of one visitor: delivery
// details and shipping quote, payment, confirmation.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type Step int

const (
	StepDelivery Step = iota + 1
	StepPayment
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepDelivery:
		return "delivery"
	case StepPayment:
		return "payment"
	case StepConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

var (
	ErrInvalidTransition  = errors.New("invalid checkout transition")
	ErrEmptyCart          = errors.New("your cart is empty")
	ErrIncompleteAddress  = errors.New("delivery address is incomplete")
	ErrRegionNotAllowed   = errors.New("pay on delivery is not available in your area")
	ErrPODUnavailable     = errors.New("some items in your cart cannot be paid for on delivery")
	ErrNoPaymentPending   = errors.New("no payment is pending")
	ErrReferenceMismatch  = errors.New("payment reference does not match this checkout")
	ErrPaymentUnsupported = errors.New("card payments are not configured")
)

// Cart is the cart store as the checkout sees it.
type Cart interface {
	Items() []models.CartItem
	TotalPrice() decimal.Decimal
	ClearCart(ctx context.Context) error
}

type Orders interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

type ShippingQuoter interface {
	CalculateShipping(ctx context.Context, lat, lng float64) (*models.ShippingQuote, error)
}

// PaymentVerifier confirms with the provider that reference was paid in
// full.
type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, reference string, amountMinor int64) error
}

// Notifier hears about every order the checkout creates.
type Notifier interface {
	OrderCreated(order models.Order)
}

// Settings are the shop-wide checkout parameters.
type Settings struct {
	PODRegion         string
	Currency          string
	PaystackPublicKey string
}

// Deps wires a Flow. Verifier and Notifier are optional.
type Deps struct {
	Cart     Cart
	Orders   Orders
	Shipping ShippingQuoter
	Verifier PaymentVerifier
	Notifier Notifier
	Settings Settings
	Logger   *slog.Logger
	// NewReference generates client payment references; defaults to
	// timestamp plus random suffix.
	NewReference func() string
}

// PaymentWidget is what the browser needs to open the hosted payment popup.
type PaymentWidget struct {
	Reference string `json:"reference"`
	Email     string `json:"email"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	PublicKey string `json:"publicKey"`
}

// PayResult is either a widget to open (card payments) or the created order
// (pay on delivery).
type PayResult struct {
	Widget *PaymentWidget `json:"widget,omitempty"`
	Order  *models.Order  `json:"order,omitempty"`
}

// State is a read-only view of the flow.
type State struct {
	Step             Step                 `json:"step"`
	Address          models.Address       `json:"address"`
	Email            string               `json:"email,omitempty"`
	Subtotal         decimal.Decimal      `json:"subtotal"`
	ShippingCost     decimal.Decimal      `json:"shipping_cost"`
	Distance         float64              `json:"distance"`
	ShippingMessage  string               `json:"shipping_message,omitempty"`
	Total            decimal.Decimal      `json:"total"`
	PaymentMethod    models.PaymentMethod `json:"payment_method"`
	PendingReference string               `json:"pending_reference,omitempty"`
	Notice           string               `json:"notice,omitempty"`
	Order            *models.Order        `json:"order,omitempty"`
}

type Flow struct {
	deps Deps

	mu               sync.Mutex
	step             Step
	address          models.Address
	email            string
	shipping         decimal.Decimal
	distance         float64
	shippingMessage  string
	method           models.PaymentMethod
	pendingReference string
	notice           string
	order            *models.Order
}

func NewFlow(deps Deps) *Flow {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.NewReference == nil {
		deps.NewReference = newReference
	}
	if deps.Settings.Currency == "" {
		deps.Settings.Currency = "KES"
	}
	return &Flow{
		deps:     deps,
		step:     StepDelivery,
		shipping: decimal.Zero,
		method:   models.PaymentMethodPaystack,
	}
}

func newReference() string {
	return fmt.Sprintf("CD-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

func (f *Flow) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	subtotal := f.deps.Cart.TotalPrice()
	return State{
		Step:             f.step,
		Address:          f.address,
		Email:            f.email,
		Subtotal:         subtotal,
		ShippingCost:     f.shipping,
		Distance:         f.distance,
		ShippingMessage:  f.shippingMessage,
		Total:            subtotal.Add(f.shipping),
		PaymentMethod:    f.method,
		PendingReference: f.pendingReference,
		Notice:           f.notice,
		Order:            f.order,
	}
}

// Subtotal is the cart total.
func (f *Flow) Subtotal() decimal.Decimal {
	return f.deps.Cart.TotalPrice()
}

// Total is the cart total plus the shipping quote.
func (f *Flow) Total() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deps.Cart.TotalPrice().Add(f.shipping)
}

// SetDelivery records the delivery address and buyer email. With map
// coordinates it asks for a shipping quote; a failed quote leaves the cost at
// zero and does not block the checkout.
func (f *Flow) SetDelivery(ctx context.Context, addr models.Address, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepDelivery {
		return fmt.Errorf("%w: cannot change delivery during %s", ErrInvalidTransition, f.step)
	}
	f.address = addr
	if email != "" {
		f.email = email
	} else if addr.Email != "" {
		f.email = addr.Email
	}

	f.shipping = decimal.Zero
	f.distance = 0
	f.shippingMessage = ""
	if !addr.HasCoordinates() || f.deps.Shipping == nil {
		return nil
	}

	quote, err := f.deps.Shipping.CalculateShipping(ctx, *addr.Latitude, *addr.Longitude)
	if err != nil {
		f.deps.Logger.Warn("shipping quote failed, using zero cost", "lat", *addr.Latitude, "lng", *addr.Longitude, "error", err)
		f.shippingMessage = "Could not calculate shipping for this location"
		return nil
	}
	f.shipping = quote.Cost
	f.distance = quote.Distance
	f.shippingMessage = quote.Message
	return nil
}

// ContinueToPayment moves from Delivery to Payment.
func (f *Flow) ContinueToPayment() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepDelivery {
		return fmt.Errorf("%w: continue from %s", ErrInvalidTransition, f.step)
	}
	if len(f.deps.Cart.Items()) == 0 {
		return ErrEmptyCart
	}
	if !f.address.Complete() {
		return ErrIncompleteAddress
	}
	f.step = StepPayment
	f.notice = ""
	return nil
}

// Back returns from Payment to Delivery. No other backward move exists.
func (f *Flow) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, f.step)
	}
	f.step = StepDelivery
	f.pendingReference = ""
	return nil
}

func (f *Flow) SelectPaymentMethod(m models.PaymentMethod) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return fmt.Errorf("%w: choose payment during %s", ErrInvalidTransition, f.step)
	}
	if _, err := models.ParsePaymentMethod(string(m)); err != nil {
		return err
	}
	f.method = m
	f.pendingReference = ""
	return nil
}

// Reset starts a fresh checkout once the previous one is confirmed.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = StepDelivery
	f.address = models.Address{}
	f.shipping = decimal.Zero
	f.distance = 0
	f.shippingMessage = ""
	f.pendingReference = ""
	f.notice = ""
	f.order = nil
}

// podRegionOK matches the configured region against city or county,
// ignoring case.
func podRegionOK(addr models.Address, region string) bool {
	region = strings.ToLower(strings.TrimSpace(region))
	if region == "" {
		return true
	}
	return strings.Contains(strings.ToLower(addr.City), region) ||
		strings.Contains(strings.ToLower(addr.County), region)
}
