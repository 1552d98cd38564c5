package checkout

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

var hundred = decimal.NewFromInt(100)

// MinorUnits converts a currency amount to cents, rounding half away from
// zero.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// Pay runs the selected payment method. Card payments return the widget
// config and wait for CompletePayment; pay on delivery creates the order
// straight away.
func (f *Flow) Pay(ctx context.Context) (*PayResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return nil, fmt.Errorf("%w: pay during %s", ErrInvalidTransition, f.step)
	}
	items := f.deps.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	switch f.method {
	case models.PaymentMethodPOD:
		if !podRegionOK(f.address, f.deps.Settings.PODRegion) {
			return nil, ErrRegionNotAllowed
		}
		for _, item := range items {
			if !item.PODAllowed() {
				return nil, fmt.Errorf("%w: %s", ErrPODUnavailable, item.Name)
			}
		}
		order, err := f.createOrderLocked(ctx, items, "")
		if err != nil {
			return nil, err
		}
		return &PayResult{Order: order}, nil

	case models.PaymentMethodPaystack:
		if f.deps.Settings.PaystackPublicKey == "" {
			return nil, ErrPaymentUnsupported
		}
		f.pendingReference = f.deps.NewReference()
		f.notice = ""
		return &PayResult{Widget: &PaymentWidget{
			Reference: f.pendingReference,
			Email:     f.email,
			Amount:    MinorUnits(f.deps.Cart.TotalPrice().Add(f.shipping)),
			Currency:  f.deps.Settings.Currency,
			PublicKey: f.deps.Settings.PaystackPublicKey,
		}}, nil

	default:
		return nil, models.ErrInvalidPaymentMethod
	}
}

// CompletePayment is the widget's success callback. The reference is
// verified with the provider when a verifier is configured, then the order
// is created as paid.
func (f *Flow) CompletePayment(ctx context.Context, reference string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != StepPayment {
		return nil, fmt.Errorf("%w: complete payment during %s", ErrInvalidTransition, f.step)
	}
	if f.method != models.PaymentMethodPaystack || f.pendingReference == "" {
		return nil, ErrNoPaymentPending
	}
	if reference != f.pendingReference {
		return nil, ErrReferenceMismatch
	}

	items := f.deps.Cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	if f.deps.Verifier != nil {
		amount := MinorUnits(f.deps.Cart.TotalPrice().Add(f.shipping))
		if err := f.deps.Verifier.VerifyPayment(ctx, reference, amount); err != nil {
			f.deps.Logger.Warn("payment verification failed", "reference", reference, "error", err)
			return nil, err
		}
	}
	return f.createOrderLocked(ctx, items, reference)
}

// CancelPayment is the widget's close callback. The flow stays in Payment.
func (f *Flow) CancelPayment() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pendingReference = ""
	f.notice = "Payment cancelled."
}

// createOrderLocked posts the order. On success the flow is Confirmed and the
// cart is cleared; on failure the flow stays in Payment and the backend error
// is returned unchanged.
func (f *Flow) createOrderLocked(ctx context.Context, items []models.CartItem, reference string) (*models.Order, error) {
	req := models.CreateOrderRequest{
		PaymentMethod:     f.method,
		TotalAmount:       f.deps.Cart.TotalPrice().Add(f.shipping),
		ShippingCost:      f.shipping,
		DeliveryAddress:   f.address.Line(),
		DeliveryLatitude:  f.address.Latitude,
		DeliveryLongitude: f.address.Longitude,
		Items:             make([]models.OrderItemRequest, 0, len(items)),
		PaystackRef:       reference,
		IsPaid:            reference != "",
	}
	for _, item := range items {
		req.Items = append(req.Items, models.OrderItemRequest{
			ProductID:       item.ID,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions,
		})
	}

	order, err := f.deps.Orders.CreateOrder(ctx, req)
	if err != nil {
		f.deps.Logger.Error("order creation failed", "payment_method", f.method, "error", err)
		return nil, err
	}

	f.step = StepConfirmed
	f.order = order
	f.pendingReference = ""
	f.deps.Logger.Info("order placed", "order_id", order.ID, "payment_method", f.method, "total", req.TotalAmount.String())

	if err := f.deps.Cart.ClearCart(ctx); err != nil {
		f.deps.Logger.Error("clear cart after order", "order_id", order.ID, "error", err)
	}
	if f.deps.Notifier != nil {
		f.deps.Notifier.OrderCreated(*order)
	}
	return order, nil
}
