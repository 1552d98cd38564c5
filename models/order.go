package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentMethod string

const (
	// Order statuses as tracked by the back office
	OrderStatusPlaced           OrderStatus = "placed"            // Order placed, awaiting payment/confirmation
	OrderStatusPaymentConfirmed OrderStatus = "payment_confirmed" // Payment received
	OrderStatusProcessing       OrderStatus = "processing"        // Being packed
	OrderStatusShipped          OrderStatus = "shipped"           // Out for delivery
	OrderStatusDelivered        OrderStatus = "delivered"         // Customer received the items
	OrderStatusCancelled        OrderStatus = "cancelled"         // Cancelled before delivery

	// Payment methods
	PaymentMethodPaystack PaymentMethod = "paystack" // Card / M-Pesa through the hosted widget
	PaymentMethodPOD      PaymentMethod = "pod"      // Pay on delivery
)

var (
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// ParseOrderStatus maps a case-insensitive string to an OrderStatus.
func ParseOrderStatus(status string) (OrderStatus, error) {
	switch s := OrderStatus(strings.ToLower(strings.TrimSpace(status))); s {
	case OrderStatusPlaced, OrderStatusPaymentConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidOrderStatus
	}
}

// ParsePaymentMethod maps a case-insensitive string to a PaymentMethod.
func ParsePaymentMethod(method string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(method))); m {
	case PaymentMethodPaystack, PaymentMethodPOD:
		return m, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}

// OrderItemProduct is the product subset embedded in order line items.
type OrderItemProduct struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type OrderItem struct {
	ID              string            `json:"id,omitempty"`
	Product         OrderItemProduct  `json:"product"`
	Quantity        int               `json:"quantity"`
	Price           string            `json:"price"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// Order is the backend's order record. Money fields are kept as the decimal
// strings the backend sends; receipt rendering parses them and fails on
// malformed values.
type Order struct {
	ID                string        `json:"id"`
	User              string        `json:"user,omitempty"`
	Status            OrderStatus   `json:"status"`
	PaymentMethod     PaymentMethod `json:"payment_method"`
	TotalAmount       string        `json:"total_amount"`
	ShippingCost      string        `json:"shipping_cost,omitempty"`
	DeliveryAddress   string        `json:"delivery_address"`
	DeliveryLatitude  *float64      `json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64      `json:"delivery_longitude,omitempty"`
	Items             []OrderItem   `json:"items"`
	PaystackRef       string        `json:"paystack_ref,omitempty"`
	IsPaid            bool          `json:"is_paid"`
	TrackingNotes     string        `json:"tracking_notes,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
}

// OrderItemRequest is one line of an order creation payload.
type OrderItemRequest struct {
	ProductID       string            `json:"product_id"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// CreateOrderRequest is the body of POST /orders/.
type CreateOrderRequest struct {
	PaymentMethod     PaymentMethod      `json:"payment_method"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	ShippingCost      decimal.Decimal    `json:"shipping_cost"`
	DeliveryAddress   string             `json:"delivery_address"`
	DeliveryLatitude  *float64           `json:"delivery_latitude,omitempty"`
	DeliveryLongitude *float64           `json:"delivery_longitude,omitempty"`
	Items             []OrderItemRequest `json:"items"`
	PaystackRef       string             `json:"paystack_ref,omitempty"`
	IsPaid            bool               `json:"is_paid"`
}

// OrderUpdate is the partial body admins send to change an order.
type OrderUpdate struct {
	Status        *OrderStatus `json:"status,omitempty"`
	IsPaid        *bool        `json:"is_paid,omitempty"`
	PaystackRef   *string      `json:"paystack_ref,omitempty"`
	TrackingNotes *string      `json:"tracking_notes,omitempty"`
}

// ShippingQuote is the result of the remote shipping calculation.
type ShippingQuote struct {
	Cost     decimal.Decimal `json:"cost"`
	Distance float64         `json:"distance"`
	Message  string          `json:"message,omitempty"`
}

type AdminStats struct {
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	TotalCustomers int             `json:"total_customers"`
	TotalProducts  int             `json:"total_products"`
	RecentOrders   []Order         `json:"recent_orders"`
}
