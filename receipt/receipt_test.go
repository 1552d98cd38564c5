package receipt

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:              "9f1c2d3e-4b5a-6789-abcd-ef0123456789",
		User:            "jane",
		Status:          models.OrderStatusPaymentConfirmed,
		PaymentMethod:   models.PaymentMethodPaystack,
		TotalAmount:     "2600.00",
		DeliveryAddress: "Moi Avenue 12, Nairobi, Nairobi County",
		IsPaid:          true,
		CreatedAt:       time.Date(2025, 5, 4, 10, 30, 0, 0, time.UTC),
		Items: []models.OrderItem{
			{Product: models.OrderItemProduct{ID: "a", Name: "Claw Hammer"}, Quantity: 2, Price: "1000.00"},
			{Product: models.OrderItemProduct{ID: "b", Name: "Hand Saw"}, Quantity: 1, Price: "400.00"},
		},
	}
}

func TestWriteProducesPDF(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, sampleOrder(), Options{Now: time.Date(2025, 5, 4, 11, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

func TestRenderIsDeterministic(t *testing.T) {
	opts := Options{SiteURL: "https://castledepots.co.ke", Now: time.Date(2025, 5, 4, 11, 0, 0, 0, time.UTC)}
	var a, b bytes.Buffer
	require.NoError(t, Write(&a, sampleOrder(), opts))
	require.NoError(t, Write(&b, sampleOrder(), opts))
	assert.Equal(t, a.Bytes(), b.Bytes())
}

func TestMalformedPriceFails(t *testing.T) {
	order := sampleOrder()
	order.Items[1].Price = "four hundred"
	_, err := Render(order, Options{})
	assert.Error(t, err)

	order = sampleOrder()
	order.TotalAmount = ""
	_, err = Render(order, Options{})
	assert.Error(t, err)
}

func TestFilenameAndTrackingURL(t *testing.T) {
	assert.Equal(t, "Castle-Depots-Receipt-9f1c2d3e.pdf", Filename(sampleOrder()))
	assert.Equal(t, "Castle-Depots-Receipt-abc.pdf", Filename(models.Order{ID: "abc"}))
	assert.Equal(t, "https://castledepots.co.ke/track-order?id=o1", TrackingURL("https://castledepots.co.ke/", "o1"))
	assert.Equal(t, "https://castledepots.co.ke/track-order?id=a%26b+c%3Fd", TrackingURL("https://castledepots.co.ke", "a&b c?d"))
}

func TestFormatAmount(t *testing.T) {
	cases := map[string]string{
		"2600":       "2,600",
		"1999.5":     "1,999.5",
		"0":          "0",
		"999":        "999",
		"1234567.89": "1,234,567.89",
		"12.345":     "12.35",
		"-1500":      "-1,500",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(decimal.RequireFromString(in)), in)
	}
}

func TestLabelsAndReceiptNumber(t *testing.T) {
	assert.Equal(t, "PAYMENT CONFIRMED", label("payment_confirmed"))
	assert.Equal(t, "9F1C2D3E-4B5A", receiptNumber(sampleOrder().ID))
}
