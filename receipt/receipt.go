// Package receipt draws the printable PDF receipt of an order.
package receipt

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

const (
	pageCenter = 105.0
	footerY    = 280.0
	tableTop   = 115.0
	qrImage    = "track-qr"
)

type rgb struct{ r, g, b int }

var (
	brandBlue  = rgb{30, 64, 175}
	darkGray   = rgb{31, 41, 55}
	lightGray  = rgb{107, 114, 128}
	borderGray = rgb{200, 200, 200}
	rowFill    = rgb{249, 250, 251}
	paidGreen  = rgb{22, 163, 74}
	unpaidOrg  = rgb{234, 88, 12}
)

// Options controls the parts of the receipt that are not in the order.
type Options struct {
	// SiteURL is the storefront origin the QR code points at.
	SiteURL string
	// Now stamps the footer and document metadata.
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.SiteURL == "" {
		o.SiteURL = "https://castledepots.co.ke"
	}
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	return o
}

// TrackingURL is what the receipt QR code encodes.
func TrackingURL(siteURL, orderID string) string {
	return strings.TrimRight(siteURL, "/") + "/track-order?id=" + url.QueryEscape(orderID)
}

// Filename is the download name of an order's receipt.
func Filename(order models.Order) string {
	id := order.ID
	if len(id) > 8 {
		id = id[:8]
	}
	return "Castle-Depots-Receipt-" + id + ".pdf"
}

// Write renders the receipt of order as PDF into w.
func Write(w io.Writer, order models.Order, opts Options) error {
	pdf, err := Render(order, opts)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

// Render lays the receipt out on a single A4 page. Malformed money fields
// are an error.
func Render(order models.Order, opts Options) (*fpdf.Fpdf, error) {
	opts = opts.withDefaults()

	total, err := decimal.NewFromString(order.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("order %s: bad total_amount %q: %w", order.ID, order.TotalAmount, err)
	}
	prices := make([]decimal.Decimal, len(order.Items))
	for i, item := range order.Items {
		if prices[i], err = decimal.NewFromString(item.Price); err != nil {
			return nil, fmt.Errorf("order %s: bad price %q for %s: %w", order.ID, item.Price, item.Product.Name, err)
		}
	}
	qr, err := qrcode.Encode(TrackingURL(opts.SiteURL, order.ID), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode tracking qr: %w", err)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(opts.Now)
	pdf.SetModificationDate(opts.Now)
	pdf.SetTitle("Castle Depots Receipt "+order.ID, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	drawHeader(pdf)
	drawDetails(pdf, order)
	y := drawItems(pdf, order.Items, prices)
	y = drawTotal(pdf, y, total)

	pdf.RegisterImageOptionsReader(qrImage, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions(qrImage, 20, y+10, 30, 30, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	setText(pdf, lightGray)
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(20, y+45, "Scan to track order")

	setText(pdf, darkGray)
	pdf.SetFont("Helvetica", "B", 12)
	centered(pdf, y+25, "Thank you for shopping with Castle Depots!")
	pdf.SetFont("Helvetica", "", 9)
	setText(pdf, lightGray)
	centered(pdf, y+32, "For support, contact us at support@castledepots.co.ke or call +254 700 000 000")

	drawFooter(pdf, opts.Now)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", order.ID, err)
	}
	return pdf, nil
}

func drawHeader(pdf *fpdf.Fpdf) {
	setFill(pdf, brandBlue)
	pdf.Rect(0, 0, 210, 40, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 28)
	centered(pdf, 18, "CASTLE DEPOTS")
	pdf.SetFont("Helvetica", "", 10)
	centered(pdf, 28, "Premium Quality Products for Your Lifestyle")
	centered(pdf, 35, "www.castledepots.co.ke | support@castledepots.co.ke")

	setText(pdf, brandBlue)
	pdf.SetFont("Helvetica", "B", 20)
	centered(pdf, 55, "OFFICIAL RECEIPT")
}

func drawDetails(pdf *fpdf.Fpdf, order models.Order) {
	setDraw(pdf, borderGray)
	pdf.SetLineWidth(0.5)
	pdf.Rect(15, 65, 180, 35, "D")

	setText(pdf, darkGray)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(20, 73, "Receipt No:")
	pdf.Text(20, 81, "Order Date:")
	pdf.Text(20, 89, "Payment Method:")
	pdf.Text(20, 97, "Payment Status:")

	pdf.SetFont("Helvetica", "", 10)
	pdf.Text(55, 73, receiptNumber(order.ID))
	pdf.Text(55, 81, order.CreatedAt.Format("02/01/2006"))
	pdf.Text(55, 89, label(string(order.PaymentMethod)))
	if order.IsPaid {
		setText(pdf, paidGreen)
		pdf.Text(55, 97, "PAID")
	} else {
		setText(pdf, unpaidOrg)
		pdf.Text(55, 97, "UNPAID")
	}

	setText(pdf, darkGray)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(115, 73, "Customer:")
	pdf.Text(115, 81, "Order Status:")
	pdf.Text(115, 89, "Delivery Address:")

	pdf.SetFont("Helvetica", "", 10)
	customer := order.User
	if customer == "" {
		customer = "N/A"
	}
	pdf.Text(155, 73, customer)
	pdf.Text(155, 81, label(string(order.Status)))
	for i, line := range pdf.SplitText(order.DeliveryAddress, 40) {
		pdf.Text(155, 89+float64(i)*4.5, line)
	}
}

func drawItems(pdf *fpdf.Fpdf, items []models.OrderItem, prices []decimal.Decimal) float64 {
	y := tableTop
	setFill(pdf, brandBlue)
	pdf.Rect(15, y, 180, 10, "F")

	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(20, y+7, "ITEM")
	pdf.Text(125, y+7, "QTY")
	pdf.Text(145, y+7, "PRICE")
	rightAligned(pdf, 190, y+7, "TOTAL")

	y += 15
	setText(pdf, darkGray)
	pdf.SetFont("Helvetica", "", 10)
	for i, item := range items {
		if i%2 == 0 {
			setFill(pdf, rowFill)
			pdf.Rect(15, y-5, 180, 10, "F")
		}
		name := pdf.SplitText(item.Product.Name, 95)
		if len(name) > 0 {
			pdf.Text(20, y, name[0])
		}
		lineTotal := prices[i].Mul(decimal.NewFromInt(int64(item.Quantity)))
		pdf.Text(125, y, fmt.Sprintf("%d", item.Quantity))
		pdf.Text(145, y, "KES "+FormatAmount(prices[i]))
		rightAligned(pdf, 190, y, "KES "+FormatAmount(lineTotal))
		y += 10
	}
	return y
}

func drawTotal(pdf *fpdf.Fpdf, y float64, total decimal.Decimal) float64 {
	y += 5
	pdf.SetLineWidth(0.5)
	setDraw(pdf, borderGray)
	pdf.Line(15, y, 195, y)

	y += 10
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Text(110, y, "TOTAL AMOUNT:")
	setText(pdf, brandBlue)
	pdf.SetFont("Helvetica", "B", 16)
	rightAligned(pdf, 195, y, "KES "+FormatAmount(total))
	return y
}

func drawFooter(pdf *fpdf.Fpdf, now time.Time) {
	setDraw(pdf, borderGray)
	pdf.Line(15, footerY, 195, footerY)

	pdf.SetFont("Helvetica", "", 8)
	setText(pdf, lightGray)
	centered(pdf, footerY+5, "This is a computer-generated receipt and does not require a signature.")
	centered(pdf, footerY+10, "Generated on "+now.Format("02/01/2006, 15:04:05"))
}

func receiptNumber(id string) string {
	if len(id) > 13 {
		id = id[:13]
	}
	return strings.ToUpper(id)
}

// label turns "payment_confirmed" into "PAYMENT CONFIRMED".
func label(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "_", " "))
}

// FormatAmount groups thousands and keeps at most two decimals, dropping
// trailing zeros: 2600 -> "2,600", 1999.5 -> "1,999.5".
func FormatAmount(d decimal.Decimal) string {
	s := d.Round(2).String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func centered(pdf *fpdf.Fpdf, y float64, s string) {
	pdf.Text(pageCenter-pdf.GetStringWidth(s)/2, y, s)
}

func rightAligned(pdf *fpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s), y, s)
}

func setFill(pdf *fpdf.Fpdf, c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }
func setText(pdf *fpdf.Fpdf, c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
func setDraw(pdf *fpdf.Fpdf, c rgb) { pdf.SetDrawColor(c.r, c.g, c.b) }
