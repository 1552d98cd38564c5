package models

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CartItem is a product snapshot plus the chosen options and quantity.
// StockQuantity on the embedded product is the stock ceiling recorded when
// the item was added or last updated.
type CartItem struct {
	Product
	CartItemID      string            `json:"cart_item_id"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

// LineTotal is the unit price times the quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartItemID derives the composite key of a product and option selection.
// Options are encoded sorted by key so insertion order never matters; an
// empty selection yields the bare product id.
func CartItemID(productID string, options map[string]string) string {
	if len(options) == 0 {
		return productID
	}

	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(productID)
	for _, k := range keys {
		b.WriteString("|")
		b.WriteString(escapeOptionPart(k))
		b.WriteString("=")
		b.WriteString(escapeOptionPart(options[k]))
	}
	return b.String()
}

// escapeOptionPart keeps separator characters inside option names and values
// from producing colliding keys.
func escapeOptionPart(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "|", `\|`, "=", `\=`)
	return r.Replace(s)
}
