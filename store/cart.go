package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/storage"
)

// StockError reports a stock ceiling violation. When Clamped is set the
// quantity was lowered to Available and the change was kept; otherwise the
// operation was rejected and the cart is unchanged.
type StockError struct {
	ProductID string
	Name      string
	Available int
	Clamped   bool
}

func (e *StockError) Error() string {
	switch {
	case e.Clamped:
		return fmt.Sprintf("only %d of %s in stock, quantity adjusted", e.Available, e.Name)
	case e.Available == 0:
		return fmt.Sprintf("%s is out of stock", e.Name)
	default:
		return fmt.Sprintf("cannot add more %s: only %d in stock", e.Name, e.Available)
	}
}

// CartState is the persisted cart snapshot.
type CartState struct {
	Items []models.CartItem `json:"items"`
}

// Cart holds line items keyed by composite cart item id.
type Cart struct {
	mu     sync.RWMutex
	state  CartState
	blobs  storage.BlobStore
	key    string
	logger *slog.Logger
}

func LoadCart(ctx context.Context, blobs storage.BlobStore, sessionID string, logger *slog.Logger) (*Cart, error) {
	c := &Cart{blobs: blobs, key: storage.Key(sessionID, storage.CartBlob), logger: logger}
	if _, err := storage.LoadJSON(ctx, blobs, c.key, &c.state); err != nil {
		return nil, fmt.Errorf("load cart state: %w", err)
	}
	return c, nil
}

func (c *Cart) persist(ctx context.Context) error {
	if err := storage.SaveJSON(ctx, c.blobs, c.key, c.state); err != nil {
		c.logger.Error("persist cart state", "error", err)
		return err
	}
	return nil
}

func (c *Cart) indexOf(cartItemID string) int {
	for i := range c.state.Items {
		if c.state.Items[i].CartItemID == cartItemID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of product with the given options. An existing line
// for the same selection is incremented; a new line starts at 1. Either way
// the stock snapshot on product is the ceiling, and going over it returns a
// *StockError with the cart unchanged.
func (c *Cart) AddItem(ctx context.Context, product models.Product, selectedOptions map[string]string) error {
	id := models.CartItemID(product.ID, selectedOptions)

	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(id); i >= 0 {
		item := &c.state.Items[i]
		if item.Quantity+1 > product.StockQuantity {
			return &StockError{ProductID: product.ID, Name: product.Name, Available: product.StockQuantity}
		}
		item.Quantity++
		item.StockQuantity = product.StockQuantity
		return c.persist(ctx)
	}

	if product.StockQuantity <= 0 {
		return &StockError{ProductID: product.ID, Name: product.Name, Available: 0}
	}

	var opts map[string]string
	if len(selectedOptions) > 0 {
		opts = make(map[string]string, len(selectedOptions))
		for k, v := range selectedOptions {
			opts[k] = v
		}
	}
	c.state.Items = append(c.state.Items, models.CartItem{
		Product:         product,
		CartItemID:      id,
		Quantity:        1,
		SelectedOptions: opts,
	})
	return c.persist(ctx)
}

// RemoveItem deletes the line with the given id. Unknown ids are a no-op.
func (c *Cart) RemoveItem(ctx context.Context, cartItemID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(ctx, cartItemID)
}

func (c *Cart) removeLocked(ctx context.Context, cartItemID string) error {
	i := c.indexOf(cartItemID)
	if i < 0 {
		return nil
	}
	c.state.Items = append(c.state.Items[:i], c.state.Items[i+1:]...)
	return c.persist(ctx)
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line; a
// value above the recorded stock ceiling is clamped to it and reported with a
// clamped *StockError.
func (c *Cart) UpdateQuantity(ctx context.Context, cartItemID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		return c.removeLocked(ctx, cartItemID)
	}
	i := c.indexOf(cartItemID)
	if i < 0 {
		return nil
	}

	item := &c.state.Items[i]
	if quantity > item.StockQuantity {
		item.Quantity = item.StockQuantity
		if err := c.persist(ctx); err != nil {
			return err
		}
		return &StockError{ProductID: item.ID, Name: item.Name, Available: item.StockQuantity, Clamped: true}
	}
	item.Quantity = quantity
	return c.persist(ctx)
}

// ClearCart empties the cart.
func (c *Cart) ClearCart(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = nil
	return c.persist(ctx)
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []models.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CartItem, len(c.state.Items))
	copy(out, c.state.Items)
	return out
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, item := range c.state.Items {
		n += item.Quantity
	}
	return n
}

// TotalPrice is the sum of (discount price, else price) times quantity.
func (c *Cart) TotalPrice() decimal.Decimal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := decimal.Zero
	for _, item := range c.state.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.state.Items) == 0
}
