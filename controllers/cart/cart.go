package cartControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/store"
)

// ProductSource looks up the current product snapshot.
type ProductSource interface {
	Product(ctx context.Context, id string) (*models.Product, error)
}

type AddItemInput struct {
	ProductID       string            `json:"product_id" binding:"required"`
	SelectedOptions map[string]string `json:"selected_options"`
}

type UpdateItemInput struct {
	CartItemID string `json:"cart_item_id" binding:"required"`
	Quantity   *int   `json:"quantity" binding:"required"`
}

type CartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Warning    string            `json:"warning,omitempty"`
}

func view(cart *store.Cart) CartView {
	return CartView{
		Items:      cart.Items(),
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	}
}

// GET /cart
func GetCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		c.JSON(http.StatusOK, view(s.Cart))
	}
}

// POST /cart/items
func AddCartItem(products ProductSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}

		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		product, err := products.Product(c.Request.Context(), input.ProductID)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not exist"})
				return
			}
			controllers.RespondError(c, "Failed to validate product", err)
			return
		}

		if err := s.Cart.AddItem(c.Request.Context(), *product, input.SelectedOptions); err != nil {
			controllers.RespondError(c, "Failed to add item to cart", err)
			return
		}
		c.JSON(http.StatusCreated, view(s.Cart))
	}
}

// PATCH /cart/items
func UpdateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}

		var input UpdateItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		err := s.Cart.UpdateQuantity(c.Request.Context(), input.CartItemID, *input.Quantity)
		var stockErr *store.StockError
		if errors.As(err, &stockErr) && stockErr.Clamped {
			v := view(s.Cart)
			v.Warning = stockErr.Error()
			c.JSON(http.StatusOK, v)
			return
		}
		if err != nil {
			controllers.RespondError(c, "Failed to update cart item", err)
			return
		}
		c.JSON(http.StatusOK, view(s.Cart))
	}
}

// DELETE /cart/items?id=
func DeleteCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		id := c.Query("id")
		if id == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}
		if err := s.Cart.RemoveItem(c.Request.Context(), id); err != nil {
			controllers.RespondError(c, "Failed to delete item", err)
			return
		}
		c.JSON(http.StatusOK, view(s.Cart))
	}
}

// DELETE /cart
func ClearCart() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.Session(c)
		if s == nil {
			return
		}
		if err := s.Cart.ClearCart(c.Request.Context()); err != nil {
			controllers.RespondError(c, "Failed to clear cart", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
