package productcontroller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

type ReviewLister interface {
	ListReviews(ctx context.Context, productID string) ([]models.Review, error)
}

// GET /products/:id/reviews
func GetReviews(reviews ReviewLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := reviews.ListReviews(c.Request.Context(), c.Param("id"))
		if err != nil {
			controllers.RespondError(c, "Failed to fetch reviews", err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /products/:id/reviews
func CreateReview() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := controllers.RequireLogin(c)
		if s == nil {
			return
		}
		var input models.Review
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Rating < 1 || input.Rating > 5 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be between 1 and 5"})
			return
		}
		review, err := s.API.CreateReview(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			controllers.RespondError(c, "Failed to post review", err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}
