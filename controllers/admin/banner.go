package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/api"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/controllers"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/middleware"
	"github.com/castledepotsmail-cyber/castle-depots-sub000/models"
)

// GET /admin/campaigns
func ListCampaigns(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		campaigns, err := middleware.AdminClient(c, service).ListCampaigns(c.Request.Context())
		if err != nil {
			controllers.RespondError(c, "Failed to fetch campaigns", err)
			return
		}
		c.JSON(http.StatusOK, campaigns)
	}
}

// POST /admin/campaigns
func CreateCampaign(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Campaign
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		if !input.EndTime.After(input.StartTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_time must be after start_time"})
			return
		}
		campaign, err := middleware.AdminClient(c, service).CreateCampaign(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Failed to create campaign", err)
			return
		}
		c.JSON(http.StatusCreated, campaign)
	}
}

// PATCH /admin/campaigns/:id
func UpdateCampaign(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var updates map[string]any
		if err := c.ShouldBindJSON(&updates); err != nil || len(updates) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
			return
		}
		campaign, err := middleware.AdminClient(c, service).UpdateCampaign(c.Request.Context(), c.Param("id"), updates)
		if err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
				return
			}
			controllers.RespondError(c, "Failed to update campaign", err)
			return
		}
		c.JSON(http.StatusOK, campaign)
	}
}

// DELETE /admin/campaigns/:id
func DeleteCampaign(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := middleware.AdminClient(c, service).DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Campaign not found"})
				return
			}
			controllers.RespondError(c, "Failed to delete campaign", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
	}
}

// POST /admin/banners
// The image is uploaded beforehand through an upload grant.
func UploadBanner(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.CampaignBanner
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.Image == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		if input.Type == "" {
			input.Type = models.BannerHeroSlide
		}
		banner, err := middleware.AdminClient(c, service).CreateBanner(c.Request.Context(), input)
		if err != nil {
			controllers.RespondError(c, "Failed to save banner", err)
			return
		}
		c.JSON(http.StatusCreated, banner)
	}
}

// DELETE /admin/banners/:id
func DeleteBanner(service *api.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := middleware.AdminClient(c, service).DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
			if api.IsNotFound(err) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
				return
			}
			controllers.RespondError(c, "Failed to delete banner", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}
