package geoControllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/geocode"
)

type Geocoder interface {
	Search(ctx context.Context, query string, limit int) ([]geocode.Place, error)
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Place, error)
}

// GET /geocode/search?q=...&limit=5
func Search(geocoder Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := strings.TrimSpace(c.Query("q"))
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
		if err != nil || limit < 1 || limit > 20 {
			limit = 5
		}

		places, err := geocoder.Search(c.Request.Context(), query, limit)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Location search failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": places})
	}
}

// GET /geocode/reverse?lat=..&lng=..
// Missing coordinates fall back to the default map centre.
func Reverse(geocoder Geocoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		lat, lng := geocode.DefaultLat, geocode.DefaultLng
		if v := c.Query("lat"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < -90 || parsed > 90 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lat"})
				return
			}
			lat = parsed
		}
		if v := c.Query("lng"); v != "" {
			parsed, err := strconv.ParseFloat(v, 64)
			if err != nil || parsed < -180 || parsed > 180 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid lng"})
				return
			}
			lng = parsed
		}

		place, err := geocoder.Reverse(c.Request.Context(), lat, lng)
		if err != nil {
			if errors.Is(err, geocode.ErrNoResult) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No address found for this location", "lat": lat, "lng": lng})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Reverse geocoding failed", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, place)
	}
}
