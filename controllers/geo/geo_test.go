package geoControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castledepotsmail-cyber/castle-depots-sub000/geocode"
)

type fakeGeocoder struct {
	lat, lng float64
	query    string
	limit    int
}

func (f *fakeGeocoder) Search(_ context.Context, query string, limit int) ([]geocode.Place, error) {
	f.query, f.limit = query, limit
	return []geocode.Place{{DisplayName: "Westlands, Nairobi", Lat: -1.26, Lng: 36.8}}, nil
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat, lng float64) (*geocode.Place, error) {
	f.lat, f.lng = lat, lng
	if lat == 0 && lng == 0 {
		return nil, geocode.ErrNoResult
	}
	return &geocode.Place{DisplayName: "Kenyatta Avenue", Lat: lat, Lng: lng}, nil
}

func serve(g Geocoder, target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/geocode/search", Search(g))
	r.GET("/geocode/reverse", Reverse(g))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestSearch(t *testing.T) {
	g := &fakeGeocoder{}
	w := serve(g, "/geocode/search?q=westlands&limit=99")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "westlands", g.query)
	assert.Equal(t, 5, g.limit)

	var resp struct {
		Results []geocode.Place `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Westlands, Nairobi", resp.Results[0].DisplayName)

	assert.Equal(t, http.StatusBadRequest, serve(g, "/geocode/search").Code)
}

func TestReverseDefaultsToNairobi(t *testing.T) {
	g := &fakeGeocoder{}
	w := serve(g, "/geocode/reverse")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, geocode.DefaultLat, g.lat)
	assert.Equal(t, geocode.DefaultLng, g.lng)
}

func TestReverseErrors(t *testing.T) {
	g := &fakeGeocoder{}
	assert.Equal(t, http.StatusBadRequest, serve(g, "/geocode/reverse?lat=abc").Code)
	assert.Equal(t, http.StatusBadRequest, serve(g, "/geocode/reverse?lng=200").Code)
	assert.Equal(t, http.StatusNotFound, serve(g, "/geocode/reverse?lat=0&lng=0").Code)
}
