package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Moi Avenue", r.URL.Query().Get("q"))
		assert.Equal(t, "ke", r.URL.Query().Get("countrycodes"))
		assert.Equal(t, "castle-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`[
			{"display_name":"Moi Avenue, Nairobi","lat":"-1.2833","lon":"36.8250","address":{"city":"Nairobi","state":"Nairobi County"}},
			{"display_name":"broken","lat":"x","lon":"y"}
		]`))
	}))
	defer srv.Close()

	places, err := NewClient(srv.URL, "castle-test").Search(context.Background(), "Moi Avenue", 0)
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, Place{DisplayName: "Moi Avenue, Nairobi", Lat: -1.2833, Lng: 36.825, City: "Nairobi", County: "Nairobi County"}, places[0])
}

func TestReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "0" {
			w.Write([]byte(`{"error":"Unable to geocode"}`))
			return
		}
		assert.Equal(t, "-1.2921", r.URL.Query().Get("lat"))
		assert.Equal(t, "36.8219", r.URL.Query().Get("lon"))
		w.Write([]byte(`{"display_name":"CBD, Nairobi","lat":"-1.2921","lon":"36.8219","address":{"town":"Nairobi","county":"Nairobi"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	p, err := c.Reverse(context.Background(), DefaultLat, DefaultLng)
	require.NoError(t, err)
	assert.Equal(t, "Nairobi", p.City)
	assert.Equal(t, "Nairobi", p.County)

	_, err = c.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "").Search(context.Background(), "x", 1)
	assert.ErrorContains(t, err, "429")
}
