// Package geocode proxies address search and reverse lookups to a
// Nominatim-compatible service.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default map centre: Nairobi.
const (
	DefaultLat = -1.2921
	DefaultLng = 36.8219
)

var ErrNoResult = errors.New("no matching location")

type Place struct {
	DisplayName string  `json:"display_name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	City        string  `json:"city,omitempty"`
	County      string  `json:"county,omitempty"`
}

type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// nominatim returns coordinates as strings.
type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Address     struct {
		City   string `json:"city"`
		Town   string `json:"town"`
		County string `json:"county"`
		State  string `json:"state"`
	} `json:"address"`
	Error string `json:"error"`
}

func (p nominatimPlace) place() (Place, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Place{}, fmt.Errorf("bad latitude %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Place{}, fmt.Errorf("bad longitude %q: %w", p.Lon, err)
	}
	city := p.Address.City
	if city == "" {
		city = p.Address.Town
	}
	county := p.Address.County
	if county == "" {
		county = p.Address.State
	}
	return Place{DisplayName: p.DisplayName, Lat: lat, Lng: lng, City: city, County: county}, nil
}

// Search looks up free-text addresses, biased to Kenya.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]Place, error) {
	if limit <= 0 {
		limit = 5
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("countrycodes", "ke")
	q.Set("limit", strconv.Itoa(limit))

	var raw []nominatimPlace
	if err := c.get(ctx, "/search", q, &raw); err != nil {
		return nil, err
	}
	places := make([]Place, 0, len(raw))
	for _, r := range raw {
		p, err := r.place()
		if err != nil {
			continue
		}
		places = append(places, p)
	}
	return places, nil
}

// Reverse resolves a coordinate to the nearest address.
func (c *Client) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")

	var raw nominatimPlace
	if err := c.get(ctx, "/reverse", q, &raw); err != nil {
		return nil, err
	}
	if raw.Error != "" {
		return nil, ErrNoResult
	}
	p, err := raw.place()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("geocoder request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geocoder response: %w", err)
	}
	return nil
}
